package templates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-templater/internal/model"
	"quote-templater/internal/placeholder"
	"quote-templater/internal/repository"
	"quote-templater/internal/session"
)

func testRepo(t *testing.T) *repository.MemoryStore {
	t.Helper()
	repo := repository.NewMemoryStore()
	require.NoError(t, repo.Seed(context.Background(), model.Fixtures{
		Quotes: []model.Quote{
			{ID: 1, SiteID: 2, DestinationID: 3, DateQuoted: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		},
		Destinations: []model.Destination{{ID: 3, CountryName: "Italy"}},
		Sites:        []model.Site{{ID: 2, URL: "https://travel.example.com/"}},
		Users:        []model.User{{ID: 4, FirstName: "aNA"}},
	}))
	return repo
}

type fakeWriter struct {
	summary string
	err     error
}

func (w *fakeWriter) PitchQuote(_ context.Context, summary, language string) (string, error) {
	w.summary = summary
	if w.err != nil {
		return "", w.err
	}
	return "Book " + language + " now.", nil
}

func newManager(t *testing.T, opts Options) *Manager {
	t.Helper()
	if opts.Repo == nil {
		opts.Repo = testRepo(t)
	}
	m, err := NewManager(opts)
	require.NoError(t, err)
	return m
}

func TestManagerDestinationName(t *testing.T) {
	m := newManager(t, Options{})
	ctx := context.Background()
	quote := model.Quote{ID: 1, SiteID: 2, DestinationID: 3}

	assert.Equal(t, "Dear Italy", m.ComputeText(ctx, "Dear [quote:destination_name]", map[string]any{"quote": quote}))
	assert.Equal(t, "Dear Italy", m.ComputeText(ctx, "Dear [quote:destination_name]", map[string]any{"quote": &quote}))

	// No valid quote: the token stays as written.
	for _, data := range []map[string]any{nil, {"quote": "1"}, {"quote": (*model.Quote)(nil)}, {"quote": model.Quote{DestinationID: 99}}} {
		assert.Equal(t, "Dear [quote:destination_name]", m.ComputeText(ctx, "Dear [quote:destination_name]", data))
	}
}

func TestManagerDestinationLink(t *testing.T) {
	m := newManager(t, Options{BlankDefault: "#"})
	ctx := context.Background()

	got := m.ComputeText(ctx, "Go: [quote:destination_link]", map[string]any{"quote": model.Quote{ID: 1}})
	assert.Equal(t, "Go: https://travel.example.com/Italy/quote/1", got)

	got = m.ComputeText(ctx, "Go: [quote:destination_link]", nil)
	assert.Equal(t, "Go: #", got)
}

func TestManagerSummaries(t *testing.T) {
	m := newManager(t, Options{})
	data := map[string]any{"quote": model.Quote{ID: 1}}

	got := m.ComputeText(context.Background(), "[quote:summary]", data)
	assert.Equal(t, "Quote #1 for Italy\nQuoted on 2024-05-01", got)

	got = m.ComputeText(context.Background(), "[quote:summary_html]", data)
	assert.Contains(t, got, "<p>Quote #1 for Italy</p>")
}

func TestManagerFirstName(t *testing.T) {
	m := newManager(t, Options{})
	ctx := context.Background()

	got := m.ComputeText(ctx, "[user:first_name] and [user:first_name]", map[string]any{"user": model.User{FirstName: "ana"}})
	assert.Equal(t, "Ana and Ana", got)

	got = m.ComputeText(ctx, "Hi [user:first_name]", map[string]any{"user": model.User{FirstName: "ÉLODIE"}})
	assert.Equal(t, "Hi Élodie", got)

	ctx = session.WithUser(ctx, model.User{FirstName: "bRUNO"})
	assert.Equal(t, "Hi Bruno", m.ComputeText(ctx, "Hi [user:first_name]", nil))
	assert.Equal(t, "Hi Bruno", m.ComputeText(ctx, "Hi [user:first_name]", map[string]any{"user": 4}))
}

func TestManagerPitch(t *testing.T) {
	m := newManager(t, Options{})
	assert.Equal(t, "[quote:pitch]", m.ComputeText(context.Background(), "[quote:pitch]", map[string]any{"quote": model.Quote{ID: 1}}),
		"pitch is not registered without a writer")

	w := &fakeWriter{}
	m = newManager(t, Options{Writer: w, Language: "Italian"})
	got := m.ComputeText(context.Background(), "[quote:pitch]", map[string]any{"quote": model.Quote{ID: 1}})
	assert.Equal(t, "Book Italian now.", got)
	assert.Contains(t, w.summary, "Quote #1 for Italy")

	w.err = errors.New("rate limited")
	assert.Equal(t, "P: ", m.ComputeText(context.Background(), "P: [quote:pitch]", map[string]any{"quote": model.Quote{ID: 1}}))
}

func TestManagerCustomVariables(t *testing.T) {
	m := newManager(t, Options{})
	got := m.ComputeText(context.Background(), "Code [promo:code] / [agent]", map[string]any{"promo": "SUMMER", "agent": "Marta"})
	assert.Equal(t, "Code SUMMER / Marta", got)
}

func TestManagerExtraRegistration(t *testing.T) {
	_, err := NewManager(Options{
		Repo: testRepo(t),
		Extra: func(reg *placeholder.Registry) error {
			return reg.RegisterFunc("user:pair", func(a, b model.User) string { return "" })
		},
	})
	require.Error(t, err)
	var re *placeholder.RegistrationError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, placeholder.RuleArity, re.Rule)

	m := newManager(t, Options{Extra: func(reg *placeholder.Registry) error {
		return placeholder.RegisterString(reg, "user:email", func(_ context.Context, u model.User) string { return u.Email })
	}})
	names := make([]string, 0)
	for _, e := range m.Placeholders() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{
		"quote:destination_link", "quote:destination_name", "quote:summary", "quote:summary_html",
		"user:email", "user:first_name",
	}, names)
}

func TestManagerRequiresRepo(t *testing.T) {
	_, err := NewManager(Options{})
	assert.Error(t, err)
}

func TestManagerGetTemplateComputed(t *testing.T) {
	m := newManager(t, Options{})
	tpl := &placeholder.Template{Name: "quote", Subject: "Your [quote:destination_name] quote", Content: "Hi [user:first_name]"}

	out, err := m.GetTemplateComputed(context.Background(), tpl, map[string]any{
		"quote": model.Quote{ID: 1, DestinationID: 3},
		"user":  model.User{FirstName: "ana"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Your Italy quote", out.Subject)
	assert.Equal(t, "Hi Ana", out.Content)

	_, err = m.GetTemplateComputed(context.Background(), nil, nil)
	assert.ErrorIs(t, err, placeholder.ErrMissingTemplate)
}

func TestLoadData(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	data, err := LoadData(ctx, repo, Refs{QuoteID: 1, UserID: 4, Vars: map[string]string{"promo": "X"}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), data["quote"].(model.Quote).DestinationID)
	assert.Equal(t, "aNA", data["user"].(model.User).FirstName)
	assert.Equal(t, "X", data["promo"])

	data, err = LoadData(ctx, repo, Refs{QuoteID: 404, Vars: map[string]string{"quote": "spoof"}})
	require.NoError(t, err)
	_, ok := data["quote"]
	assert.False(t, ok)
	_, ok = data["user"]
	assert.False(t, ok)
}
