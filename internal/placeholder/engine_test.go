package placeholder

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var countries = map[int64]string{7: "Italy"}

type userKey struct{}

func testParams() *Params {
	return NewParams(map[string]ContextRule{
		"quote": func(_ context.Context, v any) any {
			if q, ok := v.(quote); ok {
				return q
			}
			return nil
		},
		"user": func(ctx context.Context, v any) any {
			if u, ok := v.(user); ok {
				return u
			}
			if u, ok := ctx.Value(userKey{}).(user); ok {
				return u
			}
			return nil
		},
	})
}

func testEngine(t *testing.T, fallback bool, opts ...EngineOption) *Engine {
	t.Helper()
	reg := NewRegistry()
	var entryOpts []EntryOption
	if fallback {
		entryOpts = append(entryOpts, FallbackToBlank())
	}
	require.NoError(t, Register(reg, "quote:destination_name", func(_ context.Context, q quote) (string, error) {
		name, ok := countries[q.DestinationID]
		if !ok {
			return "", errors.New("destination not found")
		}
		return name, nil
	}, entryOpts...))
	require.NoError(t, RegisterString(reg, "user:first_name", func(_ context.Context, u user) string {
		r := []rune(strings.ToLower(u.FirstName))
		if len(r) > 0 {
			r[0] = unicode.ToUpper(r[0])
		}
		return string(r)
	}))
	require.NoError(t, RegisterString(reg, "quote:echo", func(context.Context, quote) string {
		return "[user:first_name]"
	}))
	return NewEngine(reg, append([]EngineOption{WithParams(testParams())}, opts...)...)
}

func TestComputeTextIdentity(t *testing.T) {
	e := testEngine(t, true)
	data := []map[string]any{
		nil,
		{},
		{"quote": quote{DestinationID: 7}, "user": user{FirstName: "ana"}, "foo": "bar"},
	}
	for _, text := range []string{"", "plain text", "brackets [ ] and [] only", "a ] b [ c", "line\nbreak"} {
		for _, d := range data {
			assert.Equal(t, text, e.ComputeText(context.Background(), text, d))
		}
	}
}

func TestComputeTextDestination(t *testing.T) {
	e := testEngine(t, false)
	got := e.ComputeText(context.Background(), "Dear [quote:destination_name]", map[string]any{
		"quote": quote{ID: 1, DestinationID: 7},
	})
	assert.Equal(t, "Dear Italy", got)
}

func TestComputeTextResolutionFailure(t *testing.T) {
	const text = "Dear [quote:destination_name]"
	cases := []struct {
		name string
		data map[string]any
	}{
		{"missing", map[string]any{}},
		{"nil", map[string]any{"quote": nil}},
		{"not a quote", map[string]any{"quote": "quote-1"}},
		{"pointer to quote", map[string]any{"quote": &quote{DestinationID: 7}}},
		{"unknown destination", map[string]any{"quote": quote{DestinationID: 99}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			blank := testEngine(t, true)
			assert.Equal(t, "Dear ", blank.ComputeText(context.Background(), text, tc.data))

			custom := testEngine(t, true, WithBlankDefault("-"))
			assert.Equal(t, "Dear -", custom.ComputeText(context.Background(), text, tc.data))

			passthrough := testEngine(t, false)
			assert.Equal(t, text, passthrough.ComputeText(context.Background(), text, tc.data))
		})
	}
}

func TestComputeTextEntryDefault(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, RegisterString(reg, "quote:id", func(context.Context, quote) string { return "x" }, WithDefault("unknown")))
	e := NewEngine(reg, WithParams(testParams()), WithBlankDefault("-"))
	assert.Equal(t, "id unknown", e.ComputeText(context.Background(), "id [quote:id]", nil))
}

func TestComputeTextRepeatedToken(t *testing.T) {
	e := testEngine(t, false)
	got := e.ComputeText(context.Background(), "[user:first_name] and [user:first_name]", map[string]any{
		"user": user{FirstName: "ana"},
	})
	assert.Equal(t, "Ana and Ana", got)
}

func TestComputeTextAmbientUser(t *testing.T) {
	e := testEngine(t, false)
	ctx := context.WithValue(context.Background(), userKey{}, user{FirstName: "BRUNO"})

	assert.Equal(t, "Hi Bruno", e.ComputeText(ctx, "Hi [user:first_name]", nil))
	assert.Equal(t, "Hi Bruno", e.ComputeText(ctx, "Hi [user:first_name]", map[string]any{"user": "nobody"}))
	assert.Equal(t, "Hi Carla", e.ComputeText(ctx, "Hi [user:first_name]", map[string]any{"user": user{FirstName: "carla"}}))
	assert.Equal(t, "Hi [user:first_name]", e.ComputeText(context.Background(), "Hi [user:first_name]", nil))
}

func TestComputeTextUnknownPlaceholder(t *testing.T) {
	e := testEngine(t, false)
	ctx := context.Background()

	assert.Equal(t, "value: raw", e.ComputeText(ctx, "value: [foo:bar]", map[string]any{"foo": "raw"}))
	assert.Equal(t, "n=42", e.ComputeText(ctx, "n=[count]", map[string]any{"count": 42}))
	assert.Equal(t, "value: [foo:bar]", e.ComputeText(ctx, "value: [foo:bar]", nil))
	assert.Equal(t, "value: [foo:bar]", e.ComputeText(ctx, "value: [foo:bar]", map[string]any{"other": "x"}))
}

func TestComputeTextDoesNotRescan(t *testing.T) {
	e := testEngine(t, false)
	got := e.ComputeText(context.Background(), "[quote:echo] / [user:first_name]", map[string]any{
		"quote": quote{},
		"user":  user{FirstName: "ana"},
	})
	assert.Equal(t, "[user:first_name] / Ana", got)
}

func TestComputeTextKeptTokenIsNotRewritten(t *testing.T) {
	e := testEngine(t, false)
	ctx := context.Background()
	data := map[string]any{"user": user{FirstName: "ana"}}

	got := e.ComputeText(ctx, "[note:see [user:first_name] / [user:first_name]", data)
	assert.Equal(t, "[note:see [user:first_name] / Ana", got)

	text := "[promo] [quote:destination_name]"
	assert.Equal(t, text, e.ComputeText(ctx, text, map[string]any{"quote": quote{DestinationID: 99}}))
}

func TestComputeTextIgnoresUnreferencedData(t *testing.T) {
	reg := NewRegistry()
	var seen []string
	rules := map[string]ContextRule{}
	for _, name := range []string{"quote", "user", "extra"} {
		name := name
		rules[name] = func(_ context.Context, v any) any {
			seen = append(seen, name)
			return v
		}
	}
	e := NewEngine(reg, WithParams(NewParams(rules)))
	got := e.ComputeText(context.Background(), "[extra]", map[string]any{"extra": "e", "quote": quote{}, "user": user{}})
	assert.Equal(t, "e", got)
	assert.Equal(t, []string{"extra"}, seen)
}

func TestGetTemplateComputed(t *testing.T) {
	e := testEngine(t, true)
	tpl := &Template{
		Name:    "welcome",
		Subject: "Your trip to [quote:destination_name]",
		Content: "Hello [user:first_name], enjoy [quote:destination_name]!",
	}
	data := map[string]any{"quote": quote{DestinationID: 7}, "user": user{FirstName: "ana"}}

	out, err := e.GetTemplateComputed(context.Background(), tpl, data)
	require.NoError(t, err)
	assert.Equal(t, "welcome", out.Name)
	assert.Equal(t, "Your trip to Italy", out.Subject)
	assert.Equal(t, "Hello Ana, enjoy Italy!", out.Content)
	assert.Equal(t, "Your trip to [quote:destination_name]", tpl.Subject, "input template must not change")
}

func TestGetTemplateComputedMissing(t *testing.T) {
	e := testEngine(t, true)
	for _, data := range []map[string]any{nil, {}, {"quote": quote{}}} {
		out, err := e.GetTemplateComputed(context.Background(), nil, data)
		assert.Nil(t, out)
		assert.ErrorIs(t, err, ErrMissingTemplate)
	}
}

func TestComputeTextConcurrent(t *testing.T) {
	e := testEngine(t, true)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := e.ComputeText(context.Background(), "[user:first_name] to [quote:destination_name]", map[string]any{
				"quote": quote{DestinationID: 7},
				"user":  user{FirstName: "ana"},
			})
			assert.Equal(t, "Ana to Italy", got)
		}()
	}
	wg.Wait()
}
