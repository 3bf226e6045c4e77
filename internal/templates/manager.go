// Package templates wires the placeholder engine to quotes and users.
package templates

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"quote-templater/internal/ai"
	"quote-templater/internal/placeholder"
	"quote-templater/internal/repository"
)

// Options configures a Manager.
type Options struct {
	Repo repository.Repository
	// Writer enables [quote:pitch] when set.
	Writer   ai.Writer
	Language string
	// BlankDefault is used by failed placeholders that fall back to blank.
	BlankDefault  string
	LookupTimeout time.Duration
	Logger        *slog.Logger
	// Extra registers application placeholders after the built-in ones.
	Extra func(*placeholder.Registry) error
}

// Manager computes message templates. Build it once at start-up and share it.
type Manager struct {
	registry *placeholder.Registry
	engine   *placeholder.Engine
}

// NewManager registers the built-in placeholders and any extra ones.
// Registration failures wrap *placeholder.RegistrationError.
func NewManager(opts Options) (*Manager, error) {
	if opts.Repo == nil {
		return nil, errors.New("templates: repository is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = 2 * time.Second
	}

	reg := placeholder.NewRegistry()
	b := &builtins{repo: opts.Repo, writer: opts.Writer, language: opts.Language, timeout: opts.LookupTimeout}
	if err := b.register(reg); err != nil {
		return nil, err
	}
	if opts.Extra != nil {
		if err := opts.Extra(reg); err != nil {
			return nil, err
		}
	}

	eng := placeholder.NewEngine(reg,
		placeholder.WithParams(placeholder.NewParams(Rules())),
		placeholder.WithBlankDefault(opts.BlankDefault),
		placeholder.WithLogger(opts.Logger),
	)
	return &Manager{registry: reg, engine: eng}, nil
}

// GetTemplateComputed returns tpl with subject and content interpolated.
func (m *Manager) GetTemplateComputed(ctx context.Context, tpl *placeholder.Template, data map[string]any) (*placeholder.Template, error) {
	return m.engine.GetTemplateComputed(ctx, tpl, data)
}

// ComputeText interpolates a single text.
func (m *Manager) ComputeText(ctx context.Context, text string, data map[string]any) string {
	return m.engine.ComputeText(ctx, text, data)
}

// Placeholders lists the registered entries sorted by name.
func (m *Manager) Placeholders() []*placeholder.Entry {
	names := m.registry.Names()
	out := make([]*placeholder.Entry, 0, len(names))
	for _, n := range names {
		e, _ := m.registry.Lookup(n)
		out = append(out, e)
	}
	return out
}
