package placeholder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// ErrMissingTemplate is returned when GetTemplateComputed gets no template.
var ErrMissingTemplate = errors.New("placeholder: no template given")

// DefaultBlank is the text used for failed placeholders that fall back to
// blank and carry no default of their own.
const DefaultBlank = ""

// Template is a message before or after interpolation.
type Template struct {
	Name    string
	Subject string
	Content string
}

// Engine interpolates templates using a Registry. It holds no per-call state
// and is safe for concurrent use once registration is complete.
type Engine struct {
	registry *Registry
	params   *Params
	blank    string
	logger   *slog.Logger
}

type EngineOption func(*Engine)

// WithParams sets the parameter resolver and its context rules.
func WithParams(p *Params) EngineOption {
	return func(e *Engine) { e.params = p }
}

// WithBlankDefault overrides DefaultBlank for this engine.
func WithBlankDefault(text string) EngineOption {
	return func(e *Engine) { e.blank = text }
}

func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

func NewEngine(reg *Registry, opts ...EngineOption) *Engine {
	e := &Engine{registry: reg, blank: DefaultBlank, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GetTemplateComputed returns a copy of tpl with Subject and Content
// interpolated. tpl is left untouched.
func (e *Engine) GetTemplateComputed(ctx context.Context, tpl *Template, data map[string]any) (*Template, error) {
	if tpl == nil {
		return nil, ErrMissingTemplate
	}
	out := *tpl
	out.Subject = e.ComputeText(ctx, tpl.Subject, data)
	out.Content = e.ComputeText(ctx, tpl.Content, data)
	return &out, nil
}

// ComputeText replaces every token of text in a single pass. Values produced
// by resolvers are never scanned for further tokens.
func (e *Engine) ComputeText(ctx context.Context, text string, data map[string]any) string {
	if ctx == nil {
		ctx = context.Background()
	}
	matches := FindTokens(text)
	if len(matches) == 0 {
		return text
	}
	bag := e.params.Resolve(ctx, Vars(matches), data)

	// Kept tokens map to themselves so no other token is replaced inside them.
	replacements := make(map[string]string, len(matches))
	for _, m := range matches {
		if _, done := replacements[m.Token]; done {
			continue
		}
		out, ok := e.resolve(ctx, m, bag)
		if !ok {
			out = m.Token
		}
		replacements[m.Token] = out
	}
	return newReplacer(replacements).Replace(text)
}

// resolve computes the replacement for one token. ok is false when the token
// must stay as written.
func (e *Engine) resolve(ctx context.Context, m Match, bag Bag) (out string, ok bool) {
	value := bag[m.Var]
	entry, registered := e.registry.Lookup(m.Name)
	if !registered {
		// Unknown placeholders pass the raw variable value through.
		if !bag.Present(m.Var) {
			return "", false
		}
		return fmt.Sprint(value), true
	}
	if !entry.Accepts(value) {
		return e.fail(entry, m, fmt.Errorf("%w: %s wants %s, got %T", ErrInputType, m.Name, entry.Input(), value))
	}
	s, err := entry.call(ctx, value)
	if err != nil {
		return e.fail(entry, m, err)
	}
	return s, true
}

func (e *Engine) fail(entry *Entry, m Match, err error) (string, bool) {
	e.logger.Debug("placeholder unresolved", "placeholder", m.Name, "fallback", entry.Fallback, "err", err)
	if !entry.Fallback {
		return "", false
	}
	if entry.hasDefault {
		return entry.Default, true
	}
	return e.blank, true
}

func newReplacer(replacements map[string]string) *strings.Replacer {
	tokens := make([]string, 0, len(replacements))
	for t := range replacements {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	pairs := make([]string, 0, 2*len(tokens))
	for _, t := range tokens {
		pairs = append(pairs, t, replacements[t])
	}
	return strings.NewReplacer(pairs...)
}
