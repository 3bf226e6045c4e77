package placeholder

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
)

// Rule names the registration constraint a resolver broke.
type Rule string

const (
	RuleName     Rule = "name"     // placeholder name does not fit the token grammar
	RuleMissing  Rule = "missing"  // resolver is nil or not a function
	RuleArity    Rule = "arity"    // resolver must take exactly one input
	RuleNullable Rule = "nullable" // the input type admits nil
	RuleOptional Rule = "optional" // the input is variadic
	RuleResult   Rule = "result"   // output must be string or (string, error)
)

// ErrRegistration is the sentinel wrapped by every *RegistrationError.
var ErrRegistration = errors.New("placeholder: invalid registration")

// ErrInputType is returned by an entry when it is handed a value it cannot take.
var ErrInputType = errors.New("placeholder: input type mismatch")

// RegistrationError reports a resolver rejected at registration time.
type RegistrationError struct {
	Name   string
	Rule   Rule
	Detail string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("register %q: %s rule: %s", e.Name, e.Rule, e.Detail)
}

func (e *RegistrationError) Unwrap() error { return ErrRegistration }

var (
	namePattern = regexp.MustCompile(`^\w+(?::[^\]]+)?$`)
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

type resolveFunc func(ctx context.Context, in any) (string, error)

// Entry is a registered placeholder. Entries are immutable once added.
type Entry struct {
	Name string
	// Fallback selects the blank default over keeping the literal token
	// when resolution fails.
	Fallback bool
	// Default replaces the engine-wide blank default for this entry.
	Default    string
	hasDefault bool
	input      reflect.Type
	call       resolveFunc
}

// Input is the type of value the resolver consumes.
func (e *Entry) Input() reflect.Type { return e.input }

// HasDefault reports whether WithDefault was given.
func (e *Entry) HasDefault() bool { return e.hasDefault }

// Accepts reports whether v is present and assignable to the resolver input.
func (e *Entry) Accepts(v any) bool {
	if isNil(v) {
		return false
	}
	return reflect.TypeOf(v).AssignableTo(e.input)
}

// Resolve invokes the resolver with v.
func (e *Entry) Resolve(ctx context.Context, v any) (string, error) {
	if !e.Accepts(v) {
		return "", fmt.Errorf("%w: %s wants %s, got %T", ErrInputType, e.Name, e.input, v)
	}
	return e.call(ctx, v)
}

// EntryOption configures an entry at registration.
type EntryOption func(*Entry)

// FallbackToBlank makes resolution failures produce the blank default
// instead of leaving the token in place.
func FallbackToBlank() EntryOption {
	return func(e *Entry) { e.Fallback = true }
}

// WithDefault sets the text used on resolution failure. It implies FallbackToBlank.
func WithDefault(text string) EntryOption {
	return func(e *Entry) {
		e.Fallback = true
		e.Default = text
		e.hasDefault = true
	}
}

// Registry holds placeholder entries by name. It is written during start-up
// and must not be modified once an Engine is serving requests.
type Registry struct {
	entries map[string]*Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: map[string]*Entry{}}
}

// Register adds a typed resolver under name. Registering the same name again
// replaces the previous entry.
func Register[T any](r *Registry, name string, fn func(context.Context, T) (string, error), opts ...EntryOption) error {
	if fn == nil {
		return &RegistrationError{Name: name, Rule: RuleMissing, Detail: "resolver is nil"}
	}
	call := func(ctx context.Context, in any) (string, error) {
		v, ok := in.(T)
		if !ok {
			return "", fmt.Errorf("%w: want %s, got %T", ErrInputType, reflect.TypeOf((*T)(nil)).Elem(), in)
		}
		return fn(ctx, v)
	}
	return r.add(name, reflect.TypeOf((*T)(nil)).Elem(), call, opts)
}

// RegisterString is Register for resolvers that cannot fail.
func RegisterString[T any](r *Registry, name string, fn func(context.Context, T) string, opts ...EntryOption) error {
	if fn == nil {
		return &RegistrationError{Name: name, Rule: RuleMissing, Detail: "resolver is nil"}
	}
	return Register(r, name, func(ctx context.Context, v T) (string, error) {
		return fn(ctx, v), nil
	}, opts...)
}

// RegisterFunc registers a resolver whose shape is only known at runtime.
// fn must be a func with an optional leading context.Context, exactly one
// further non-nullable, non-variadic input and a string or (string, error)
// result.
func (r *Registry) RegisterFunc(name string, fn any, opts ...EntryOption) error {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return &RegistrationError{Name: name, Rule: RuleMissing, Detail: fmt.Sprintf("%T is not a function", fn)}
	}
	ft := v.Type()
	if ft.IsVariadic() {
		return &RegistrationError{Name: name, Rule: RuleOptional, Detail: "variadic input " + ft.String()}
	}
	withCtx := ft.NumIn() > 0 && ft.In(0) == contextType
	inputs := ft.NumIn()
	if withCtx {
		inputs--
	}
	if inputs != 1 {
		return &RegistrationError{Name: name, Rule: RuleArity, Detail: fmt.Sprintf("%d inputs in %s", inputs, ft)}
	}
	switch {
	case ft.NumOut() == 1 && ft.Out(0).Kind() == reflect.String:
	case ft.NumOut() == 2 && ft.Out(0).Kind() == reflect.String && ft.Out(1) == errorType:
	default:
		return &RegistrationError{Name: name, Rule: RuleResult, Detail: "unsupported results in " + ft.String()}
	}
	in := ft.In(ft.NumIn() - 1)

	call := func(ctx context.Context, arg any) (string, error) {
		args := make([]reflect.Value, 0, 2)
		if withCtx {
			args = append(args, reflect.ValueOf(&ctx).Elem())
		}
		args = append(args, reflect.ValueOf(arg))
		out := v.Call(args)
		if len(out) == 2 && !out[1].IsNil() {
			return "", out[1].Interface().(error)
		}
		return out[0].String(), nil
	}
	return r.add(name, in, call, opts)
}

func (r *Registry) add(name string, in reflect.Type, call resolveFunc, opts []EntryOption) error {
	if !namePattern.MatchString(name) {
		return &RegistrationError{Name: name, Rule: RuleName, Detail: "want word characters optionally followed by :key"}
	}
	if nullable(in) {
		return &RegistrationError{Name: name, Rule: RuleNullable, Detail: in.String() + " admits nil"}
	}
	e := &Entry{Name: name, input: in, call: call}
	for _, opt := range opts {
		opt(e)
	}
	r.entries[name] = e
	return nil
}

// Lookup returns the entry for name. A missing entry is not an error.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	if r == nil {
		return nil, false
	}
	e, ok := r.entries[name]
	return e, ok
}

// Names lists registered placeholder names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func nullable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	if nullable(rv.Type()) {
		return rv.IsNil()
	}
	return false
}
