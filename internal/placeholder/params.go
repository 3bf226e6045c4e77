package placeholder

import "context"

// Bag maps each variable name referenced by a text to its input value.
// A nil value marks the variable as absent.
type Bag map[string]any

// Present reports whether name holds a non-nil value.
func (b Bag) Present(name string) bool {
	v, ok := b[name]
	return ok && !isNil(v)
}

// ContextRule normalizes the supplied value of a well-known variable. It
// returns nil when no usable value exists.
type ContextRule func(ctx context.Context, supplied any) any

// Params builds parameter bags. Rules are keyed by variable name and only
// run when the text references that variable.
type Params struct {
	rules map[string]ContextRule
}

func NewParams(rules map[string]ContextRule) *Params {
	p := &Params{rules: make(map[string]ContextRule, len(rules))}
	for name, rule := range rules {
		p.rules[name] = rule
	}
	return p
}

// Resolve returns a bag holding exactly the required names. Supplied keys
// outside required are dropped.
func (p *Params) Resolve(ctx context.Context, required []string, supplied map[string]any) Bag {
	bag := make(Bag, len(required))
	for _, name := range required {
		bag[name] = nil
		if v, ok := supplied[name]; ok && !isNil(v) {
			bag[name] = v
		}
	}
	if p == nil {
		return bag
	}
	for name, v := range bag {
		if rule, ok := p.rules[name]; ok {
			if out := rule(ctx, v); !isNil(out) {
				bag[name] = out
			} else {
				bag[name] = nil
			}
		}
	}
	return bag
}
