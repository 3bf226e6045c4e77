package templates

import (
	"context"

	"quote-templater/internal/model"
	"quote-templater/internal/placeholder"
	"quote-templater/internal/session"
)

// Rules returns the context rules for the well-known variables.
//
// quote: only a model.Quote (or non-nil *model.Quote) is kept; anything else
// becomes absent, never another quote.
// user: a supplied model.User wins, otherwise the current user from ctx.
func Rules() map[string]placeholder.ContextRule {
	return map[string]placeholder.ContextRule{
		"quote": quoteRule,
		"user":  userRule,
	}
}

func quoteRule(_ context.Context, v any) any {
	switch q := v.(type) {
	case model.Quote:
		return q
	case *model.Quote:
		if q != nil {
			return *q
		}
	}
	return nil
}

func userRule(ctx context.Context, v any) any {
	switch u := v.(type) {
	case model.User:
		return u
	case *model.User:
		if u != nil {
			return *u
		}
	}
	if u, ok := session.UserFrom(ctx); ok {
		return u
	}
	return nil
}
