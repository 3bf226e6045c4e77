package templates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"quote-templater/internal/repository"
)

// Refs identifies the inputs of one message. Zero ids mean "not supplied".
type Refs struct {
	QuoteID int64             `json:"quote_id,omitempty"`
	UserID  int64             `json:"user_id,omitempty"`
	Vars    map[string]string `json:"vars,omitempty"`
}

// LoadData turns refs into the data bag handed to the engine. Entities that
// do not exist are left out so their placeholders follow the fallback policy.
func LoadData(ctx context.Context, repo repository.Repository, refs Refs) (map[string]any, error) {
	data := make(map[string]any, len(refs.Vars)+2)
	for k, v := range refs.Vars {
		data[k] = v
	}
	if refs.QuoteID != 0 {
		q, err := repo.QuoteByID(ctx, refs.QuoteID)
		switch {
		case err == nil:
			data["quote"] = q
		case errors.Is(err, repository.ErrNotFound):
			slog.Warn("templates: quote not found", "quote_id", refs.QuoteID)
			delete(data, "quote")
		default:
			return nil, fmt.Errorf("load quote %d: %w", refs.QuoteID, err)
		}
	}
	if refs.UserID != 0 {
		u, err := repo.UserByID(ctx, refs.UserID)
		switch {
		case err == nil:
			data["user"] = u
		case errors.Is(err, repository.ErrNotFound):
			slog.Warn("templates: user not found", "user_id", refs.UserID)
			delete(data, "user")
		default:
			return nil, fmt.Errorf("load user %d: %w", refs.UserID, err)
		}
	}
	return data, nil
}
