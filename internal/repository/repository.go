// Package repository looks up quotes, destinations, sites and users by id.
package repository

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"quote-templater/internal/model"
)

// ErrNotFound is returned when no entity has the requested id.
var ErrNotFound = errors.New("repository: not found")

// Repository is the read side used while rendering templates.
type Repository interface {
	QuoteByID(ctx context.Context, id int64) (model.Quote, error)
	DestinationByID(ctx context.Context, id int64) (model.Destination, error)
	SiteByID(ctx context.Context, id int64) (model.Site, error)
	UserByID(ctx context.Context, id int64) (model.User, error)
}

// Store is a Repository that can also be seeded and closed.
type Store interface {
	Repository
	Seed(ctx context.Context, f model.Fixtures) error
	Close() error
}

// LoadFixtures reads a YAML fixture file.
func LoadFixtures(path string) (model.Fixtures, error) {
	var f model.Fixtures
	b, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read fixtures: %w", err)
	}
	if err := yaml.Unmarshal(b, &f); err != nil {
		return f, fmt.Errorf("parse fixtures %s: %w", path, err)
	}
	return f, nil
}
