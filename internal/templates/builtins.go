package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"quote-templater/internal/ai"
	"quote-templater/internal/model"
	"quote-templater/internal/placeholder"
	"quote-templater/internal/quoterender"
	"quote-templater/internal/repository"
)

type builtins struct {
	repo     repository.Repository
	writer   ai.Writer
	language string
	timeout  time.Duration
}

func (b *builtins) register(reg *placeholder.Registry) error {
	errs := []error{
		placeholder.Register(reg, "quote:destination_name", b.destinationName),
		placeholder.Register(reg, "quote:destination_link", b.destinationLink, placeholder.FallbackToBlank()),
		placeholder.Register(reg, "quote:summary_html", b.summaryHTML),
		placeholder.Register(reg, "quote:summary", b.summaryText),
		placeholder.RegisterString(reg, "user:first_name", firstName),
	}
	if b.writer != nil {
		errs = append(errs, placeholder.Register(reg, "quote:pitch", b.pitch, placeholder.FallbackToBlank()))
	}
	return errors.Join(errs...)
}

func (b *builtins) lookup(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.timeout)
}

func (b *builtins) destinationName(ctx context.Context, q model.Quote) (string, error) {
	ctx, cancel := b.lookup(ctx)
	defer cancel()
	d, err := b.repo.DestinationByID(ctx, q.DestinationID)
	if err != nil {
		return "", fmt.Errorf("destination %d: %w", q.DestinationID, err)
	}
	return d.CountryName, nil
}

// destinationLink builds <site url>/<country>/quote/<quote id>.
func (b *builtins) destinationLink(ctx context.Context, q model.Quote) (string, error) {
	ctx, cancel := b.lookup(ctx)
	defer cancel()
	q = b.reload(ctx, q)
	site, err := b.repo.SiteByID(ctx, q.SiteID)
	if err != nil {
		return "", fmt.Errorf("site %d: %w", q.SiteID, err)
	}
	d, err := b.repo.DestinationByID(ctx, q.DestinationID)
	if err != nil {
		return "", fmt.Errorf("destination %d: %w", q.DestinationID, err)
	}
	return fmt.Sprintf("%s/%s/quote/%d", strings.TrimRight(site.URL, "/"), d.CountryName, q.ID), nil
}

func (b *builtins) summaryHTML(ctx context.Context, q model.Quote) (string, error) {
	return quoterender.RenderHTML(b.summary(ctx, q))
}

func (b *builtins) summaryText(ctx context.Context, q model.Quote) (string, error) {
	return quoterender.RenderText(b.summary(ctx, q))
}

func (b *builtins) pitch(ctx context.Context, q model.Quote) (string, error) {
	text, err := quoterender.RenderText(b.summary(ctx, q))
	if err != nil {
		return "", err
	}
	return b.writer.PitchQuote(ctx, text, b.language)
}

// summary renders from the stored quote when there is one. The destination
// name is optional.
func (b *builtins) summary(ctx context.Context, q model.Quote) quoterender.Summary {
	ctx, cancel := b.lookup(ctx)
	defer cancel()
	q = b.reload(ctx, q)
	var dest string
	if d, err := b.repo.DestinationByID(ctx, q.DestinationID); err == nil {
		dest = d.CountryName
	}
	return quoterender.NewSummary(q, dest)
}

func (b *builtins) reload(ctx context.Context, q model.Quote) model.Quote {
	if stored, err := b.repo.QuoteByID(ctx, q.ID); err == nil {
		return stored
	}
	return q
}

// firstName lower-cases the name and upper-cases its first letter.
func firstName(_ context.Context, u model.User) string {
	// Casers keep state; one per call.
	name := cases.Lower(language.Und).String(strings.TrimSpace(u.FirstName))
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return strings.ToUpper(string(r)) + name[size:]
}
