package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"quote-templater/internal/ai"
	"quote-templater/internal/config"
	"quote-templater/internal/markdown"
	"quote-templater/internal/placeholder"
	"quote-templater/internal/quaily"
	"quote-templater/internal/repository"
	"quote-templater/internal/templates"

	"github.com/spf13/cobra"
)

// refFlags are the message inputs shared by render, send and enqueue.
type refFlags struct {
	quoteID int64
	userID  int64
	vars    map[string]string
}

func (f *refFlags) bind(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.quoteID, "quote", 0, "quote id")
	cmd.Flags().Int64Var(&f.userID, "user", 0, "user id")
	cmd.Flags().StringToStringVar(&f.vars, "var", nil, "extra variables, e.g. --var promo=SUMMER")
}

func (f *refFlags) refs() templates.Refs {
	return templates.Refs{QuoteID: f.quoteID, UserID: f.userID, Vars: f.vars}
}

// newManager builds the template manager over store, with the AI writer
// when an OpenAI key is configured.
func newManager(cfg config.Config, store repository.Repository) (*templates.Manager, error) {
	timeout, err := time.ParseDuration(cfg.Templates.LookupTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid templates.lookup_timeout: %w", err)
	}
	opts := templates.Options{
		Repo:          store,
		Language:      cfg.OpenAI.Language,
		BlankDefault:  cfg.Templates.BlankDefault,
		LookupTimeout: timeout,
		Logger:        slog.Default(),
	}
	if cfg.OpenAI.APIKey != "" {
		w, err := ai.NewOpenAI(ai.Config{APIKey: cfg.OpenAI.APIKey, Model: cfg.OpenAI.Model, BaseURL: cfg.OpenAI.BaseURL})
		if err != nil {
			return nil, err
		}
		opts.Writer = w
	}
	return templates.NewManager(opts)
}

// loadTemplate resolves ref against the templates dir and loads it.
func loadTemplate(cfg config.Config, ref string) (*placeholder.Template, error) {
	path, err := markdown.Resolve(cfg.Templates.Dir, ref)
	if err != nil {
		return nil, err
	}
	return markdown.LoadTemplate(path)
}

// newQuaily returns nil when delivery is not configured.
func newQuaily(cfg config.Config) *quaily.Client {
	if strings.TrimSpace(cfg.Quaily.BaseURL) == "" || strings.TrimSpace(cfg.Quaily.APIKey) == "" {
		return nil
	}
	return quaily.New(cfg.Quaily.BaseURL, cfg.Quaily.APIKey, 20*time.Second)
}

// renderTemplate loads, computes and returns a template for the given inputs.
func renderTemplate(ctx context.Context, cfg config.Config, store repository.Repository, ref string, refs templates.Refs) (*placeholder.Template, error) {
	mgr, err := newManager(cfg, store)
	if err != nil {
		return nil, err
	}
	tpl, err := loadTemplate(cfg, ref)
	if err != nil {
		return nil, err
	}
	data, err := templates.LoadData(ctx, store, refs)
	if err != nil {
		return nil, err
	}
	return mgr.GetTemplateComputed(ctx, tpl, data)
}
