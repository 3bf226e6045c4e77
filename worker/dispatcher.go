package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"quote-templater/internal/markdown"
	"quote-templater/internal/placeholder"
	"quote-templater/internal/repository"
	"quote-templater/internal/storage"
	"quote-templater/internal/templates"
)

// Outbox is the queue the dispatcher drains.
type Outbox interface {
	Next(ctx context.Context) (storage.Job, bool, error)
	IsSent(ctx context.Context, id string) (bool, error)
	MarkSent(ctx context.Context, id string) error
	Requeue(ctx context.Context, job storage.Job) error
	MarkFailed(ctx context.Context, job storage.Job, cause error) error
}

// SendFunc delivers a computed message.
type SendFunc func(ctx context.Context, channel, slug string, msg *placeholder.Template) error

// Dispatcher renders queued jobs, writes them to OutputDir and optionally
// delivers them through Send. A failed job goes back to the end of the queue
// after the batch until it has been tried MaxAttempts times, then it is
// marked failed.
type Dispatcher struct {
	Name           string
	Outbox         Outbox
	Templates      *templates.Manager
	Repo           repository.Repository
	TemplatesDir   string
	OutputDir      string
	Interval       time.Duration // how often to drain the outbox
	BatchSize      int
	MaxAttempts    int
	DefaultChannel string
	Send           SendFunc
}

func (w *Dispatcher) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 30 * time.Second
	}
	if w.BatchSize <= 0 {
		w.BatchSize = 50
	}
	if err := os.MkdirAll(w.OutputDir, 0o755); err != nil {
		return err
	}
	// run immediately then on interval
	w.RunOnce(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce processes up to BatchSize jobs and returns how many completed,
// including jobs found already sent.
func (w *Dispatcher) RunOnce(ctx context.Context) int {
	sent := 0
	var retry []storage.Job
	for i := 0; i < w.BatchSize; i++ {
		if ctx.Err() != nil {
			break
		}
		job, ok, err := w.Outbox.Next(ctx)
		if err != nil {
			slog.Error("dispatcher: fetch job failed", "worker", w.Name, "error", err)
			break
		}
		if !ok {
			break
		}
		if err := w.process(ctx, job); err != nil {
			job.Attempts++
			slog.Error("dispatcher: job failed", "worker", w.Name, "job", job.ID, "template", job.Template, "attempt", job.Attempts, "error", err)
			if job.Attempts < w.maxAttempts() {
				retry = append(retry, job)
				continue
			}
			if err := w.Outbox.MarkFailed(ctx, job, err); err != nil {
				slog.Error("dispatcher: mark failed error", "job", job.ID, "error", err)
			}
			continue
		}
		sent++
	}
	// Requeue after the batch so a failing job is not retried right away.
	// Use a fresh context: the job is already off the queue.
	for _, job := range retry {
		if err := w.Outbox.Requeue(context.WithoutCancel(ctx), job); err != nil {
			slog.Error("dispatcher: requeue failed", "job", job.ID, "error", err)
		}
	}
	if sent > 0 {
		slog.Info("dispatcher: batch done", "worker", w.Name, "sent", sent)
	}
	return sent
}

func (w *Dispatcher) maxAttempts() int {
	if w.MaxAttempts <= 0 {
		return 3
	}
	return w.MaxAttempts
}

func (w *Dispatcher) process(ctx context.Context, job storage.Job) error {
	done, err := w.Outbox.IsSent(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("check sent: %w", err)
	}
	if done {
		slog.Debug("dispatcher: job already sent", "job", job.ID)
		return nil
	}

	path, err := markdown.Resolve(w.TemplatesDir, job.Template)
	if err != nil {
		return err
	}
	tpl, err := markdown.LoadTemplate(path)
	if err != nil {
		return err
	}
	data, err := templates.LoadData(ctx, w.Repo, job.Refs)
	if err != nil {
		return err
	}
	msg, err := w.Templates.GetTemplateComputed(ctx, tpl, data)
	if err != nil {
		return err
	}

	out := filepath.Join(w.OutputDir, job.ID+".md")
	if err := writeMessage(out, job, msg); err != nil {
		return err
	}
	if w.Send != nil {
		channel := strings.TrimSpace(job.Channel)
		if channel == "" {
			channel = w.DefaultChannel
		}
		if err := w.Send(ctx, channel, job.ID, msg); err != nil {
			return fmt.Errorf("deliver to %s: %w", channel, err)
		}
	}
	if err := w.Outbox.MarkSent(ctx, job.ID); err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}
	slog.Info("dispatcher: job sent", "job", job.ID, "template", msg.Name, "path", out)
	return nil
}

// writeMessage stores msg as Markdown with the subject in the frontmatter,
// the same layout templates are read from.
func writeMessage(path string, job storage.Job, msg *placeholder.Template) error {
	fm, err := yaml.Marshal(map[string]any{
		"subject":  msg.Subject,
		"template": msg.Name,
		"job_id":   job.ID,
	})
	if err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	b.WriteString(msg.Content)
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
