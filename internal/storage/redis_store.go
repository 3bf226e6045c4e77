package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quote-templater/internal/templates"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Job is one message waiting to be rendered and delivered.
type Job struct {
	ID        string         `json:"id"`
	Template  string         `json:"template"`
	Channel   string         `json:"channel,omitempty"`
	Refs      templates.Refs `json:"refs"`
	Attempts  int            `json:"attempts,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// RedisStore is the outbox: a FIFO list of pending jobs plus sent marks.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

const (
	pendingKey = "outbox:pending"
	deadKey    = "outbox:dead"
)

func sentKey(id string) string {
	return fmt.Sprintf("outbox:sent:%s", id)
}

func failedKey(id string) string {
	return fmt.Sprintf("outbox:failed:%s", id)
}

// Enqueue assigns an id when missing and appends the job to the pending list.
func (s *RedisStore) Enqueue(ctx context.Context, job Job) (Job, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	b, err := json.Marshal(job)
	if err != nil {
		return job, err
	}
	return job, s.rdb.LPush(ctx, pendingKey, b).Err()
}

// Requeue puts a popped job back at the end of the pending list.
func (s *RedisStore) Requeue(ctx context.Context, job Job) error {
	b, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.rdb.LPush(ctx, pendingKey, b).Err()
}

// Next pops the oldest pending job. ok is false when the list is empty.
func (s *RedisStore) Next(ctx context.Context) (job Job, ok bool, err error) {
	b, err := s.rdb.RPop(ctx, pendingKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return Job{}, false, nil
	}
	if err != nil {
		return Job{}, false, err
	}
	if err := json.Unmarshal(b, &job); err != nil {
		return Job{}, false, fmt.Errorf("decode outbox job: %w", err)
	}
	return job, true, nil
}

// Pending returns the number of queued jobs.
func (s *RedisStore) Pending(ctx context.Context) (int64, error) {
	return s.rdb.LLen(ctx, pendingKey).Result()
}

func (s *RedisStore) IsSent(ctx context.Context, id string) (bool, error) {
	res, err := s.rdb.Get(ctx, sentKey(id)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return res == "1", nil
}

func (s *RedisStore) MarkSent(ctx context.Context, id string) error {
	return s.rdb.Set(ctx, sentKey(id), "1", 30*24*time.Hour).Err()
}

// MarkFailed moves a job that will not be retried to the dead list and
// records why it failed, for a week.
func (s *RedisStore) MarkFailed(ctx context.Context, job Job, cause error) error {
	b, err := json.Marshal(job)
	if err != nil {
		return err
	}
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, deadKey, b)
		p.Set(ctx, failedKey(job.ID), cause.Error(), 7*24*time.Hour)
		return nil
	})
	return err
}

// Dead returns the number of jobs that ran out of attempts.
func (s *RedisStore) Dead(ctx context.Context) (int64, error) {
	return s.rdb.LLen(ctx, deadKey).Result()
}
