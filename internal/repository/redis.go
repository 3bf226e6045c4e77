package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"quote-templater/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisStore stores each entity as JSON under "<kind>:<id>".
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func entityKey(kind string, id int64) string {
	return fmt.Sprintf("tpl:%s:%d", kind, id)
}

func (s *RedisStore) QuoteByID(ctx context.Context, id int64) (model.Quote, error) {
	var q model.Quote
	err := s.load(ctx, entityKey("quote", id), &q)
	return q, err
}

func (s *RedisStore) DestinationByID(ctx context.Context, id int64) (model.Destination, error) {
	var d model.Destination
	err := s.load(ctx, entityKey("destination", id), &d)
	return d, err
}

func (s *RedisStore) SiteByID(ctx context.Context, id int64) (model.Site, error) {
	var st model.Site
	err := s.load(ctx, entityKey("site", id), &st)
	return st, err
}

func (s *RedisStore) UserByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := s.load(ctx, entityKey("user", id), &u)
	return u, err
}

// Seed writes all fixtures in a single pipeline.
func (s *RedisStore) Seed(ctx context.Context, f model.Fixtures) error {
	pipe := s.rdb.Pipeline()
	set := func(key string, v any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		pipe.Set(ctx, key, b, 0)
		return nil
	}
	for _, q := range f.Quotes {
		if err := set(entityKey("quote", q.ID), q); err != nil {
			return err
		}
	}
	for _, d := range f.Destinations {
		if err := set(entityKey("destination", d.ID), d); err != nil {
			return err
		}
	}
	for _, st := range f.Sites {
		if err := set(entityKey("site", st.ID), st); err != nil {
			return err
		}
	}
	for _, u := range f.Users {
		if err := set(entityKey("user", u.ID), u); err != nil {
			return err
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) load(ctx context.Context, key string, dst any) error {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
