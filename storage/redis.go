package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"court-booking/types"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultJournalKey   = "journal:reservations"
	DefaultJournalLimit = 1000
	DefaultJournalTTL   = 72 * time.Hour
)

// Storage keeps an audit trail of booking mutations in a capped Redis list,
// newest first. It is write-mostly and never used to rebuild booking state.
type Storage struct {
	client *redis.Client
	key    string
	limit  int64
	ttl    time.Duration
}

type Option func(*Storage)

func WithKey(key string) Option {
	return func(s *Storage) { s.key = key }
}

// WithLimit caps the number of entries kept; older entries are trimmed.
func WithLimit(n int64) Option {
	return func(s *Storage) { s.limit = n }
}

// WithTTL sets the expiry refreshed on every write. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Storage) { s.ttl = ttl }
}

func New(addr, password string, db int, opts ...Option) *Storage {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewWithClient(rdb, opts...)
}

func NewWithClient(client *redis.Client, opts ...Option) *Storage {
	s := &Storage{
		client: client,
		key:    DefaultJournalKey,
		limit:  DefaultJournalLimit,
		ttl:    DefaultJournalTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Storage) Close() error {
	return s.client.Close()
}

// Record appends e to the journal, trims it to the configured limit and
// refreshes its TTL in one transaction.
func (s *Storage) Record(ctx context.Context, e types.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal journal event: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, s.key, data)
		if s.limit > 0 {
			pipe.LTrim(ctx, s.key, 0, s.limit-1)
		}
		if s.ttl > 0 {
			pipe.Expire(ctx, s.key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record journal event: %w", err)
	}
	return nil
}

// Recent returns up to n of the latest events, newest first.
// Entries that no longer decode are skipped.
func (s *Storage) Recent(ctx context.Context, n int64) ([]types.Event, error) {
	if n <= 0 {
		return []types.Event{}, nil
	}
	vals, err := s.client.LRange(ctx, s.key, 0, n-1).Result()
	if err == redis.Nil {
		return []types.Event{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}

	events := make([]types.Event, 0, len(vals))
	for _, val := range vals {
		var e types.Event
		if json.Unmarshal([]byte(val), &e) == nil {
			events = append(events, e)
		}
	}
	return events, nil
}

// Len returns the number of entries currently kept.
func (s *Storage) Len(ctx context.Context) (int64, error) {
	return s.client.LLen(ctx, s.key).Result()
}
