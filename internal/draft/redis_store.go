// Package draft provides crash-recovery storage for unsaved work. When a
// save fails or a dirty session is deactivated, its current state is
// snapshotted to Redis so an interrupted session can be recovered.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fieldnote/editor/internal/block"
)

// ErrNoDraft is returned when no draft exists for a document.
var ErrNoDraft = errors.New("no draft stored")

// Draft is the recoverable snapshot of a dirty session.
type Draft struct {
	DocumentID string      `json:"document_id"`
	Title      string      `json:"title"`
	Content    block.Model `json:"content"`
	TagNames   []string    `json:"tag_names,omitempty"`
	SavedAt    time.Time   `json:"saved_at"`
}

// Store keeps drafts in Redis under a TTL so abandoned drafts age out.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

const defaultTTL = 7 * 24 * time.Hour

// NewStore connects to Redis and verifies the connection.
func NewStore(redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Store{client: client, prefix: "draft:", ttl: defaultTTL}, nil
}

// NewStoreWithClient creates a store from an existing Redis client.
func NewStoreWithClient(client *redis.Client) *Store {
	return &Store{client: client, prefix: "draft:", ttl: defaultTTL}
}

func (s *Store) key(documentID string) string {
	return s.prefix + documentID
}

// Put stores or replaces the draft for a document, refreshing its TTL.
func (s *Store) Put(ctx context.Context, d Draft) error {
	if d.DocumentID == "" {
		return fmt.Errorf("draft missing document id")
	}
	if d.SavedAt.IsZero() {
		d.SavedAt = time.Now()
	}

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}

	if err := s.client.Set(ctx, s.key(d.DocumentID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store draft: %w", err)
	}
	return nil
}

// Get retrieves the draft for a document, or ErrNoDraft.
func (s *Store) Get(ctx context.Context, documentID string) (Draft, error) {
	data, err := s.client.Get(ctx, s.key(documentID)).Result()
	if err == redis.Nil {
		return Draft{}, ErrNoDraft
	}
	if err != nil {
		return Draft{}, fmt.Errorf("load draft: %w", err)
	}

	var d Draft
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return Draft{}, fmt.Errorf("unmarshal draft: %w", err)
	}
	return d, nil
}

// Delete removes the draft after a successful save.
func (s *Store) Delete(ctx context.Context, documentID string) error {
	if err := s.client.Del(ctx, s.key(documentID)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// Ping checks if Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
