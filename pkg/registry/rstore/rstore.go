// Package rstore is an optional cross-process snapshot store for the
// registry's value table, backed by Redis. It exists for the
// horizontal-scaling case: a deferred logic completion must sometimes be delivered by a
// different server process than the one that started the stream, so
// the registry snapshot that process needs has to live somewhere both
// can reach.
package rstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Snapshot is the portion of a Registry's value table worth persisting
// across processes: the resolved values for a set of signal ids, keyed
// by id, as of UpdatedAt. Definitions are not included — a session
// reattaching to a different process re-registers its own signal
// definitions from the page's own render, and only needs the values
// restored on top of them.
type Snapshot struct {
	Values    map[string]json.RawMessage `json:"values"`
	UpdatedAt time.Time                  `json:"updatedAt"`
}

// Store persists Snapshots in Redis under a per-stream key.
type Store struct {
	client *redis.Client
	prefix string
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithPrefix overrides the Redis key prefix. Default: "weaver:registry:".
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// New wraps an existing *redis.Client. The caller owns the client's
// lifecycle (Close it when the application shuts down); Store never
// closes it itself, since it is typically shared with other
// components.
func New(client *redis.Client, opts ...Option) *Store {
	s := &Store{client: client, prefix: "weaver:registry:"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(streamID string) string {
	return s.prefix + streamID
}

// Save persists values under streamID with the given TTL. A TTL of
// zero or less deletes the entry instead of writing one that would
// immediately be eligible for eviction.
func (s *Store) Save(ctx context.Context, streamID string, values map[string]any, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Delete(ctx, streamID)
	}

	encoded := make(map[string]json.RawMessage, len(values))
	for id, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("rstore: encoding value for %s: %w", id, err)
		}
		encoded[id] = raw
	}

	snap := Snapshot{Values: encoded, UpdatedAt: time.Now()}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("rstore: encoding snapshot for %s: %w", streamID, err)
	}

	return s.client.Set(ctx, s.key(streamID), data, ttl).Err()
}

// Load retrieves a snapshot, returning (nil, nil) if none exists.
func (s *Store) Load(ctx context.Context, streamID string) (*Snapshot, error) {
	data, err := s.client.Get(ctx, s.key(streamID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("rstore: decoding snapshot for %s: %w", streamID, err)
	}
	return &snap, nil
}

// Delete removes a stream's snapshot.
func (s *Store) Delete(ctx context.Context, streamID string) error {
	return s.client.Del(ctx, s.key(streamID)).Err()
}

// Touch extends a snapshot's TTL without rewriting its contents, used
// to keep a long-lived suspended stream's state alive while its
// deferred completion is still pending.
func (s *Store) Touch(ctx context.Context, streamID string, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Delete(ctx, streamID)
	}
	return s.client.Expire(ctx, s.key(streamID), ttl).Err()
}

// Value decodes a single id out of a loaded snapshot into dst.
func (snap *Snapshot) Value(id string, dst any) (bool, error) {
	raw, ok := snap.Values[id]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("rstore: decoding value for %s: %w", id, err)
	}
	return true, nil
}
