// Package redis provides a Redis-backed state store for deployments where
// the dashboard and overlay run against a shared cache instead of a local
// file. Same whole-document semantics as the sqlite store.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/grindhub/shift-engine/shift"
)

const stateKey = "shift:state"

// Store implements shift.Store on a single Redis key.
type Store struct {
	client *goredis.Client
}

// New connects to addr and verifies the connection.
func New(ctx context.Context, addr string) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Store{client: client}, nil
}

// Close releases the client's connections.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Load(ctx context.Context) (shift.State, error) {
	payload, err := s.client.Get(ctx, stateKey).Bytes()
	if err == goredis.Nil {
		return shift.State{}, shift.ErrStateNotFound
	}
	if err != nil {
		return shift.State{}, fmt.Errorf("load state: %w", err)
	}

	var st shift.State
	if err := json.Unmarshal(payload, &st); err != nil {
		return shift.State{}, fmt.Errorf("decode state: %w", err)
	}
	return st, nil
}

// Save replaces the key atomically; no TTL, the state is the system of
// record for the running event.
func (s *Store) Save(ctx context.Context, st shift.State) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.client.Set(ctx, stateKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
