// Package kvstore is the durable key-value layer behind every store. Each key
// holds a JSON snapshot of a whole collection; backends only move bytes.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by backends for a missing key. Storage.Load turns it
// into found == false.
var ErrNotFound = errors.New("kvstore: key not found")

// Storage loads and saves JSON snapshots.
type Storage interface {
	// Load decodes the value under key into dst. It reports false with a nil
	// error when the key is absent.
	Load(ctx context.Context, key string, dst any) (bool, error)
	Save(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// Backend is a raw byte store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// DecodeError marks a stored value that exists but cannot be parsed.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("kvstore: decode %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type jsonStorage struct {
	backend Backend
}

// New wraps a backend with JSON encoding.
func New(backend Backend) Storage {
	return &jsonStorage{backend: backend}
}

func (s *jsonStorage) Load(ctx context.Context, key string, dst any) (bool, error) {
	data, err := s.backend.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("kvstore: get %q: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return true, &DecodeError{Key: key, Err: err}
	}
	return true, nil
}

func (s *jsonStorage) Save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kvstore: encode %q: %w", key, err)
	}
	if err := s.backend.Put(ctx, key, data); err != nil {
		return fmt.Errorf("kvstore: put %q: %w", key, err)
	}
	return nil
}

func (s *jsonStorage) Delete(ctx context.Context, key string) error {
	if err := s.backend.Remove(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("kvstore: remove %q: %w", key, err)
	}
	return nil
}

// prefixed joins a namespace and key the way every networked backend names keys.
func prefixed(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + ":" + key
}
