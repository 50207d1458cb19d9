// Package kvstore persists JSON-encoded values under string keys.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider stores JSON-like values by key
type Provider interface {
	// Get decodes the value stored at key into out. It reports false when the key is absent.
	Get(ctx context.Context, key string, out any) (bool, error)
	// Set replaces the value stored at key
	Set(ctx context.Context, key string, value any) error
	Close() error
}

func decode(key string, data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

func encode(key string, value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", key, err)
	}
	return data, nil
}
