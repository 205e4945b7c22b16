package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"learnhub/internal/platform/store"
)

// Every persisted document is wrapped in a versioned envelope. A payload
// that fails to decode, or carries an unknown version, is treated as
// corrupt: it is discarded, logged, and replaced with the seed value.
const schemaVersion = 1

type document[T any] struct {
	SchemaVersion int `json:"schema_version"`
	Data          T   `json:"data"`
}

// loadDocument reads the document under key. A missing or corrupt
// document is reseeded with seed() and the seed is persisted, so the
// store converges back to a usable state.
func loadDocument[T any](ctx context.Context, s store.Store, key string, seed func() T) (T, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNoDocument) {
			var zero T
			return zero, fmt.Errorf("load document %q: %w", key, err)
		}
		return reseedDocument(ctx, s, key, seed)
	}

	var doc document[T]
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Printf("Discarding corrupt document %q: %v", key, err)
		return reseedDocument(ctx, s, key, seed)
	}
	if doc.SchemaVersion != schemaVersion {
		log.Printf("Discarding document %q with unknown schema version %d", key, doc.SchemaVersion)
		return reseedDocument(ctx, s, key, seed)
	}
	return doc.Data, nil
}

func reseedDocument[T any](ctx context.Context, s store.Store, key string, seed func() T) (T, error) {
	data := seed()
	if err := saveDocument(ctx, s, key, data); err != nil {
		var zero T
		return zero, err
	}
	return data, nil
}

func saveDocument[T any](ctx context.Context, s store.Store, key string, data T) error {
	raw, err := json.Marshal(document[T]{SchemaVersion: schemaVersion, Data: data})
	if err != nil {
		return fmt.Errorf("encode document %q: %w", key, err)
	}
	if err := s.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("save document %q: %w", key, err)
	}
	return nil
}
