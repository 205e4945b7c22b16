package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"learnhub/internal/domain/model"
	"learnhub/internal/platform/store"
)

type SessionRepository interface {
	// Load returns the persisted session, or nil when no one is logged in.
	Load(ctx context.Context) (*model.Session, error)
	Save(ctx context.Context, session model.Session) error
	Clear(ctx context.Context) error
}

type kvSessionRepository struct {
	store store.Store
	key   string
}

func NewKVSessionRepository(s store.Store, keyPrefix string) SessionRepository {
	return &kvSessionRepository{store: s, key: keyPrefix + ":session"}
}

func (r *kvSessionRepository) Load(ctx context.Context) (*model.Session, error) {
	raw, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return nil, nil
		}
		return nil, fmt.Errorf("kvSessionRepository.Load: %w", err)
	}

	var doc document[model.Session]
	if err := json.Unmarshal(raw, &doc); err != nil || doc.SchemaVersion != schemaVersion {
		// A corrupt session just means no one is logged in.
		log.Printf("Discarding corrupt session document: %v", err)
		if err := r.store.Delete(ctx, r.key); err != nil {
			return nil, fmt.Errorf("kvSessionRepository.Load: %w", err)
		}
		return nil, nil
	}
	if !doc.Data.Active() {
		return nil, nil
	}
	return &doc.Data, nil
}

func (r *kvSessionRepository) Save(ctx context.Context, session model.Session) error {
	// The session never carries credentials, whatever the caller passed.
	session.User = session.User.WithoutCredentials()
	if err := saveDocument(ctx, r.store, r.key, session); err != nil {
		return fmt.Errorf("kvSessionRepository.Save: %w", err)
	}
	return nil
}

func (r *kvSessionRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("kvSessionRepository.Clear: %w", err)
	}
	return nil
}
