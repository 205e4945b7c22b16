package repository

import (
	"context"
	"fmt"

	"learnhub/internal/domain/model"
	"learnhub/internal/platform/store"
)

type EnrollmentRepository interface {
	All(ctx context.Context) ([]model.Enrollment, error)
	ReplaceAll(ctx context.Context, enrollments []model.Enrollment) error
}

type kvEnrollmentRepository struct {
	store store.Store
	key   string
}

func NewKVEnrollmentRepository(s store.Store, keyPrefix string) EnrollmentRepository {
	return &kvEnrollmentRepository{store: s, key: keyPrefix + ":enrollments"}
}

func emptyEnrollments() []model.Enrollment { return []model.Enrollment{} }

func (r *kvEnrollmentRepository) All(ctx context.Context) ([]model.Enrollment, error) {
	enrollments, err := loadDocument(ctx, r.store, r.key, emptyEnrollments)
	if err != nil {
		return nil, fmt.Errorf("kvEnrollmentRepository.All: %w", err)
	}
	return enrollments, nil
}

func (r *kvEnrollmentRepository) ReplaceAll(ctx context.Context, enrollments []model.Enrollment) error {
	if err := saveDocument(ctx, r.store, r.key, enrollments); err != nil {
		return fmt.Errorf("kvEnrollmentRepository.ReplaceAll: %w", err)
	}
	return nil
}
