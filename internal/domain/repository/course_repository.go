package repository

import (
	"context"
	"fmt"

	"learnhub/internal/domain/model"
	"learnhub/internal/platform/store"
)

type CourseRepository interface {
	// All returns the persisted course list, seeding the default catalog
	// when the store is empty or corrupt.
	All(ctx context.Context) ([]model.Course, error)
	ReplaceAll(ctx context.Context, courses []model.Course) error
}

type kvCourseRepository struct {
	store store.Store
	key   string
}

func NewKVCourseRepository(s store.Store, keyPrefix string) CourseRepository {
	return &kvCourseRepository{store: s, key: keyPrefix + ":courses"}
}

// DefaultCourses is the catalog seeded on first use, so a fresh install
// has something to browse before an admin adds anything.
func DefaultCourses() []model.Course {
	return []model.Course{
		{
			ID:          "1",
			Title:       "Introduction to React",
			Slug:        "introduction-to-react",
			Description: "Learn the basics of React, including components, props, and state.",
			Instructor:  "John Doe",
			Thumbnail:   "https://placehold.co/600x400?text=React+Course",
			Duration:    "6 hours",
			Level:       model.LevelBeginner,
			Price:       49.99,
		},
		{
			ID:          "2",
			Title:       "Advanced JavaScript Patterns",
			Slug:        "advanced-javascript-patterns",
			Description: "Master advanced JavaScript concepts like closures, prototypes, and design patterns.",
			Instructor:  "Jane Smith",
			Thumbnail:   "https://placehold.co/600x400?text=JavaScript+Course",
			Duration:    "8 hours",
			Level:       model.LevelAdvanced,
			Price:       79.99,
		},
		{
			ID:          "3",
			Title:       "CSS Flexbox & Grid Mastery",
			Slug:        "css-flexbox-grid-mastery",
			Description: "Master modern CSS layout techniques with Flexbox and Grid.",
			Instructor:  "Maria Rodriguez",
			Thumbnail:   "https://placehold.co/600x400?text=CSS+Course",
			Duration:    "5 hours",
			Level:       model.LevelIntermediate,
			Price:       39.99,
		},
	}
}

func (r *kvCourseRepository) All(ctx context.Context) ([]model.Course, error) {
	courses, err := loadDocument(ctx, r.store, r.key, DefaultCourses)
	if err != nil {
		return nil, fmt.Errorf("kvCourseRepository.All: %w", err)
	}
	return courses, nil
}

func (r *kvCourseRepository) ReplaceAll(ctx context.Context, courses []model.Course) error {
	if err := saveDocument(ctx, r.store, r.key, courses); err != nil {
		return fmt.Errorf("kvCourseRepository.ReplaceAll: %w", err)
	}
	return nil
}
