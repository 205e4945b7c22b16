package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"learnhub/internal/common"
	"learnhub/internal/domain/model"
	"learnhub/internal/domain/repository"
	"learnhub/internal/remote"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// CatalogService owns the in-memory course and enrollment lists and keeps
// them reconciled against the remote service and the local store. Every
// operation follows the same protocol: attempt the remote service, fall
// back to the local store on any failure, then apply exactly one
// canonical in-memory mutation and re-persist the affected document.
//
// Operations are serialized per mutation by a single lock; concurrent
// callers get last-write-wins semantics.
type CatalogService struct {
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	remote         remote.API
	identity       *IdentityService

	mu          sync.RWMutex
	courses     []model.Course
	enrollments []model.Enrollment

	subs subscribers
}

func NewCatalogService(
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	remoteAPI remote.API,
	identity *IdentityService,
) *CatalogService {
	s := &CatalogService{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		remote:         remoteAPI,
		identity:       identity,
	}
	// Enrollments are per-user upstream, so a session change re-fetches
	// them; courses are global and stay as hydrated.
	identity.OnSessionChange(func(model.Session) {
		if err := s.HydrateEnrollments(context.Background()); err != nil {
			log.Printf("Failed to re-hydrate enrollments on session change: %v", err)
		}
	})
	return s
}

// Subscribe registers a presentation-layer callback for catalog,
// enrollment and completion events.
func (s *CatalogService) Subscribe(fn func(Event)) {
	s.subs.add(fn)
}

func (s *CatalogService) remoteToken() string {
	return s.identity.Session().RemoteToken
}

// Hydrate loads courses and enrollments at startup.
func (s *CatalogService) Hydrate(ctx context.Context) error {
	if err := s.HydrateCourses(ctx); err != nil {
		return err
	}
	return s.HydrateEnrollments(ctx)
}

// HydrateCourses reads the global course list, remote first. An empty
// remote payload counts as unusable; the local store then answers,
// seeding the default catalog when it holds nothing.
func (s *CatalogService) HydrateCourses(ctx context.Context) error {
	courses, err := s.remote.ListCourses(ctx, s.remoteToken(), "", "")
	if err != nil || len(courses) == 0 {
		if err != nil {
			log.Printf("Remote courses unavailable, using local store: %v", err)
		}
		courses, err = s.courseRepo.All(ctx)
		if err != nil {
			return fmt.Errorf("hydrate courses: %w", err)
		}
	}

	s.mu.Lock()
	s.courses = courses
	s.mu.Unlock()
	return nil
}

// HydrateEnrollments reads the enrollment list. With an active session
// the remote service is asked for that user's enrollments; otherwise, or
// on failure, the local document answers.
func (s *CatalogService) HydrateEnrollments(ctx context.Context) error {
	session := s.identity.Session()
	if session.Active() {
		enrollments, err := s.remote.ListEnrollments(ctx, session.RemoteToken)
		if err == nil && enrollments != nil {
			s.mu.Lock()
			s.enrollments = enrollments
			s.mu.Unlock()
			return nil
		}
		if err != nil {
			log.Printf("Remote enrollments unavailable, using local store: %v", err)
		}
	}

	enrollments, err := s.enrollmentRepo.All(ctx)
	if err != nil {
		return fmt.Errorf("hydrate enrollments: %w", err)
	}
	s.mu.Lock()
	s.enrollments = enrollments
	s.mu.Unlock()
	return nil
}

// --- Read queries (pure, no side effects) ---

func (s *CatalogService) Courses() []model.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Course, len(s.courses))
	copy(out, s.courses)
	return out
}

func (s *CatalogService) CourseByID(id string) (*model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, course := range s.courses {
		if course.ID == id {
			c := course
			return &c, nil
		}
	}
	return nil, common.Errorf("course %s: %w", id, common.ErrNotFound)
}

// UserEnrollments lists the enrollments belonging to one user.
func (s *CatalogService) UserEnrollments(userID string) []model.Enrollment {
	if userID == "" {
		return []model.Enrollment{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Enrollment{}
	for _, enrollment := range s.enrollments {
		if enrollment.UserID == userID {
			out = append(out, enrollment)
		}
	}
	return out
}

// EnrolledCourses joins a user's enrollments to the course list.
func (s *CatalogService) EnrolledCourses(userID string) []model.Course {
	enrollments := s.UserEnrollments(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Course{}
	for _, course := range s.courses {
		for _, enrollment := range enrollments {
			if enrollment.CourseID == course.ID {
				out = append(out, course)
				break
			}
		}
	}
	return out
}

// ProgressSummary is the "my learning" view: each enrolled course with
// its progress value and derived state.
func (s *CatalogService) ProgressSummary(userID string) []model.CourseProgress {
	enrollments := s.UserEnrollments(userID)
	byCourse := make(map[string]model.Enrollment, len(enrollments))
	for _, enrollment := range enrollments {
		byCourse[enrollment.CourseID] = enrollment
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.CourseProgress{}
	for _, course := range s.courses {
		enrollment, ok := byCourse[course.ID]
		if !ok {
			continue
		}
		out = append(out, model.CourseProgress{
			Course:   course,
			Progress: enrollment.Progress,
			State:    enrollment.ProgressState(),
		})
	}
	return out
}

// --- Mutations ---

// Enroll creates an enrollment for the user with progress 0. It requires
// an authenticated user, an existing course, and no prior enrollment for
// the same (user, course) pair.
func (s *CatalogService) Enroll(ctx context.Context, userID, courseID string) (*model.Enrollment, error) {
	if userID == "" {
		return nil, common.Errorf("please login to enroll in courses: %w", common.ErrUnauthorized)
	}
	if _, err := s.CourseByID(courseID); err != nil {
		return nil, err
	}
	if s.isEnrolled(userID, courseID) {
		return nil, common.Errorf("already enrolled in this course: %w", common.ErrConflict)
	}

	if err := s.remote.Enroll(ctx, s.remoteToken(), courseID); err != nil {
		log.Printf("Remote enroll unavailable, applying locally: %v", err)
	}

	enrollment := model.Enrollment{
		ID:         uuid.NewString(),
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
		Progress:   0,
	}

	s.mu.Lock()
	// Re-check under the lock so two racing calls still produce one entry.
	for _, existing := range s.enrollments {
		if existing.UserID == userID && existing.CourseID == courseID {
			s.mu.Unlock()
			return nil, common.Errorf("already enrolled in this course: %w", common.ErrConflict)
		}
	}
	s.enrollments = append(s.enrollments, enrollment)
	snapshot := make([]model.Enrollment, len(s.enrollments))
	copy(snapshot, s.enrollments)
	s.mu.Unlock()

	if err := s.enrollmentRepo.ReplaceAll(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("persist enrollments: %w", err)
	}

	s.subs.notify(Event{Kind: EventEnrollmentsChanged, UserID: userID, CourseID: courseID})
	return &enrollment, nil
}

// UpdateProgress sets the progress value on the user's enrollment for
// the course. Without a session, or without an enrollment, the update is
// silently dropped. The value is applied as given: clamping to [0, 100]
// is the caller's contract.
func (s *CatalogService) UpdateProgress(ctx context.Context, userID, courseID string, progress int) error {
	if userID == "" {
		return nil
	}
	if !s.isEnrolled(userID, courseID) {
		return nil
	}

	if err := s.remote.UpdateProgress(ctx, s.remoteToken(), courseID, progress); err != nil {
		log.Printf("Remote progress update unavailable, applying locally: %v", err)
	}

	s.mu.Lock()
	updated := false
	for i := range s.enrollments {
		if s.enrollments[i].UserID == userID && s.enrollments[i].CourseID == courseID {
			s.enrollments[i].Progress = progress
			updated = true
			break
		}
	}
	snapshot := make([]model.Enrollment, len(s.enrollments))
	copy(snapshot, s.enrollments)
	s.mu.Unlock()

	if !updated {
		return nil
	}
	if err := s.enrollmentRepo.ReplaceAll(ctx, snapshot); err != nil {
		return fmt.Errorf("persist enrollments: %w", err)
	}

	s.subs.notify(Event{Kind: EventEnrollmentsChanged, UserID: userID, CourseID: courseID})
	if progress == 100 {
		s.subs.notify(Event{Kind: EventCourseCompleted, UserID: userID, CourseID: courseID})
	}
	return nil
}

type CreateCourseRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Instructor  string  `json:"instructor"`
	Thumbnail   string  `json:"thumbnail"`
	Duration    string  `json:"duration"`
	Level       string  `json:"level" validate:"required,oneof=Beginner Intermediate Advanced"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// AddCourse creates a course. The id comes from whichever backend served
// the write: the remote store assigns one on success, otherwise a local
// id is generated.
func (s *CatalogService) AddCourse(ctx context.Context, req CreateCourseRequest) (*model.Course, error) {
	if req.Title == "" {
		return nil, common.Errorf("course title is required: %w", common.ErrValidation)
	}
	if !model.ValidLevel(req.Level) {
		return nil, common.Errorf("course level must be Beginner, Intermediate or Advanced: %w", common.ErrValidation)
	}
	if req.Price < 0 {
		return nil, common.Errorf("course price must not be negative: %w", common.ErrValidation)
	}

	course := model.Course{
		Title:       req.Title,
		Slug:        slug.Make(req.Title),
		Description: req.Description,
		Instructor:  req.Instructor,
		Thumbnail:   req.Thumbnail,
		Duration:    req.Duration,
		Level:       req.Level,
		Price:       req.Price,
	}

	created, err := s.remote.CreateCourse(ctx, s.remoteToken(), course)
	if err != nil {
		log.Printf("Remote course create unavailable, applying locally: %v", err)
		course.ID = uuid.NewString()
	} else {
		course = *created
		if course.Slug == "" {
			course.Slug = slug.Make(course.Title)
		}
	}

	s.mu.Lock()
	s.courses = append(s.courses, course)
	snapshot := make([]model.Course, len(s.courses))
	copy(snapshot, s.courses)
	s.mu.Unlock()

	if err := s.courseRepo.ReplaceAll(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("persist courses: %w", err)
	}

	s.subs.notify(Event{Kind: EventCatalogChanged, CourseID: course.ID})
	return &course, nil
}

// UpdateCourse merges the non-nil fields into the course with the given
// id. A title change refreshes the slug.
func (s *CatalogService) UpdateCourse(ctx context.Context, id string, update model.CourseUpdate) (*model.Course, error) {
	if update.Title != nil && *update.Title == "" {
		return nil, common.Errorf("course title is required: %w", common.ErrValidation)
	}
	if update.Level != nil && !model.ValidLevel(*update.Level) {
		return nil, common.Errorf("course level must be Beginner, Intermediate or Advanced: %w", common.ErrValidation)
	}
	if update.Price != nil && *update.Price < 0 {
		return nil, common.Errorf("course price must not be negative: %w", common.ErrValidation)
	}
	if _, err := s.CourseByID(id); err != nil {
		return nil, err
	}

	if err := s.remote.UpdateCourse(ctx, s.remoteToken(), id, update); err != nil {
		log.Printf("Remote course update unavailable, applying locally: %v", err)
	}

	var merged model.Course
	s.mu.Lock()
	for i := range s.courses {
		if s.courses[i].ID == id {
			update.Apply(&s.courses[i])
			if update.Title != nil {
				s.courses[i].Slug = slug.Make(s.courses[i].Title)
			}
			merged = s.courses[i]
			break
		}
	}
	snapshot := make([]model.Course, len(s.courses))
	copy(snapshot, s.courses)
	s.mu.Unlock()

	if err := s.courseRepo.ReplaceAll(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("persist courses: %w", err)
	}

	s.subs.notify(Event{Kind: EventCatalogChanged, CourseID: id})
	return &merged, nil
}

// DeleteCourse removes the course and cascades over its enrollments:
// storage enforces no referential integrity, so the cascade happens
// here.
func (s *CatalogService) DeleteCourse(ctx context.Context, id string) error {
	if _, err := s.CourseByID(id); err != nil {
		return err
	}

	if err := s.remote.DeleteCourse(ctx, s.remoteToken(), id); err != nil {
		log.Printf("Remote course delete unavailable, applying locally: %v", err)
	}

	s.mu.Lock()
	courses := make([]model.Course, 0, len(s.courses))
	for _, course := range s.courses {
		if course.ID != id {
			courses = append(courses, course)
		}
	}
	s.courses = courses

	enrollments := make([]model.Enrollment, 0, len(s.enrollments))
	for _, enrollment := range s.enrollments {
		if enrollment.CourseID != id {
			enrollments = append(enrollments, enrollment)
		}
	}
	s.enrollments = enrollments

	courseSnapshot := make([]model.Course, len(s.courses))
	copy(courseSnapshot, s.courses)
	enrollmentSnapshot := make([]model.Enrollment, len(s.enrollments))
	copy(enrollmentSnapshot, s.enrollments)
	s.mu.Unlock()

	if err := s.courseRepo.ReplaceAll(ctx, courseSnapshot); err != nil {
		return fmt.Errorf("persist courses: %w", err)
	}
	if err := s.enrollmentRepo.ReplaceAll(ctx, enrollmentSnapshot); err != nil {
		return fmt.Errorf("persist enrollments: %w", err)
	}

	s.subs.notify(Event{Kind: EventCatalogChanged, CourseID: id})
	return nil
}

func (s *CatalogService) isEnrolled(userID, courseID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, enrollment := range s.enrollments {
		if enrollment.UserID == userID && enrollment.CourseID == courseID {
			return true
		}
	}
	return false
}
