package service

import "sync"

// Catalog and identity state changes are surfaced to the presentation
// layer through subscriber callbacks, the in-process stand-in for the
// reactive context updates the web UI consumes.

type EventKind string

const (
	EventCatalogChanged     EventKind = "catalog_changed"
	EventEnrollmentsChanged EventKind = "enrollments_changed"
	EventCourseCompleted    EventKind = "course_completed"
)

type Event struct {
	Kind     EventKind
	UserID   string
	CourseID string
}

type subscribers struct {
	mu  sync.RWMutex
	fns []func(Event)
}

func (s *subscribers) add(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fns = append(s.fns, fn)
}

func (s *subscribers) notify(event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, fn := range s.fns {
		fn(event)
	}
}
