package service

import (
	"context"
	"errors"

	"learnhub/internal/domain/model"
)

var errRemoteDown = errors.New("remote service unreachable")

// stubRemote stands in for the external course service. With fail set it
// rejects every call, which is the mode most tests run in: the whole
// layer must work from the local store alone.
type stubRemote struct {
	fail        bool
	courses     []model.Course
	enrollments []model.Enrollment
	createdID   string
	calls       map[string]int
}

func newStubRemote(fail bool) *stubRemote {
	return &stubRemote{fail: fail, calls: map[string]int{}}
}

func (s *stubRemote) record(name string) { s.calls[name]++ }

func (s *stubRemote) ListCourses(_ context.Context, _, _, _ string) ([]model.Course, error) {
	s.record("ListCourses")
	if s.fail {
		return nil, errRemoteDown
	}
	return s.courses, nil
}

func (s *stubRemote) GetCourse(_ context.Context, _, id string) (*model.Course, error) {
	s.record("GetCourse")
	if s.fail {
		return nil, errRemoteDown
	}
	for _, course := range s.courses {
		if course.ID == id {
			c := course
			return &c, nil
		}
	}
	return nil, errRemoteDown
}

func (s *stubRemote) CreateCourse(_ context.Context, _ string, course model.Course) (*model.Course, error) {
	s.record("CreateCourse")
	if s.fail {
		return nil, errRemoteDown
	}
	course.ID = s.createdID
	return &course, nil
}

func (s *stubRemote) UpdateCourse(_ context.Context, _, _ string, _ model.CourseUpdate) error {
	s.record("UpdateCourse")
	if s.fail {
		return errRemoteDown
	}
	return nil
}

func (s *stubRemote) DeleteCourse(_ context.Context, _, _ string) error {
	s.record("DeleteCourse")
	if s.fail {
		return errRemoteDown
	}
	return nil
}

func (s *stubRemote) Enroll(_ context.Context, _, _ string) error {
	s.record("Enroll")
	if s.fail {
		return errRemoteDown
	}
	return nil
}

func (s *stubRemote) ListEnrollments(_ context.Context, _ string) ([]model.Enrollment, error) {
	s.record("ListEnrollments")
	if s.fail {
		return nil, errRemoteDown
	}
	return s.enrollments, nil
}

func (s *stubRemote) UpdateProgress(_ context.Context, _, _ string, _ int) error {
	s.record("UpdateProgress")
	if s.fail {
		return errRemoteDown
	}
	return nil
}

func (s *stubRemote) Login(_ context.Context, _, _ string) (string, error) {
	s.record("Login")
	if s.fail {
		return "", errRemoteDown
	}
	return "remote-token", nil
}

func (s *stubRemote) Register(_ context.Context, _, _, _, _ string) error {
	s.record("Register")
	if s.fail {
		return errRemoteDown
	}
	return nil
}
