package model

import "time"

// Enrollment links a user to a course. At most one exists per
// (UserID, CourseID) pair; it is removed when its course is deleted.
type Enrollment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	CourseID   string    `json:"courseId"`
	EnrolledAt time.Time `json:"enrolledAt"`
	Progress   int       `json:"progress"` // 0..100, 100 means completed
}

// Progress states derived from the Progress value.
const (
	ProgressNotStarted = "not-started"
	ProgressInProgress = "in-progress"
	ProgressCompleted  = "completed"
)

func (e Enrollment) ProgressState() string {
	switch {
	case e.Progress == 0:
		return ProgressNotStarted
	case e.Progress >= 100:
		return ProgressCompleted
	default:
		return ProgressInProgress
	}
}

// CourseProgress is the MyLearning view: a course joined with the
// enrollment's progress for one user.
type CourseProgress struct {
	Course   Course `json:"course"`
	Progress int    `json:"progress"`
	State    string `json:"state"`
}
