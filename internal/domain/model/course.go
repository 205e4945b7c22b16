package model

// Course levels. Free-text matching is never used for levels; filters
// compare exactly.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

func ValidLevel(level string) bool {
	switch level {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

type Course struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug,omitempty"`
	Description string  `json:"description"`
	Instructor  string  `json:"instructor"`
	Thumbnail   string  `json:"thumbnail"`
	Duration    string  `json:"duration"` // free text, e.g. "6 hours"
	Level       string  `json:"level"`
	Price       float64 `json:"price"`
}

// CourseUpdate carries a partial-field merge for an existing course.
// Nil fields are left untouched.
type CourseUpdate struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Instructor  *string  `json:"instructor,omitempty"`
	Thumbnail   *string  `json:"thumbnail,omitempty"`
	Duration    *string  `json:"duration,omitempty"`
	Level       *string  `json:"level,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

// Apply merges the non-nil fields into the course.
func (u CourseUpdate) Apply(c *Course) {
	if u.Title != nil {
		c.Title = *u.Title
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
	if u.Instructor != nil {
		c.Instructor = *u.Instructor
	}
	if u.Thumbnail != nil {
		c.Thumbnail = *u.Thumbnail
	}
	if u.Duration != nil {
		c.Duration = *u.Duration
	}
	if u.Level != nil {
		c.Level = *u.Level
	}
	if u.Price != nil {
		c.Price = *u.Price
	}
}
