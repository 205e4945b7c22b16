package model

import (
	"time"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User is an entry in the locally persisted user directory. Email is the
// uniqueness key across the directory.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"hashed_password,omitempty"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

// WithoutCredentials returns a copy safe to hand to the presentation
// layer or persist as the session user.
func (u User) WithoutCredentials() User {
	u.HashedPassword = ""
	return u
}

// Session is the currently authenticated user plus the bearer token (if
// any) used when talking to the remote service. A zero User ID means no
// one is logged in.
type Session struct {
	User        User   `json:"user"`
	RemoteToken string `json:"remote_token,omitempty"`
}

func (s Session) Active() bool {
	return s.User.ID != ""
}
