package models

import "time"

// Account is the stored credential record for a learner, keyed by email
type Account struct {
	Password string `json:"pass"`
	Name     string `json:"name"`
	Age      int    `json:"age"`
}

// User is the authenticated learner as seen by the presentation layer
type User struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Age    int    `json:"age"`
	Avatar Avatar `json:"avatar"`
}

// Session represents an issued HTTP session token
type Session struct {
	ID        string
	Email     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
