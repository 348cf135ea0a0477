package models

import "time"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSummary is the owning-user projection embedded in order reads.
type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
