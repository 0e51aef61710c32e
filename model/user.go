package model

import "time"

type User struct {
	ID             int       `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	MiddleName     *string   `json:"middle_name"`
	HashedPassword string    `json:"-"` // The hash is not exposed in JSON responses.
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}
