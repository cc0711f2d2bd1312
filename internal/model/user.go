// Package model defines the persistent entities of the todo service.
package model

import "time"

// User is an account record.  Usernames are unique with case-sensitive
// comparison; emails are unique as well.  The password is stored only as a
// bcrypt hash and is never serialized in API responses.
type User struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
