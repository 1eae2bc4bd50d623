package domain

import "time"

// User represents a registered account.
//
// Identifiers are small integers assigned by the store (max existing id + 1),
// matching the flat-document data model. Emails are unique across users with
// exact, case-sensitive matching.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"` // Argon2id encoded, filter from API responses
	CreatedAt    time.Time `json:"createdAt"`
}

// Sanitized returns a copy of the user with the credential removed.
// Every read path outside credential verification must go through this.
func (u *User) Sanitized() *User {
	c := *u
	c.PasswordHash = ""
	return &c
}
