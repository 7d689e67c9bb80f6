package models

import "time"

// User is the single session record persisted for a storefront session.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Credential is stored at signup so later logins for the same email can be
// checked against the chosen password.
type Credential struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}
