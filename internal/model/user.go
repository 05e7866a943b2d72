package model

import "time"

// User is a registered account. The password is only ever stored as a
// bcrypt hash and is never serialized.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Principal is the authenticated identity bound to the current session.
// Handlers receive it through the request context, never as global state.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
