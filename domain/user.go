package domain

import "time"

// User represents a registered account. The password hash never leaves
// the server; the json tag keeps it out of every response payload.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"created_at"`
}
