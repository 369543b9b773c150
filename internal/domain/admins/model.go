package admins

import "time"

// Admin is a staff account that can sign in to the management UI.
type Admin struct {
	ID       string
	Name     string
	Username string
	Email    string

	// PasswordHash is an encoded argon2id hash, never the raw password.
	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}
