package clients

import "time"

// Client is a person who brings pets to the clinic.
// Ownership is many-to-many: a client may own several pets and a pet may
// be shared between clients (the pairing is kept unique).
type Client struct {
	ID       string
	Fullname string
	Address  string
	Age      *int
	Email    string
	Number   string

	CreatedAt time.Time
	UpdatedAt time.Time
}
