package models

import "time"

type Customer struct {
	ID        int
	Name      string
	Email     string
	Phone     string
	Address   string
	Password  string // bcrypt hash, never serialized
	CreatedAt time.Time
}

// User is a back-office account managed by the admin surface.
type User struct {
	ID        int
	Username  string
	Password  string
	Role      string
	CreatedAt time.Time
}
