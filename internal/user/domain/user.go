package domain

import "time"

// User is a registered identity. Login is unique and immutable; the salt
// and password hash never change after registration.
type User struct {
	Login        string
	Salt         string
	PasswordHash string
	CreatedAt    time.Time
}
