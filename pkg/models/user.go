package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account managed by the local identity backend.
// Only the bcrypt hash of the password is stored.
type User struct {
	ID           uuid.UUID `db:"id"            json:"id"`
	Email        string    `db:"email"         json:"email"`
	DisplayName  string    `db:"display_name"  json:"display_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
}
