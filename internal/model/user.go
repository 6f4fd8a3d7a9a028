package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the account under which products and sales are scoped. The user id
// is the tenant-isolation boundary for every query and mutation.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
