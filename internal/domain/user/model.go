package user

import (
	"time"

	"github.com/google/uuid"
)

// User maps to the users table. Rows are created by the `user create` CLI
// command only and are immutable afterwards.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
