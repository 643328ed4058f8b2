package models

import "time"

// User represents a registered caller. Its ID is the opaque identity value
// stamped into Product.Owner.
type User struct {
	ID        string    `json:"id" validate:"omitempty,uuid"`
	Username  string    `json:"username" validate:"required,min=3,max=100"`
	Email     string    `json:"email" validate:"required,email"`
	Password  string    `json:"password,omitempty" validate:"required,min=6"` // bcrypt hash; handlers blank it before responding
	CreatedAt time.Time `json:"created_at"`
}
