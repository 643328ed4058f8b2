package models

import "time"

// Product is the persisted catalog record. ID doubles as the storage key;
// Owner holds the opaque identity of the caller that created the record.
type Product struct {
	ID        string     `json:"id" validate:"omitempty,uuid"`
	Name      string     `json:"name" validate:"required"`
	Gender    string     `json:"gender" validate:"required"`
	Size      string     `json:"size" validate:"required"`
	Price     float64    `json:"price" validate:"required,gt=0"`
	Brand     string     `json:"brand" validate:"required"`
	Image     string     `json:"image" validate:"required"`
	Owner     string     `json:"owner"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"` // nil until the first mutation
}

// ProductPayload carries the caller-supplied fields of a create or full
// update. Identity fields (id, owner, createdAt) are never part of it.
type ProductPayload struct {
	Name   string  `json:"name" validate:"required"`
	Gender string  `json:"gender" validate:"required"`
	Size   string  `json:"size" validate:"required"`
	Price  float64 `json:"price" validate:"required,gt=0"`
	Brand  string  `json:"brand" validate:"required"`
	Image  string  `json:"image" validate:"required"`
}

// ProductPatch is a sparse change-set for partial updates: nil fields are
// left untouched. Owner is only ever set by the owner-transfer operation.
type ProductPatch struct {
	Name   *string  `json:"name,omitempty"`
	Gender *string  `json:"gender,omitempty"`
	Size   *string  `json:"size,omitempty"`
	Price  *float64 `json:"price,omitempty"`
	Brand  *string  `json:"brand,omitempty"`
	Image  *string  `json:"image,omitempty"`
	Owner  *string  `json:"owner,omitempty"`
}
