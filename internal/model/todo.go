package model

import "time"

// Todo is a task record owned by exactly one user.  The owner is fixed at
// creation and never reassigned.  AddedBy is a snapshot of the owner's
// username taken when the record was created.  ImageURL points at an
// optional attachment managed by the storage layer; nil means no image.
type Todo struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	UserID      uint64    `json:"user_id"`
	AddedBy     string    `json:"added_by"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
