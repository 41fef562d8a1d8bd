package domain

import "time"

// Todo statuses.
const (
	TodoStatusPending = "pending"
	TodoStatusDone    = "done"
)

// Todo represents a user-owned todo item.
type Todo struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
