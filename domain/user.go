package domain

import "time"

// User is the local account row backing an external identity. Todos are
// owned by the local user id, not the provider id; AuthID links the two.
type User struct {
	ID        string    `json:"id"`
	AuthID    string    `json:"auth_id"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
