package models

import "time"

// Notification is a fire-and-forget record created by admin broadcasts and
// read back by the storefront's notification bell.
type Notification struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Read           bool      `json:"read"`
	Type           string    `json:"type,omitempty"`
	AdminGenerated bool      `json:"admin_generated"`
	CreatedAt      time.Time `json:"created_at"`
}
