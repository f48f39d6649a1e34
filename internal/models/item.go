package models

import "time"

// Item is a user-owned resource. Description is optional and nullable.
type Item struct {
	ID          string
	Title       string
	Description *string
	OwnerID     string
	CreatedAt   time.Time
}
