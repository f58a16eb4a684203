package entity

import (
	"time"

	"github.com/google/uuid"
)

// Announcement is a channel post carrying the game link as a button.
type Announcement struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ButtonLabel string    `json:"button_label"`
	Color       int       `json:"color"`
	PostedAt    time.Time `json:"posted_at"`
}
