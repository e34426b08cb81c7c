package models

import (
	"time"

	"github.com/google/uuid"
)

// FeaturedCollection представляет подборку образов на главной странице
type FeaturedCollection struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Title     string     `json:"title" db:"title"`
	Image     ImageRef   `json:"image" db:"image"`
	Tags      []string   `json:"tags,omitempty" db:"tags"`
	CreatedAt *time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}
