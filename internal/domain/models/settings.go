package models

import (
	"time"

	"github.com/google/uuid"
)

// SiteSettings представляет настройки сайта. В таблице хранится
// единственная запись, чтение ограничено limit 1 на стороне клиента БД.
type SiteSettings struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	SiteName       string     `json:"site_name" db:"site_name"`
	Description    string     `json:"description" db:"description"`
	Logo           ImageRef   `json:"logo" db:"logo"`
	PrimaryColor   string     `json:"primary_color" db:"primary_color"`
	SecondaryColor string     `json:"secondary_color" db:"secondary_color"`
	Currency       string     `json:"currency" db:"currency"`
	CreatedAt      *time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}
