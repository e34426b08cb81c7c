package models

import (
	"time"

	"github.com/google/uuid"
)

// GalleryItem представляет работу в портфолио
type GalleryItem struct {
	ID        uuid.UUID  `json:"id" db:"id"`                           // Уникальный идентификатор
	Title     string     `json:"title" db:"title"`                     // Заголовок работы
	Image     ImageRef   `json:"image" db:"image"`                     // Изображение (URL или data URL)
	Category  string     `json:"category" db:"category"`               // Произвольная категория
	CreatedAt *time.Time `json:"created_at,omitempty" db:"created_at"` // Дата создания
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"` // Дата последнего обновления
}
