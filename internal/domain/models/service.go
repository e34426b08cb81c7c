package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service представляет услугу стилиста
type Service struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Features    []string   `json:"features" db:"features"` // Упорядоченный список, выводится как есть
	Image       ImageRef   `json:"image" db:"image"`
	CreatedAt   *time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// FilterBlankFeatures убирает пустые строки из списка, сохраняя порядок.
// Пустые позиции появляются из формы добавления услуги и не должны
// попадать в хранилище.
func FilterBlankFeatures(features []string) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		if strings.TrimSpace(f) != "" {
			out = append(out, f)
		}
	}
	return out
}
