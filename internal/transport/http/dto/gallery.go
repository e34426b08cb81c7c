package dto

import (
	"vintoura/internal/domain/models"
	"vintoura/internal/remote"
)

type CreateGalleryItemRequest struct {
	Title    string `json:"title" validate:"required"`
	Image    string `json:"image"`
	Category string `json:"category" validate:"required"`
}

// ToDomain преобразует DTO в доменную модель
func (r *CreateGalleryItemRequest) ToDomain() models.GalleryItem {
	return models.GalleryItem{
		Title:    r.Title,
		Image:    models.ImageFromString(r.Image),
		Category: r.Category,
	}
}

type UpdateGalleryItemRequest struct {
	Title    *string `json:"title,omitempty"`
	Image    *string `json:"image,omitempty"`
	Category *string `json:"category,omitempty"`
}

func (r *UpdateGalleryItemRequest) ToUpdates() remote.Row {
	updates := remote.Row{}
	if r.Title != nil {
		updates["title"] = *r.Title
	}
	if r.Image != nil {
		updates["image"] = *r.Image
	}
	if r.Category != nil {
		updates["category"] = *r.Category
	}
	return updates
}
