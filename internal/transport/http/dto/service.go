package dto

import (
	"vintoura/internal/domain/models"
	"vintoura/internal/remote"
)

type CreateServiceRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Features    []string `json:"features"`
	Image       string   `json:"image"`
}

// ToDomain преобразует DTO в доменную модель. Пустые позиции features
// из формы отбрасываются сразу.
func (r *CreateServiceRequest) ToDomain() models.Service {
	return models.Service{
		Title:       r.Title,
		Description: r.Description,
		Features:    models.FilterBlankFeatures(r.Features),
		Image:       models.ImageFromString(r.Image),
	}
}

type UpdateServiceRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Features    *[]string `json:"features,omitempty"`
	Image       *string   `json:"image,omitempty"`
}

func (r *UpdateServiceRequest) ToUpdates() remote.Row {
	updates := remote.Row{}
	if r.Title != nil {
		updates["title"] = *r.Title
	}
	if r.Description != nil {
		updates["description"] = *r.Description
	}
	if r.Features != nil {
		updates["features"] = toAny(models.FilterBlankFeatures(*r.Features))
	}
	if r.Image != nil {
		updates["image"] = *r.Image
	}
	return updates
}
