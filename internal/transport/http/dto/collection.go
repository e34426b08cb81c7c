package dto

import (
	"vintoura/internal/domain/models"
	"vintoura/internal/remote"
)

type CreateCollectionRequest struct {
	Title string   `json:"title" validate:"required"`
	Image string   `json:"image"`
	Tags  []string `json:"tags,omitempty"`
}

// ToDomain преобразует DTO в доменную модель
func (r *CreateCollectionRequest) ToDomain() models.FeaturedCollection {
	return models.FeaturedCollection{
		Title: r.Title,
		Image: models.ImageFromString(r.Image),
		Tags:  r.Tags,
	}
}

// UpdateCollectionRequest — частичное обновление: применяются только
// присланные поля.
type UpdateCollectionRequest struct {
	Title *string   `json:"title,omitempty"`
	Image *string   `json:"image,omitempty"`
	Tags  *[]string `json:"tags,omitempty"`
}

func (r *UpdateCollectionRequest) ToUpdates() remote.Row {
	updates := remote.Row{}
	if r.Title != nil {
		updates["title"] = *r.Title
	}
	if r.Image != nil {
		updates["image"] = *r.Image
	}
	if r.Tags != nil {
		updates["tags"] = toAny(*r.Tags)
	}
	return updates
}

func toAny(strs []string) []any {
	out := make([]any, 0, len(strs))
	for _, s := range strs {
		out = append(out, s)
	}
	return out
}
