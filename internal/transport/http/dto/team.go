package dto

import "vintoura/internal/domain/models"

type AddTeamMemberRequest struct {
	Name  string `json:"name" validate:"required"`
	Role  string `json:"role" validate:"required"`
	Image string `json:"image"`
}

func (r *AddTeamMemberRequest) ToDomain() models.TeamMember {
	return models.TeamMember{
		Name:  r.Name,
		Role:  r.Role,
		Image: models.ImageFromString(r.Image),
	}
}
