package dto

import "vintoura/internal/remote"

type UpdateSettingsRequest struct {
	SiteName       *string `json:"site_name,omitempty"`
	Description    *string `json:"description,omitempty"`
	Logo           *string `json:"logo,omitempty"`
	PrimaryColor   *string `json:"primary_color,omitempty" validate:"omitempty,hexcolor"`
	SecondaryColor *string `json:"secondary_color,omitempty" validate:"omitempty,hexcolor"`
	Currency       *string `json:"currency,omitempty" validate:"omitempty,iso4217"`
}

func (r *UpdateSettingsRequest) ToUpdates() remote.Row {
	updates := remote.Row{}
	if r.SiteName != nil {
		updates["site_name"] = *r.SiteName
	}
	if r.Description != nil {
		updates["description"] = *r.Description
	}
	if r.Logo != nil {
		updates["logo"] = *r.Logo
	}
	if r.PrimaryColor != nil {
		updates["primary_color"] = *r.PrimaryColor
	}
	if r.SecondaryColor != nil {
		updates["secondary_color"] = *r.SecondaryColor
	}
	if r.Currency != nil {
		updates["currency"] = *r.Currency
	}
	return updates
}
