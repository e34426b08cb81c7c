package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vintoura/internal/remote"
)

func strptr(s string) *string { return &s }

func TestUpdateCollectionRequest_ToUpdates(t *testing.T) {
	t.Run("only provided fields are included", func(t *testing.T) {
		req := UpdateCollectionRequest{Title: strptr("Renamed")}

		assert.Equal(t, remote.Row{"title": "Renamed"}, req.ToUpdates())
	})

	t.Run("empty request yields empty updates", func(t *testing.T) {
		req := UpdateCollectionRequest{}

		assert.Empty(t, req.ToUpdates())
	})

	t.Run("tags travel as a generic slice", func(t *testing.T) {
		tags := []string{"bridal", "evening"}
		req := UpdateCollectionRequest{Tags: &tags}

		assert.Equal(t, remote.Row{"tags": []any{"bridal", "evening"}}, req.ToUpdates())
	})
}

func TestUpdateServiceRequest_ToUpdates(t *testing.T) {
	features := []string{"Sorting", "", "Styling tips"}
	req := UpdateServiceRequest{
		Title:    strptr("Wardrobe Detox"),
		Features: &features,
	}

	updates := req.ToUpdates()

	assert.Equal(t, "Wardrobe Detox", updates["title"])
	// Пустые позиции не доезжают до хранилища и при обновлении
	assert.Equal(t, []any{"Sorting", "Styling tips"}, updates["features"])
}

func TestCreateServiceRequest_ToDomain(t *testing.T) {
	req := CreateServiceRequest{
		Title:       "Wardrobe Detox",
		Description: "Closet clean-out",
		Features:    []string{"Sorting", "Styling tips", ""},
	}

	svc := req.ToDomain()

	assert.Equal(t, []string{"Sorting", "Styling tips"}, svc.Features)
	assert.True(t, svc.Image.IsZero())
}
