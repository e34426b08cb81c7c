package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageRef_Kind(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  ImageKind
	}{
		{"public url", "https://cdn.example.com/look.png", ImageKindURL},
		{"relative path", "/files/images/look.png", ImageKindURL},
		{"data url", "data:image/png;base64,iVBOR", ImageKindInline},
		{"empty string", "", ImageKindURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ImageFromString(tt.value).Kind())
		})
	}
}

func TestImageRef_JSONRoundTrip(t *testing.T) {
	ref := ImageFromString("data:image/jpeg;base64,/9j/4AA")

	data, err := json.Marshal(ref)
	require.NoError(t, err)
	assert.Equal(t, `"data:image/jpeg;base64,/9j/4AA"`, string(data))

	var decoded ImageRef
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ref, decoded)
	assert.Equal(t, ImageKindInline, decoded.Kind())
}

func TestImageRef_IsZero(t *testing.T) {
	assert.True(t, ImageRef{}.IsZero())
	assert.False(t, ImageFromString("x").IsZero())
}

func TestFilterBlankFeatures(t *testing.T) {
	tests := []struct {
		name     string
		features []string
		want     []string
	}{
		{
			name:     "trailing blank from the form",
			features: []string{"Sorting", "Styling tips", ""},
			want:     []string{"Sorting", "Styling tips"},
		},
		{
			name:     "whitespace only counts as blank",
			features: []string{"  ", "Color analysis", "\t"},
			want:     []string{"Color analysis"},
		},
		{
			name:     "order is preserved",
			features: []string{"b", "", "a", "c"},
			want:     []string{"b", "a", "c"},
		},
		{
			name:     "nothing to drop",
			features: []string{"a", "b"},
			want:     []string{"a", "b"},
		},
		{
			name:     "all blank",
			features: []string{"", " "},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterBlankFeatures(tt.features))
		})
	}
}
