package models

import (
	"encoding/json"
	"strings"
)

type ImageKind string

const (
	ImageKindURL    ImageKind = "url"    // постоянная ссылка на объект в хранилище
	ImageKindInline ImageKind = "inline" // самодостаточная data-URL строка
)

const inlinePrefix = "data:"

// ImageRef представляет изображение сущности: либо публичный URL,
// либо инлайн-кодированная строка (data URL). В БД и JSON хранится
// как непрозрачная строка, вид определяется по префиксу.
type ImageRef struct {
	value string
}

func ImageFromString(s string) ImageRef {
	return ImageRef{value: s}
}

func (r ImageRef) Kind() ImageKind {
	if strings.HasPrefix(r.value, inlinePrefix) {
		return ImageKindInline
	}
	return ImageKindURL
}

func (r ImageRef) String() string {
	return r.value
}

func (r ImageRef) IsZero() bool {
	return r.value == ""
}

func (r ImageRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.value)
}

func (r *ImageRef) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &r.value)
}
