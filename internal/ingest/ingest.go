// Package ingest превращает выбранный файл изображения либо в
// постоянный URL в объектном хранилище, либо в самодостаточную
// data-URL строку. Оба варианта делят правила валидации, но лимит
// размера у инлайн-варианта жестче: закодированная строка дороже
// и в памяти, и на проводе.
package ingest

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// InlineSizeLimit — потолок для инлайн-кодирования, включительно.
	InlineSizeLimit = 5 * 1024 * 1024
	// UploadSizeLimit — потолок для загрузки в хранилище, включительно.
	UploadSizeLimit = 10 * 1024 * 1024
)

var (
	ErrNotAnImage = errors.New("file is not an image")
	ErrTooLarge   = errors.New("file size exceeds limit")
)

// readImage читает файл целиком, проверяя размер до чтения и тип
// по содержимому после. Возвращает байты и определенный MIME-тип.
func readImage(file *multipart.FileHeader, sizeLimit int64) ([]byte, string, error) {
	if file.Size > sizeLimit {
		return nil, "", ErrTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, "", ErrNotAnImage
	}

	return data, mime.String(), nil
}

// dataURL собирает инлайн-представление изображения.
func dataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
