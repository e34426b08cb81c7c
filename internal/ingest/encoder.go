package ingest

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"sync"

	"vintoura/internal/lib/logger/sl"
	"vintoura/internal/notify"
)

// Encoder кодирует изображение в самодостаточную data-URL строку.
// Сетевых вызовов нет: строка и есть конечный артефакт.
type Encoder struct {
	log      *slog.Logger
	notifier notify.Notifier
	onImage  func(value string)

	mu         sync.Mutex
	preview    string
	processing bool
}

func NewEncoder(log *slog.Logger, notifier notify.Notifier, onImage func(string)) *Encoder {
	return &Encoder{
		log:      log,
		notifier: notifier,
		onImage:  onImage,
	}
}

// Ingest валидирует файл и кодирует его в data URL. Колбэк вызывается
// один раз с закодированной строкой.
func (e *Encoder) Ingest(file *multipart.FileHeader) error {
	const op = "ingest.Encoder.Ingest"

	log := e.log.With(slog.String("op", op), slog.String("filename", file.Filename))

	e.mu.Lock()
	e.processing = true
	e.mu.Unlock()

	data, mime, err := readImage(file, InlineSizeLimit)
	if err != nil {
		e.mu.Lock()
		e.processing = false
		e.mu.Unlock()

		log.Warn("image rejected", sl.Err(err))
		e.notifier.Notify(notify.KindError, "Error", rejectionMessage(err, InlineSizeLimit))

		return fmt.Errorf("%s: %w", op, err)
	}

	encoded := dataURL(mime, data)

	e.mu.Lock()
	e.preview = encoded
	e.processing = false
	e.mu.Unlock()

	e.onImage(encoded)
	e.notifier.Notify(notify.KindSuccess, "Success", "Image uploaded successfully")

	return nil
}

// RemoveImage сбрасывает превью и сигнализирует "нет изображения".
func (e *Encoder) RemoveImage() {
	e.mu.Lock()
	e.preview = ""
	e.processing = false
	e.mu.Unlock()

	e.onImage("")
}

func (e *Encoder) Preview() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.preview
}

func (e *Encoder) Processing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.processing
}
