package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"vintoura/internal/lib/logger/sl"
	"vintoura/internal/notify"
	"vintoura/internal/remote"
)

// Uploader загружает изображение в бакет объектного хранилища и
// отдает наружу постоянный публичный URL. Локальное превью ставится
// сразу после чтения файла, до завершения загрузки.
type Uploader struct {
	log      *slog.Logger
	storage  remote.ObjectStorage
	notifier notify.Notifier
	bucket   string
	onImage  func(value string)

	mu        sync.Mutex
	preview   string
	uploading bool
}

func NewUploader(log *slog.Logger, storage remote.ObjectStorage, notifier notify.Notifier, bucket string, onImage func(string)) *Uploader {
	return &Uploader{
		log:      log,
		storage:  storage,
		notifier: notifier,
		bucket:   bucket,
		onImage:  onImage,
	}
}

// Ingest валидирует файл, показывает локальное превью и загружает
// байты в бакет по пути, устойчивому к коллизиям. Колбэк вызывается
// один раз с публичным URL после успешной загрузки.
//
// При ошибке загрузки превью от немедленного локального декодирования
// остается видимым, хотя в хранилище ничего не записано. Это известная
// несогласованность исходного поведения, вызывающая сторона обязана
// её переживать.
func (u *Uploader) Ingest(ctx context.Context, file *multipart.FileHeader) error {
	const op = "ingest.Uploader.Ingest"

	log := u.log.With(slog.String("op", op), slog.String("filename", file.Filename))

	data, mime, err := readImage(file, UploadSizeLimit)
	if err != nil {
		log.Warn("image rejected", sl.Err(err))
		u.notifier.Notify(notify.KindError, "Upload Error", rejectionMessage(err, UploadSizeLimit))
		return fmt.Errorf("%s: %w", op, err)
	}

	u.mu.Lock()
	u.preview = dataURL(mime, data)
	u.uploading = true
	u.mu.Unlock()

	path := objectPath(file.Filename)

	if err := u.storage.UploadObject(ctx, u.bucket, path, data, false); err != nil {
		u.mu.Lock()
		u.uploading = false
		u.mu.Unlock()

		log.Error("failed to upload image", sl.Err(err))
		u.notifier.Notify(notify.KindError, "Upload Error", "Upload failed: "+err.Error())

		return fmt.Errorf("%s: %w", op, err)
	}

	url := u.storage.PublicURL(u.bucket, path)

	u.mu.Lock()
	u.preview = url
	u.uploading = false
	u.mu.Unlock()

	u.onImage(url)
	u.notifier.Notify(notify.KindSuccess, "Success", "Image uploaded successfully")

	log.Info("image uploaded", slog.String("path", path))

	return nil
}

// RemoveImage сбрасывает превью и сигнализирует "нет изображения".
func (u *Uploader) RemoveImage() {
	u.mu.Lock()
	u.preview = ""
	u.uploading = false
	u.mu.Unlock()

	u.onImage("")
}

func (u *Uploader) Preview() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.preview
}

func (u *Uploader) Uploading() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.uploading
}

// objectPath собирает путь объекта из текущего времени и случайного
// суффикса, сохраняя расширение исходного файла.
func objectPath(filename string) string {
	return fmt.Sprintf("uploads/%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), filepath.Ext(filename))
}

func rejectionMessage(err error, sizeLimit int64) string {
	switch {
	case errors.Is(err, ErrNotAnImage):
		return "Please select an image file"
	case errors.Is(err, ErrTooLarge):
		return fmt.Sprintf("File size must be less than %dMB", sizeLimit/(1024*1024))
	default:
		return "Failed to process image"
	}
}
