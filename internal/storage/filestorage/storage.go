package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalObjectStorage реализация объектного хранилища на локальной
// файловой системе. Бакет — подкаталог базовой директории, публичный
// URL собирается из базового URL, бакета и пути объекта.
type LocalObjectStorage struct {
	baseDir string // Базовый каталог для хранения (например: "./uploads")
	baseURL string // Базовый URL для доступа к файлам (например: "http://localhost:8080/files")
}

func NewLocalObjectStorage(baseDir, baseURL string) (*LocalObjectStorage, error) {
	// Создаем директорию, если она не существует
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalObjectStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalObjectStorage) UploadObject(ctx context.Context, bucket, path string, data []byte, allowOverwrite bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath := filepath.Join(s.baseDir, bucket, filepath.FromSlash(path))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !allowOverwrite {
		// O_EXCL гарантирует отказ при коллизии пути
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	dst, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := dst.Write(data); err != nil {
		dst.Close()
		_ = os.Remove(fullPath)
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := dst.Close(); err != nil {
		_ = os.Remove(fullPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	return nil
}

// DeleteObject удаляет объект из хранилища
func (s *LocalObjectStorage) DeleteObject(ctx context.Context, bucket, path string) error {
	return os.Remove(filepath.Join(s.baseDir, bucket, filepath.FromSlash(path)))
}

// PublicURL возвращает публичный URL объекта
func (s *LocalObjectStorage) PublicURL(bucket, path string) string {
	return s.baseURL + "/" + bucket + "/" + strings.TrimLeft(path, "/")
}

// BaseDir возвращает базовый каталог хранилища
func (s *LocalObjectStorage) BaseDir() string {
	return s.baseDir
}
