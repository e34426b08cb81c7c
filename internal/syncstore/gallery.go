package syncstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"vintoura/internal/domain/models"
	"vintoura/internal/lib/logger/sl"
	"vintoura/internal/notify"
	"vintoura/internal/remote"
)

const galleryTable = "gallery_items"

// GalleryStore — кэш работ портфолио со сквозной записью.
type GalleryStore struct {
	log      *slog.Logger
	db       remote.Database
	notifier notify.Notifier

	mu      sync.RWMutex
	items   []models.GalleryItem
	loading bool
}

func NewGalleryStore(log *slog.Logger, db remote.Database, notifier notify.Notifier) *GalleryStore {
	return &GalleryStore{
		log:      log,
		db:       db,
		notifier: notifier,
		loading:  true,
	}
}

func (s *GalleryStore) Fetch(ctx context.Context) error {
	const op = "syncstore.GalleryStore.Fetch"

	log := s.log.With(slog.String("op", op))

	rows, err := s.db.Select(ctx, galleryTable, remote.SelectOptions{
		OrderBy:    remote.CreatedAtColumn,
		Descending: true,
	})

	var items []models.GalleryItem
	if err == nil {
		items, err = remote.DecodeRows[models.GalleryItem](rows)
	}

	s.mu.Lock()
	if err == nil {
		s.items = items
	}
	s.loading = false
	s.mu.Unlock()

	if err != nil {
		log.Error("failed to fetch gallery items", sl.Err(err))
		s.notifier.Notify(notify.KindError, "Error", "Failed to load gallery items")
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *GalleryStore) Refetch(ctx context.Context) error {
	return s.Fetch(ctx)
}

func (s *GalleryStore) Add(ctx context.Context, item models.GalleryItem) (models.GalleryItem, error) {
	const op = "syncstore.GalleryStore.Add"

	log := s.log.With(slog.String("op", op), slog.String("title", item.Title))

	row, err := remote.EncodeRow(item)

	var created remote.Row
	if err == nil {
		created, err = s.db.Insert(ctx, galleryTable, row)
	}

	var out models.GalleryItem
	if err == nil {
		err = remote.DecodeRow(created, &out)
	}

	if err != nil {
		log.Error("failed to add gallery item", sl.Err(err))
		s.notifier.Notify(notify.KindError, "Error", "Failed to add gallery item")
		return models.GalleryItem{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.items = append([]models.GalleryItem{out}, s.items...)
	s.mu.Unlock()

	s.notifier.Notify(notify.KindSuccess, "Success", "Gallery item added successfully")

	return out, nil
}

func (s *GalleryStore) Update(ctx context.Context, id uuid.UUID, updates remote.Row) (models.GalleryItem, error) {
	const op = "syncstore.GalleryStore.Update"

	log := s.log.With(slog.String("op", op), slog.String("id", id.String()))

	withStamp := make(remote.Row, len(updates)+1)
	for k, v := range updates {
		withStamp[k] = v
	}
	withStamp[remote.UpdatedAtColumn] = time.Now().UTC().Format(time.RFC3339Nano)

	updated, err := s.db.Update(ctx, galleryTable, id.String(), withStamp)

	var out models.GalleryItem
	if err == nil {
		err = remote.DecodeRow(updated, &out)
	}

	if err != nil {
		log.Error("failed to update gallery item", sl.Err(err))
		s.notifier.Notify(notify.KindError, "Error", "Failed to update gallery item")
		return models.GalleryItem{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = out
			break
		}
	}
	s.mu.Unlock()

	s.notifier.Notify(notify.KindSuccess, "Success", "Gallery item updated successfully")

	return out, nil
}

func (s *GalleryStore) Remove(ctx context.Context, id uuid.UUID) error {
	const op = "syncstore.GalleryStore.Remove"

	log := s.log.With(slog.String("op", op), slog.String("id", id.String()))

	if err := s.db.Delete(ctx, galleryTable, id.String()); err != nil {
		log.Error("failed to remove gallery item", sl.Err(err))
		s.notifier.Notify(notify.KindError, "Error", "Failed to remove gallery item")
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	filtered := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			filtered = append(filtered, item)
		}
	}
	s.items = filtered
	s.mu.Unlock()

	s.notifier.Notify(notify.KindSuccess, "Success", "Gallery item removed successfully")

	return nil
}

func (s *GalleryStore) Items() []models.GalleryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.GalleryItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *GalleryStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}
