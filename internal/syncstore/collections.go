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

const collectionsTable = "featured_collections"

// CollectionStore — кэш подборок с сквозной записью в удаленное
// хранилище. Локальный список меняется только после подтверждения
// операции хранилищем.
type CollectionStore struct {
	log      *slog.Logger
	db       remote.Database
	notifier notify.Notifier

	mu          sync.RWMutex
	collections []models.FeaturedCollection
	loading     bool
}

func NewCollectionStore(log *slog.Logger, db remote.Database, notifier notify.Notifier) *CollectionStore {
	return &CollectionStore{
		log:      log,
		db:       db,
		notifier: notifier,
		loading:  true,
	}
}

// Fetch загружает все подборки, новые первыми, и целиком замещает кэш.
// При ошибке кэш остается прежним, пользователю уходит уведомление.
func (s *CollectionStore) Fetch(ctx context.Context) error {
	const op = "syncstore.CollectionStore.Fetch"

	log := s.log.With(slog.String("op", op))

	rows, err := s.db.Select(ctx, collectionsTable, remote.SelectOptions{
		OrderBy:    remote.CreatedAtColumn,
		Descending: true,
	})

	var collections []models.FeaturedCollection
	if err == nil {
		collections, err = remote.DecodeRows[models.FeaturedCollection](rows)
	}

	s.mu.Lock()
	if err == nil {
		s.collections = collections
	}
	s.loading = false
	s.mu.Unlock()

	if err != nil {
		log.Error("failed to fetch collections", sl.Err(err))
		s.notifier.Notify(notify.KindError, "Error", "Failed to load featured collections")
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Refetch — синоним Fetch для ручной инвалидации кэша.
func (s *CollectionStore) Refetch(ctx context.Context) error {
	return s.Fetch(ctx)
}

// Add вставляет подборку в хранилище и добавляет возвращенную запись
// в начало кэша. Ключ и таймстемпы назначает хранилище.
func (s *CollectionStore) Add(ctx context.Context, collection models.FeaturedCollection) (models.FeaturedCollection, error) {
	const op = "syncstore.CollectionStore.Add"

	log := s.log.With(slog.String("op", op), slog.String("title", collection.Title))

	created, err := s.insert(ctx, collection)
	if err != nil {
		log.Error("failed to add collection", sl.Err(err))
		s.notifier.Notify(notify.KindError, "Error", "Failed to add featured collection")
		return models.FeaturedCollection{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.collections = append([]models.FeaturedCollection{created}, s.collections...)
	s.mu.Unlock()

	s.notifier.Notify(notify.KindSuccess, "Success", "Featured collection added successfully")

	return created, nil
}

// Update применяет частичное обновление по ключу и замещает
// соответствующую запись кэша. К полям добавляется свежий updated_at.
func (s *CollectionStore) Update(ctx context.Context, id uuid.UUID, updates remote.Row) (models.FeaturedCollection, error) {
	const op = "syncstore.CollectionStore.Update"

	log := s.log.With(slog.String("op", op), slog.String("id", id.String()))

	updated, err := s.update(ctx, id, updates)
	if err != nil {
		log.Error("failed to update collection", sl.Err(err))
		s.notifier.Notify(notify.KindError, "Error", "Failed to update featured collection")
		return models.FeaturedCollection{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	for i := range s.collections {
		if s.collections[i].ID == id {
			s.collections[i] = updated
			break
		}
	}
	s.mu.Unlock()

	s.notifier.Notify(notify.KindSuccess, "Success", "Featured collection updated successfully")

	return updated, nil
}

// Remove удаляет подборку по ключу и выфильтровывает её из кэша.
func (s *CollectionStore) Remove(ctx context.Context, id uuid.UUID) error {
	const op = "syncstore.CollectionStore.Remove"

	log := s.log.With(slog.String("op", op), slog.String("id", id.String()))

	if err := s.db.Delete(ctx, collectionsTable, id.String()); err != nil {
		log.Error("failed to remove collection", sl.Err(err))
		s.notifier.Notify(notify.KindError, "Error", "Failed to remove featured collection")
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	filtered := s.collections[:0]
	for _, c := range s.collections {
		if c.ID != id {
			filtered = append(filtered, c)
		}
	}
	s.collections = filtered
	s.mu.Unlock()

	s.notifier.Notify(notify.KindSuccess, "Success", "Featured collection removed successfully")

	return nil
}

// Collections возвращает снимок кэша.
func (s *CollectionStore) Collections() []models.FeaturedCollection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.FeaturedCollection, len(s.collections))
	copy(out, s.collections)
	return out
}

func (s *CollectionStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *CollectionStore) insert(ctx context.Context, collection models.FeaturedCollection) (models.FeaturedCollection, error) {
	row, err := remote.EncodeRow(collection)
	if err != nil {
		return models.FeaturedCollection{}, err
	}

	created, err := s.db.Insert(ctx, collectionsTable, row)
	if err != nil {
		return models.FeaturedCollection{}, err
	}

	var out models.FeaturedCollection
	if err := remote.DecodeRow(created, &out); err != nil {
		return models.FeaturedCollection{}, err
	}
	return out, nil
}

func (s *CollectionStore) update(ctx context.Context, id uuid.UUID, updates remote.Row) (models.FeaturedCollection, error) {
	withStamp := make(remote.Row, len(updates)+1)
	for k, v := range updates {
		withStamp[k] = v
	}
	withStamp[remote.UpdatedAtColumn] = time.Now().UTC().Format(time.RFC3339Nano)

	updated, err := s.db.Update(ctx, collectionsTable, id.String(), withStamp)
	if err != nil {
		return models.FeaturedCollection{}, err
	}

	var out models.FeaturedCollection
	if err := remote.DecodeRow(updated, &out); err != nil {
		return models.FeaturedCollection{}, err
	}
	return out, nil
}
