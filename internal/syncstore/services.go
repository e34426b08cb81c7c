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

const servicesTable = "services"

// ServiceStore — кэш услуг со сквозной записью.
type ServiceStore struct {
	log      *slog.Logger
	db       remote.Database
	notifier notify.Notifier

	mu       sync.RWMutex
	services []models.Service
	loading  bool
}

func NewServiceStore(log *slog.Logger, db remote.Database, notifier notify.Notifier) *ServiceStore {
	return &ServiceStore{
		log:      log,
		db:       db,
		notifier: notifier,
		loading:  true,
	}
}

func (s *ServiceStore) Fetch(ctx context.Context) error {
	const op = "syncstore.ServiceStore.Fetch"

	log := s.log.With(slog.String("op", op))

	rows, err := s.db.Select(ctx, servicesTable, remote.SelectOptions{
		OrderBy:    remote.CreatedAtColumn,
		Descending: true,
	})

	var services []models.Service
	if err == nil {
		services, err = remote.DecodeRows[models.Service](rows)
	}

	s.mu.Lock()
	if err == nil {
		s.services = services
	}
	s.loading = false
	s.mu.Unlock()

	if err != nil {
		log.Error("failed to fetch services", sl.Err(err))
		s.notifier.Notify(notify.KindError, "Error", "Failed to load services")
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *ServiceStore) Refetch(ctx context.Context) error {
	return s.Fetch(ctx)
}

// Add вставляет услугу. Пустые позиции features отбрасываются до
// записи в хранилище.
func (s *ServiceStore) Add(ctx context.Context, service models.Service) (models.Service, error) {
	const op = "syncstore.ServiceStore.Add"

	log := s.log.With(slog.String("op", op), slog.String("title", service.Title))

	service.Features = models.FilterBlankFeatures(service.Features)

	row, err := remote.EncodeRow(service)

	var created remote.Row
	if err == nil {
		created, err = s.db.Insert(ctx, servicesTable, row)
	}

	var out models.Service
	if err == nil {
		err = remote.DecodeRow(created, &out)
	}

	if err != nil {
		log.Error("failed to add service", sl.Err(err))
		s.notifier.Notify(notify.KindError, "Error", "Failed to add service")
		return models.Service{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.services = append([]models.Service{out}, s.services...)
	s.mu.Unlock()

	s.notifier.Notify(notify.KindSuccess, "Success", "Service added successfully")

	return out, nil
}

func (s *ServiceStore) Update(ctx context.Context, id uuid.UUID, updates remote.Row) (models.Service, error) {
	const op = "syncstore.ServiceStore.Update"

	log := s.log.With(slog.String("op", op), slog.String("id", id.String()))

	withStamp := make(remote.Row, len(updates)+1)
	for k, v := range updates {
		withStamp[k] = v
	}
	withStamp[remote.UpdatedAtColumn] = time.Now().UTC().Format(time.RFC3339Nano)

	updated, err := s.db.Update(ctx, servicesTable, id.String(), withStamp)

	var out models.Service
	if err == nil {
		err = remote.DecodeRow(updated, &out)
	}

	if err != nil {
		log.Error("failed to update service", sl.Err(err))
		s.notifier.Notify(notify.KindError, "Error", "Failed to update service")
		return models.Service{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	for i := range s.services {
		if s.services[i].ID == id {
			s.services[i] = out
			break
		}
	}
	s.mu.Unlock()

	s.notifier.Notify(notify.KindSuccess, "Success", "Service updated successfully")

	return out, nil
}

func (s *ServiceStore) Remove(ctx context.Context, id uuid.UUID) error {
	const op = "syncstore.ServiceStore.Remove"

	log := s.log.With(slog.String("op", op), slog.String("id", id.String()))

	if err := s.db.Delete(ctx, servicesTable, id.String()); err != nil {
		log.Error("failed to remove service", sl.Err(err))
		s.notifier.Notify(notify.KindError, "Error", "Failed to remove service")
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	filtered := s.services[:0]
	for _, svc := range s.services {
		if svc.ID != id {
			filtered = append(filtered, svc)
		}
	}
	s.services = filtered
	s.mu.Unlock()

	s.notifier.Notify(notify.KindSuccess, "Success", "Service removed successfully")

	return nil
}

func (s *ServiceStore) Services() []models.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Service, len(s.services))
	copy(out, s.services)
	return out
}

func (s *ServiceStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}
