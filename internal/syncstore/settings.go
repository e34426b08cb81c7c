package syncstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"vintoura/internal/domain/models"
	"vintoura/internal/lib/logger/sl"
	"vintoura/internal/notify"
	"vintoura/internal/remote"
)

const settingsTable = "site_settings"

// ErrSettingsNotLoaded возвращается при попытке обновить настройки
// до того, как они были загружены.
var ErrSettingsNotLoaded = errors.New("site settings not loaded")

// SettingsStore — кэш единственной записи настроек сайта.
type SettingsStore struct {
	log      *slog.Logger
	db       remote.Database
	notifier notify.Notifier

	mu       sync.RWMutex
	settings *models.SiteSettings
	loading  bool
}

func NewSettingsStore(log *slog.Logger, db remote.Database, notifier notify.Notifier) *SettingsStore {
	return &SettingsStore{
		log:      log,
		db:       db,
		notifier: notifier,
		loading:  true,
	}
}

// Fetch читает ровно одну запись настроек.
func (s *SettingsStore) Fetch(ctx context.Context) error {
	const op = "syncstore.SettingsStore.Fetch"

	log := s.log.With(slog.String("op", op))

	rows, err := s.db.Select(ctx, settingsTable, remote.SelectOptions{Limit: 1})
	if err == nil && len(rows) == 0 {
		err = errors.New("no settings row")
	}

	var settings models.SiteSettings
	if err == nil {
		err = remote.DecodeRow(rows[0], &settings)
	}

	s.mu.Lock()
	if err == nil {
		s.settings = &settings
	}
	s.loading = false
	s.mu.Unlock()

	if err != nil {
		log.Error("failed to fetch site settings", sl.Err(err))
		s.notifier.Notify(notify.KindError, "Error", "Failed to load site settings")
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *SettingsStore) Refetch(ctx context.Context) error {
	return s.Fetch(ctx)
}

// Update применяет частичное обновление к загруженной записи.
// Пока настройки не загружены, обновлять нечего: возвращается
// ErrSettingsNotLoaded без уведомления.
func (s *SettingsStore) Update(ctx context.Context, updates remote.Row) (models.SiteSettings, error) {
	const op = "syncstore.SettingsStore.Update"

	log := s.log.With(slog.String("op", op))

	s.mu.RLock()
	current := s.settings
	s.mu.RUnlock()

	if current == nil {
		return models.SiteSettings{}, fmt.Errorf("%s: %w", op, ErrSettingsNotLoaded)
	}

	withStamp := make(remote.Row, len(updates)+1)
	for k, v := range updates {
		withStamp[k] = v
	}
	withStamp[remote.UpdatedAtColumn] = time.Now().UTC().Format(time.RFC3339Nano)

	updated, err := s.db.Update(ctx, settingsTable, current.ID.String(), withStamp)

	var out models.SiteSettings
	if err == nil {
		err = remote.DecodeRow(updated, &out)
	}

	if err != nil {
		log.Error("failed to update site settings", sl.Err(err))
		s.notifier.Notify(notify.KindError, "Error", "Failed to update settings")
		return models.SiteSettings{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.settings = &out
	s.mu.Unlock()

	s.notifier.Notify(notify.KindSuccess, "Success", "Settings updated successfully")

	return out, nil
}

// Settings возвращает снимок настроек, nil — если еще не загружены.
func (s *SettingsStore) Settings() *models.SiteSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return nil
	}
	out := *s.settings
	return &out
}

func (s *SettingsStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}
