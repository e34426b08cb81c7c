package syncstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"vintoura/internal/domain/models"
	"vintoura/internal/lib/logger/sl"
)

// TeamStore хранит состав команды в рамках сессии администратора.
// В отличие от остальных сущностей состав не персистентен: живет в
// Redis с TTL сессии, ключи членов команды выдаются по таймстемпу.
type TeamStore struct {
	log    *slog.Logger
	client redis.Cmdable
	ttl    time.Duration
}

func NewTeamStore(log *slog.Logger, client redis.Cmdable, ttl time.Duration) *TeamStore {
	return &TeamStore{
		log:    log,
		client: client,
		ttl:    ttl,
	}
}

// List возвращает состав команды сессии. Отсутствующий состав
// читается как пустой.
func (s *TeamStore) List(ctx context.Context, sessionID string) ([]models.TeamMember, error) {
	const op = "syncstore.TeamStore.List"

	raw, err := s.client.Get(ctx, rosterKey(sessionID)).Result()
	if err == redis.Nil {
		return []models.TeamMember{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var members []models.TeamMember
	if err := json.Unmarshal([]byte(raw), &members); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return members, nil
}

// Add добавляет члена команды, назначая ключ по текущему времени.
func (s *TeamStore) Add(ctx context.Context, sessionID string, member models.TeamMember) (models.TeamMember, error) {
	const op = "syncstore.TeamStore.Add"

	log := s.log.With(slog.String("op", op), slog.String("name", member.Name))

	members, err := s.List(ctx, sessionID)
	if err != nil {
		log.Error("failed to load roster", sl.Err(err))
		return models.TeamMember{}, fmt.Errorf("%s: %w", op, err)
	}

	member.ID = strconv.FormatInt(time.Now().UnixMilli(), 10)
	members = append(members, member)

	if err := s.save(ctx, sessionID, members); err != nil {
		log.Error("failed to save roster", sl.Err(err))
		return models.TeamMember{}, fmt.Errorf("%s: %w", op, err)
	}

	return member, nil
}

// Remove убирает члена команды по ключу.
func (s *TeamStore) Remove(ctx context.Context, sessionID, id string) error {
	const op = "syncstore.TeamStore.Remove"

	log := s.log.With(slog.String("op", op), slog.String("id", id))

	members, err := s.List(ctx, sessionID)
	if err != nil {
		log.Error("failed to load roster", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	filtered := members[:0]
	for _, m := range members {
		if m.ID != id {
			filtered = append(filtered, m)
		}
	}

	if err := s.save(ctx, sessionID, filtered); err != nil {
		log.Error("failed to save roster", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *TeamStore) save(ctx context.Context, sessionID string, members []models.TeamMember) error {
	data, err := json.Marshal(members)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, rosterKey(sessionID), data, s.ttl).Err()
}

func rosterKey(sessionID string) string {
	return "team:" + sessionID
}
