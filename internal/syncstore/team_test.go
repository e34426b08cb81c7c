package syncstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vintoura/internal/domain/models"
)

func setupTeamStore() (*TeamStore, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	return NewTeamStore(slog.Default(), db, 24*time.Hour), mock
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestTeamStore_List(t *testing.T) {
	ctx := context.Background()
	sessionID := "session-1"

	t.Run("missing roster reads as empty", func(t *testing.T) {
		store, mock := setupTeamStore()

		mock.ExpectGet(rosterKey(sessionID)).RedisNil()

		members, err := store.List(ctx, sessionID)
		require.NoError(t, err)
		assert.Empty(t, members)
		assert.NotNil(t, members)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("existing roster", func(t *testing.T) {
		store, mock := setupTeamStore()

		roster := []models.TeamMember{
			{ID: "1", Name: "Anna", Role: "Lead Stylist"},
			{ID: "2", Name: "Maria", Role: "Color Consultant"},
		}
		mock.ExpectGet(rosterKey(sessionID)).SetVal(string(mustMarshal(t, roster)))

		members, err := store.List(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, roster, members)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis error", func(t *testing.T) {
		store, mock := setupTeamStore()

		mock.ExpectGet(rosterKey(sessionID)).SetErr(redis.ErrClosed)

		_, err := store.List(ctx, sessionID)
		assert.ErrorIs(t, err, redis.ErrClosed)
	})
}

func TestTeamStore_Add(t *testing.T) {
	ctx := context.Background()
	sessionID := "session-1"

	t.Run("assigns timestamp key and saves roster", func(t *testing.T) {
		store, mock := setupTeamStore()

		mock.ExpectGet(rosterKey(sessionID)).RedisNil()
		// Ключ выдается по текущему времени, точное значение непредсказуемо
		mock.Regexp().ExpectSet(rosterKey(sessionID), `\[\{"id":"\d+","name":"Anna".*`, 24*time.Hour).SetVal("OK")

		before := time.Now().UnixMilli()
		member, err := store.Add(ctx, sessionID, models.TeamMember{Name: "Anna", Role: "Lead Stylist"})
		require.NoError(t, err)

		assert.Equal(t, "Anna", member.Name)

		// Ключ — таймстемп момента добавления
		id, err := strconv.ParseInt(member.ID, 10, 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, id, before)
		assert.LessOrEqual(t, id, time.Now().UnixMilli())

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("save error is propagated", func(t *testing.T) {
		store, mock := setupTeamStore()

		mock.ExpectGet(rosterKey(sessionID)).RedisNil()
		mock.Regexp().ExpectSet(rosterKey(sessionID), `.*`, 24*time.Hour).SetErr(redis.ErrClosed)

		_, err := store.Add(ctx, sessionID, models.TeamMember{Name: "Anna"})
		assert.ErrorIs(t, err, redis.ErrClosed)
	})
}

func TestTeamStore_Remove(t *testing.T) {
	ctx := context.Background()
	sessionID := "session-1"

	t.Run("removes exactly the matching member", func(t *testing.T) {
		store, mock := setupTeamStore()

		roster := []models.TeamMember{
			{ID: "1", Name: "Anna", Role: "Lead Stylist"},
			{ID: "2", Name: "Maria", Role: "Color Consultant"},
		}
		remaining := roster[1:]

		mock.ExpectGet(rosterKey(sessionID)).SetVal(string(mustMarshal(t, roster)))
		mock.ExpectSet(rosterKey(sessionID), mustMarshal(t, remaining), 24*time.Hour).SetVal("OK")

		require.NoError(t, store.Remove(ctx, sessionID, "1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown key saves roster unchanged", func(t *testing.T) {
		store, mock := setupTeamStore()

		roster := []models.TeamMember{{ID: "1", Name: "Anna"}}

		mock.ExpectGet(rosterKey(sessionID)).SetVal(string(mustMarshal(t, roster)))
		mock.ExpectSet(rosterKey(sessionID), mustMarshal(t, roster), 24*time.Hour).SetVal("OK")

		require.NoError(t, store.Remove(ctx, sessionID, "404"))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
