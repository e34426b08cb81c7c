package syncstore

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vintoura/internal/domain/models"
	"vintoura/internal/notify"
	"vintoura/internal/remote"
)

type MockDatabase struct {
	mock.Mock
}

func (m *MockDatabase) Select(ctx context.Context, collection string, opts remote.SelectOptions) ([]remote.Row, error) {
	args := m.Called(ctx, collection, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]remote.Row), args.Error(1)
}

func (m *MockDatabase) Insert(ctx context.Context, collection string, row remote.Row) (remote.Row, error) {
	args := m.Called(ctx, collection, row)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(remote.Row), args.Error(1)
}

func (m *MockDatabase) Update(ctx context.Context, collection string, key string, row remote.Row) (remote.Row, error) {
	args := m.Called(ctx, collection, key, row)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(remote.Row), args.Error(1)
}

func (m *MockDatabase) Delete(ctx context.Context, collection string, key string) error {
	args := m.Called(ctx, collection, key)
	return args.Error(0)
}

var listOpts = remote.SelectOptions{
	OrderBy:    remote.CreatedAtColumn,
	Descending: true,
}

func collectionRow(id uuid.UUID, title string) remote.Row {
	return remote.Row{
		"id":         id.String(),
		"title":      title,
		"image":      "https://cdn.example.com/collections/" + id.String() + ".jpg",
		"tags":       []any{"casual", "spring"},
		"created_at": "2026-08-01T10:00:00Z",
		"updated_at": "2026-08-01T10:00:00Z",
	}
}

func collectionFixture(title string) models.FeaturedCollection {
	return models.FeaturedCollection{
		Title: title,
		Image: models.ImageFromString("https://cdn.example.com/new.jpg"),
		Tags:  []string{"casual"},
	}
}

func serviceFixture(title string, features []string) models.Service {
	return models.Service{
		Title:       title,
		Description: "Полный разбор гардероба",
		Features:    features,
	}
}

func hasUpdatedAt(row remote.Row) bool {
	_, ok := row[remote.UpdatedAtColumn]
	return ok
}

func TestCollectionStore_Fetch(t *testing.T) {
	ctx := context.Background()

	firstID := uuid.New()
	secondID := uuid.New()
	rows := []remote.Row{
		collectionRow(firstID, "Spring Elegance"),
		collectionRow(secondID, "Evening Glamour"),
	}

	t.Run("successful fetch replaces cache", func(t *testing.T) {
		mockDB := new(MockDatabase)
		rec := notify.NewRecorder()
		store := NewCollectionStore(slog.Default(), mockDB, rec)

		require.True(t, store.Loading())

		mockDB.On("Select", ctx, collectionsTable, listOpts).Return(rows, nil).Once()

		err := store.Fetch(ctx)
		require.NoError(t, err)

		got := store.Collections()
		require.Len(t, got, 2)
		assert.Equal(t, firstID, got[0].ID)
		assert.Equal(t, "Spring Elegance", got[0].Title)
		assert.Equal(t, []string{"casual", "spring"}, got[0].Tags)
		assert.Equal(t, secondID, got[1].ID)
		assert.False(t, store.Loading())
		assert.Empty(t, rec.All())

		mockDB.AssertExpectations(t)
	})

	t.Run("repeated fetch yields the same data", func(t *testing.T) {
		mockDB := new(MockDatabase)
		rec := notify.NewRecorder()
		store := NewCollectionStore(slog.Default(), mockDB, rec)

		mockDB.On("Select", ctx, collectionsTable, listOpts).Return(rows, nil).Twice()

		require.NoError(t, store.Fetch(ctx))
		first := store.Collections()

		require.NoError(t, store.Refetch(ctx))
		second := store.Collections()

		assert.Equal(t, first, second)
		mockDB.AssertExpectations(t)
	})

	t.Run("fetch error keeps previous cache and notifies", func(t *testing.T) {
		mockDB := new(MockDatabase)
		rec := notify.NewRecorder()
		store := NewCollectionStore(slog.Default(), mockDB, rec)

		mockDB.On("Select", ctx, collectionsTable, listOpts).Return(rows, nil).Once()
		require.NoError(t, store.Fetch(ctx))

		mockDB.On("Select", ctx, collectionsTable, listOpts).
			Return(nil, errors.New("connection refused")).Once()

		err := store.Fetch(ctx)
		require.Error(t, err)

		// Кэш от предыдущей загрузки не тронут
		assert.Len(t, store.Collections(), 2)
		assert.False(t, store.Loading())

		last, ok := rec.Last()
		require.True(t, ok)
		assert.Equal(t, notify.KindError, last.Kind)
		assert.Equal(t, "Error", last.Title)
		assert.Equal(t, "Failed to load featured collections", last.Description)

		mockDB.AssertExpectations(t)
	})
}

func TestCollectionStore_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("created row is prepended", func(t *testing.T) {
		mockDB := new(MockDatabase)
		rec := notify.NewRecorder()
		store := NewCollectionStore(slog.Default(), mockDB, rec)

		existingID := uuid.New()
		mockDB.On("Select", ctx, collectionsTable, listOpts).
			Return([]remote.Row{collectionRow(existingID, "Old Collection")}, nil).Once()
		require.NoError(t, store.Fetch(ctx))

		newID := uuid.New()
		mockDB.On("Insert", ctx, collectionsTable, mock.AnythingOfType("remote.Row")).
			Return(collectionRow(newID, "Summer Breeze"), nil).Once()

		created, err := store.Add(ctx, collectionFixture("Summer Breeze"))
		require.NoError(t, err)
		assert.Equal(t, newID, created.ID)

		got := store.Collections()
		require.Len(t, got, 2)
		assert.Equal(t, newID, got[0].ID)
		assert.Equal(t, existingID, got[1].ID)

		last, ok := rec.Last()
		require.True(t, ok)
		assert.Equal(t, notify.KindSuccess, last.Kind)
		assert.Equal(t, "Featured collection added successfully", last.Description)

		mockDB.AssertExpectations(t)
	})

	t.Run("insert error leaves cache untouched", func(t *testing.T) {
		mockDB := new(MockDatabase)
		rec := notify.NewRecorder()
		store := NewCollectionStore(slog.Default(), mockDB, rec)

		mockDB.On("Insert", ctx, collectionsTable, mock.AnythingOfType("remote.Row")).
			Return(nil, errors.New("insert failed")).Once()

		_, err := store.Add(ctx, collectionFixture("Doomed"))
		require.Error(t, err)
		assert.Empty(t, store.Collections())

		last, ok := rec.Last()
		require.True(t, ok)
		assert.Equal(t, notify.KindError, last.Kind)
		assert.Equal(t, "Failed to add featured collection", last.Description)

		mockDB.AssertExpectations(t)
	})
}

func TestCollectionStore_Update(t *testing.T) {
	ctx := context.Background()

	mockDB := new(MockDatabase)
	rec := notify.NewRecorder()
	store := NewCollectionStore(slog.Default(), mockDB, rec)

	firstID := uuid.New()
	secondID := uuid.New()
	mockDB.On("Select", ctx, collectionsTable, listOpts).Return([]remote.Row{
		collectionRow(firstID, "First"),
		collectionRow(secondID, "Second"),
	}, nil).Once()
	require.NoError(t, store.Fetch(ctx))

	updatedRow := collectionRow(secondID, "Second Renamed")
	mockDB.On("Update", ctx, collectionsTable, secondID.String(), mock.MatchedBy(func(row remote.Row) bool {
		return row["title"] == "Second Renamed" && hasUpdatedAt(row)
	})).Return(updatedRow, nil).Once()

	updated, err := store.Update(ctx, secondID, remote.Row{"title": "Second Renamed"})
	require.NoError(t, err)
	assert.Equal(t, secondID, updated.ID)

	// Обновилась только запись с совпавшим ключом, позиция сохранена
	got := store.Collections()
	require.Len(t, got, 2)
	assert.Equal(t, "First", got[0].Title)
	assert.Equal(t, "Second Renamed", got[1].Title)
	assert.Equal(t, secondID, got[1].ID)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.KindSuccess, last.Kind)
	assert.Equal(t, "Featured collection updated successfully", last.Description)

	mockDB.AssertExpectations(t)
}

func TestCollectionStore_Remove(t *testing.T) {
	ctx := context.Background()

	firstID := uuid.New()
	secondID := uuid.New()

	t.Run("only the matching entry is removed", func(t *testing.T) {
		mockDB := new(MockDatabase)
		rec := notify.NewRecorder()
		store := NewCollectionStore(slog.Default(), mockDB, rec)

		mockDB.On("Select", ctx, collectionsTable, listOpts).Return([]remote.Row{
			collectionRow(firstID, "First"),
			collectionRow(secondID, "Second"),
		}, nil).Once()
		require.NoError(t, store.Fetch(ctx))

		mockDB.On("Delete", ctx, collectionsTable, firstID.String()).Return(nil).Once()

		require.NoError(t, store.Remove(ctx, firstID))

		got := store.Collections()
		require.Len(t, got, 1)
		assert.Equal(t, secondID, got[0].ID)

		last, ok := rec.Last()
		require.True(t, ok)
		assert.Equal(t, notify.KindSuccess, last.Kind)
		assert.Equal(t, "Featured collection removed successfully", last.Description)

		mockDB.AssertExpectations(t)
	})

	t.Run("delete error leaves cache untouched", func(t *testing.T) {
		mockDB := new(MockDatabase)
		rec := notify.NewRecorder()
		store := NewCollectionStore(slog.Default(), mockDB, rec)

		mockDB.On("Select", ctx, collectionsTable, listOpts).Return([]remote.Row{
			collectionRow(firstID, "First"),
			collectionRow(secondID, "Second"),
		}, nil).Once()
		require.NoError(t, store.Fetch(ctx))

		mockDB.On("Delete", ctx, collectionsTable, firstID.String()).
			Return(errors.New("delete failed")).Once()

		err := store.Remove(ctx, firstID)
		require.Error(t, err)
		assert.Len(t, store.Collections(), 2)

		last, ok := rec.Last()
		require.True(t, ok)
		assert.Equal(t, notify.KindError, last.Kind)
		assert.Equal(t, "Failed to remove featured collection", last.Description)

		mockDB.AssertExpectations(t)
	})
}

func TestGalleryStore_FailureIsolation(t *testing.T) {
	ctx := context.Background()

	// Ошибка одного стора не задевает кэш другого
	mockDB := new(MockDatabase)
	rec := notify.NewRecorder()

	collections := NewCollectionStore(slog.Default(), mockDB, rec)
	gallery := NewGalleryStore(slog.Default(), mockDB, rec)

	collectionID := uuid.New()
	mockDB.On("Select", ctx, collectionsTable, listOpts).
		Return([]remote.Row{collectionRow(collectionID, "Stable")}, nil).Once()
	require.NoError(t, collections.Fetch(ctx))

	mockDB.On("Select", ctx, galleryTable, listOpts).
		Return(nil, errors.New("timeout")).Once()

	err := gallery.Fetch(ctx)
	require.Error(t, err)

	assert.Len(t, collections.Collections(), 1)
	assert.Empty(t, gallery.Items())
	assert.False(t, gallery.Loading())

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "Failed to load gallery items", last.Description)

	mockDB.AssertExpectations(t)
}

func TestGalleryStore_Update(t *testing.T) {
	ctx := context.Background()

	mockDB := new(MockDatabase)
	rec := notify.NewRecorder()
	store := NewGalleryStore(slog.Default(), mockDB, rec)

	id := uuid.New()
	mockDB.On("Select", ctx, galleryTable, listOpts).Return([]remote.Row{
		{
			"id":         id.String(),
			"title":      "Editorial Look",
			"image":      "https://cdn.example.com/gallery/1.jpg",
			"category":   "editorial",
			"created_at": "2026-08-01T10:00:00Z",
		},
	}, nil).Once()
	require.NoError(t, store.Fetch(ctx))

	mockDB.On("Update", ctx, galleryTable, id.String(), mock.MatchedBy(func(row remote.Row) bool {
		return row["category"] == "bridal" && hasUpdatedAt(row)
	})).Return(remote.Row{
		"id":       id.String(),
		"title":    "Editorial Look",
		"image":    "https://cdn.example.com/gallery/1.jpg",
		"category": "bridal",
	}, nil).Once()

	updated, err := store.Update(ctx, id, remote.Row{"category": "bridal"})
	require.NoError(t, err)
	assert.Equal(t, "bridal", updated.Category)

	got := store.Items()
	require.Len(t, got, 1)
	assert.Equal(t, "bridal", got[0].Category)

	mockDB.AssertExpectations(t)
}

func TestServiceStore_Add_FiltersBlankFeatures(t *testing.T) {
	ctx := context.Background()

	mockDB := new(MockDatabase)
	rec := notify.NewRecorder()
	store := NewServiceStore(slog.Default(), mockDB, rec)

	id := uuid.New()
	mockDB.On("Insert", ctx, servicesTable, mock.MatchedBy(func(row remote.Row) bool {
		features, ok := row["features"].([]any)
		return ok && len(features) == 2 &&
			features[0] == "Sorting" && features[1] == "Styling tips"
	})).Return(remote.Row{
		"id":          id.String(),
		"title":       "Асистент Гардероба",
		"description": "Полный разбор гардероба",
		"features":    []any{"Sorting", "Styling tips"},
		"image":       "",
	}, nil).Once()

	created, err := store.Add(ctx, serviceFixture("Асистент Гардероба", []string{"Sorting", "Styling tips", ""}))
	require.NoError(t, err)

	assert.Equal(t, []string{"Sorting", "Styling tips"}, created.Features)

	got := store.Services()
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.KindSuccess, last.Kind)
	assert.Equal(t, "Service added successfully", last.Description)

	mockDB.AssertExpectations(t)
}

func TestSettingsStore(t *testing.T) {
	ctx := context.Background()

	settingsID := uuid.New()
	settingsRow := remote.Row{
		"id":              settingsID.String(),
		"site_name":       "Vintoura",
		"description":     "Where elegance meets confidence",
		"logo":            "",
		"primary_color":   "#f43f5e",
		"secondary_color": "#6d28d9",
		"currency":        "USD",
	}

	t.Run("update before fetch is rejected silently", func(t *testing.T) {
		mockDB := new(MockDatabase)
		rec := notify.NewRecorder()
		store := NewSettingsStore(slog.Default(), mockDB, rec)

		_, err := store.Update(ctx, remote.Row{"site_name": "New Name"})
		require.ErrorIs(t, err, ErrSettingsNotLoaded)

		// Без уведомления и без похода в хранилище
		assert.Empty(t, rec.All())
		mockDB.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("fetch reads the single row", func(t *testing.T) {
		mockDB := new(MockDatabase)
		rec := notify.NewRecorder()
		store := NewSettingsStore(slog.Default(), mockDB, rec)

		mockDB.On("Select", ctx, settingsTable, remote.SelectOptions{Limit: 1}).
			Return([]remote.Row{settingsRow}, nil).Once()

		require.NoError(t, store.Fetch(ctx))

		got := store.Settings()
		require.NotNil(t, got)
		assert.Equal(t, settingsID, got.ID)
		assert.Equal(t, "Vintoura", got.SiteName)
		assert.Equal(t, "USD", got.Currency)
		assert.False(t, store.Loading())

		mockDB.AssertExpectations(t)
	})

	t.Run("empty table is a fetch error", func(t *testing.T) {
		mockDB := new(MockDatabase)
		rec := notify.NewRecorder()
		store := NewSettingsStore(slog.Default(), mockDB, rec)

		mockDB.On("Select", ctx, settingsTable, remote.SelectOptions{Limit: 1}).
			Return([]remote.Row{}, nil).Once()

		err := store.Fetch(ctx)
		require.Error(t, err)
		assert.Nil(t, store.Settings())

		last, ok := rec.Last()
		require.True(t, ok)
		assert.Equal(t, "Failed to load site settings", last.Description)

		mockDB.AssertExpectations(t)
	})

	t.Run("update after fetch replaces cached settings", func(t *testing.T) {
		mockDB := new(MockDatabase)
		rec := notify.NewRecorder()
		store := NewSettingsStore(slog.Default(), mockDB, rec)

		mockDB.On("Select", ctx, settingsTable, remote.SelectOptions{Limit: 1}).
			Return([]remote.Row{settingsRow}, nil).Once()
		require.NoError(t, store.Fetch(ctx))

		updatedRow := remote.Row{
			"id":              settingsID.String(),
			"site_name":       "Vintoura Studio",
			"description":     "Where elegance meets confidence",
			"logo":            "",
			"primary_color":   "#f43f5e",
			"secondary_color": "#6d28d9",
			"currency":        "EUR",
		}
		mockDB.On("Update", ctx, settingsTable, settingsID.String(), mock.MatchedBy(func(row remote.Row) bool {
			return row["site_name"] == "Vintoura Studio" && hasUpdatedAt(row)
		})).Return(updatedRow, nil).Once()

		updated, err := store.Update(ctx, remote.Row{"site_name": "Vintoura Studio"})
		require.NoError(t, err)
		assert.Equal(t, "Vintoura Studio", updated.SiteName)
		assert.Equal(t, "EUR", updated.Currency)

		got := store.Settings()
		require.NotNil(t, got)
		assert.Equal(t, "Vintoura Studio", got.SiteName)

		last, ok := rec.Last()
		require.True(t, ok)
		assert.Equal(t, notify.KindSuccess, last.Kind)
		assert.Equal(t, "Settings updated successfully", last.Description)

		mockDB.AssertExpectations(t)
	})
}
