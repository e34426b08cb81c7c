package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"vintoura/internal/domain/models"
	"vintoura/internal/ingest"
	"vintoura/internal/lib/logger/sl"
	"vintoura/internal/metrics"
	"vintoura/internal/notify"
	"vintoura/internal/remote"
	"vintoura/internal/syncstore"
	"vintoura/internal/transport/http/dto"
	"vintoura/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	gocache "github.com/patrickmn/go-cache"
)

type CollectionStore interface {
	Fetch(ctx context.Context) error
	Refetch(ctx context.Context) error
	Add(ctx context.Context, collection models.FeaturedCollection) (models.FeaturedCollection, error)
	Update(ctx context.Context, id uuid.UUID, updates remote.Row) (models.FeaturedCollection, error)
	Remove(ctx context.Context, id uuid.UUID) error
	Collections() []models.FeaturedCollection
	Loading() bool
}

type GalleryStore interface {
	Fetch(ctx context.Context) error
	Refetch(ctx context.Context) error
	Add(ctx context.Context, item models.GalleryItem) (models.GalleryItem, error)
	Update(ctx context.Context, id uuid.UUID, updates remote.Row) (models.GalleryItem, error)
	Remove(ctx context.Context, id uuid.UUID) error
	Items() []models.GalleryItem
	Loading() bool
}

type ServiceStore interface {
	Fetch(ctx context.Context) error
	Refetch(ctx context.Context) error
	Add(ctx context.Context, service models.Service) (models.Service, error)
	Update(ctx context.Context, id uuid.UUID, updates remote.Row) (models.Service, error)
	Remove(ctx context.Context, id uuid.UUID) error
	Services() []models.Service
	Loading() bool
}

type SettingsStore interface {
	Fetch(ctx context.Context) error
	Refetch(ctx context.Context) error
	Update(ctx context.Context, updates remote.Row) (models.SiteSettings, error)
	Settings() *models.SiteSettings
	Loading() bool
}

type TeamStore interface {
	List(ctx context.Context, sessionID string) ([]models.TeamMember, error)
	Add(ctx context.Context, sessionID string, member models.TeamMember) (models.TeamMember, error)
	Remove(ctx context.Context, sessionID, id string) error
}

const (
	sitePayloadKey = "site"
	sitePayloadTTL = 30 * time.Second
)

type Routers struct {
	log         *slog.Logger
	Collections CollectionStore
	Gallery     GalleryStore
	Services    ServiceStore
	Settings    SettingsStore
	Team        TeamStore

	storage  remote.ObjectStorage
	notifier notify.Notifier
	hub      *notify.Hub
	bucket   string

	siteCache *gocache.Cache
}

func NewRouter(
	log *slog.Logger,
	collections CollectionStore,
	gallery GalleryStore,
	services ServiceStore,
	settings SettingsStore,
	team TeamStore,
	storage remote.ObjectStorage,
	notifier notify.Notifier,
	hub *notify.Hub,
	bucket string,
) *Routers {
	return &Routers{
		log:         log,
		Collections: collections,
		Gallery:     gallery,
		Services:    services,
		Settings:    settings,
		Team:        team,
		storage:     storage,
		notifier:    notifier,
		hub:         hub,
		bucket:      bucket,
		siteCache:   gocache.New(sitePayloadTTL, time.Minute),
	}
}

// --- Featured collections ---

func (r *Routers) ListCollections(c echo.Context) error {
	if err := r.maybeRefetch(c, r.Collections.Refetch); err != nil {
		return c.JSON(http.StatusBadGateway, response.ErrRemoteOperationFailed)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]any{
		"collections": r.Collections.Collections(),
		"loading":     r.Collections.Loading(),
	}))
}

// CreateCollection godoc
// @Summary Добавление подборки
// @Description Создает подборку образов, возвращает запись с ключом хранилища.
// @Tags collections
// @Accept json
// @Produce json
// @Router /api/v1/collections [post]
func (r *Routers) CreateCollection(c echo.Context) error {
	const op = "http.routers.CreateCollection"

	log := r.log.With(slog.String("op", op))

	var req dto.CreateCollectionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid format request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	created, err := r.Collections.Add(c.Request().Context(), req.ToDomain())
	if err != nil {
		return c.JSON(http.StatusBadGateway, response.ErrRemoteOperationFailed)
	}

	r.siteCache.Delete(sitePayloadKey)

	return c.JSON(http.StatusCreated, response.SuccessResponse(created))
}

func (r *Routers) UpdateCollection(c echo.Context) error {
	const op = "http.routers.UpdateCollection"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidID)
	}

	var req dto.UpdateCollectionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	updated, err := r.Collections.Update(c.Request().Context(), id, req.ToUpdates())
	if err != nil {
		log.Warn("update failed", sl.Err(err))
		return c.JSON(http.StatusBadGateway, response.ErrRemoteOperationFailed)
	}

	r.siteCache.Delete(sitePayloadKey)

	return c.JSON(http.StatusOK, response.SuccessResponse(updated))
}

func (r *Routers) DeleteCollection(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidID)
	}

	if err := r.Collections.Remove(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusBadGateway, response.ErrRemoteOperationFailed)
	}

	r.siteCache.Delete(sitePayloadKey)

	return c.JSON(http.StatusOK, response.MessageResponse("collection removed"))
}

// --- Gallery ---

func (r *Routers) ListGalleryItems(c echo.Context) error {
	if err := r.maybeRefetch(c, r.Gallery.Refetch); err != nil {
		return c.JSON(http.StatusBadGateway, response.ErrRemoteOperationFailed)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]any{
		"items":   r.Gallery.Items(),
		"loading": r.Gallery.Loading(),
	}))
}

func (r *Routers) CreateGalleryItem(c echo.Context) error {
	const op = "http.routers.CreateGalleryItem"

	log := r.log.With(slog.String("op", op))

	var req dto.CreateGalleryItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid format request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	created, err := r.Gallery.Add(c.Request().Context(), req.ToDomain())
	if err != nil {
		return c.JSON(http.StatusBadGateway, response.ErrRemoteOperationFailed)
	}

	r.siteCache.Delete(sitePayloadKey)

	return c.JSON(http.StatusCreated, response.SuccessResponse(created))
}

func (r *Routers) UpdateGalleryItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidID)
	}

	var req dto.UpdateGalleryItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	updated, err := r.Gallery.Update(c.Request().Context(), id, req.ToUpdates())
	if err != nil {
		return c.JSON(http.StatusBadGateway, response.ErrRemoteOperationFailed)
	}

	r.siteCache.Delete(sitePayloadKey)

	return c.JSON(http.StatusOK, response.SuccessResponse(updated))
}

func (r *Routers) DeleteGalleryItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidID)
	}

	if err := r.Gallery.Remove(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusBadGateway, response.ErrRemoteOperationFailed)
	}

	r.siteCache.Delete(sitePayloadKey)

	return c.JSON(http.StatusOK, response.MessageResponse("gallery item removed"))
}

// --- Services ---

func (r *Routers) ListServices(c echo.Context) error {
	if err := r.maybeRefetch(c, r.Services.Refetch); err != nil {
		return c.JSON(http.StatusBadGateway, response.ErrRemoteOperationFailed)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]any{
		"services": r.Services.Services(),
		"loading":  r.Services.Loading(),
	}))
}

// CreateService godoc
// @Summary Добавление услуги
// @Description Создает услугу. Пустые позиции features отбрасываются до записи.
// @Tags services
// @Accept json
// @Produce json
// @Router /api/v1/services [post]
func (r *Routers) CreateService(c echo.Context) error {
	const op = "http.routers.CreateService"

	log := r.log.With(slog.String("op", op))

	var req dto.CreateServiceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid format request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	created, err := r.Services.Add(c.Request().Context(), req.ToDomain())
	if err != nil {
		return c.JSON(http.StatusBadGateway, response.ErrRemoteOperationFailed)
	}

	r.siteCache.Delete(sitePayloadKey)

	return c.JSON(http.StatusCreated, response.SuccessResponse(created))
}

// UpdateService обновляет услугу по ключу напрямую. Ключ при
// редактировании сохраняется.
func (r *Routers) UpdateService(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidID)
	}

	var req dto.UpdateServiceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	updated, err := r.Services.Update(c.Request().Context(), id, req.ToUpdates())
	if err != nil {
		return c.JSON(http.StatusBadGateway, response.ErrRemoteOperationFailed)
	}

	r.siteCache.Delete(sitePayloadKey)

	return c.JSON(http.StatusOK, response.SuccessResponse(updated))
}

func (r *Routers) DeleteService(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidID)
	}

	if err := r.Services.Remove(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusBadGateway, response.ErrRemoteOperationFailed)
	}

	r.siteCache.Delete(sitePayloadKey)

	return c.JSON(http.StatusOK, response.MessageResponse("service removed"))
}

// --- Site settings ---

func (r *Routers) GetSettings(c echo.Context) error {
	if err := r.maybeRefetch(c, r.Settings.Refetch); err != nil {
		return c.JSON(http.StatusBadGateway, response.ErrRemoteOperationFailed)
	}

	settings := r.Settings.Settings()
	if settings == nil {
		return c.JSON(http.StatusNotFound, response.ErrSettingsNotLoaded)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(settings))
}

func (r *Routers) UpdateSettings(c echo.Context) error {
	const op = "http.routers.UpdateSettings"

	log := r.log.With(slog.String("op", op))

	var req dto.UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid format request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	updated, err := r.Settings.Update(c.Request().Context(), req.ToUpdates())
	if err != nil {
		if errors.Is(err, syncstore.ErrSettingsNotLoaded) {
			return c.JSON(http.StatusConflict, response.ErrSettingsNotLoaded)
		}
		return c.JSON(http.StatusBadGateway, response.ErrRemoteOperationFailed)
	}

	r.siteCache.Delete(sitePayloadKey)

	return c.JSON(http.StatusOK, response.SuccessResponse(updated))
}

// --- Team (сессионное состояние, не персистентно) ---

func (r *Routers) ListTeam(c echo.Context) error {
	sid, err := r.sessionID(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("session_error", err.Error()))
	}

	members, err := r.Team.List(c.Request().Context(), sid)
	if err != nil {
		return c.JSON(http.StatusBadGateway, response.ErrRemoteOperationFailed)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(members))
}

func (r *Routers) AddTeamMember(c echo.Context) error {
	const op = "http.routers.AddTeamMember"

	log := r.log.With(slog.String("op", op))

	sid, err := r.sessionID(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("session_error", err.Error()))
	}

	var req dto.AddTeamMemberRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid format request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	member, err := r.Team.Add(c.Request().Context(), sid, req.ToDomain())
	if err != nil {
		return c.JSON(http.StatusBadGateway, response.ErrRemoteOperationFailed)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(member))
}

func (r *Routers) RemoveTeamMember(c echo.Context) error {
	sid, err := r.sessionID(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("session_error", err.Error()))
	}

	if err := r.Team.Remove(c.Request().Context(), sid, c.Param("id")); err != nil {
		return c.JSON(http.StatusBadGateway, response.ErrRemoteOperationFailed)
	}

	return c.JSON(http.StatusOK, response.MessageResponse("team member removed"))
}

// --- Image ingestion ---

// UploadImage godoc
// @Summary Загрузка изображения в объектное хранилище
// @Description Валидирует файл, загружает в бакет и возвращает публичный URL.
// @Tags images
// @Accept multipart/form-data
// @Produce json
// @Router /api/v1/images/upload [post]
func (r *Routers) UploadImage(c echo.Context) error {
	const op = "http.routers.UploadImage"

	log := r.log.With(slog.String("op", op))

	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	var uploaded string
	up := ingest.NewUploader(r.log, r.storage, r.notifier, r.bucket, func(value string) {
		uploaded = value
	})

	if err := up.Ingest(c.Request().Context(), file); err != nil {
		if errors.Is(err, ingest.ErrNotAnImage) || errors.Is(err, ingest.ErrTooLarge) {
			metrics.ImageUploadsTotal.WithLabelValues("remote", "rejected").Inc()
			return c.JSON(http.StatusBadRequest, response.ErrImageRejected)
		}

		metrics.ImageUploadsTotal.WithLabelValues("remote", "failed").Inc()
		log.Error("upload failed", sl.Err(err))

		// Превью от локального декодирования остается у компонента,
		// хотя загрузка не прошла. Отдаем его вместе с ошибкой.
		return c.JSON(http.StatusBadGateway, map[string]any{
			"status":  "error",
			"error":   "upload_failed",
			"preview": up.Preview(),
		})
	}

	metrics.ImageUploadsTotal.WithLabelValues("remote", "ok").Inc()

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]string{
		"url": uploaded,
	}))
}

func (r *Routers) InlineImage(c echo.Context) error {
	const op = "http.routers.InlineImage"

	log := r.log.With(slog.String("op", op))

	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	var encoded string
	enc := ingest.NewEncoder(r.log, r.notifier, func(value string) {
		encoded = value
	})

	if err := enc.Ingest(file); err != nil {
		metrics.ImageUploadsTotal.WithLabelValues("inline", "rejected").Inc()
		log.Warn("inline encode rejected", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrImageRejected)
	}

	metrics.ImageUploadsTotal.WithLabelValues("inline", "ok").Inc()

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]string{
		"image": encoded,
	}))
}

// --- Public site ---

type sitePayload struct {
	Settings    *models.SiteSettings        `json:"settings"`
	Collections []models.FeaturedCollection `json:"collections"`
	Services    []models.Service            `json:"services"`
	Gallery     []models.GalleryItem        `json:"gallery"`
}

// SitePayload отдает агрегированное содержимое публичных страниц.
// Собранный ответ недолго кэшируется.
func (r *Routers) SitePayload(c echo.Context) error {
	if cached, ok := r.siteCache.Get(sitePayloadKey); ok {
		return c.JSON(http.StatusOK, response.SuccessResponse(cached))
	}

	payload := sitePayload{
		Settings:    r.Settings.Settings(),
		Collections: r.Collections.Collections(),
		Services:    r.Services.Services(),
		Gallery:     r.Gallery.Items(),
	}

	r.siteCache.SetDefault(sitePayloadKey, payload)

	return c.JSON(http.StatusOK, response.SuccessResponse(payload))
}

// --- Notifications ---

// StreamNotifications транслирует уведомления админке как SSE-поток.
func (r *Routers) StreamNotifications(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	ch, cancel := r.hub.Subscribe()
	defer cancel()

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case n := <-ch:
			data, err := json.Marshal(n)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			w.Flush()
		}
	}
}

// --- helpers ---

func (r *Routers) maybeRefetch(c echo.Context, refetch func(context.Context) error) error {
	if c.QueryParam("refresh") == "" {
		return nil
	}
	return refetch(c.Request().Context())
}

// sessionID возвращает идентификатор анонимной сессии, выдавая новый
// при первом обращении. Аутентификации здесь нет, сессия нужна только
// как область видимости несохраняемого состояния админки.
func (r *Routers) sessionID(c echo.Context) (string, error) {
	sess, err := session.Get("session", c)
	if err != nil {
		return "", err
	}

	sid, ok := sess.Values["sid"].(string)
	if !ok || sid == "" {
		sid = uuid.NewString()
		sess.Values["sid"] = sid
		sess.Options.MaxAge = int((24 * time.Hour).Seconds())
		sess.Options.HttpOnly = true

		if err := sess.Save(c.Request(), c.Response()); err != nil {
			return "", err
		}
	}

	return sid, nil
}
