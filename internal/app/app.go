package app

import (
	"context"
	"log/slog"
	"time"

	httpapp "vintoura/internal/app/http"
	"vintoura/internal/config"
	"vintoura/internal/notify"
	"vintoura/internal/remote/postgres"
	filestorage "vintoura/internal/storage/filestorage"
	redisapp "vintoura/internal/storage/redis"
	"vintoura/internal/syncstore"
	httprouters "vintoura/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server

	log   *slog.Logger
	db    *postgres.Client
	redis *redisapp.Client
}

func New(log *slog.Logger, cfg *config.Config) (*App, error) {
	db, err := postgres.New(context.Background(), cfg.DSN)
	if err != nil {
		return nil, err
	}

	objects, err := filestorage.NewLocalObjectStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.BaseURL)
	if err != nil {
		db.Stop()
		return nil, err
	}

	redisClient := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)

	hub := notify.NewHub()
	notifier := notify.Fanout{notify.NewLogNotifier(log), hub}

	collections := syncstore.NewCollectionStore(log, db, notifier)
	gallery := syncstore.NewGalleryStore(log, db, notifier)
	services := syncstore.NewServiceStore(log, db, notifier)
	settings := syncstore.NewSettingsStore(log, db, notifier)
	team := syncstore.NewTeamStore(log, redisClient, cfg.Session.TTL)

	routers := httprouters.NewRouter(
		log,
		collections, gallery, services, settings, team,
		objects, notifier, hub,
		cfg.FileStorage.Bucket,
	)

	server := httpapp.New(log, cfg.Session.Secret, cfg.HTTP.Host, cfg.HTTP.Port, cfg.FileStorage.BaseDir, routers)

	app := &App{
		HTTPServer: server,
		log:        log,
		db:         db,
		redis:      redisClient,
	}

	app.warmCaches(collections, gallery, services, settings)

	return app, nil
}

// warmCaches выполняет первоначальную загрузку кэшей. Ошибки загрузки
// не фатальны: кэш останется пустым до ручного refetch.
func (a *App) warmCaches(
	collections *syncstore.CollectionStore,
	gallery *syncstore.GalleryStore,
	services *syncstore.ServiceStore,
	settings *syncstore.SettingsStore,
) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_ = collections.Fetch(ctx)
	_ = gallery.Fetch(ctx)
	_ = services.Fetch(ctx)
	_ = settings.Fetch(ctx)
}

func (a *App) Stop() {
	if err := a.HTTPServer.Stop(); err != nil {
		a.log.Error("failed to stop http server", slog.Any("err", err))
	}

	a.db.Stop()

	if err := a.redis.Close(); err != nil {
		a.log.Error("failed to close redis client", slog.Any("err", err))
	}
}
