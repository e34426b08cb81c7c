package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	mw "vintoura/internal/middleware"
	httprouters "vintoura/internal/transport/http"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	m        *http.ServeMux
	log      *slog.Logger
	e        *echo.Echo
	routers  *httprouters.Routers
	host     string
	port     string
	filesDir string
}

func New(log *slog.Logger, sessionSecret, host, port, filesDir string, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(session.Middleware(sessions.NewCookieStore([]byte(sessionSecret))))

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(mw.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		log.Info("Statsviz start with error", slog.Any("error:", err.Error()))
	}

	return &Server{
		m:        mux,
		log:      log,
		e:        e,
		routers:  routers,
		host:     host,
		port:     port,
		filesDir: filesDir,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf(":%s", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) BuildRouters() {
	// Публичные файлы локального объектного хранилища
	s.e.Static("/files", s.filesDir)

	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	debug := s.e.Group("/debug")
	{
		debug.GET("/statsviz/", echo.WrapHandler(s.m))
		debug.GET("/statsviz/*", echo.WrapHandler(s.m))
	}

	api := s.e.Group("/api/v1")
	{
		api.GET("/site", s.routers.SitePayload)
		api.GET("/notifications/stream", s.routers.StreamNotifications)

		collections := api.Group("/collections")
		{
			collections.GET("", s.routers.ListCollections)
			collections.POST("", s.routers.CreateCollection)
			collections.PUT("/:id", s.routers.UpdateCollection)
			collections.DELETE("/:id", s.routers.DeleteCollection)
		}

		gallery := api.Group("/gallery")
		{
			gallery.GET("", s.routers.ListGalleryItems)
			gallery.POST("", s.routers.CreateGalleryItem)
			gallery.PUT("/:id", s.routers.UpdateGalleryItem)
			gallery.DELETE("/:id", s.routers.DeleteGalleryItem)
		}

		services := api.Group("/services")
		{
			services.GET("", s.routers.ListServices)
			services.POST("", s.routers.CreateService)
			services.PUT("/:id", s.routers.UpdateService)
			services.DELETE("/:id", s.routers.DeleteService)
		}

		settings := api.Group("/settings")
		{
			settings.GET("", s.routers.GetSettings)
			settings.PUT("", s.routers.UpdateSettings)
		}

		team := api.Group("/team")
		{
			team.GET("", s.routers.ListTeam)
			team.POST("", s.routers.AddTeamMember)
			team.DELETE("/:id", s.routers.RemoveTeamMember)
		}

		images := api.Group("/images")
		{
			images.POST("/upload", s.routers.UploadImage)
			images.POST("/inline", s.routers.InlineImage)
		}
	}
}
