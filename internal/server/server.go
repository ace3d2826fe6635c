package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/planetdetroit/civic/internal/db"
	mid "github.com/planetdetroit/civic/internal/server/middleware"
	"github.com/planetdetroit/civic/internal/util"
	"github.com/planetdetroit/civic/pkg/civic"
	"github.com/planetdetroit/civic/pkg/leaselock"
	"github.com/planetdetroit/civic/pkg/loader/web"
	"github.com/planetdetroit/civic/pkg/logger"
	"github.com/planetdetroit/civic/pkg/store"
	pgstore "github.com/planetdetroit/civic/pkg/store/pgx"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// NewEcho builds the HTTP server around app with middleware and routes
// registered.
func NewEcho(app *mid.App, corsOrigins []string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  corsOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		ExposeHeaders: []string{mid.RequestIDHeader},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			id := c.Response().Header().Get(mid.RequestIDHeader)
			if v.Error != nil {
				logger.Error("Request failed", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "request_id", id, "err", v.Error)
				return nil
			}
			logger.Info("Request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "request_id", id)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))

	RegisterRoutes(e)
	return e
}

type leaser interface {
	WithLease(ctx context.Context, key string, opts leaselock.Options, fn func(ctx context.Context) error) error
}

type expirer interface {
	ExpireStale(ctx context.Context) (store.Expired, error)
}

// expireStale retires past meetings and closed comment periods. When several
// replicas start together only the lease holder does the work.
func expireStale(ctx context.Context, locks leaser, s expirer) {
	err := locks.WithLease(ctx, "expire_stale", leaselock.Options{TTL: time.Minute}, func(ctx context.Context) error {
		expired, err := s.ExpireStale(ctx)
		logger.Info("Expired stale records", "meetings", expired.Meetings, "comment_periods", expired.CommentPeriods)
		return err
	})
	switch {
	case errors.Is(err, leaselock.ErrBusy):
		logger.Info("Stale record expiry already running on another replica")
	case err != nil:
		logger.Warn("Failed to expire stale records", "err", err)
	}
}

func Init() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	databaseURL := util.GetEnv("DATABASE_URL")
	if util.GetEnvBool("MIGRATE_ON_START", false) {
		if err := db.Migrate(util.GetEnvString("MIGRATIONS_PATH", "file://migrations"), databaseURL); err != nil {
			logger.Fatal("Failed to migrate database", "err", err)
		}
	}

	conn, err := db.Connect(ctx, databaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()

	storage := pgstore.NewCivicDBStorage(conn)
	if util.GetEnvBool("EXPIRE_ON_START", true) {
		expireStale(ctx, leaselock.New(conn), storage)
	}

	chat, err := newChatClient()
	if err != nil {
		logger.Fatal("Failed to create chat client", "err", err)
	}
	embedder, err := newEmbedder()
	if err != nil {
		logger.Fatal("Failed to create embedding client", "err", err)
	}

	pipeline := civic.NewPipeline(civic.PipelineParams{
		Chat:       chat,
		Embedder:   embedder,
		Passages:   storage,
		Candidates: storage,
		ChatModel:  util.GetEnv("AI_CHAT_MODEL"),
		RankModel:  util.GetEnv("AI_RANK_MODEL"),
	})

	e := NewEcho(&mid.App{
		Civic:  pipeline,
		Stats:  storage,
		Loader: web.NewWebArticleLoader(nil),
	}, util.GetEnvList("CORS_ORIGINS", []string{"*"}))

	go func() {
		port := util.GetEnvString("PORT", "8080")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
