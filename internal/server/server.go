package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomei-lab/tomei/internal/analysis"
	"github.com/tomei-lab/tomei/internal/queue"
	mid "github.com/tomei-lab/tomei/internal/server/middleware"
	"github.com/tomei-lab/tomei/internal/storage"
	"github.com/tomei-lab/tomei/internal/util"
	"github.com/tomei-lab/tomei/pkg/logger"

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

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline := analysis.NewPipelineFromEnv()

	store, err := storage.NewLocalStore(util.GetEnvString("REPORT_DIR", "data/output"))
	if err != nil {
		logger.Fatal("Failed to create report store", "err", err)
	}

	archive := storage.NewArchive(ctx)

	app := &mid.App{
		Pipeline:     pipeline,
		Store:        store,
		Archive:      archive,
		JWTSecret:    []byte(util.GetEnv("JWT_SECRET")),
		MasterAPIKey: util.GetEnv("MASTER_API_KEY"),
	}

	// Async analysis is only offered when a broker is configured.
	if util.GetEnv("RABBITMQ_HOST") != "" {
		que := queue.Init()
		defer que.Close()
		ch, err := que.Channel()
		if err != nil {
			logger.Fatal("Failed to open channel", "err", err)
		}
		if err := queue.SetupQueues(ch, []string{queue.AnalysisQueue}); err != nil {
			logger.Fatal("Failed to set up queues", "err", err)
		}
		app.Queue = ch
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
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
