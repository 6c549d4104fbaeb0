package middleware

import (
	"github.com/tomei-lab/tomei/internal/analysis"
	"github.com/tomei-lab/tomei/internal/storage"

	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"
)

type AppUser struct {
	UserID string
	Role   string
}

// App bundles the shared clients every handler needs.
type App struct {
	Pipeline     *analysis.Pipeline
	Queue        *amqp091.Channel
	Store        *storage.LocalStore
	Archive      *storage.Archive
	JWTSecret    []byte
	MasterAPIKey string
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app, nil}
			return next(cc)
		}
	}
}
