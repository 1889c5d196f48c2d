package web

import (
	"context"
	"fmt"
	"net/http"

	"randomluckbot/internal/config"
	"randomluckbot/internal/infrastructure/logger"
	"randomluckbot/internal/storage"
)

var App *WebApp

func InitWebApp(store *storage.Store) error {
	var err error

	App, err = NewWebApp(store)
	if err != nil {
		return err
	}

	return nil
}

// WebApp служебный HTTP-интерфейс для оператора бота
type WebApp struct {
	store  *storage.Store
	server *http.Server
}

// NewWebApp создает и возвращает веб приложение
func NewWebApp(store *storage.Store) (*WebApp, error) {
	conf := config.File.WebConfig

	app := WebApp{store: store}
	app.server = &http.Server{
		Addr:    conf.APPIP + ":" + conf.APPPORT,
		Handler: app.SetRoutes(),
	}

	return &app, nil
}

// HandleUpdates запускает HTTP сервер
func (app *WebApp) HandleUpdates() error {
	logger.Info("Служебный HTTP сервер запущен (", app.server.Addr, ")")

	err := app.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("ошибка при запуске сервера: %v", err)
	}

	return nil
}

func (app *WebApp) Shutdown(ctx context.Context) error {
	return app.server.Shutdown(ctx)
}
