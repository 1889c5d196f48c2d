package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"randomluckbot/internal/config"
	"randomluckbot/internal/infrastructure/db"
	"randomluckbot/internal/infrastructure/logger"
	"randomluckbot/internal/scheduler"
	"randomluckbot/internal/storage"
	"randomluckbot/internal/tg"
	"randomluckbot/internal/web"
)

func main() {
	HandleFatalError(config.Init())

	HandleFatalError(logger.Init())

	HandleFatalError(db.Init())

	store := storage.New(db.DB)

	HandleFatalError(tg.InitTelegramBot(store))

	HandleFatalError(web.InitWebApp(store))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go scheduler.New(store, tg.TelegramBot).Run(ctx)

	go func() {
		HandleFatalError(web.App.HandleUpdates())
	}()

	<-ctx.Done()

	logger.Info("Получен сигнал остановки, завершаем работу")

	tg.TelegramBot.StopReceivingUpdates()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := web.App.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка при остановке HTTP сервера: ", err)
	}
}

// HandleFatalError если err ошибка, то логгирует ее и завершает процесс
func HandleFatalError(err error) error {
	if err != nil {
		if logger.Log != nil {
			logger.Error("Критическая ошибка: ", err)
		} else {
			println("Критическая ошибка: " + err.Error())
		}
		os.Exit(1)
	}
	return nil
}
