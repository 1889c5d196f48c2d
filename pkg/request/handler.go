package request

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"

	"randomluckbot/pkg/logger/interfaces"

	"golang.org/x/time/rate"
)

// Request функция-запрос, выполняемая обработчиком.
type Request func() error

// RequestHandler управляет обработкой запросов с поддержкой приоритизации
// и ограничения скорости. Предоставляет два канала для запросов: обычный и низкоприоритетный.
type RequestHandler struct {
	requests            chan Request
	lowPriorityRequests chan Request
	limiter             *rate.Limiter
	ctx                 context.Context
	cancel              context.CancelFunc
	mu                  sync.Mutex
	isProcessing        bool
	logger              interface{} // может быть interfaces.BasicLogger, interfaces.FormattedLevelLogger или nil
	loggingEnabled      bool
}

// NewRequestHandler создает новый экземпляр RequestHandler с заданной конфигурацией.
// Инициализирует каналы запросов и настраивает логирование согласно конфигурации.
func NewRequestHandler(config Config) (*RequestHandler, error) {
	ctx, cancel := context.WithCancel(context.Background())

	handler := &RequestHandler{
		requests:            make(chan Request, config.BufferSize),
		lowPriorityRequests: make(chan Request, config.BufferSize),
		ctx:                 ctx,
		cancel:              cancel,
		loggingEnabled:      true,
	}

	if config.Interval > 0 {
		handler.limiter = rate.NewLimiter(rate.Every(config.Interval), 1)
	}

	// Настройка логгера
	if v, ok := config.Logger.(bool); ok && !v {
		handler.loggingEnabled = false
	} else if config.Logger == nil {
		handler.logger = log.New(os.Stdout, "request: ", log.LstdFlags)
	} else if l, ok := config.Logger.(interfaces.BasicLogger); ok {
		handler.logger = l
	} else if l, ok := config.Logger.(interfaces.FormattedLevelLogger); ok {
		handler.logger = l
	} else {
		cancel()
		return nil, errors.New("неподдерживаемый тип логгера")
	}

	return handler, nil
}

func (app *RequestHandler) logError(format string, args ...interface{}) {
	if !app.loggingEnabled {
		return
	}

	switch l := app.logger.(type) {
	case interfaces.FormattedLevelLogger:
		l.Errorf(format, args...)
	case interfaces.BasicLogger:
		l.Printf("ERROR: "+format, args...)
	case *log.Logger:
		l.Printf("ERROR: "+format, args...)
	}
}

// HandleRequest добавляет запрос в канал обычного приоритета.
// Возвращает ошибку, если обработка не запущена.
func (app *RequestHandler) HandleRequest(req Request) error {
	app.mu.Lock()
	processing := app.isProcessing
	app.mu.Unlock()
	if !processing {
		return errors.New("невозможно добавить запрос: обработка не запущена")
	}

	app.requests <- req
	return nil
}

// HandleLowPriorityRequest добавляет запрос в канал низкого приоритета.
func (app *RequestHandler) HandleLowPriorityRequest(req Request) error {
	app.mu.Lock()
	processing := app.isProcessing
	app.mu.Unlock()
	if !processing {
		return errors.New("невозможно добавить запрос: обработка не запущена")
	}

	app.lowPriorityRequests <- req
	return nil
}

// ProcessRequests запускает обработку запросов из обоих каналов.
// Скорость выполнения ограничена rate.Limiter'ом из конфигурации.
// Сначала обрабатываются запросы обычного приоритета, затем низкоприоритетные.
// Обработка продолжается до вызова StopProcessing.
func (app *RequestHandler) ProcessRequests() {
	app.mu.Lock()
	if app.isProcessing {
		app.logError("Невозможно запустить обработку запросов: уже запущена")
		app.mu.Unlock()
		return
	}
	app.isProcessing = true
	app.mu.Unlock()

	for {
		if app.limiter != nil {
			if err := app.limiter.Wait(app.ctx); err != nil {
				app.setStopped()
				return
			}
		}

		select {
		case <-app.ctx.Done():
			app.setStopped()
			return
		case req := <-app.requests:
			if err := req(); err != nil {
				app.logError("Ошибка выполнения запроса: %v", err)
			}
		default:
			select {
			case <-app.ctx.Done():
				app.setStopped()
				return
			case req := <-app.requests:
				if err := req(); err != nil {
					app.logError("Ошибка выполнения запроса: %v", err)
				}
			case req := <-app.lowPriorityRequests:
				if err := req(); err != nil {
					app.logError("Ошибка выполнения низкоприоритетного запроса: %v", err)
				}
			}
		}
	}
}

func (app *RequestHandler) setStopped() {
	app.mu.Lock()
	app.isProcessing = false
	app.mu.Unlock()
}

// StopProcessing останавливает обработку запросов.
func (app *RequestHandler) StopProcessing() {
	app.cancel()
}
