package request

import "time"

// Config определяет параметры конфигурации для RequestHandler.
type Config struct {
	// BufferSize определяет размер каналов для запросов.
	BufferSize int

	// Interval определяет минимальный интервал между выполнением запросов.
	// Если Interval <= 0, ограничение скорости отключено.
	Interval time.Duration

	// Logger определяет способ логирования:
	// - nil: будет использован стандартный log.Logger
	// - false: логирование будет отключено
	// - interfaces.BasicLogger: будет использован базовый логгер
	// - interfaces.FormattedLevelLogger: будет использован расширенный логгер
	Logger interface{}
}

// DefaultConfig возвращает новый экземпляр Config со стандартными настройками.
func DefaultConfig() Config {
	return Config{
		BufferSize: 1000,
		Interval:   time.Second,
		Logger:     nil,
	}
}
