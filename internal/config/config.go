package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TelegramConfig
	DataBaseConfig
	SchedulerConfig
	WebConfig
	LoggerConfig
}

type TelegramConfig struct {
	Token                 string `envconfig:"TELEGRAM_TOKEN" required:"true"`                    // Токен бота
	UpdateTimeout         int    `envconfig:"TELEGRAM_UPDATE_TIMEOUT" default:"30"`              // Таймаут long polling в секундах
	RequestUpdatePause    int    `envconfig:"TELEGRAM_REQUEST_UPDATE_PAUSE_MILLISECOND" default:"50"` // Пауза между отправкой исходящих сообщений
	MsgBufferSize         int    `envconfig:"TELEGRAM_MESSAGE_BUFFER_SIZE" default:"100"`        // Размер буфера для исходящих сообщений
	DefaultButtonText     string `envconfig:"TELEGRAM_DEFAULT_BUTTON_TEXT" default:"Участвовать"` // Текст кнопки участия по умолчанию
	SourceTimezone        string `envconfig:"TELEGRAM_SOURCE_TIMEZONE" default:"Europe/Moscow"`  // Часовой пояс, в котором пользователи вводят даты
}

type DataBaseConfig struct {
	Host     string `envconfig:"DBHOST" required:"true"` // IP адрес для подключения к БД
	Port     string `envconfig:"DBPORT" default:""`      // Port для подключения к БД
	DBName   string `envconfig:"DBNAME" required:"true"` // Имя базы данных
	UserName string `envconfig:"DBUSER" required:"true"` // Имя пользователя
	Password string `envconfig:"DBPASS" required:"true"` // Пароль пользователя
	SSLMode  string `envconfig:"DBSSLMODE" default:"disable"`

	MaxOpenConns           int `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`              // Максимум открытых соединений
	MaxIdleConns           int `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`               // Максимум простаивающих соединений
	ConnMaxLifetimeMinutes int `envconfig:"DB_CONN_MAX_LIFETIME_MINUTES" default:"30"`   // Время жизни соединения в минутах
}

type SchedulerConfig struct {
	TickIntervalSeconds int `envconfig:"SCHEDULER_TICK_INTERVAL_SECONDS" default:"60"` // Интервал между проходами планировщика
}

type WebConfig struct {
	APPIP   string `envconfig:"APP_IP" default:"localhost"` // IP адрес служебного HTTP сервера
	APPPORT string `envconfig:"APP_PORT" default:"8080"`    // Порт служебного HTTP сервера
}

type LoggerConfig struct {
	LogDir      string `envconfig:"LOG_DIR" default:"./log/giveaway_bot"`
	MaxFileSize int64  `envconfig:"LOG_MAX_FILE_SIZE" default:"10485760"` // 10MB в байтах
	TimeFormat  string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02_15-04-05"`
	FilePattern string `envconfig:"LOG_FILE_PATTERN" default:"giveaway_bot_%s.log"`
}

var File *Config

// Init загружает .env и заполняет глобальную конфигурацию из переменных окружения.
// Отсутствие .env не считается ошибкой: в этом случае используются переменные окружения процесса.
func Init() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Файл .env не найден, используются переменные окружения процесса")
	}

	File = &Config{}
	if err := envconfig.Process("", File); err != nil {
		return fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	return nil
}
