package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config структура для хранения параметров конфигурации базы данных.
// Нулевые значения параметров пула оставляют настройки драйвера по умолчанию.
type Config struct {
	Host     string
	Port     string
	UserName string
	DBName   string
	Password string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (conf Config) dsn() string {
	dsn := fmt.Sprintf("host=%s user=%s dbname=%s password=%s sslmode=%s",
		conf.Host, conf.UserName, conf.DBName, conf.Password, conf.SSLMode)
	if conf.Port != "" {
		dsn += " port=" + conf.Port
	}
	return dsn
}

// NewDatabase создает новое подключение к базе данных,
// настраивает пул соединений и проверяет доступность базы
func NewDatabase(conf Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(conf.dsn()), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if conf.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(conf.MaxOpenConns)
	}
	if conf.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(conf.MaxIdleConns)
	}
	if conf.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(conf.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}
