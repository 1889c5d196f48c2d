package db

import (
	"time"

	"randomluckbot/internal/config"
	"randomluckbot/internal/model"
	"randomluckbot/pkg/db"

	"gorm.io/gorm"
)

var DB *gorm.DB

// Init подключается к базе данных и выполняет автомиграцию всех сущностей.
func Init() error {
	var err error

	conf := config.File.DataBaseConfig

	DB, err = db.NewDatabase(db.Config{
		Host:     conf.Host,
		Port:     conf.Port,
		UserName: conf.UserName,
		DBName:   conf.DBName,
		Password: conf.Password,
		SSLMode:  conf.SSLMode,

		MaxOpenConns:    conf.MaxOpenConns,
		MaxIdleConns:    conf.MaxIdleConns,
		ConnMaxLifetime: time.Duration(conf.ConnMaxLifetimeMinutes) * time.Minute,
	})
	if err != nil {
		return err
	}

	return DB.AutoMigrate(
		&model.User{},
		&model.Channel{},
		&model.Giveaway{},
		&model.GiveawayChannel{},
		&model.GiveawayParticipant{},
		&model.Winner{},
		&model.SupportRequest{},
	)
}
