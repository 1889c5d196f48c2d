package storage

import (
	"errors"
	"fmt"
	"time"

	"randomluckbot/internal/model"

	"gorm.io/gorm"
)

// Store слой доступа к данным. Все операции планировщика и обработчиков
// проходят через него, каждая операция получает свою короткую транзакцию.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// UpsertUser находит пользователя по telegram_id или создает нового.
// Имя и username обновляются при каждом обращении.
func (s *Store) UpsertUser(telegramID, userName, firstName, lastName string) (*model.User, error) {
	var user model.User
	err := s.db.Where("telegram_id = ?", telegramID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = model.User{
			TelegramID: telegramID,
			UserName:   userName,
			FirstName:  firstName,
			LastName:   lastName,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if userName != "" && userName != user.UserName {
		updates["username"] = userName
	}
	if firstName != "" && firstName != user.FirstName {
		updates["first_name"] = firstName
	}
	if lastName != "" && lastName != user.LastName {
		updates["last_name"] = lastName
	}
	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return &user, nil
}

func (s *Store) GetUserByID(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) ListUserChannels(ownerID uint) ([]model.Channel, error) {
	var channels []model.Channel
	if err := s.db.Where("owner_id = ?", ownerID).Order("id asc").Find(&channels).Error; err != nil {
		return nil, err
	}
	return channels, nil
}

func (s *Store) GetChannel(id uint) (*model.Channel, error) {
	var channel model.Channel
	if err := s.db.First(&channel, id).Error; err != nil {
		return nil, err
	}
	return &channel, nil
}

// CreateChannel сохраняет канал. Если канал с таким telegram_id или username
// уже существует у этого владельца, возвращает существующую запись.
func (s *Store) CreateChannel(channel *model.Channel) error {
	query := s.db.Where("owner_id = ?", channel.OwnerID)
	switch {
	case channel.TelegramID != "":
		query = query.Where("telegram_id = ?", channel.TelegramID)
	case channel.UserName != "":
		query = query.Where("username = ?", channel.UserName)
	default:
		return fmt.Errorf("у канала нет ни telegram_id, ни username")
	}

	var existing model.Channel
	err := query.First(&existing).Error
	if err == nil {
		*channel = existing
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.db.Create(channel).Error
}

func (s *Store) ListUserGiveaways(creatorID uint) ([]model.Giveaway, error) {
	var giveaways []model.Giveaway
	if err := s.db.Where("creator_id = ?", creatorID).Order("id asc").Find(&giveaways).Error; err != nil {
		return nil, err
	}
	return giveaways, nil
}

func (s *Store) CreateSupportRequest(req *model.SupportRequest) error {
	return s.db.Create(req).Error
}

// CreatorInfo данные создателя розыгрыша из Telegram
type CreatorInfo struct {
	TelegramID string
	UserName   string
	FirstName  string
	LastName   string
}

// CreateGiveaway сохраняет розыгрыш вместе со связями каналов в одной транзакции:
// upsert пользователя, вставка розыгрыша, связь с основным каналом, затем
// сопоставление дополнительных каналов по username среди каналов создателя.
// Несовпавшие дополнительные каналы пропускаются, любая другая ошибка
// откатывает создание целиком.
func (s *Store) CreateGiveaway(creator CreatorInfo, giveaway *model.Giveaway, extraChannelUserNames []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if giveaway.WinnersCount <= 0 {
			return fmt.Errorf("количество победителей должно быть больше нуля")
		}

		var user model.User
		err := tx.Where("telegram_id = ?", creator.TelegramID).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = model.User{
				TelegramID: creator.TelegramID,
				UserName:   creator.UserName,
				FirstName:  creator.FirstName,
				LastName:   creator.LastName,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		giveaway.CreatorID = user.ID

		if err := tx.Create(giveaway).Error; err != nil {
			return err
		}

		if err := tx.Create(&model.GiveawayChannel{
			GiveawayID: giveaway.ID,
			ChannelID:  giveaway.ChannelID,
		}).Error; err != nil {
			return err
		}

		for _, username := range extraChannelUserNames {
			var channel model.Channel
			err := tx.Where("owner_id = ? AND username = ?", giveaway.CreatorID, username).
				First(&channel).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // Канал не зарегистрирован у создателя, пропускаем
			}
			if err != nil {
				return err
			}
			if channel.ID == giveaway.ChannelID {
				continue // Основной канал уже добавлен
			}
			if err := tx.Create(&model.GiveawayChannel{
				GiveawayID: giveaway.ID,
				ChannelID:  channel.ID,
			}).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *Store) GetGiveaway(id uint) (*model.Giveaway, error) {
	var giveaway model.Giveaway
	if err := s.db.First(&giveaway, id).Error; err != nil {
		return nil, err
	}
	return &giveaway, nil
}

// ListRequiredChannels возвращает все каналы, подписка на которые обязательна для участия.
func (s *Store) ListRequiredChannels(giveawayID uint) ([]model.Channel, error) {
	var channels []model.Channel
	err := s.db.
		Joins("JOIN giveaway_channels ON giveaway_channels.channel_id = channels.id").
		Where("giveaway_channels.giveaway_id = ?", giveawayID).
		Find(&channels).Error
	if err != nil {
		return nil, err
	}
	return channels, nil
}

// AddParticipant регистрирует участие. Возвращает false, если пользователь уже участвует.
func (s *Store) AddParticipant(participant *model.GiveawayParticipant) (bool, error) {
	var existing model.GiveawayParticipant
	err := s.db.Where("giveaway_id = ? AND telegram_user_id = ?",
		participant.GiveawayID, participant.TelegramUserID).First(&existing).Error
	if err == nil {
		*participant = existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if err := s.db.Create(participant).Error; err != nil {
		return false, err
	}
	return true, nil
}

// --- Запросы планировщика ---

func (s *Store) DueForPublication(now time.Time) ([]model.Giveaway, error) {
	var giveaways []model.Giveaway
	err := s.db.
		Where("status = ? AND (publication_time IS NULL OR publication_time <= ?)", model.StatusPending, now).
		Find(&giveaways).Error
	if err != nil {
		return nil, err
	}
	return giveaways, nil
}

func (s *Store) DueForTimeCompletion(now time.Time) ([]model.Giveaway, error) {
	var giveaways []model.Giveaway
	err := s.db.
		Where("status = ? AND end_condition_type = ? AND end_time <= ?",
			model.StatusActive, model.EndConditionTime, now).
		Find(&giveaways).Error
	if err != nil {
		return nil, err
	}
	return giveaways, nil
}

func (s *Store) ActiveParticipantGiveaways() ([]model.Giveaway, error) {
	var giveaways []model.Giveaway
	err := s.db.
		Where("status = ? AND end_condition_type = ?",
			model.StatusActive, model.EndConditionParticipants).
		Find(&giveaways).Error
	if err != nil {
		return nil, err
	}
	return giveaways, nil
}

func (s *Store) CountParticipants(giveawayID uint) (int64, error) {
	var count int64
	err := s.db.Model(&model.GiveawayParticipant{}).
		Where("giveaway_id = ?", giveawayID).Count(&count).Error
	return count, err
}

func (s *Store) ListParticipants(giveawayID uint) ([]model.GiveawayParticipant, error) {
	var participants []model.GiveawayParticipant
	err := s.db.Where("giveaway_id = ?", giveawayID).Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

func (s *Store) SetStatus(giveawayID uint, status string) error {
	return s.db.Model(&model.Giveaway{}).Where("id = ?", giveawayID).
		Update("status", status).Error
}

// MarkPublished сохраняет ID опубликованного сообщения и переводит розыгрыш в active.
func (s *Store) MarkPublished(giveawayID uint, messageID int64) error {
	return s.db.Model(&model.Giveaway{}).Where("id = ?", giveawayID).
		Updates(map[string]interface{}{
			"message_id": messageID,
			"status":     model.StatusActive,
		}).Error
}

// SaveWinners сохраняет всех победителей розыгрыша одной транзакцией.
func (s *Store) SaveWinners(winners []model.Winner) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for i := range winners {
			if err := tx.Create(&winners[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListErrorGiveaways возвращает розыгрыши в терминальных статусах ошибок (для служебного HTTP).
func (s *Store) ListErrorGiveaways() ([]model.Giveaway, error) {
	var giveaways []model.Giveaway
	err := s.db.Where("status IN ?", model.ErrorStatuses).Order("updated_at desc").
		Find(&giveaways).Error
	if err != nil {
		return nil, err
	}
	return giveaways, nil
}

// Ping проверяет доступность базы данных.
func (s *Store) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
