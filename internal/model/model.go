package model

import (
	"time"

	"gorm.io/gorm"
)

// Статусы розыгрыша. Жизненный цикл: pending -> active -> completed / completed_no_participants.
// Статусы error_* терминальные: планировщик к таким розыгрышам больше не возвращается.
const (
	StatusPending                 = "pending"
	StatusActive                  = "active"
	StatusCompleted               = "completed"
	StatusCompletedNoParticipants = "completed_no_participants"

	StatusErrorChannelNotFound = "error_channel_not_found"
	StatusErrorBotNotMember    = "error_bot_not_member"
	StatusErrorNoRights        = "error_no_rights"
	StatusErrorWinnerSelection = "error_winner_selection"
	StatusErrorPublishFailed   = "error_publish_failed"
	StatusErrorUnexpected      = "error_unexpected"
)

// Условия завершения розыгрыша
const (
	EndConditionTime         = "time"         // Завершение по времени
	EndConditionParticipants = "participants" // Завершение по количеству участников
)

// ErrorStatuses список всех терминальных статусов ошибок
var ErrorStatuses = []string{
	StatusErrorChannelNotFound,
	StatusErrorBotNotMember,
	StatusErrorNoRights,
	StatusErrorWinnerSelection,
	StatusErrorPublishFailed,
	StatusErrorUnexpected,
}

type User struct {
	gorm.Model

	TelegramID string `gorm:"column:telegram_id;type:varchar(255);uniqueIndex;not null"` // Храним как строку, чтобы не думать про отрицательные ID
	UserName   string `gorm:"column:username;type:varchar(255)"`
	FirstName  string `gorm:"column:first_name;type:varchar(255)"`
	LastName   string `gorm:"column:last_name;type:varchar(255)"`
}

func (User) TableName() string {
	return "users"
}

type Channel struct {
	gorm.Model

	OwnerID    uint   `gorm:"column:owner_id;index;not null"`                     // Владелец канала
	TelegramID string `gorm:"column:telegram_id;type:varchar(255);uniqueIndex"`   // Может быть пустым, если канал добавлен по ссылке или юзернейму
	UserName   string `gorm:"column:username;type:varchar(255);uniqueIndex"`      // @username канала, без @
	Title      string `gorm:"column:title;type:varchar(255)"`
	IsPublic   bool   `gorm:"column:is_public;not null;default:false"`
	InviteLink string `gorm:"column:invite_link;type:text"`
}

func (Channel) TableName() string {
	return "channels"
}

type Giveaway struct {
	gorm.Model

	CreatorID uint  `gorm:"column:creator_id;index;not null"` // Создатель розыгрыша
	ChannelID uint  `gorm:"column:channel_id;index;not null"` // Основной канал, куда публикуется розыгрыш
	MessageID int64 `gorm:"column:message_id"`                // ID сообщения после публикации в канале

	Description string `gorm:"column:description;type:text"`
	Prize       string `gorm:"column:prize;type:varchar(255)"`

	MediaType   string `gorm:"column:media_type;type:varchar(20)"` // none, photo, video, animation, document
	MediaFileID string `gorm:"column:media_file_id;type:varchar(255)"`
	MediaMime   string `gorm:"column:media_mime;type:varchar(255)"` // Заполняется только для документов

	ParticipationButtonText string `gorm:"column:participation_button_text;type:varchar(255)"`
	WinnersCount            int    `gorm:"column:winners_count;not null"` // Проверка > 0 на уровне приложения

	PublicationTime *time.Time `gorm:"column:publication_time;index"` // NULL означает публикацию сразу

	EndConditionType     string     `gorm:"column:end_condition_type;type:varchar(20);not null;default:time"`
	EndTime              *time.Time `gorm:"column:end_time;index"`        // Заполнено при завершении по времени
	EndParticipantsCount int        `gorm:"column:end_participants_count"` // Заполнено при завершении по участникам

	HasCaptcha   bool `gorm:"column:has_captcha;not null;default:false"`
	BoostEnabled bool `gorm:"column:boost_enabled;not null;default:false"` // Зарезервировано, логика бустов пока не используется

	Status string `gorm:"column:status;type:varchar(30);not null;default:pending;index"`
}

func (Giveaway) TableName() string {
	return "giveaways"
}

// GiveawayChannel ассоциативная таблица: обязательные подписки розыгрыша.
// Основной канал всегда присутствует в этом списке.
type GiveawayChannel struct {
	gorm.Model

	GiveawayID uint `gorm:"column:giveaway_id;index;not null;uniqueIndex:uq_giveaway_channel"`
	ChannelID  uint `gorm:"column:channel_id;index;not null;uniqueIndex:uq_giveaway_channel"`
}

func (GiveawayChannel) TableName() string {
	return "giveaway_channels"
}

type GiveawayParticipant struct {
	gorm.Model

	GiveawayID     uint  `gorm:"column:giveaway_id;index;not null;uniqueIndex:uq_participant_giveaway_user"`
	UserID         uint  `gorm:"column:user_id;index;not null"`
	TelegramUserID int64 `gorm:"column:telegram_user_id;index;not null;uniqueIndex:uq_participant_giveaway_user"`

	UserName  string `gorm:"column:username;type:varchar(255)"`   // Username на момент участия
	FirstName string `gorm:"column:first_name;type:varchar(255)"` // Имя на момент участия
	LastName  string `gorm:"column:last_name;type:varchar(255)"`  // Фамилия на момент участия

	CaptchaPassed bool `gorm:"column:captcha_passed;not null;default:false"`
}

func (GiveawayParticipant) TableName() string {
	return "participants"
}

type Winner struct {
	gorm.Model

	GiveawayID    uint `gorm:"column:giveaway_id;index;not null;uniqueIndex:uq_winner_place;uniqueIndex:uq_winner_participant"`
	ParticipantID uint `gorm:"column:participant_id;not null;uniqueIndex:uq_winner_participant"`

	Place        int  `gorm:"column:place;not null;uniqueIndex:uq_winner_place"` // Место, начиная с 1
	IsAdditional bool `gorm:"column:is_additional;not null;default:false"`       // Зарезервировано под дополнительных победителей
}

func (Winner) TableName() string {
	return "winners"
}

type SupportRequest struct {
	gorm.Model

	UserID     *uint  `gorm:"column:user_id"` // NULL, если пользователь не зарегистрирован
	Message    string `gorm:"column:message;type:text;not null"`
	IsResolved bool   `gorm:"column:is_resolved;not null;default:false"`
}

func (SupportRequest) TableName() string {
	return "support_requests"
}

// IsErrorStatus проверяет, является ли статус терминальным статусом ошибки
func IsErrorStatus(status string) bool {
	for _, s := range ErrorStatuses {
		if s == status {
			return true
		}
	}
	return false
}
