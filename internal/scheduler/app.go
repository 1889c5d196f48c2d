package scheduler

import (
	"context"
	"time"

	"randomluckbot/internal/config"
	"randomluckbot/internal/infrastructure/logger"
	"randomluckbot/internal/model"
)

// Store операции с хранилищем, которые нужны планировщику
type Store interface {
	DueForPublication(now time.Time) ([]model.Giveaway, error)
	DueForTimeCompletion(now time.Time) ([]model.Giveaway, error)
	ActiveParticipantGiveaways() ([]model.Giveaway, error)
	GetChannel(id uint) (*model.Channel, error)
	GetUserByID(id uint) (*model.User, error)
	CountParticipants(giveawayID uint) (int64, error)
	ListParticipants(giveawayID uint) ([]model.GiveawayParticipant, error)
	MarkPublished(giveawayID uint, messageID int64) error
	SaveWinners(winners []model.Winner) error
	SetStatus(giveawayID uint, status string) error
}

// Sender отправка сообщений в телеграм от имени бота
type Sender interface {
	PublishGiveaway(channelUserName string, giveaway *model.Giveaway) (int64, error)
	AnnounceText(channelUserName string, text string) error
	NotifyUser(telegramID string, text string) error
}

type Scheduler struct {
	store    Store
	sender   Sender
	interval time.Duration
	now      func() time.Time
}

func New(store Store, sender Sender) *Scheduler {
	return &Scheduler{
		store:    store,
		sender:   sender,
		interval: time.Duration(config.File.SchedulerConfig.TickIntervalSeconds) * time.Second,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run запускает цикл планировщика. Следующий тик начинается через interval
// после завершения предыдущего, поэтому тики не накладываются друг на друга.
func (s *Scheduler) Run(ctx context.Context) {
	logger.Info("Планировщик розыгрышей запущен, интервал ", s.interval)

	for {
		s.Tick()

		select {
		case <-ctx.Done():
			logger.Info("Планировщик розыгрышей остановлен")
			return
		case <-time.After(s.interval):
		}
	}
}

// Tick один проход планировщика: публикация, завершение по времени,
// завершение по числу участников. Ошибка одного розыгрыша не прерывает
// обработку остальных.
func (s *Scheduler) Tick() {
	now := s.now()

	s.publishDue(now)
	s.concludeByTime(now)
	s.concludeByParticipants()
}

func (s *Scheduler) publishDue(now time.Time) {
	giveaways, err := s.store.DueForPublication(now)
	if err != nil {
		logger.Error("Не удалось получить розыгрыши к публикации: ", err)
		return
	}

	for i := range giveaways {
		if err := s.publish(&giveaways[i]); err != nil {
			logger.Error("Не удалось опубликовать розыгрыш ", giveaways[i].ID, ": ", err)
		}
	}
}

func (s *Scheduler) concludeByTime(now time.Time) {
	giveaways, err := s.store.DueForTimeCompletion(now)
	if err != nil {
		logger.Error("Не удалось получить розыгрыши к завершению по времени: ", err)
		return
	}

	for i := range giveaways {
		if err := s.conclude(&giveaways[i]); err != nil {
			logger.Error("Не удалось завершить розыгрыш ", giveaways[i].ID, ": ", err)
		}
	}
}

func (s *Scheduler) concludeByParticipants() {
	giveaways, err := s.store.ActiveParticipantGiveaways()
	if err != nil {
		logger.Error("Не удалось получить розыгрыши с завершением по участникам: ", err)
		return
	}

	for i := range giveaways {
		count, err := s.store.CountParticipants(giveaways[i].ID)
		if err != nil {
			logger.Error("Не удалось посчитать участников розыгрыша ", giveaways[i].ID, ": ", err)
			continue
		}

		if count < int64(giveaways[i].EndParticipantsCount) {
			continue
		}

		if err := s.conclude(&giveaways[i]); err != nil {
			logger.Error("Не удалось завершить розыгрыш ", giveaways[i].ID, ": ", err)
		}
	}
}
