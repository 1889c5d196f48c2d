package scheduler

import (
	"errors"
	"fmt"

	"randomluckbot/internal/infrastructure/logger"
	"randomluckbot/internal/model"
)

// publish отправляет пост розыгрыша в канал и переводит розыгрыш в active.
// Розыгрыш без привязанного публичного канала остается в pending до тех пор,
// пока владелец не починит привязку.
func (s *Scheduler) publish(giveaway *model.Giveaway) error {
	channel, err := s.store.GetChannel(giveaway.ChannelID)
	if err != nil {
		logger.Warn("Розыгрыш ", giveaway.ID, " остается в pending, канал не найден: ", err)
		return nil
	}

	if channel.UserName == "" {
		logger.Warn("Розыгрыш ", giveaway.ID, " остается в pending, у канала нет юзернейма")
		return nil
	}

	messageID, err := s.sender.PublishGiveaway(channel.UserName, giveaway)
	if err != nil {
		status := model.StatusErrorUnexpected

		var derr *model.DeliveryError
		if errors.As(err, &derr) {
			status = derr.Status
		}

		if setErr := s.store.SetStatus(giveaway.ID, status); setErr != nil {
			return fmt.Errorf("публикация не удалась (%v), статус %s не сохранен: %w", err, status, setErr)
		}

		return err
	}

	return s.store.MarkPublished(giveaway.ID, messageID)
}
