package scheduler

import (
	"fmt"
	"strings"

	"randomluckbot/internal/infrastructure/logger"
	"randomluckbot/internal/messages"
	"randomluckbot/internal/model"
)

// conclude завершает розыгрыш: выбирает победителей, публикует итоги
// в канале и уведомляет создателя. Объявление итогов и уведомление
// отправляются по возможности, их сбой не откатывает завершение.
func (s *Scheduler) conclude(giveaway *model.Giveaway) error {
	participants, err := s.store.ListParticipants(giveaway.ID)
	if err == nil {
		var selErr error
		participants, selErr = SelectWinners(participants, giveaway.WinnersCount)
		err = selErr
	}
	if err != nil {
		if setErr := s.store.SetStatus(giveaway.ID, model.StatusErrorWinnerSelection); setErr != nil {
			return fmt.Errorf("выбор победителей не удался (%v), статус не сохранен: %w", err, setErr)
		}
		return err
	}

	if len(participants) == 0 {
		s.announce(giveaway, messages.Getf("announce.no_participants", giveaway.Prize))
		s.notifyCreator(giveaway, messages.Getf("announce.creator_no_participants", giveaway.Prize))

		return s.store.SetStatus(giveaway.ID, model.StatusCompletedNoParticipants)
	}

	winners := make([]model.Winner, 0, len(participants))
	for i := range participants {
		winners = append(winners, model.Winner{
			GiveawayID:    giveaway.ID,
			ParticipantID: participants[i].ID,
			Place:         i + 1,
		})
	}

	// Сбой сохранения победителей относится к той же фазе, что и их выбор
	if err := s.store.SaveWinners(winners); err != nil {
		if setErr := s.store.SetStatus(giveaway.ID, model.StatusErrorWinnerSelection); setErr != nil {
			return fmt.Errorf("сохранение победителей не удалось (%v), статус не сохранен: %w", err, setErr)
		}
		return err
	}

	s.announce(giveaway, messages.Getf("announce.results", giveaway.Prize, winnersList(participants)))
	s.notifyCreator(giveaway, messages.Getf("announce.creator_completed", giveaway.Prize, len(participants)))

	return s.store.SetStatus(giveaway.ID, model.StatusCompleted)
}

func (s *Scheduler) announce(giveaway *model.Giveaway, text string) {
	channel, err := s.store.GetChannel(giveaway.ChannelID)
	if err != nil || channel.UserName == "" {
		logger.Warn("Итоги розыгрыша ", giveaway.ID, " не объявлены, канал недоступен")
		return
	}

	if err := s.sender.AnnounceText(channel.UserName, text); err != nil {
		logger.Error("Не удалось объявить итоги розыгрыша ", giveaway.ID, ": ", err)
	}
}

func (s *Scheduler) notifyCreator(giveaway *model.Giveaway, text string) {
	creator, err := s.store.GetUserByID(giveaway.CreatorID)
	if err != nil {
		logger.Warn("Создатель розыгрыша ", giveaway.ID, " не найден: ", err)
		return
	}

	if err := s.sender.NotifyUser(creator.TelegramID, text); err != nil {
		logger.Warn("Не удалось уведомить создателя розыгрыша ", giveaway.ID, ": ", err)
	}
}

// winnersList форматирует победителей по местам со ссылками-упоминаниями
func winnersList(winners []model.GiveawayParticipant) string {
	var sb strings.Builder
	for i := range winners {
		sb.WriteString(messages.Getf("announce.winner_line", i+1, winners[i].TelegramUserID, displayName(&winners[i])))
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func displayName(p *model.GiveawayParticipant) string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name != "" {
		return name
	}
	if p.UserName != "" {
		return "@" + p.UserName
	}

	return "Участник"
}
