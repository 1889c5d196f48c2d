package scheduler

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"randomluckbot/internal/model"
)

// SelectWinners выбирает count случайных победителей из списка участников.
// Если участников меньше, чем запрошено, побеждают все.
// Используется криптографический источник случайности.
func SelectWinners(participants []model.GiveawayParticipant, count int) ([]model.GiveawayParticipant, error) {
	if count <= 0 {
		return nil, fmt.Errorf("количество победителей должно быть положительным, получено %d", count)
	}

	if len(participants) == 0 {
		return nil, nil
	}

	shuffled := make([]model.GiveawayParticipant, len(participants))
	copy(shuffled, participants)

	if err := shuffle(shuffled); err != nil {
		return nil, err
	}

	if count >= len(shuffled) {
		return shuffled, nil
	}

	return shuffled[:count], nil
}

// shuffle перемешивает участников по Фишеру-Йетсу
func shuffle(participants []model.GiveawayParticipant) error {
	for i := len(participants) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("сбой источника случайности: %w", err)
		}

		j := n.Int64()
		participants[i], participants[j] = participants[j], participants[i]
	}

	return nil
}
