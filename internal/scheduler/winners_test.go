package scheduler

import (
	"testing"

	"randomluckbot/internal/model"

	"gorm.io/gorm"
)

func makeParticipants(n int) []model.GiveawayParticipant {
	participants := make([]model.GiveawayParticipant, 0, n)
	for i := 0; i < n; i++ {
		participants = append(participants, model.GiveawayParticipant{
			Model:          gorm.Model{ID: uint(i + 1)},
			GiveawayID:     1,
			TelegramUserID: int64(1000 + i),
		})
	}
	return participants
}

func TestSelectWinners_InvalidCount(t *testing.T) {
	_, err := SelectWinners(makeParticipants(5), 0)
	if err == nil {
		t.Error("SelectWinners() с нулевым количеством должен вернуть ошибку")
	}

	_, err = SelectWinners(makeParticipants(5), -3)
	if err == nil {
		t.Error("SelectWinners() с отрицательным количеством должен вернуть ошибку")
	}
}

func TestSelectWinners_NoParticipants(t *testing.T) {
	winners, err := SelectWinners(nil, 3)
	if err != nil {
		t.Fatalf("SelectWinners() error = %v", err)
	}
	if len(winners) != 0 {
		t.Errorf("SelectWinners() без участников вернул %d победителей", len(winners))
	}
}

func TestSelectWinners_FewerParticipantsThanRequested(t *testing.T) {
	participants := makeParticipants(3)

	winners, err := SelectWinners(participants, 10)
	if err != nil {
		t.Fatalf("SelectWinners() error = %v", err)
	}
	if len(winners) != 3 {
		t.Fatalf("SelectWinners() вернул %d победителей, ожидалось 3", len(winners))
	}

	seen := map[uint]bool{}
	for _, w := range winners {
		seen[w.ID] = true
	}
	for _, p := range participants {
		if !seen[p.ID] {
			t.Errorf("участник %d должен был победить, когда запрошено больше мест, чем участников", p.ID)
		}
	}
}

func TestSelectWinners_SubsetWithoutDuplicates(t *testing.T) {
	participants := makeParticipants(20)
	ids := map[uint]bool{}
	for _, p := range participants {
		ids[p.ID] = true
	}

	winners, err := SelectWinners(participants, 5)
	if err != nil {
		t.Fatalf("SelectWinners() error = %v", err)
	}
	if len(winners) != 5 {
		t.Fatalf("SelectWinners() вернул %d победителей, ожидалось 5", len(winners))
	}

	seen := map[uint]bool{}
	for _, w := range winners {
		if !ids[w.ID] {
			t.Errorf("победитель %d не из списка участников", w.ID)
		}
		if seen[w.ID] {
			t.Errorf("победитель %d выбран дважды", w.ID)
		}
		seen[w.ID] = true
	}
}

func TestSelectWinners_DoesNotMutateInput(t *testing.T) {
	participants := makeParticipants(10)

	if _, err := SelectWinners(participants, 3); err != nil {
		t.Fatalf("SelectWinners() error = %v", err)
	}

	for i, p := range participants {
		if p.ID != uint(i+1) {
			t.Fatalf("исходный список участников изменился: на позиции %d оказался id %d", i, p.ID)
		}
	}
}
