package storage

import (
	"testing"

	"randomluckbot/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("не удалось открыть sqlite в памяти: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Channel{},
		&model.Giveaway{},
		&model.GiveawayChannel{},
		&model.GiveawayParticipant{},
		&model.Winner{},
		&model.SupportRequest{},
	)
	if err != nil {
		t.Fatalf("не удалось выполнить миграцию: %v", err)
	}

	return New(db)
}

func addChannel(t *testing.T, s *Store, ownerID uint, telegramID, userName string) *model.Channel {
	t.Helper()

	channel := &model.Channel{OwnerID: ownerID, TelegramID: telegramID, UserName: userName, IsPublic: true}
	if err := s.CreateChannel(channel); err != nil {
		t.Fatalf("не удалось создать канал @%s: %v", userName, err)
	}
	return channel
}

func TestCreateGiveaway_ChannelAssociations(t *testing.T) {
	s := newTestStore(t)

	owner, err := s.UpsertUser("42", "creator", "Иван", "")
	if err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}
	stranger, err := s.UpsertUser("43", "stranger", "Петр", "")
	if err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}

	primary := addChannel(t, s, owner.ID, "100", "main_channel")
	partner := addChannel(t, s, owner.ID, "101", "partner_channel")
	// Канал с таким username существует, но принадлежит другому пользователю
	addChannel(t, s, stranger.ID, "102", "foreign_channel")

	giveaway := &model.Giveaway{
		ChannelID:        primary.ID,
		Prize:            "iPhone",
		WinnersCount:     1,
		EndConditionType: model.EndConditionTime,
		Status:           model.StatusPending,
	}

	creator := CreatorInfo{TelegramID: "42", UserName: "creator", FirstName: "Иван"}
	extra := []string{"partner_channel", "ghost_channel", "foreign_channel", "main_channel"}

	if err := s.CreateGiveaway(creator, giveaway, extra); err != nil {
		t.Fatalf("CreateGiveaway() error = %v", err)
	}

	if giveaway.CreatorID != owner.ID {
		t.Errorf("CreatorID = %d, ожидался %d", giveaway.CreatorID, owner.ID)
	}

	stored, err := s.GetGiveaway(giveaway.ID)
	if err != nil {
		t.Fatalf("GetGiveaway() error = %v", err)
	}
	if stored.Prize != "iPhone" || stored.Status != model.StatusPending {
		t.Errorf("розыгрыш прочитался не таким, каким был сохранен: %+v", stored)
	}

	channels, err := s.ListRequiredChannels(giveaway.ID)
	if err != nil {
		t.Fatalf("ListRequiredChannels() error = %v", err)
	}
	if len(channels) != 2 {
		t.Fatalf("обязательных каналов %d, ожидалось 2 (основной и partner_channel): %+v", len(channels), channels)
	}

	found := map[uint]int{}
	for _, ch := range channels {
		found[ch.ID]++
	}
	if found[primary.ID] != 1 {
		t.Errorf("основной канал должен входить в список ровно один раз, найден %d раз", found[primary.ID])
	}
	if found[partner.ID] != 1 {
		t.Errorf("partner_channel должен входить в список, найден %d раз", found[partner.ID])
	}
}

func TestCreateGiveaway_RejectsNonPositiveWinners(t *testing.T) {
	s := newTestStore(t)

	owner, err := s.UpsertUser("42", "creator", "Иван", "")
	if err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}
	primary := addChannel(t, s, owner.ID, "100", "main_channel")

	giveaway := &model.Giveaway{
		ChannelID:        primary.ID,
		Prize:            "iPhone",
		WinnersCount:     0,
		EndConditionType: model.EndConditionTime,
		Status:           model.StatusPending,
	}

	creator := CreatorInfo{TelegramID: "42", UserName: "creator"}
	if err := s.CreateGiveaway(creator, giveaway, nil); err == nil {
		t.Fatal("CreateGiveaway() с нулевым числом победителей должен вернуть ошибку")
	}

	var count int64
	if err := s.db.Model(&model.Giveaway{}).Count(&count).Error; err != nil {
		t.Fatalf("не удалось посчитать розыгрыши: %v", err)
	}
	if count != 0 {
		t.Errorf("отклоненный розыгрыш не должен сохраняться, в базе %d", count)
	}
}

func TestAddParticipant_Idempotent(t *testing.T) {
	s := newTestStore(t)

	participant := &model.GiveawayParticipant{
		GiveawayID:     1,
		UserID:         1,
		TelegramUserID: 100,
		FirstName:      "Анна",
	}

	created, err := s.AddParticipant(participant)
	if err != nil {
		t.Fatalf("AddParticipant() error = %v", err)
	}
	if !created {
		t.Error("первое участие должно создаваться")
	}

	again, err := s.AddParticipant(&model.GiveawayParticipant{
		GiveawayID:     1,
		UserID:         1,
		TelegramUserID: 100,
	})
	if err != nil {
		t.Fatalf("AddParticipant() повторно error = %v", err)
	}
	if again {
		t.Error("повторное участие не должно создавать вторую запись")
	}

	count, err := s.CountParticipants(1)
	if err != nil {
		t.Fatalf("CountParticipants() error = %v", err)
	}
	if count != 1 {
		t.Errorf("участников %d, ожидался 1", count)
	}
}
