package scheduler

import (
	"fmt"
	"os"
	"testing"
	"time"

	infralogger "randomluckbot/internal/infrastructure/logger"
	"randomluckbot/internal/model"
	pkglogger "randomluckbot/pkg/logger"

	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	log, err := pkglogger.New(pkglogger.Config{})
	if err != nil {
		panic(err)
	}
	infralogger.Log = log

	os.Exit(m.Run())
}

var testNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// fakeStore хранилище в памяти для тестов планировщика
type fakeStore struct {
	giveaways    map[uint]*model.Giveaway
	channels     map[uint]*model.Channel
	users        map[uint]*model.User
	participants map[uint][]model.GiveawayParticipant
	winners      []model.Winner

	failParticipants bool
	failSaveWinners  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		giveaways:    map[uint]*model.Giveaway{},
		channels:     map[uint]*model.Channel{},
		users:        map[uint]*model.User{},
		participants: map[uint][]model.GiveawayParticipant{},
	}
}

func (f *fakeStore) DueForPublication(now time.Time) ([]model.Giveaway, error) {
	var due []model.Giveaway
	for _, g := range f.giveaways {
		if g.Status != model.StatusPending {
			continue
		}
		if g.PublicationTime == nil || !g.PublicationTime.After(now) {
			due = append(due, *g)
		}
	}
	return due, nil
}

func (f *fakeStore) DueForTimeCompletion(now time.Time) ([]model.Giveaway, error) {
	var due []model.Giveaway
	for _, g := range f.giveaways {
		if g.Status != model.StatusActive || g.EndConditionType != model.EndConditionTime {
			continue
		}
		if g.EndTime != nil && !g.EndTime.After(now) {
			due = append(due, *g)
		}
	}
	return due, nil
}

func (f *fakeStore) ActiveParticipantGiveaways() ([]model.Giveaway, error) {
	var active []model.Giveaway
	for _, g := range f.giveaways {
		if g.Status == model.StatusActive && g.EndConditionType == model.EndConditionParticipants {
			active = append(active, *g)
		}
	}
	return active, nil
}

func (f *fakeStore) GetChannel(id uint) (*model.Channel, error) {
	ch, ok := f.channels[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ch, nil
}

func (f *fakeStore) GetUserByID(id uint) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeStore) CountParticipants(giveawayID uint) (int64, error) {
	return int64(len(f.participants[giveawayID])), nil
}

func (f *fakeStore) ListParticipants(giveawayID uint) ([]model.GiveawayParticipant, error) {
	if f.failParticipants {
		return nil, fmt.Errorf("хранилище недоступно")
	}
	return f.participants[giveawayID], nil
}

func (f *fakeStore) MarkPublished(giveawayID uint, messageID int64) error {
	g, ok := f.giveaways[giveawayID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	g.MessageID = messageID
	g.Status = model.StatusActive
	return nil
}

func (f *fakeStore) SaveWinners(winners []model.Winner) error {
	if f.failSaveWinners {
		return fmt.Errorf("хранилище недоступно")
	}
	f.winners = append(f.winners, winners...)
	return nil
}

func (f *fakeStore) SetStatus(giveawayID uint, status string) error {
	g, ok := f.giveaways[giveawayID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	g.Status = status
	return nil
}

type sentAnnouncement struct {
	channel string
	text    string
}

type sentNotification struct {
	telegramID string
	text       string
}

// fakeSender записывает все исходящие сообщения вместо отправки в телеграм
type fakeSender struct {
	publishErr    error
	nextMessageID int64

	published     []uint
	announcements []sentAnnouncement
	notifications []sentNotification
}

func (f *fakeSender) PublishGiveaway(channelUserName string, giveaway *model.Giveaway) (int64, error) {
	if f.publishErr != nil {
		return 0, f.publishErr
	}
	f.published = append(f.published, giveaway.ID)
	return f.nextMessageID, nil
}

func (f *fakeSender) AnnounceText(channelUserName string, text string) error {
	f.announcements = append(f.announcements, sentAnnouncement{channel: channelUserName, text: text})
	return nil
}

func (f *fakeSender) NotifyUser(telegramID string, text string) error {
	f.notifications = append(f.notifications, sentNotification{telegramID: telegramID, text: text})
	return nil
}

func newTestScheduler(store *fakeStore, sender *fakeSender) *Scheduler {
	return &Scheduler{
		store:    store,
		sender:   sender,
		interval: time.Minute,
		now:      func() time.Time { return testNow },
	}
}

func pendingGiveaway(id uint, publicationTime *time.Time) *model.Giveaway {
	return &model.Giveaway{
		Model:            gorm.Model{ID: id},
		CreatorID:        1,
		ChannelID:        1,
		Prize:            "Подарок",
		WinnersCount:     1,
		PublicationTime:  publicationTime,
		EndConditionType: model.EndConditionTime,
		Status:           model.StatusPending,
	}
}

func TestScheduler_PublishesDueGiveaways(t *testing.T) {
	store := newFakeStore()
	sender := &fakeSender{nextMessageID: 777}

	store.channels[1] = &model.Channel{Model: gorm.Model{ID: 1}, UserName: "prize_channel"}

	future := testNow.Add(time.Hour)
	store.giveaways[1] = pendingGiveaway(1, nil)
	store.giveaways[2] = pendingGiveaway(2, &future)

	newTestScheduler(store, sender).Tick()

	if store.giveaways[1].Status != model.StatusActive {
		t.Errorf("розыгрыш 1 должен стать active, статус %s", store.giveaways[1].Status)
	}
	if store.giveaways[1].MessageID != 777 {
		t.Errorf("розыгрыш 1 должен запомнить message_id 777, получено %d", store.giveaways[1].MessageID)
	}
	if store.giveaways[2].Status != model.StatusPending {
		t.Errorf("розыгрыш 2 с будущей датой публикации должен остаться pending, статус %s", store.giveaways[2].Status)
	}
	if len(sender.published) != 1 || sender.published[0] != 1 {
		t.Errorf("опубликован должен быть только розыгрыш 1, опубликованы %v", sender.published)
	}
}

func TestScheduler_MissingChannelKeepsPending(t *testing.T) {
	store := newFakeStore()
	sender := &fakeSender{nextMessageID: 1}

	store.giveaways[1] = pendingGiveaway(1, nil)

	newTestScheduler(store, sender).Tick()

	if store.giveaways[1].Status != model.StatusPending {
		t.Errorf("розыгрыш без канала должен остаться pending, статус %s", store.giveaways[1].Status)
	}
	if len(sender.published) != 0 {
		t.Errorf("публикации быть не должно, опубликованы %v", sender.published)
	}
}

func TestScheduler_DeliveryErrorMapsToStatus(t *testing.T) {
	tests := []struct {
		name       string
		publishErr error
		wantStatus string
	}{
		{
			name:       "bot is not channel member",
			publishErr: &model.DeliveryError{Status: model.StatusErrorBotNotMember, Err: fmt.Errorf("forbidden")},
			wantStatus: model.StatusErrorBotNotMember,
		},
		{
			name:       "channel not found",
			publishErr: &model.DeliveryError{Status: model.StatusErrorChannelNotFound, Err: fmt.Errorf("chat not found")},
			wantStatus: model.StatusErrorChannelNotFound,
		},
		{
			name:       "unclassified failure",
			publishErr: fmt.Errorf("connection reset"),
			wantStatus: model.StatusErrorUnexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			sender := &fakeSender{publishErr: tt.publishErr}

			store.channels[1] = &model.Channel{Model: gorm.Model{ID: 1}, UserName: "prize_channel"}
			store.giveaways[1] = pendingGiveaway(1, nil)

			newTestScheduler(store, sender).Tick()

			if store.giveaways[1].Status != tt.wantStatus {
				t.Errorf("статус = %s, ожидался %s", store.giveaways[1].Status, tt.wantStatus)
			}
		})
	}
}

func activeTimeGiveaway(id uint, endTime time.Time, winnersCount int) *model.Giveaway {
	return &model.Giveaway{
		Model:            gorm.Model{ID: id},
		CreatorID:        1,
		ChannelID:        1,
		Prize:            "Подарок",
		WinnersCount:     winnersCount,
		EndConditionType: model.EndConditionTime,
		EndTime:          &endTime,
		Status:           model.StatusActive,
	}
}

func TestScheduler_ConcludesByTime(t *testing.T) {
	store := newFakeStore()
	sender := &fakeSender{}

	store.channels[1] = &model.Channel{Model: gorm.Model{ID: 1}, UserName: "prize_channel"}
	store.users[1] = &model.User{Model: gorm.Model{ID: 1}, TelegramID: "42"}
	store.giveaways[1] = activeTimeGiveaway(1, testNow.Add(-time.Minute), 2)
	store.participants[1] = []model.GiveawayParticipant{
		{Model: gorm.Model{ID: 10}, GiveawayID: 1, TelegramUserID: 100, FirstName: "Анна"},
		{Model: gorm.Model{ID: 11}, GiveawayID: 1, TelegramUserID: 101, FirstName: "Борис"},
		{Model: gorm.Model{ID: 12}, GiveawayID: 1, TelegramUserID: 102, FirstName: "Вера"},
	}

	newTestScheduler(store, sender).Tick()

	if store.giveaways[1].Status != model.StatusCompleted {
		t.Fatalf("розыгрыш должен стать completed, статус %s", store.giveaways[1].Status)
	}

	if len(store.winners) != 2 {
		t.Fatalf("должно быть 2 победителя, сохранено %d", len(store.winners))
	}
	for i, w := range store.winners {
		if w.Place != i+1 {
			t.Errorf("место победителя %d = %d, ожидалось %d", i, w.Place, i+1)
		}
		if w.GiveawayID != 1 {
			t.Errorf("победитель привязан к розыгрышу %d, ожидался 1", w.GiveawayID)
		}
	}
	if store.winners[0].ParticipantID == store.winners[1].ParticipantID {
		t.Error("один участник занял оба места")
	}

	if len(sender.announcements) != 1 {
		t.Fatalf("в канале должно быть одно объявление итогов, отправлено %d", len(sender.announcements))
	}
	if sender.announcements[0].channel != "prize_channel" {
		t.Errorf("итоги объявлены в канале %s, ожидался prize_channel", sender.announcements[0].channel)
	}

	if len(sender.notifications) != 1 || sender.notifications[0].telegramID != "42" {
		t.Errorf("создатель должен получить уведомление, отправлены %v", sender.notifications)
	}
}

func TestScheduler_ConcludesWithoutParticipants(t *testing.T) {
	store := newFakeStore()
	sender := &fakeSender{}

	store.channels[1] = &model.Channel{Model: gorm.Model{ID: 1}, UserName: "prize_channel"}
	store.users[1] = &model.User{Model: gorm.Model{ID: 1}, TelegramID: "42"}
	store.giveaways[1] = activeTimeGiveaway(1, testNow.Add(-time.Minute), 1)

	newTestScheduler(store, sender).Tick()

	if store.giveaways[1].Status != model.StatusCompletedNoParticipants {
		t.Errorf("статус = %s, ожидался %s", store.giveaways[1].Status, model.StatusCompletedNoParticipants)
	}
	if len(store.winners) != 0 {
		t.Errorf("победителей быть не должно, сохранено %d", len(store.winners))
	}
	if len(sender.announcements) != 1 {
		t.Errorf("в канале должно быть объявление о завершении без участников, отправлено %d", len(sender.announcements))
	}
}

func TestScheduler_ConcludesByParticipantsThreshold(t *testing.T) {
	store := newFakeStore()
	sender := &fakeSender{}

	store.channels[1] = &model.Channel{Model: gorm.Model{ID: 1}, UserName: "prize_channel"}
	store.users[1] = &model.User{Model: gorm.Model{ID: 1}, TelegramID: "42"}

	reached := &model.Giveaway{
		Model:                gorm.Model{ID: 1},
		CreatorID:            1,
		ChannelID:            1,
		Prize:                "Подарок",
		WinnersCount:         1,
		EndConditionType:     model.EndConditionParticipants,
		EndParticipantsCount: 2,
		Status:               model.StatusActive,
	}
	notReached := &model.Giveaway{
		Model:                gorm.Model{ID: 2},
		CreatorID:            1,
		ChannelID:            1,
		Prize:                "Другой подарок",
		WinnersCount:         1,
		EndConditionType:     model.EndConditionParticipants,
		EndParticipantsCount: 5,
		Status:               model.StatusActive,
	}
	store.giveaways[1] = reached
	store.giveaways[2] = notReached

	store.participants[1] = []model.GiveawayParticipant{
		{Model: gorm.Model{ID: 10}, GiveawayID: 1, TelegramUserID: 100},
		{Model: gorm.Model{ID: 11}, GiveawayID: 1, TelegramUserID: 101},
	}
	store.participants[2] = []model.GiveawayParticipant{
		{Model: gorm.Model{ID: 12}, GiveawayID: 2, TelegramUserID: 102},
	}

	newTestScheduler(store, sender).Tick()

	if store.giveaways[1].Status != model.StatusCompleted {
		t.Errorf("розыгрыш 1 достиг порога и должен стать completed, статус %s", store.giveaways[1].Status)
	}
	if store.giveaways[2].Status != model.StatusActive {
		t.Errorf("розыгрыш 2 не достиг порога и должен остаться active, статус %s", store.giveaways[2].Status)
	}
}

func TestScheduler_WinnerPersistenceFailure(t *testing.T) {
	store := newFakeStore()
	store.failSaveWinners = true
	sender := &fakeSender{}

	store.channels[1] = &model.Channel{Model: gorm.Model{ID: 1}, UserName: "prize_channel"}
	store.users[1] = &model.User{Model: gorm.Model{ID: 1}, TelegramID: "42"}
	store.giveaways[1] = activeTimeGiveaway(1, testNow.Add(-time.Minute), 1)
	store.participants[1] = []model.GiveawayParticipant{
		{Model: gorm.Model{ID: 10}, GiveawayID: 1, TelegramUserID: 100},
	}

	newTestScheduler(store, sender).Tick()

	if store.giveaways[1].Status != model.StatusErrorWinnerSelection {
		t.Errorf("статус после сбоя сохранения победителей = %s, ожидался %s",
			store.giveaways[1].Status, model.StatusErrorWinnerSelection)
	}
	if len(store.winners) != 0 {
		t.Errorf("победителей быть не должно, сохранено %d", len(store.winners))
	}
	if len(sender.announcements) != 0 {
		t.Errorf("объявлений быть не должно, отправлено %d", len(sender.announcements))
	}
}

func TestScheduler_WinnerSelectionFailure(t *testing.T) {
	store := newFakeStore()
	store.failParticipants = true
	sender := &fakeSender{}

	store.channels[1] = &model.Channel{Model: gorm.Model{ID: 1}, UserName: "prize_channel"}
	store.giveaways[1] = activeTimeGiveaway(1, testNow.Add(-time.Minute), 1)

	newTestScheduler(store, sender).Tick()

	if store.giveaways[1].Status != model.StatusErrorWinnerSelection {
		t.Errorf("статус = %s, ожидался %s", store.giveaways[1].Status, model.StatusErrorWinnerSelection)
	}
	if len(sender.announcements) != 0 {
		t.Errorf("объявлений быть не должно, отправлено %d", len(sender.announcements))
	}
}
