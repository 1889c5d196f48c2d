package tg

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"randomluckbot/internal/model"
	"randomluckbot/internal/utils"
)

// GiveawayDraft поля розыгрыша, накопленные за время диалога создания.
// Ничего не пишется в БД, пока диалог не дойдет до финализации.
type GiveawayDraft struct {
	Media           model.InboundMedia
	Description     string
	Prize           string
	ChannelID       uint
	ChannelUserName string
	ExtraChannels   []string
	WinnersCount    int
	PublicationTime *time.Time // nil означает «опубликовать сразу»
	EndCondition    string
	EndTime         *time.Time
	EndParticipants int
	HasCaptcha      bool
	BoostEnabled    bool
	ButtonText      string
}

// Сентинели, которые пользователь может прислать вместо значения
var (
	skipWords    = map[string]bool{"пропустить": true, "skip": true, "нет": true}
	nowWords     = map[string]bool{"сейчас": true, "now": true}
	noneWords    = map[string]bool{"нет": true, "no": true, "-": true}
	defaultWords = map[string]bool{"по умолчанию": true, "default": true}
	yesWords     = map[string]bool{"да": true, "yes": true}
	noWords      = map[string]bool{"нет": true, "no": true}
)

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// IsSkipWord сообщает, хочет ли пользователь пропустить шаг с медиа
func IsSkipWord(text string) bool {
	return skipWords[normalize(text)]
}

func (d *GiveawayDraft) ApplyDescription(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("пустое описание")
	}
	d.Description = text
	return nil
}

func (d *GiveawayDraft) ApplyPrize(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("пустой приз")
	}
	d.Prize = text
	return nil
}

// ApplyExtraChannels разбирает список дополнительных каналов.
// «нет» означает отсутствие дополнительных каналов. Один невалидный
// элемент отклоняет весь список, черновик при этом не меняется.
func (d *GiveawayDraft) ApplyExtraChannels(text string) error {
	if noneWords[normalize(text)] {
		d.ExtraChannels = nil
		return nil
	}

	usernames, err := utils.ParseChannelList(text)
	if err != nil {
		return err
	}
	d.ExtraChannels = usernames
	return nil
}

func (d *GiveawayDraft) ApplyWinnersCount(text string) error {
	count, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || count <= 0 {
		return fmt.Errorf("количество победителей должно быть целым числом больше нуля")
	}
	d.WinnersCount = count
	return nil
}

// ApplyPublicationTime разбирает время публикации. «сейчас» означает
// немедленную публикацию. Время в прошлом отклоняется.
func (d *GiveawayDraft) ApplyPublicationTime(text string, loc *time.Location, now time.Time) error {
	if nowWords[normalize(text)] {
		d.PublicationTime = nil
		return nil
	}

	t, err := utils.ParseUserTime(text, loc)
	if err != nil {
		return err
	}
	if t.Before(now) {
		return fmt.Errorf("время публикации уже в прошлом")
	}
	d.PublicationTime = &t
	return nil
}

func (d *GiveawayDraft) ApplyEndCondition(conditionType string) error {
	if conditionType != model.EndConditionTime && conditionType != model.EndConditionParticipants {
		return fmt.Errorf("неизвестный тип завершения: %s", conditionType)
	}
	d.EndCondition = conditionType
	return nil
}

// ApplyEndTime разбирает время завершения. Оно должно быть строго позже
// времени публикации и не в прошлом.
func (d *GiveawayDraft) ApplyEndTime(text string, loc *time.Location, now time.Time) error {
	t, err := utils.ParseUserTime(text, loc)
	if err != nil {
		return err
	}
	if t.Before(now) {
		return fmt.Errorf("время завершения уже в прошлом")
	}
	start := now
	if d.PublicationTime != nil {
		start = *d.PublicationTime
	}
	if !t.After(start) {
		return fmt.Errorf("время завершения должно быть позже времени публикации")
	}
	d.EndTime = &t
	return nil
}

func (d *GiveawayDraft) ApplyEndParticipants(text string) error {
	count, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || count <= 0 {
		return fmt.Errorf("порог участников должен быть целым числом больше нуля")
	}
	d.EndParticipants = count
	return nil
}

// ParseYesNo разбирает ответ «да»/«нет»
func ParseYesNo(text string) (bool, error) {
	switch {
	case yesWords[normalize(text)]:
		return true, nil
	case noWords[normalize(text)]:
		return false, nil
	default:
		return false, fmt.Errorf("ожидался ответ «да» или «нет»")
	}
}

// ApplyButtonText устанавливает текст кнопки участия.
// Сентинель «по умолчанию» заменяется на defaultText.
func (d *GiveawayDraft) ApplyButtonText(text, defaultText string) {
	if defaultWords[normalize(text)] {
		d.ButtonText = defaultText
		return
	}
	d.ButtonText = strings.TrimSpace(text)
}

// Giveaway собирает сущность розыгрыша из черновика. Создаваемый розыгрыш
// всегда начинает жизнь в статусе pending.
func (d *GiveawayDraft) Giveaway() model.Giveaway {
	g := model.Giveaway{
		ChannelID:               d.ChannelID,
		Description:             d.Description,
		Prize:                   d.Prize,
		MediaType:               model.MediaNone,
		ParticipationButtonText: d.ButtonText,
		WinnersCount:            d.WinnersCount,
		PublicationTime:         d.PublicationTime,
		EndConditionType:        d.EndCondition,
		HasCaptcha:              d.HasCaptcha,
		BoostEnabled:            d.BoostEnabled,
		Status:                  model.StatusPending,
	}

	if d.Media.HasMedia() {
		g.MediaType = d.Media.Kind
		g.MediaFileID = d.Media.FileID
		g.MediaMime = d.Media.Mime
	}

	switch d.EndCondition {
	case model.EndConditionTime:
		g.EndTime = d.EndTime
	case model.EndConditionParticipants:
		g.EndParticipantsCount = d.EndParticipants
	}

	return g
}
