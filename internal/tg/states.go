package tg

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Имена состояний диалога. Пустая строка означает отсутствие активного диалога.
const (
	StateIdle = ""

	// Создание розыгрыша, шаги в порядке прохождения
	StateWaitingMedia           = "waiting_media"
	StateWaitingDescription     = "waiting_description"
	StateWaitingPrize           = "waiting_prize"
	StateWaitingChannel         = "waiting_channel"
	StateWaitingExtraChannels   = "waiting_extra_channels"
	StateWaitingWinnersCount    = "waiting_winners_count"
	StateWaitingPublicationTime = "waiting_publication_time"
	StateWaitingEndCondition    = "waiting_end_condition"
	StateWaitingEndTime         = "waiting_end_time"
	StateWaitingEndParticipants = "waiting_end_participants"
	StateWaitingCaptcha         = "waiting_captcha"
	StateWaitingBoost           = "waiting_boost"
	StateWaitingButtonText      = "waiting_button_text"

	// Одношаговые диалоги
	StateWaitingSupportMessage = "waiting_support_message"
	StateWaitingChannelAdd     = "waiting_channel_add"
)

type HandlerFunc func(*Bot, tgbotapi.Update) error

type Handler struct {
	Func        HandlerFunc
	Description string
}

// State описывает поведение бота в одном состоянии диалога.
// MessageRoute проверяется первым по точному тексту сообщения,
// затем произвольный ввод попадает в CatchAll.
type State struct {
	MessageRoute     map[string]Handler
	CatchAllFunc     Handler
	CatchAllCallback Handler
}

// Префиксы callback-данных inline-кнопок
const (
	CallbackEnterGiveawayPrefix = "enter_giveaway:"
	CallbackPickChannelPrefix   = "pick_channel:"
	CallbackAddChannel          = "add_channel"
	CallbackCancelCreation      = "cancel_creation"
)

var defaultHandler = Handler{
	Func: func(app *Bot, update tgbotapi.Update) error {
		return nil
	},
	Description: "defaultHandler",
}
