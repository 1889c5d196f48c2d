package tg

import (
	"fmt"
	"strconv"
	"strings"

	"randomluckbot/internal/messages"
	"randomluckbot/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Кнопки главного меню
const (
	MenuNewGiveaway = "🎁 Создать розыгрыш"
	MenuMyGiveaways = "📋 Мои розыгрыши"
	MenuMyChannels  = "📺 Мои каналы"
	MenuSupport     = "🆘 Поддержка"
)

// CommandRoutes глобальные команды, доступные из любого состояния диалога.
// Ключи в нижнем регистре, сравнение идет по нормализованному тексту.
var CommandRoutes = map[string]Handler{
	"/start":        {Func: HandleStart, Description: "HandleStart"},
	"/help":         {Func: HandleHelp, Description: "HandleHelp"},
	"/new_giveaway": {Func: HandleNewGiveaway, Description: "HandleNewGiveaway"},
	"/my_giveaways": {Func: HandleMyGiveaways, Description: "HandleMyGiveaways"},
	"/my_channels":  {Func: HandleMyChannels, Description: "HandleMyChannels"},
	"/support":      {Func: HandleSupport, Description: "HandleSupport"},

	strings.ToLower(MenuNewGiveaway): {Func: HandleNewGiveaway, Description: "HandleNewGiveaway"},
	strings.ToLower(MenuMyGiveaways): {Func: HandleMyGiveaways, Description: "HandleMyGiveaways"},
	strings.ToLower(MenuMyChannels):  {Func: HandleMyChannels, Description: "HandleMyChannels"},
	strings.ToLower(MenuSupport):     {Func: HandleSupport, Description: "HandleSupport"},
}

// UserStates карта всех состояний диалога
var UserStates = map[string]State{
	StateIdle: {
		CatchAllFunc: defaultHandler,
	},

	StateWaitingMedia: {
		CatchAllFunc:     Handler{Func: HandleMediaStep, Description: "HandleMediaStep"},
		CatchAllCallback: Handler{Func: HandleCreationCallback, Description: "HandleCreationCallback"},
	},
	StateWaitingDescription: {
		CatchAllFunc:     Handler{Func: HandleDescriptionStep, Description: "HandleDescriptionStep"},
		CatchAllCallback: Handler{Func: HandleCreationCallback, Description: "HandleCreationCallback"},
	},
	StateWaitingPrize: {
		CatchAllFunc:     Handler{Func: HandlePrizeStep, Description: "HandlePrizeStep"},
		CatchAllCallback: Handler{Func: HandleCreationCallback, Description: "HandleCreationCallback"},
	},
	StateWaitingChannel: {
		CatchAllFunc:     Handler{Func: HandleChannelStep, Description: "HandleChannelStep"},
		CatchAllCallback: Handler{Func: HandleCreationCallback, Description: "HandleCreationCallback"},
	},
	StateWaitingExtraChannels: {
		CatchAllFunc:     Handler{Func: HandleExtraChannelsStep, Description: "HandleExtraChannelsStep"},
		CatchAllCallback: Handler{Func: HandleCreationCallback, Description: "HandleCreationCallback"},
	},
	StateWaitingWinnersCount: {
		CatchAllFunc:     Handler{Func: HandleWinnersCountStep, Description: "HandleWinnersCountStep"},
		CatchAllCallback: Handler{Func: HandleCreationCallback, Description: "HandleCreationCallback"},
	},
	StateWaitingPublicationTime: {
		CatchAllFunc:     Handler{Func: HandlePublicationTimeStep, Description: "HandlePublicationTimeStep"},
		CatchAllCallback: Handler{Func: HandleCreationCallback, Description: "HandleCreationCallback"},
	},
	StateWaitingEndCondition: {
		MessageRoute: map[string]Handler{
			strings.ToLower(messages.Get("giveaway.create.end_by_time")):         {Func: HandleEndByTime, Description: "HandleEndByTime"},
			strings.ToLower(messages.Get("giveaway.create.end_by_participants")): {Func: HandleEndByParticipants, Description: "HandleEndByParticipants"},
		},
		CatchAllFunc:     Handler{Func: HandleEndConditionInvalid, Description: "HandleEndConditionInvalid"},
		CatchAllCallback: Handler{Func: HandleCreationCallback, Description: "HandleCreationCallback"},
	},
	StateWaitingEndTime: {
		CatchAllFunc:     Handler{Func: HandleEndTimeStep, Description: "HandleEndTimeStep"},
		CatchAllCallback: Handler{Func: HandleCreationCallback, Description: "HandleCreationCallback"},
	},
	StateWaitingEndParticipants: {
		CatchAllFunc:     Handler{Func: HandleEndParticipantsStep, Description: "HandleEndParticipantsStep"},
		CatchAllCallback: Handler{Func: HandleCreationCallback, Description: "HandleCreationCallback"},
	},
	StateWaitingCaptcha: {
		CatchAllFunc:     Handler{Func: HandleCaptchaStep, Description: "HandleCaptchaStep"},
		CatchAllCallback: Handler{Func: HandleCreationCallback, Description: "HandleCreationCallback"},
	},
	StateWaitingBoost: {
		CatchAllFunc:     Handler{Func: HandleBoostStep, Description: "HandleBoostStep"},
		CatchAllCallback: Handler{Func: HandleCreationCallback, Description: "HandleCreationCallback"},
	},
	StateWaitingButtonText: {
		CatchAllFunc:     Handler{Func: HandleButtonTextStep, Description: "HandleButtonTextStep"},
		CatchAllCallback: Handler{Func: HandleCreationCallback, Description: "HandleCreationCallback"},
	},

	StateWaitingSupportMessage: {
		CatchAllFunc: Handler{Func: HandleSupportMessage, Description: "HandleSupportMessage"},
	},
	StateWaitingChannelAdd: {
		CatchAllFunc: Handler{Func: HandleChannelAddMessage, Description: "HandleChannelAddMessage"},
	},
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(MenuNewGiveaway),
			tgbotapi.NewKeyboardButton(MenuMyGiveaways),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(MenuMyChannels),
			tgbotapi.NewKeyboardButton(MenuSupport),
		),
	)
	keyboard.ResizeKeyboard = true

	return keyboard
}

// HandleStart регистрирует пользователя и показывает главное меню
func HandleStart(app *Bot, update tgbotapi.Update) error {
	from := update.Message.From
	chatID := update.Message.Chat.ID

	app.ClearUserState(chatID)

	_, err := app.store.UpsertUser(strconv.FormatInt(from.ID, 10), from.UserName, from.FirstName, from.LastName)
	if err != nil {
		return fmt.Errorf("не удалось сохранить пользователя: %w", err)
	}

	return app.ReplyWithMarkup(chatID, messages.Get("welcome.start"), mainMenuKeyboard())
}

func HandleHelp(app *Bot, update tgbotapi.Update) error {
	return app.Reply(update.Message.Chat.ID, messages.Get("help.commands"))
}

// HandleMyGiveaways показывает список розыгрышей пользователя с их статусами
func HandleMyGiveaways(app *Bot, update tgbotapi.Update) error {
	from := update.Message.From
	chatID := update.Message.Chat.ID

	user, err := app.store.UpsertUser(strconv.FormatInt(from.ID, 10), from.UserName, from.FirstName, from.LastName)
	if err != nil {
		return err
	}

	giveaways, err := app.store.ListUserGiveaways(user.ID)
	if err != nil {
		return err
	}

	if len(giveaways) == 0 {
		return app.Reply(chatID, messages.Get("giveaway.list.no_giveaways"))
	}

	var sb strings.Builder
	for i, g := range giveaways {
		fmt.Fprintf(&sb, "%d. %s — %s\n", i+1, g.Prize, statusLabel(g.Status))
	}

	return app.Reply(chatID, messages.Getf("giveaway.list.giveaways_list", sb.String()))
}

func statusLabel(status string) string {
	switch status {
	case model.StatusPending:
		return "ожидает публикации"
	case model.StatusActive:
		return "идет"
	case model.StatusCompleted:
		return "завершен"
	case model.StatusCompletedNoParticipants:
		return "завершен без участников"
	default:
		if model.IsErrorStatus(status) {
			return "ошибка публикации"
		}
		return status
	}
}

// HandleMyChannels показывает каналы пользователя и кнопку добавления
func HandleMyChannels(app *Bot, update tgbotapi.Update) error {
	from := update.Message.From
	chatID := update.Message.Chat.ID

	user, err := app.store.UpsertUser(strconv.FormatInt(from.ID, 10), from.UserName, from.FirstName, from.LastName)
	if err != nil {
		return err
	}

	channels, err := app.store.ListUserChannels(user.ID)
	if err != nil {
		return err
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(messages.Get("channel.list.add_button"), CallbackAddChannel),
		),
	)

	if len(channels) == 0 {
		return app.ReplyWithMarkup(chatID, messages.Get("channel.list.no_channels"), markup)
	}

	var sb strings.Builder
	for i, ch := range channels {
		title := ch.Title
		if title == "" {
			title = "@" + ch.UserName
		}
		fmt.Fprintf(&sb, "%d. %s (@%s)\n", i+1, title, ch.UserName)
	}

	return app.ReplyWithMarkup(chatID, messages.Getf("channel.list.channels_list", sb.String()), markup)
}

// HandleSupport запускает одношаговый диалог обращения в поддержку
func HandleSupport(app *Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID

	app.SetUserState(chatID, StateWaitingSupportMessage)

	return app.Reply(chatID, messages.Get("support.request_message"))
}

// HandleSupportMessage сохраняет текст обращения и возвращает пользователя в меню
func HandleSupportMessage(app *Bot, update tgbotapi.Update) error {
	from := update.Message.From
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	if text == "" {
		return app.Reply(chatID, messages.Get("support.request_message"))
	}

	req := model.SupportRequest{Message: text}

	user, err := app.store.UpsertUser(strconv.FormatInt(from.ID, 10), from.UserName, from.FirstName, from.LastName)
	if err == nil {
		req.UserID = &user.ID
	}

	app.ClearUserState(chatID)

	if err := app.store.CreateSupportRequest(&req); err != nil {
		if sendErr := app.Reply(chatID, messages.Get("support.failure")); sendErr != nil {
			return sendErr
		}
		return err
	}

	return app.Reply(chatID, messages.Get("support.success"))
}
