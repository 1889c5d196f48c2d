package tg

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"randomluckbot/internal/infrastructure/logger"
	"randomluckbot/internal/messages"
	"randomluckbot/internal/model"
	"randomluckbot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandleNewGiveaway начинает диалог создания розыгрыша с чистого черновика
func HandleNewGiveaway(app *Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID

	app.ClearUserState(chatID)
	app.sessions.Set(chatID, GiveawayDraft{})
	app.SetUserState(chatID, StateWaitingMedia)

	return app.Reply(chatID, messages.Get("giveaway.create.request_media"))
}

// HandleMediaStep принимает медиа розыгрыша или слово «пропустить»
func HandleMediaStep(app *Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	draft := app.sessions.Get(chatID)

	media := DetectMedia(update.Message)
	if !media.HasMedia() && !IsSkipWord(update.Message.Text) {
		return app.Reply(chatID, messages.Get("giveaway.create.request_media"))
	}

	draft.Media = media
	app.sessions.Set(chatID, draft)
	app.SetUserState(chatID, StateWaitingDescription)

	return app.Reply(chatID, messages.Get("giveaway.create.request_description"))
}

func HandleDescriptionStep(app *Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	draft := app.sessions.Get(chatID)

	if err := draft.ApplyDescription(update.Message.Text); err != nil {
		return app.Reply(chatID, messages.Get("giveaway.create.invalid_description"))
	}

	app.sessions.Set(chatID, draft)
	app.SetUserState(chatID, StateWaitingPrize)

	return app.Reply(chatID, messages.Get("giveaway.create.request_prize"))
}

func HandlePrizeStep(app *Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	draft := app.sessions.Get(chatID)

	if err := draft.ApplyPrize(update.Message.Text); err != nil {
		return app.Reply(chatID, messages.Get("giveaway.create.invalid_prize"))
	}

	app.sessions.Set(chatID, draft)

	return app.sendChannelChoice(update)
}

// sendChannelChoice показывает inline-клавиатуру каналов пользователя.
// Без добавленных каналов создание прерывается.
func (app *Bot) sendChannelChoice(update tgbotapi.Update) error {
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

	if len(channels) == 0 {
		app.ClearUserState(chatID)
		return app.Reply(chatID, messages.Get("giveaway.create.no_channels"))
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(channels)+1)
	for _, ch := range channels {
		title := ch.Title
		if title == "" {
			title = "@" + ch.UserName
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(title, CallbackPickChannelPrefix+strconv.FormatUint(uint64(ch.ID), 10)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", CallbackCancelCreation),
	))

	app.SetUserState(chatID, StateWaitingChannel)

	return app.ReplyWithMarkup(chatID, messages.Get("giveaway.create.request_channel"), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

// HandleChannelStep на этом шаге ждем нажатия кнопки, текст просто перепрашиваем
func HandleChannelStep(app *Bot, update tgbotapi.Update) error {
	return app.Reply(update.Message.Chat.ID, messages.Get("giveaway.create.request_channel"))
}

// HandleCreationCallback обрабатывает кнопки внутри диалога создания
func HandleCreationCallback(app *Bot, update tgbotapi.Update) error {
	data := update.CallbackQuery.Data
	chatID := update.CallbackQuery.Message.Chat.ID

	switch {
	case data == CallbackCancelCreation:
		app.ClearUserState(chatID)
		app.AnswerCallback(update.CallbackQuery.ID, "")
		return app.Reply(chatID, messages.Get("giveaway.create.cancelled"))

	case strings.HasPrefix(data, CallbackPickChannelPrefix):
		if app.GetUserState(chatID) != StateWaitingChannel {
			app.AnswerCallback(update.CallbackQuery.ID, "")
			return nil
		}
		return app.handlePickChannel(update)
	}

	app.AnswerCallback(update.CallbackQuery.ID, "")

	return nil
}

func (app *Bot) handlePickChannel(update tgbotapi.Update) error {
	chatID := update.CallbackQuery.Message.Chat.ID

	rawID := strings.TrimPrefix(update.CallbackQuery.Data, CallbackPickChannelPrefix)
	channelID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		app.AnswerCallback(update.CallbackQuery.ID, "")
		return fmt.Errorf("некорректный id канала в callback: %s", rawID)
	}

	channel, err := app.store.GetChannel(uint(channelID))
	if err != nil {
		app.AnswerCallback(update.CallbackQuery.ID, messages.Get("giveaway.create.no_channels"))
		return err
	}

	draft := app.sessions.Get(chatID)
	draft.ChannelID = channel.ID
	draft.ChannelUserName = channel.UserName
	app.sessions.Set(chatID, draft)
	app.SetUserState(chatID, StateWaitingExtraChannels)

	app.AnswerCallback(update.CallbackQuery.ID, "")

	return app.Reply(chatID, messages.Get("giveaway.create.request_extra_channels"))
}

func HandleExtraChannelsStep(app *Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	draft := app.sessions.Get(chatID)

	if err := draft.ApplyExtraChannels(update.Message.Text); err != nil {
		return app.Reply(chatID, messages.Getf("giveaway.create.invalid_extra_channels", err.Error()))
	}

	app.sessions.Set(chatID, draft)
	app.SetUserState(chatID, StateWaitingWinnersCount)

	return app.Reply(chatID, messages.Get("giveaway.create.request_winners"))
}

func HandleWinnersCountStep(app *Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	draft := app.sessions.Get(chatID)

	if err := draft.ApplyWinnersCount(update.Message.Text); err != nil {
		return app.Reply(chatID, messages.Get("giveaway.create.invalid_winners"))
	}

	app.sessions.Set(chatID, draft)
	app.SetUserState(chatID, StateWaitingPublicationTime)

	return app.Reply(chatID, messages.Get("giveaway.create.request_publication_time"))
}

func HandlePublicationTimeStep(app *Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	draft := app.sessions.Get(chatID)

	if err := draft.ApplyPublicationTime(update.Message.Text, app.userLocation, time.Now().UTC()); err != nil {
		return app.Reply(chatID, messages.Get("giveaway.create.invalid_publication_time"))
	}

	app.sessions.Set(chatID, draft)
	app.SetUserState(chatID, StateWaitingEndCondition)

	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(messages.Get("giveaway.create.end_by_time")),
			tgbotapi.NewKeyboardButton(messages.Get("giveaway.create.end_by_participants")),
		),
	)
	keyboard.OneTimeKeyboard = true
	keyboard.ResizeKeyboard = true

	return app.ReplyWithMarkup(chatID, messages.Get("giveaway.create.request_end_condition"), keyboard)
}

func HandleEndByTime(app *Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	draft := app.sessions.Get(chatID)

	if err := draft.ApplyEndCondition(model.EndConditionTime); err != nil {
		return err
	}

	app.sessions.Set(chatID, draft)
	app.SetUserState(chatID, StateWaitingEndTime)

	return app.Reply(chatID, messages.Get("giveaway.create.request_end_time"))
}

func HandleEndByParticipants(app *Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	draft := app.sessions.Get(chatID)

	if err := draft.ApplyEndCondition(model.EndConditionParticipants); err != nil {
		return err
	}

	app.sessions.Set(chatID, draft)
	app.SetUserState(chatID, StateWaitingEndParticipants)

	return app.Reply(chatID, messages.Get("giveaway.create.request_end_participants"))
}

func HandleEndConditionInvalid(app *Bot, update tgbotapi.Update) error {
	return app.Reply(update.Message.Chat.ID, messages.Get("giveaway.create.invalid_end_condition"))
}

func HandleEndTimeStep(app *Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	draft := app.sessions.Get(chatID)

	if err := draft.ApplyEndTime(update.Message.Text, app.userLocation, time.Now().UTC()); err != nil {
		return app.Reply(chatID, messages.Get("giveaway.create.invalid_end_time"))
	}

	app.sessions.Set(chatID, draft)
	app.SetUserState(chatID, StateWaitingCaptcha)

	return app.Reply(chatID, messages.Get("giveaway.create.request_captcha"))
}

func HandleEndParticipantsStep(app *Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	draft := app.sessions.Get(chatID)

	if err := draft.ApplyEndParticipants(update.Message.Text); err != nil {
		return app.Reply(chatID, messages.Get("giveaway.create.invalid_end_participants"))
	}

	app.sessions.Set(chatID, draft)
	app.SetUserState(chatID, StateWaitingCaptcha)

	return app.Reply(chatID, messages.Get("giveaway.create.request_captcha"))
}

func HandleCaptchaStep(app *Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	draft := app.sessions.Get(chatID)

	enabled, err := ParseYesNo(update.Message.Text)
	if err != nil {
		return app.Reply(chatID, messages.Get("giveaway.create.invalid_yes_no"))
	}

	draft.HasCaptcha = enabled
	app.sessions.Set(chatID, draft)
	app.SetUserState(chatID, StateWaitingBoost)

	return app.Reply(chatID, messages.Get("giveaway.create.request_boost"))
}

func HandleBoostStep(app *Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	draft := app.sessions.Get(chatID)

	enabled, err := ParseYesNo(update.Message.Text)
	if err != nil {
		return app.Reply(chatID, messages.Get("giveaway.create.invalid_yes_no"))
	}

	draft.BoostEnabled = enabled
	app.sessions.Set(chatID, draft)
	app.SetUserState(chatID, StateWaitingButtonText)

	return app.Reply(chatID, messages.Get("giveaway.create.request_button"))
}

// HandleButtonTextStep последний шаг диалога, после него черновик сохраняется в БД
func HandleButtonTextStep(app *Bot, update tgbotapi.Update) error {
	from := update.Message.From
	chatID := update.Message.Chat.ID
	draft := app.sessions.Get(chatID)

	draft.ApplyButtonText(update.Message.Text, app.defaultButtonText)

	giveaway := draft.Giveaway()
	creator := storage.CreatorInfo{
		TelegramID: strconv.FormatInt(from.ID, 10),
		UserName:   from.UserName,
		FirstName:  from.FirstName,
		LastName:   from.LastName,
	}

	// Диалог завершается независимо от результата сохранения
	app.ClearUserState(chatID)

	if err := app.store.CreateGiveaway(creator, &giveaway, draft.ExtraChannels); err != nil {
		logger.Error("Не удалось сохранить розыгрыш пользователя ", creator.TelegramID, ": ", err)
		return app.ReplyWithMarkup(chatID, messages.Get("giveaway.create.failure"), mainMenuKeyboard())
	}

	return app.ReplyWithMarkup(chatID, messages.Get("giveaway.create.success"), mainMenuKeyboard())
}
