package tg

import (
	"strconv"
	"strings"

	"randomluckbot/internal/infrastructure/logger"
	"randomluckbot/internal/messages"
	"randomluckbot/internal/model"
	"randomluckbot/internal/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandleEnterGiveaway регистрирует участие по нажатию кнопки под постом розыгрыша.
// Повторное нажатие не создает дубликата.
func HandleEnterGiveaway(app *Bot, update tgbotapi.Update) error {
	callback := update.CallbackQuery
	from := callback.From

	rawID := strings.TrimPrefix(callback.Data, CallbackEnterGiveawayPrefix)
	giveawayID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		app.AnswerCallback(callback.ID, messages.Get("participate.error"))
		return err
	}

	giveaway, err := app.store.GetGiveaway(uint(giveawayID))
	if err != nil {
		app.AnswerCallback(callback.ID, messages.Get("participate.not_active"))
		return err
	}

	if giveaway.Status != model.StatusActive {
		app.AnswerCallback(callback.ID, messages.Get("participate.not_active"))
		return nil
	}

	subscribed, err := app.isSubscribedEverywhere(giveaway.ID, from.ID)
	if err != nil {
		app.AnswerCallback(callback.ID, messages.Get("participate.error"))
		return err
	}
	if !subscribed {
		app.AnswerCallback(callback.ID, messages.Get("participate.not_subscribed"))
		return nil
	}

	user, err := app.store.UpsertUser(strconv.FormatInt(from.ID, 10), from.UserName, from.FirstName, from.LastName)
	if err != nil {
		app.AnswerCallback(callback.ID, messages.Get("participate.error"))
		return err
	}

	participant := model.GiveawayParticipant{
		GiveawayID:     giveaway.ID,
		UserID:         user.ID,
		TelegramUserID: from.ID,
		UserName:       from.UserName,
		FirstName:      from.FirstName,
		LastName:       from.LastName,
		CaptchaPassed:  !giveaway.HasCaptcha,
	}

	created, err := app.store.AddParticipant(&participant)
	if err != nil {
		app.AnswerCallback(callback.ID, messages.Get("participate.error"))
		return err
	}

	if !created {
		app.AnswerCallback(callback.ID, messages.Get("participate.already"))
		return nil
	}

	app.AnswerCallback(callback.ID, messages.Get("participate.joined"))

	return nil
}

// isSubscribedEverywhere проверяет подписку на все каналы розыгрыша.
// Каналы без юзернейма пропускаются, проверить их через API нельзя.
func (app *Bot) isSubscribedEverywhere(giveawayID uint, userID int64) (bool, error) {
	channels, err := app.store.ListRequiredChannels(giveawayID)
	if err != nil {
		return false, err
	}

	for i := range channels {
		if channels[i].UserName == "" && channels[i].TelegramID == "" {
			continue
		}

		member, err := app.IsChannelMember(&channels[i], userID)
		if err != nil {
			logger.Warn("Не удалось проверить подписку на канал @", channels[i].UserName, ": ", err)
			continue
		}
		if !member {
			return false, nil
		}
	}

	return true, nil
}

// HandleAddChannelCallback запускает диалог добавления канала
func HandleAddChannelCallback(app *Bot, update tgbotapi.Update) error {
	chatID := update.CallbackQuery.Message.Chat.ID

	app.AnswerCallback(update.CallbackQuery.ID, "")
	app.SetUserState(chatID, StateWaitingChannelAdd)

	return app.Reply(chatID, messages.Get("channel.add.request"))
}

// HandleChannelAddMessage принимает пересланный пост из канала,
// @username или ссылку t.me и сохраняет канал за пользователем
func HandleChannelAddMessage(app *Bot, update tgbotapi.Update) error {
	from := update.Message.From
	chatID := update.Message.Chat.ID

	channel := model.Channel{}

	if fwd := update.Message.ForwardFromChat; fwd != nil && fwd.Type == "channel" {
		channel.TelegramID = strconv.FormatInt(fwd.ID, 10)
		channel.UserName = fwd.UserName
		channel.Title = fwd.Title
		channel.IsPublic = fwd.UserName != ""
	} else {
		userName, err := utils.ParseChannelRef(update.Message.Text)
		if err != nil {
			return app.Reply(chatID, messages.Get("channel.add.invalid"))
		}
		channel.UserName = userName
		channel.IsPublic = true
	}

	user, err := app.store.UpsertUser(strconv.FormatInt(from.ID, 10), from.UserName, from.FirstName, from.LastName)
	if err != nil {
		return err
	}
	channel.OwnerID = user.ID

	app.ClearUserState(chatID)

	if err := app.store.CreateChannel(&channel); err != nil {
		if sendErr := app.Reply(chatID, messages.Get("channel.add.failure")); sendErr != nil {
			return sendErr
		}
		return err
	}

	return app.Reply(chatID, messages.Get("channel.add.success"))
}
