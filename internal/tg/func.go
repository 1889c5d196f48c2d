package tg

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"randomluckbot/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SendMessage синхронная функция для отправки сообщения.
// Сам запрос уходит через очередь с ограничением скорости.
func (app *Bot) SendMessage(msg tgbotapi.MessageConfig) (tgbotapi.Message, error) {
	return app.send(msg)
}

// send ставит запрос в очередь и с помощью waitgroup дожидается результата отправки
func (app *Bot) send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	var sendedMsg tgbotapi.Message
	var err error

	var wg sync.WaitGroup
	wg.Add(1)

	qErr := app.msgRequestHandler.HandleRequest(func() error {
		defer wg.Done()

		sendedMsg, err = app.botAPI.Send(c)
		return err
	})
	if qErr != nil {
		return tgbotapi.Message{}, qErr
	}

	wg.Wait()
	return sendedMsg, err
}

// Reply отправляет простой текстовый ответ в чат
func (app *Bot) Reply(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := app.SendMessage(msg)
	return err
}

// ReplyWithMarkup отправляет текстовый ответ с клавиатурой
func (app *Bot) ReplyWithMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	_, err := app.SendMessage(msg)
	return err
}

// AnswerCallback закрывает "часики" на inline-кнопке
func (app *Bot) AnswerCallback(callbackID, text string) {
	cb := tgbotapi.NewCallback(callbackID, text)

	var wg sync.WaitGroup
	wg.Add(1)
	qErr := app.msgRequestHandler.HandleRequest(func() error {
		defer wg.Done()
		_, err := app.botAPI.Request(cb)
		return err
	})
	if qErr != nil {
		return
	}
	wg.Wait()
}

// PublishGiveaway публикует пост розыгрыша в канал с кнопкой участия.
// Возвращает ID опубликованного сообщения. Ошибки доставки, о которых
// сообщил Telegram, возвращаются классифицированными как *model.DeliveryError.
func (app *Bot) PublishGiveaway(channelUserName string, giveaway *model.Giveaway) (int64, error) {
	buttonText := giveaway.ParticipationButtonText
	if buttonText == "" {
		buttonText = app.defaultButtonText
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(buttonText,
				fmt.Sprintf("%s%d", CallbackEnterGiveawayPrefix, giveaway.ID)),
		),
	)

	text := composeGiveawayText(giveaway)
	channel := "@" + channelUserName

	var chattable tgbotapi.Chattable
	switch {
	case giveaway.MediaType == model.MediaPhoto && giveaway.MediaFileID != "":
		cfg := tgbotapi.NewPhotoToChannel(channel, tgbotapi.FileID(giveaway.MediaFileID))
		cfg.Caption = text
		cfg.ParseMode = tgbotapi.ModeHTML
		cfg.ReplyMarkup = markup
		chattable = cfg
	case giveaway.MediaType == model.MediaVideo && giveaway.MediaFileID != "":
		cfg := tgbotapi.NewVideo(0, tgbotapi.FileID(giveaway.MediaFileID))
		cfg.ChannelUsername = channel
		cfg.Caption = text
		cfg.ParseMode = tgbotapi.ModeHTML
		cfg.ReplyMarkup = markup
		chattable = cfg
	case giveaway.MediaType == model.MediaAnimation && giveaway.MediaFileID != "":
		cfg := tgbotapi.NewAnimation(0, tgbotapi.FileID(giveaway.MediaFileID))
		cfg.ChannelUsername = channel
		cfg.Caption = text
		cfg.ParseMode = tgbotapi.ModeHTML
		cfg.ReplyMarkup = markup
		chattable = cfg
	case giveaway.MediaType == model.MediaDocument && giveaway.MediaFileID != "":
		cfg := tgbotapi.NewDocument(0, tgbotapi.FileID(giveaway.MediaFileID))
		cfg.ChannelUsername = channel
		cfg.Caption = text
		cfg.ParseMode = tgbotapi.ModeHTML
		cfg.ReplyMarkup = markup
		chattable = cfg
	default:
		cfg := tgbotapi.NewMessageToChannel(channel, text)
		cfg.ParseMode = tgbotapi.ModeHTML
		cfg.ReplyMarkup = markup
		chattable = cfg
	}

	sent, err := app.send(chattable)
	if err != nil {
		return 0, classifyDeliveryError(err)
	}
	return int64(sent.MessageID), nil
}

// AnnounceText отправляет текстовое объявление в канал (результаты розыгрыша)
func (app *Bot) AnnounceText(channelUserName string, text string) error {
	cfg := tgbotapi.NewMessageToChannel("@"+channelUserName, text)
	cfg.ParseMode = tgbotapi.ModeHTML
	_, err := app.send(cfg)
	if err != nil {
		return classifyDeliveryError(err)
	}
	return nil
}

// NotifyUser отправляет личное сообщение пользователю по его telegram id
func (app *Bot) NotifyUser(telegramID string, text string) error {
	chatID, err := strconv.ParseInt(telegramID, 10, 64)
	if err != nil {
		return fmt.Errorf("некорректный telegram id %q: %w", telegramID, err)
	}
	return app.Reply(chatID, text)
}

// IsChannelMember проверяет членство пользователя в канале
func (app *Bot) IsChannelMember(channel *model.Channel, userID int64) (bool, error) {
	cfg := tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{UserID: userID},
	}
	if channel.TelegramID != "" {
		chatID, err := strconv.ParseInt(channel.TelegramID, 10, 64)
		if err != nil {
			return false, fmt.Errorf("некорректный telegram id канала %q: %w", channel.TelegramID, err)
		}
		cfg.ChatID = chatID
	} else if channel.UserName != "" {
		cfg.SuperGroupUsername = "@" + channel.UserName
	} else {
		return false, fmt.Errorf("у канала %d нет ни telegram_id, ни username", channel.ID)
	}

	member, err := app.botAPI.GetChatMember(cfg)
	if err != nil {
		return false, err
	}

	switch member.Status {
	case "creator", "administrator", "member":
		return true, nil
	case "restricted":
		return member.IsMember, nil
	default:
		return false, nil
	}
}

// classifyDeliveryError сопоставляет ошибку Telegram API с терминальным
// статусом розыгрыша. Неизвестные ошибки API считаются ошибкой публикации.
func classifyDeliveryError(err error) error {
	errMsg := err.Error()

	status := model.StatusErrorPublishFailed
	switch {
	case strings.Contains(errMsg, "chat not found"):
		status = model.StatusErrorChannelNotFound
	case strings.Contains(errMsg, "bot is not a member"),
		strings.Contains(errMsg, "bot was kicked"):
		status = model.StatusErrorBotNotMember
	case strings.Contains(errMsg, "not enough rights"),
		strings.Contains(errMsg, "have no rights"):
		status = model.StatusErrorNoRights
	}

	return &model.DeliveryError{Status: status, Err: err}
}

func composeGiveawayText(giveaway *model.Giveaway) string {
	description := giveaway.Description
	if description == "" {
		description = "Розыгрыш!"
	}
	prize := giveaway.Prize
	if prize == "" {
		prize = "Приз не указан"
	}
	return fmt.Sprintf("%s\n\n🎁 <b>Приз:</b> %s", description, prize)
}
