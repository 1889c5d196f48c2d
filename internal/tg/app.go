package tg

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"randomluckbot/internal/config"
	"randomluckbot/internal/infrastructure/logger"
	"randomluckbot/internal/storage"
	"randomluckbot/pkg/request"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	gocache "github.com/patrickmn/go-cache"
)

var TelegramBot *Bot

type Bot struct {
	botAPI *tgbotapi.BotAPI
	store  *storage.Store

	sessions   *SessionsCache // черновики розыгрышей по chat id
	userStates *gocache.Cache // имя текущего состояния по chat id

	states        map[string]State
	commandRoutes map[string]Handler // глобальные команды, срабатывают в любом состоянии

	msgRequestHandler *request.RequestHandler

	userLocation      *time.Location // часовой пояс, в котором пользователи вводят даты
	defaultButtonText string
}

// InitTelegramBot создает глобальный экземпляр бота и запускает обработку обновлений
func InitTelegramBot(store *storage.Store) error {
	var err error

	TelegramBot, err = NewBot(store, UserStates, CommandRoutes)
	if err != nil {
		return err
	}

	go TelegramBot.HandleUpdates()

	return nil
}

// NewBot конструктор нового бота
func NewBot(store *storage.Store, states map[string]State, commandRoutes map[string]Handler) (*Bot, error) {
	if states == nil {
		return nil, fmt.Errorf("states shouldn't be nil")
	}

	conf := config.File.TelegramConfig

	loc, err := time.LoadLocation(conf.SourceTimezone)
	if err != nil {
		return nil, fmt.Errorf("не удалось загрузить часовой пояс %s: %w", conf.SourceTimezone, err)
	}

	msgRequestHandler, err := request.NewRequestHandler(request.Config{
		BufferSize: conf.MsgBufferSize,
		Interval:   time.Duration(conf.RequestUpdatePause) * time.Millisecond,
		Logger:     logger.Log,
	})
	if err != nil {
		return nil, err
	}

	app := Bot{
		store:             store,
		sessions:          NewSessionsCache(),
		userStates:        gocache.New(24*time.Hour, 30*time.Minute),
		states:            states,
		commandRoutes:     commandRoutes,
		msgRequestHandler: msgRequestHandler,
		userLocation:      loc,
		defaultButtonText: conf.DefaultButtonText,
	}

	go app.msgRequestHandler.ProcessRequests()

	app.botAPI, err = tgbotapi.NewBotAPI(conf.Token)
	if err != nil {
		return nil, fmt.Errorf("не удается инициализировать бота telegram: %v", err)
	}

	return &app, nil
}

// HandleUpdates запускает обработку всех обновлений, поступающих боту из телеграма
func (app *Bot) HandleUpdates() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = config.File.TelegramConfig.UpdateTimeout
	updates := app.botAPI.GetUpdatesChan(u)

	for update := range updates {
		go func(update tgbotapi.Update) {
			defer func() {
				if r := recover(); r != nil {
					logger.Errorf("Паника при обработке обновления: %v", r)
				}
			}()

			if update.SentFrom() == nil {
				return
			}

			switch {
			case update.Message != nil:
				app.handleMessage(update)
			case update.CallbackQuery != nil:
				app.handleCallback(update)
			}
		}(update)
	}
}

// StopReceivingUpdates останавливает long polling и очередь отправки
func (app *Bot) StopReceivingUpdates() {
	app.botAPI.StopReceivingUpdates()
	app.msgRequestHandler.StopProcessing()
}

func (app *Bot) GetUserState(chatID int64) string {
	stateInterface, ok := app.userStates.Get(strconv.FormatInt(chatID, 10))
	if !ok {
		return StateIdle
	}

	state, ok := stateInterface.(string)
	if !ok {
		return StateIdle
	}

	return state
}

func (app *Bot) SetUserState(chatID int64, state string) {
	app.userStates.Set(strconv.FormatInt(chatID, 10), state, 24*time.Hour)
}

// ClearUserState сбрасывает состояние диалога и черновик розыгрыша
func (app *Bot) ClearUserState(chatID int64) {
	app.userStates.Delete(strconv.FormatInt(chatID, 10))
	app.sessions.Delete(chatID)
}

// handleMessage сначала проверяет глобальные команды, затем маршруты
// текущего состояния, затем отдает сообщение в CatchAll состояния
func (app *Bot) handleMessage(update tgbotapi.Update) {
	text := strings.ToLower(strings.TrimSpace(update.Message.Text))
	chatID := update.Message.Chat.ID

	if handler, ok := app.commandRoutes[text]; ok {
		if err := handler.Func(app, update); err != nil {
			logger.Error("Ошибка при обработке команды ", update.Message.Text,
				" от пользователя (", chatID, ":", update.Message.Chat.UserName, "): ", err)
		}
		return
	}

	stateName := app.GetUserState(chatID)
	state, ok := app.states[stateName]
	if !ok {
		logger.Debug("Состояние не найдено в мапе states: ", stateName)
		return
	}

	if handler, ok := state.MessageRoute[text]; ok {
		if err := handler.Func(app, update); err != nil {
			logger.Error("Ошибка при обработке сообщения в состоянии ", stateName, ": ", err)
		}
		return
	}

	if state.CatchAllFunc.Func != nil {
		if err := state.CatchAllFunc.Func(app, update); err != nil {
			logger.Error("Ошибка CatchAll в состоянии ", stateName, ": ", err)
		}
	}
}

// handleCallback обрабатывает нажатия inline-кнопок.
// Кнопка участия работает из любого состояния, остальные
// callback'и отдаются текущему состоянию диалога.
func (app *Bot) handleCallback(update tgbotapi.Update) {
	data := update.CallbackQuery.Data

	// Кнопка участия приходит из поста в канале, ей Message не нужен
	if strings.HasPrefix(data, CallbackEnterGiveawayPrefix) {
		if err := HandleEnterGiveaway(app, update); err != nil {
			logger.Error("Ошибка при регистрации участия: ", err)
		}
		return
	}

	// Остальные кнопки живут в личном чате с ботом. Callback без Message
	// (устаревший или inline) обработать нельзя.
	if update.CallbackQuery.Message == nil {
		app.AnswerCallback(update.CallbackQuery.ID, "")
		return
	}

	if data == CallbackAddChannel {
		if err := HandleAddChannelCallback(app, update); err != nil {
			logger.Error("Ошибка при запуске добавления канала: ", err)
		}
		return
	}

	chatID := update.CallbackQuery.Message.Chat.ID
	stateName := app.GetUserState(chatID)
	state, ok := app.states[stateName]
	if !ok || state.CatchAllCallback.Func == nil {
		app.AnswerCallback(update.CallbackQuery.ID, "")
		return
	}

	if err := state.CatchAllCallback.Func(app, update); err != nil {
		logger.Error("Ошибка при обработке callback в состоянии ", stateName, ": ", err)
	}
}
