package web

import (
	"encoding/json"
	"net/http"
	"time"

	"randomluckbot/internal/infrastructure/logger"
)

// HandleHealth проверка живости сервиса и соединения с БД
func (app *WebApp) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := app.store.Ping(); err != nil {
		logger.Error("Healthcheck: БД недоступна: ", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "error", "detail": err.Error()})
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type errorGiveawayResponse struct {
	ID        uint      `json:"id"`
	Prize     string    `json:"prize"`
	ChannelID uint      `json:"channel_id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HandleErrorGiveaways отдает розыгрыши в статусах ошибок для ручного разбора
func (app *WebApp) HandleErrorGiveaways(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	giveaways, err := app.store.ListErrorGiveaways()
	if err != nil {
		logger.Error("Не удалось получить розыгрыши с ошибками: ", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	resp := make([]errorGiveawayResponse, 0, len(giveaways))
	for _, g := range giveaways {
		resp = append(resp, errorGiveawayResponse{
			ID:        g.ID,
			Prize:     g.Prize,
			ChannelID: g.ChannelID,
			Status:    g.Status,
			UpdatedAt: g.UpdatedAt,
		})
	}

	json.NewEncoder(w).Encode(resp)
}
