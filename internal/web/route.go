package web

import (
	"github.com/gorilla/mux"
)

// Маршрутизатор
func (app *WebApp) SetRoutes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", app.HandleHealth).Methods("GET")
	router.HandleFunc("/giveaways/errors", app.HandleErrorGiveaways).Methods("GET")

	return router
}
