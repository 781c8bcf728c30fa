package routes

import (
	"github.com/gorilla/mux"

	"movimenta_server/controllers"
	"movimenta_server/services"
)

// RegisterSwapRoutes sets up the swipe and confirmation routes under /swaps
func RegisterSwapRoutes(r *mux.Router, matching *services.MatchingService, swaps *services.SwapService) {
	controller := controllers.NewSwapController(matching, swaps)

	swapRouter := r.PathPrefix("/swaps").Subrouter()
	swapRouter.HandleFunc("/initial", controller.GetInitialData).Methods("GET")
	swapRouter.HandleFunc("/swipe", controller.Swipe).Methods("POST")
	swapRouter.HandleFunc("/undo", controller.UndoSwipe).Methods("POST")
	swapRouter.HandleFunc("/confirm", controller.ConfirmSwap).Methods("POST")
}
