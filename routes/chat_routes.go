package routes

import (
	"github.com/gorilla/mux"

	"movimenta_server/controllers"
	"movimenta_server/services"
)

// RegisterChatRoutes sets up routes for chat-related operations under /chats
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService) {
	controller := controllers.NewChatController(chatService)

	chatRouter := r.PathPrefix("/chats").Subrouter()
	chatRouter.HandleFunc("/{partnerId}/messages", controller.GetMessages).Methods("GET")
	chatRouter.HandleFunc("/{partnerId}/messages", controller.SendMessage).Methods("POST")
}
