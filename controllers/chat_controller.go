package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"movimenta_server/services"
	"movimenta_server/utils"
)

// ChatController serves the conversation between the caller and a partner.
type ChatController struct {
	ChatService *services.ChatService
}

// NewChatController initializes the chat controller
func NewChatController(service *services.ChatService) *ChatController {
	return &ChatController{ChatService: service}
}

// GetMessages returns the conversation and the pair's swap status.
func (c *ChatController) GetMessages(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	conv, err := c.ChatService.Conversation(r.Context(), userID, mux.Vars(r)["partnerId"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteSuccess(w, conv)
}

// SendMessage appends a message from the caller to the partner.
func (c *ChatController) SendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	userID, err := callerID(r)
	if err == nil {
		err = decodeJSON(w, r, &payload)
	}
	if err != nil {
		respondError(w, r, err)
		return
	}
	msg, err := c.ChatService.Send(r.Context(), userID, mux.Vars(r)["partnerId"], payload.Text)
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteSuccess(w, msg)
}
