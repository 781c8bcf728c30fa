package controllers

import (
	"net/http"

	"movimenta_server/services"
	"movimenta_server/utils"
)

// SwapController serves the swipe screen.
type SwapController struct {
	Matching *services.MatchingService
	Swaps    *services.SwapService
}

func NewSwapController(matching *services.MatchingService, swaps *services.SwapService) *SwapController {
	return &SwapController{Matching: matching, Swaps: swaps}
}

// GetInitialData returns candidates, matches and swipe history in one response.
func (c *SwapController) GetInitialData(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	data, err := c.Matching.InitialData(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteSuccess(w, data)
}

// Swipe records a swipe on another user.
func (c *SwapController) Swipe(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		TargetID  string `json:"targetId"`
		Direction string `json:"direction"`
	}
	userID, err := callerID(r)
	if err == nil {
		err = decodeJSON(w, r, &payload)
	}
	if err == nil {
		err = required("targetId", payload.TargetID)
	}
	if err != nil {
		respondError(w, r, err)
		return
	}
	paired, err := c.Swaps.Swipe(r.Context(), userID, payload.TargetID, payload.Direction)
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteSuccess(w, map[string]bool{"match": paired})
}

// UndoSwipe retracts the caller's latest swipe.
func (c *SwapController) UndoSwipe(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err == nil {
		err = c.Swaps.Undo(r.Context(), userID)
	}
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteSuccess(w, map[string]bool{"success": true})
}

// ConfirmSwap records the caller's agreement to swap with a partner.
func (c *SwapController) ConfirmSwap(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PartnerID string `json:"partnerId"`
	}
	userID, err := callerID(r)
	if err == nil {
		err = decodeJSON(w, r, &payload)
	}
	if err == nil {
		err = required("partnerId", payload.PartnerID)
	}
	if err == nil {
		err = c.Swaps.Confirm(r.Context(), userID, payload.PartnerID)
	}
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteSuccess(w, map[string]bool{"success": true})
}
