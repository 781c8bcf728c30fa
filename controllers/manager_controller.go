package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"movimenta_server/services"
	"movimenta_server/utils"
)

// ManagerController serves the manager review queue.
type ManagerController struct {
	Manager   *services.ManagerService
	Reference *services.ReferenceService
	Import    *services.ImportService
}

func NewManagerController(manager *services.ManagerService, reference *services.ReferenceService, importer *services.ImportService) *ManagerController {
	return &ManagerController{Manager: manager, Reference: reference, Import: importer}
}

// GetConfirmedSwaps lists swaps both parties confirmed.
func (c *ManagerController) GetConfirmedSwaps(w http.ResponseWriter, r *http.Request) {
	swaps, err := c.Manager.ListConfirmed(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteSuccess(w, swaps)
}

// Approve executes a confirmed swap.
func (c *ManagerController) Approve(w http.ResponseWriter, r *http.Request) {
	if err := c.Manager.Approve(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteSuccess(w, map[string]bool{"success": true})
}

// Reject cancels a confirmed swap.
func (c *ManagerController) Reject(w http.ResponseWriter, r *http.Request) {
	if err := c.Manager.Reject(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteSuccess(w, map[string]bool{"success": true})
}

// RefreshReference drops cached reference data.
func (c *ManagerController) RefreshReference(w http.ResponseWriter, r *http.Request) {
	c.Reference.Invalidate()
	utils.WriteSuccess(w, map[string]bool{"success": true})
}

// ImportProfiles provisions profiles from a CSV request body.
func (c *ManagerController) ImportProfiles(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 16*maxBodyBytes)
	n, err := c.Import.ImportProfiles(r.Context(), r.Body)
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteSuccess(w, map[string]int{"imported": n})
}
