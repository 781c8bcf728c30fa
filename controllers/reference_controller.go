package controllers

import (
	"net/http"

	"movimenta_server/services"
	"movimenta_server/utils"
)

// ReferenceController serves the role and location lookup tables.
type ReferenceController struct {
	Reference *services.ReferenceService
}

func NewReferenceController(reference *services.ReferenceService) *ReferenceController {
	return &ReferenceController{Reference: reference}
}

func (c *ReferenceController) GetRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := c.Reference.Roles(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteSuccess(w, roles)
}

func (c *ReferenceController) GetLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := c.Reference.Locations(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteSuccess(w, locations)
}

func (c *ReferenceController) GetNeighborhoods(w http.ResponseWriter, r *http.Request) {
	hoods, err := c.Reference.Neighborhoods(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteSuccess(w, hoods)
}
