package controllers

import (
	"net/http"

	"movimenta_server/models"
	"movimenta_server/services"
	"movimenta_server/utils"
)

// UserProfileController serves the caller's own profile.
type UserProfileController struct {
	Profiles *services.ProfileService
}

func NewUserProfileController(profiles *services.ProfileService) *UserProfileController {
	return &UserProfileController{Profiles: profiles}
}

// GetProfile returns the caller's profile with its lock state.
func (c *UserProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	profile, err := c.Profiles.Get(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteSuccess(w, profile)
}

// UpdateProfile replaces the caller's editable fields.
func (c *UserProfileController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	userID, err := callerID(r)
	if err == nil {
		err = decodeJSON(w, r, &profile)
	}
	if err != nil {
		respondError(w, r, err)
		return
	}
	updated, err := c.Profiles.Update(r.Context(), userID, profile)
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteSuccess(w, updated)
}
