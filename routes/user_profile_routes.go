package routes

import (
	"github.com/gorilla/mux"

	"movimenta_server/controllers"
	"movimenta_server/services"
)

// RegisterUserProfileRoutes sets up the caller's profile routes under /profiles
func RegisterUserProfileRoutes(r *mux.Router, profiles *services.ProfileService) {
	controller := controllers.NewUserProfileController(profiles)

	profileRouter := r.PathPrefix("/profiles").Subrouter()
	profileRouter.HandleFunc("/me", controller.GetProfile).Methods("GET")
	profileRouter.HandleFunc("/me", controller.UpdateProfile).Methods("PUT")
}
