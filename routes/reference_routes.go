package routes

import (
	"github.com/gorilla/mux"

	"movimenta_server/controllers"
	"movimenta_server/services"
)

// RegisterReferenceRoutes sets up the lookup table routes under /reference
func RegisterReferenceRoutes(r *mux.Router, reference *services.ReferenceService) {
	controller := controllers.NewReferenceController(reference)

	refRouter := r.PathPrefix("/reference").Subrouter()
	refRouter.HandleFunc("/roles", controller.GetRoles).Methods("GET")
	refRouter.HandleFunc("/locations", controller.GetLocations).Methods("GET")
	refRouter.HandleFunc("/neighborhoods", controller.GetNeighborhoods).Methods("GET")
}
