package routes

import (
	"github.com/gorilla/mux"

	"movimenta_server/controllers"
	"movimenta_server/services"
)

// RegisterManagerRoutes sets up the review queue. r is expected to be guarded
// by RequireManager.
func RegisterManagerRoutes(r *mux.Router, manager *services.ManagerService, reference *services.ReferenceService, importer *services.ImportService) {
	controller := controllers.NewManagerController(manager, reference, importer)

	r.HandleFunc("/swaps", controller.GetConfirmedSwaps).Methods("GET")
	r.HandleFunc("/swaps/{id}/approve", controller.Approve).Methods("POST")
	r.HandleFunc("/swaps/{id}/reject", controller.Reject).Methods("POST")
	r.HandleFunc("/reference/refresh", controller.RefreshReference).Methods("POST")
	r.HandleFunc("/profiles/import", controller.ImportProfiles).Methods("POST")
}
