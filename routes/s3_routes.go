package routes

import (
	"github.com/gorilla/mux"

	"movimenta_server/controllers"
	"movimenta_server/services"
)

// RegisterS3Routes sets up the avatar URL routes under /s3
func RegisterS3Routes(r *mux.Router, avatars *services.AvatarService) {
	controller := controllers.NewS3Controller(avatars)

	s3Router := r.PathPrefix("/s3").Subrouter()
	s3Router.HandleFunc("/upload-url", controller.GeneratePresignedURL).Methods("POST")
	s3Router.HandleFunc("/read-url", controller.GetPresignedReadURL).Methods("POST")
}
