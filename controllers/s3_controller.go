package controllers

import (
	"net/http"

	"movimenta_server/services"
	"movimenta_server/utils"
)

// S3Controller hands out presigned avatar URLs.
type S3Controller struct {
	Avatars *services.AvatarService
}

func NewS3Controller(avatars *services.AvatarService) *S3Controller {
	return &S3Controller{Avatars: avatars}
}

// GeneratePresignedURL generates a presigned URL for uploading the caller's avatar
func (c *S3Controller) GeneratePresignedURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	userID, err := callerID(r)
	if err == nil {
		err = decodeJSON(w, r, &payload)
	}
	if err != nil {
		respondError(w, r, err)
		return
	}
	url, key, err := c.Avatars.UploadURL(r.Context(), userID, payload.FileName, payload.FileType)
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteSuccess(w, map[string]string{"url": url, "fileName": key})
}

// GetPresignedReadURL generates a presigned URL for reading an avatar
func (c *S3Controller) GetPresignedReadURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Key string `json:"key"`
	}
	err := decodeJSON(w, r, &payload)
	if err == nil {
		err = required("key", payload.Key)
	}
	if err != nil {
		respondError(w, r, err)
		return
	}
	url, err := c.Avatars.ReadURL(r.Context(), payload.Key)
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteSuccess(w, map[string]string{"url": url})
}
