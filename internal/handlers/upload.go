package handlers

import (
	"net/http"

	"github.com/rezoapp/rezo-backend/internal/config"
	"github.com/rezoapp/rezo-backend/internal/services"
)

var cloudinaryService *services.CloudinaryService

func InitCloudinaryService(cfg *config.Config) error {
	service, err := services.NewCloudinaryService(
		cfg.CloudinaryName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
	)
	if err != nil {
		return err
	}
	cloudinaryService = service
	return nil
}

// UploadAvatar handles POST /api/upload: an authenticated avatar image
// upload. The returned URL is what the client then stores via the
// profile update endpoint.
func UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if cloudinaryService == nil {
		respondError(w, http.StatusServiceUnavailable, "File uploads are not available")
		return
	}

	if _, ok := sessionUser(w, r); !ok {
		return
	}

	// Max 5MB for avatar images
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	url, err := cloudinaryService.UploadImage(r.Context(), file, "rezo/avatars")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "File uploaded successfully",
		"url":     url,
	})
}
