package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"

	"github.com/google/uuid"

	"github.com/technexus/emblem/pkg/auth"
	"github.com/technexus/emblem/pkg/handlers"
	"github.com/technexus/emblem/pkg/routes"
	"github.com/technexus/emblem/pkg/storage"
)

var errInvalidUpload = errors.New("invalid image upload")

// uploadsHandler accepts badge image uploads and returns public URLs for
// use in single or bulk issuance.
type uploadsHandler struct {
	store         storage.System
	authz         auth.Authorizer
	logger        *slog.Logger
	maxUploadSize int64
}

// uploadResult is the response for an accepted image upload.
type uploadResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func newUploadsHandler(runtime *Runtime, maxUploadSize int64) *uploadsHandler {
	return &uploadsHandler{
		store:         runtime.Storage,
		authz:         runtime.Authorizer,
		logger:        runtime.Logger.With("handler", "uploads"),
		maxUploadSize: maxUploadSize,
	}
}

func (h *uploadsHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/uploads",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: auth.Guard(h.authz, auth.CapabilityIssue, h.logger, h.upload)},
		},
	}
}

func (h *uploadsHandler) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, errInvalidUpload)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidUpload)
		return
	}
	defer file.Close()

	key := fmt.Sprintf("images/%s%s", uuid.New(), path.Ext(header.Filename))

	url, err := h.store.Upload(r.Context(), key, file, header.Header.Get("Content-Type"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	h.logger.Info("image uploaded", "key", key)
	handlers.RespondJSON(w, http.StatusCreated, uploadResult{Key: key, URL: url})
}
