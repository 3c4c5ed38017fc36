package bulk

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/technexus/emblem/pkg/auth"
	"github.com/technexus/emblem/pkg/handlers"
	"github.com/technexus/emblem/pkg/pagination"
	"github.com/technexus/emblem/pkg/routes"
)

// ErrInvalidUpload covers malformed multipart submissions.
var ErrInvalidUpload = errors.New("invalid bulk upload")

// Handler provides HTTP endpoints for bulk issuance operations.
type Handler struct {
	sys           System
	authz         auth.Authorizer
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, authorizer, logger,
// pagination config, and multipart size limit.
func NewHandler(
	sys System,
	authz auth.Authorizer,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		authz:         authz,
		logger:        logger.With("handler", "bulk"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for bulk endpoints. The roster
// template is public; everything else requires issuance capability.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/bulk",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/template", Handler: h.Template},
			{Method: "POST", Pattern: "", Handler: auth.Guard(h.authz, auth.CapabilityIssue, h.logger, h.Submit)},
			{Method: "GET", Pattern: "", Handler: auth.Guard(h.authz, auth.CapabilityList, h.logger, h.List)},
			{Method: "GET", Pattern: "/{id}", Handler: auth.Guard(h.authz, auth.CapabilityList, h.logger, h.Find)},
			{Method: "POST", Pattern: "/{id}/cancel", Handler: auth.Guard(h.authz, auth.CapabilityIssue, h.logger, h.Cancel)},
		},
	}
}

// Template serves the sample roster CSV for download.
func (h *Handler) Template(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+TemplateFilename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(h.sys.Template())
}

// Submit accepts a multipart form with the roster file, plus either an
// image file or an image_url value, and starts a bulk job.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrInvalidUpload)
		return
	}

	roster, _, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidUpload)
		return
	}
	defer roster.Close()

	rosterData, err := io.ReadAll(roster)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidUpload)
		return
	}

	cmd := SubmitCommand{
		Roster:   rosterData,
		ImageURL: r.FormValue("image_url"),
	}

	if image, header, err := r.FormFile("image"); err == nil {
		defer image.Close()

		data, err := io.ReadAll(image)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidUpload)
			return
		}

		cmd.Image = &ImageUpload{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        bytes.NewReader(data),
		}
	}

	detail, err := h.sys.Submit(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, detail)
}

// List returns a paginated list of bulk jobs, most recent first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.Jobs(r.Context(), page)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a job with its per-row outcomes by UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	detail, err := h.sys.Job(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, detail)
}

// Cancel requests cancellation of a running job.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	if err := h.sys.Cancel(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
