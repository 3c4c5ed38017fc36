package profiles

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/technexus/emblem/pkg/auth"
	"github.com/technexus/emblem/pkg/handlers"
	"github.com/technexus/emblem/pkg/pagination"
	"github.com/technexus/emblem/pkg/routes"
)

// Handler provides HTTP endpoints for profile operations.
type Handler struct {
	sys        System
	claimer    Claimer
	authz      auth.Authorizer
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// RegisterResult reports the registered profile along with the number of
// previously issued credentials swept onto it.
type RegisterResult struct {
	Profile Profile `json:"profile"`
	Claimed int     `json:"claimed"`
}

// NewHandler creates a Handler with the given system, claimer, authorizer,
// logger, and pagination config.
func NewHandler(
	sys System,
	claimer Claimer,
	authz auth.Authorizer,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		claimer:    claimer,
		authz:      authz,
		logger:     logger.With("handler", "profiles"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for profile endpoints.
// Listing is an admin capability; registration mirrors the identity
// provider signup flow and stays open.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/profiles",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: auth.Guard(h.authz, auth.CapabilityList, h.logger, h.List)},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Register},
			{Method: "POST", Pattern: "/search", Handler: auth.Guard(h.authz, auth.CapabilityList, h.logger, h.Search)},
		},
	}
}

// List returns a paginated list of profiles with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single profile by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	profile, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, profile)
}

// Register creates a profile and transfers any credentials previously
// issued against the profile's email address.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var cmd RegisterCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	profile, err := h.sys.Register(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	claimed, err := h.claimer.Claim(r.Context(), profile.ID, profile.Email)
	if err != nil {
		h.logger.Warn("claim after registration failed",
			"id", profile.ID,
			"email", profile.Email,
			"error", err,
		)
	}

	handlers.RespondJSON(w, http.StatusCreated, RegisterResult{
		Profile: *profile,
		Claimed: claimed,
	})
}

// Search accepts a JSON body with pagination and filter criteria and returns matching profiles.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
