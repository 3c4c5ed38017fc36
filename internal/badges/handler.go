package badges

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

// Handler provides HTTP endpoints for badge operations.
type Handler struct {
	sys        System
	authz      auth.Authorizer
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the admin search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// ClaimResult reports how many pending badges were transferred to the caller.
type ClaimResult struct {
	Claimed int `json:"claimed"`
}

// NewHandler creates a Handler with the given system, authorizer, logger,
// and pagination config.
func NewHandler(
	sys System,
	authz auth.Authorizer,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		authz:      authz,
		logger:     logger.With("handler", "badges"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for badge endpoints.
// Badge detail is public so issued credentials remain shareable by link.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/badges",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: auth.RequireIdentity(h.logger, h.Mine)},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: auth.Guard(h.authz, auth.CapabilityIssue, h.logger, h.Issue)},
			{Method: "POST", Pattern: "/claim", Handler: auth.RequireIdentity(h.logger, h.Claim)},
			{Method: "DELETE", Pattern: "/{id}", Handler: auth.Guard(h.authz, auth.CapabilityRevoke, h.logger, h.Revoke)},
		},
	}
}

// AdminRoutes returns the route group definition for console badge endpoints.
func (h *Handler) AdminRoutes() routes.Group {
	return routes.Group{
		Prefix: "/admin/badges",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: auth.Guard(h.authz, auth.CapabilityList, h.logger, h.List)},
			{Method: "POST", Pattern: "/search", Handler: auth.Guard(h.authz, auth.CapabilityList, h.logger, h.Search)},
		},
	}
}

// Mine returns the authenticated caller's badges. Admins may pass a
// user_id query parameter to view another member's badges.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	if requested := r.URL.Query().Get("user_id"); requested != "" {
		if err := h.authz.Authorize(id, auth.CapabilityList); err != nil {
			handlers.RespondError(w, h.logger, auth.MapHTTPStatus(err), err)
			return
		}

		userID, err := uuid.Parse(requested)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}

		h.respondForUser(w, r, userID)
		return
	}

	userID, err := uuid.Parse(id.Subject)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrInvalidToken)
		return
	}

	h.respondForUser(w, r, userID)
}

func (h *Handler) respondForUser(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	badges, err := h.sys.ForUser(r.Context(), userID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, badges)
}

// Find returns a single badge by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	badge, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, badge)
}

// Issue processes a JSON body to issue a badge to an email recipient.
func (h *Handler) Issue(w http.ResponseWriter, r *http.Request) {
	var cmd IssueCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Issue(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Claim transfers badges issued against the caller's email address onto
// the caller's account.
func (h *Handler) Claim(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	userID, err := uuid.Parse(id.Subject)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrInvalidToken)
		return
	}

	claimed, err := h.sys.Claim(r.Context(), userID, id.Email)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ClaimResult{Claimed: claimed})
}

// Revoke removes a badge by its UUID path parameter.
func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	if err := h.sys.Revoke(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List returns a paginated admin view of all badges joined with holder profiles.
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

// Search accepts a JSON body with pagination and filter criteria and returns matching badges.
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
