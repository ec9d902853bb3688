package workers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-inventory/internal/auth"
	"github.com/noah-isme/backend-inventory/internal/common"
	"github.com/noah-isme/backend-inventory/internal/repo"
	"github.com/noah-isme/backend-inventory/internal/resilience"
)

// Handler exposes worker management over HTTP.
type Handler struct {
	Svc      *Service
	PageSize int
}

// List handles GET /workers?page=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, meta, err := h.Svc.List(r.Context(), common.ParsePage(r), common.PositiveOr(h.PageSize, common.DefaultPageSize))
	if err != nil {
		writeError(w, err)
		return
	}
	common.Paged(w, items, meta)
}

// Create handles POST /workers.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := common.DecodeJSON(r, &in, false); err != nil {
		writeError(w, err)
		return
	}
	worker, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusCreated, worker)
}

// Delete handles DELETE /workers/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	var (
		verrs    validator.ValidationErrors
		adminErr *auth.AdminError
	)
	switch {
	case errors.As(err, &verrs):
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid worker", details)
	case errors.Is(err, ErrCannotDeleteSelf):
		common.JSONError(w, http.StatusBadRequest, "CANNOT_DELETE_SELF", "you cannot delete your own account", nil)
	case errors.Is(err, auth.ErrUserExists):
		common.JSONError(w, http.StatusConflict, "EMAIL_TAKEN", "a user with this email already exists", nil)
	case errors.Is(err, auth.ErrAdminNotConfigured):
		common.JSONError(w, http.StatusServiceUnavailable, "NOT_CONFIGURED", "worker provisioning is not configured", nil)
	case errors.Is(err, resilience.ErrOpenCircuit):
		common.JSONError(w, http.StatusServiceUnavailable, "AUTH_PROVIDER_UNAVAILABLE", "the auth provider is temporarily unavailable", nil)
	case errors.As(err, &adminErr):
		common.JSONError(w, http.StatusBadGateway, "AUTH_PROVIDER_ERROR", adminErr.Message, nil)
	case errors.Is(err, repo.ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "worker not found", nil)
	case errors.Is(err, repo.ErrAccountMissing), errors.Is(err, repo.ErrAccountInvalid):
		common.JSONError(w, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	default:
		common.WriteError(w, err)
	}
}
