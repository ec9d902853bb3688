package settings

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-inventory/internal/common"
	"github.com/noah-isme/backend-inventory/internal/repo"
)

// Handler exposes settings over HTTP.
type Handler struct {
	Svc *Service
}

// Get returns the account and its settings.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Svc.Overview(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, overview)
}

// Update saves currency and GST configuration.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in UpdateInput
	if err := common.DecodeJSON(r, &in, false); err != nil {
		writeError(w, err)
		return
	}
	saved, err := h.Svc.Update(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, saved)
}

// Rename changes the account name.
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	var in RenameInput
	if err := common.DecodeJSON(r, &in, false); err != nil {
		writeError(w, err)
		return
	}
	acct, err := h.Svc.Rename(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, acct)
}

// CreateAccount sets up the caller's store. It answers 201 when an account
// was created and 200 when the caller already had one.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var in CreateAccountInput
	if err := common.DecodeJSON(r, &in, true); err != nil {
		writeError(w, err)
		return
	}
	m, err := h.Svc.CreateAccount(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if m.Created {
		status = http.StatusCreated
	}
	common.Data(w, status, m)
}

func writeError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid settings", validationDetails(verrs))
	case errors.Is(err, ErrInvalidRate):
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, ErrUserRequired):
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
	case errors.Is(err, repo.ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "account not found", nil)
	case errors.Is(err, repo.ErrAccountMissing), errors.Is(err, repo.ErrAccountInvalid):
		common.JSONError(w, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	default:
		common.WriteError(w, err)
	}
}

func validationDetails(verrs validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}
