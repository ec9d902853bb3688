package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-inventory/internal/common"
	"github.com/noah-isme/backend-inventory/internal/repo"
)

// MaxImportRows bounds a single import request.
const MaxImportRows = 5000

// Handler exposes catalog endpoints.
type Handler struct {
	service *Service
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service}
}

func (h *Handler) ready(w http.ResponseWriter) bool {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return false
	}
	return true
}

// Products handles GET /products?q=.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	rows, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, rows)
}

// Available handles GET /products/available.
func (h *Handler) Available(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	rows, err := h.service.Available(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, rows)
}

// LowStock handles GET /products/low-stock.
func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	rows, err := h.service.LowStock(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, rows)
}

// Product handles GET /products/{id}.
func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, p)
}

// Create handles POST /products.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	var in ProductInput
	if err := common.DecodeJSON(r, &in, false); err != nil {
		h.writeError(w, err)
		return
	}
	p, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusCreated, p)
}

// Update handles PUT /products/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	var in ProductInput
	if err := common.DecodeJSON(r, &in, false); err != nil {
		h.writeError(w, err)
		return
	}
	p, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, p)
}

// Delete handles DELETE /products/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Import handles POST /products/import with {"rows": [...]}.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	var payload struct {
		Rows []ImportRow `json:"rows"`
	}
	if err := common.DecodeJSON(r, &payload, false); err != nil {
		h.writeError(w, err)
		return
	}
	if len(payload.Rows) == 0 {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "rows are required", nil)
		return
	}
	if len(payload.Rows) > MaxImportRows {
		common.JSONError(w, http.StatusRequestEntityTooLarge, "TOO_MANY_ROWS", "too many rows in one import", map[string]int{"max": MaxImportRows})
		return
	}
	result, err := h.service.Import(r.Context(), payload.Rows)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusCreated, result)
}

// Categories handles GET /categories/presets.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	common.Data(w, http.StatusOK, PresetCategories)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid product", details)
	case errors.Is(err, ErrInvalidAmount):
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, repo.ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
	case errors.Is(err, repo.ErrAccountMissing), errors.Is(err, repo.ErrAccountInvalid):
		common.JSONError(w, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	default:
		common.WriteError(w, err)
	}
}
