package sale

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-inventory/internal/cart"
	"github.com/noah-isme/backend-inventory/internal/common"
	"github.com/noah-isme/backend-inventory/internal/repo"
)

// Handler exposes submission and sales history over HTTP.
type Handler struct {
	Svc      *Service
	PageSize int
}

// Submit records the cart as a sale.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var customer Customer
	if err := common.DecodeJSON(r, &customer, true); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.Svc.Submit(r.Context(), chi.URLParam(r, "id"), customer)
	if err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusCreated, result)
}

// List returns one page of sales, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	size := h.PageSize
	if size <= 0 {
		size = common.DefaultPageSize
	}
	records, meta, err := h.Svc.Page(r.Context(), common.ParsePage(r), size)
	if err != nil {
		writeError(w, err)
		return
	}
	common.Paged(w, records, meta)
}

func writeError(w http.ResponseWriter, err error) {
	var (
		stockErr   *cart.StockError
		persistErr *PersistenceError
	)
	switch {
	case errors.Is(err, ErrEmptyCart):
		common.JSONError(w, http.StatusBadRequest, "EMPTY_CART", "cart is empty", nil)
	case errors.Is(err, ErrSubmissionInProgress):
		common.JSONError(w, http.StatusConflict, "SUBMISSION_IN_PROGRESS", "sale is already being submitted", nil)
	case errors.Is(err, ErrSchemaIncompatible):
		common.JSONError(w, http.StatusServiceUnavailable, "SCHEMA_INCOMPATIBLE", "sales table does not accept the sale", nil)
	case errors.As(err, &stockErr):
		common.JSONError(w, http.StatusConflict, "OUT_OF_STOCK", stockErr.Error(), map[string]any{
			"productId": stockErr.ProductID,
			"requested": stockErr.Requested,
			"available": stockErr.Available,
		})
	case errors.As(err, &persistErr):
		common.JSONError(w, http.StatusBadGateway, "PERSISTENCE_ERROR", persistErr.Err.Error(), nil)
	case errors.Is(err, cart.ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart not found", nil)
	case errors.Is(err, cart.ErrAccountRequired), errors.Is(err, repo.ErrAccountMissing), errors.Is(err, repo.ErrAccountInvalid):
		common.JSONError(w, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	default:
		common.WriteError(w, err)
	}
}
