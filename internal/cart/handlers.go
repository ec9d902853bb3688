package cart

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-inventory/internal/common"
	"github.com/noah-isme/backend-inventory/internal/pricing"
)

// Handler wires cart services to HTTP.
type Handler struct {
	Svc      *Service
	Policies PolicySource
}

// LineView is a priced cart line.
type LineView struct {
	ProductID     string           `json:"productId"`
	Name          string           `json:"name"`
	Quantity      int              `json:"quantity"`
	Available     int              `json:"available"`
	UnitPrice     decimal.Decimal  `json:"unitPrice"`
	CatalogPrice  decimal.Decimal  `json:"catalogPrice"`
	PriceOverride *decimal.Decimal `json:"priceOverride,omitempty"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	Tax           decimal.Decimal  `json:"tax"`
	Total         decimal.Decimal  `json:"total"`
}

// View is a cart priced under a tax policy.
type View struct {
	ID         string         `json:"id"`
	State      State          `json:"state"`
	Lines      []LineView     `json:"lines"`
	Totals     pricing.Totals `json:"totals"`
	GSTEnabled bool           `json:"gstEnabled"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// BuildView prices c under policy.
func BuildView(c *Cart, policy pricing.Policy) View {
	totals, priced := c.Price(policy)
	lines := make([]LineView, 0, len(c.Lines))
	for i, l := range c.Lines {
		lines = append(lines, LineView{
			ProductID:     l.Product.ID,
			Name:          l.Product.Name,
			Quantity:      l.Quantity,
			Available:     l.Product.Available,
			UnitPrice:     l.UnitPrice(),
			CatalogPrice:  l.Product.SellingPrice,
			PriceOverride: l.PriceOverride,
			Subtotal:      priced[i].Subtotal,
			Tax:           priced[i].Tax,
			Total:         priced[i].Total,
		})
	}
	return View{
		ID:         c.ID,
		State:      c.State(),
		Lines:      lines,
		Totals:     totals,
		GSTEnabled: policy.Enabled,
		UpdatedAt:  c.UpdatedAt,
	}
}

func (h *Handler) ready(w http.ResponseWriter) bool {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "NOT_CONFIGURED", "cart service not configured", nil)
		return false
	}
	return true
}

// Create starts an empty cart session.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	c, err := h.Svc.Create(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, r, http.StatusCreated, c)
}

// Get returns the cart priced under the current tax policy.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	c, err := h.Svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, r, http.StatusOK, c)
}

// AddItem adds or merges a product line.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	var payload struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := common.DecodeJSON(r, &payload, false); err != nil {
		h.writeError(w, err)
		return
	}
	productID := strings.TrimSpace(payload.ProductID)
	if productID == "" {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "productId is required", nil)
		return
	}
	c, err := h.Svc.Add(r.Context(), chi.URLParam(r, "id"), productID, payload.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, r, http.StatusOK, c)
}

// UpdateItem replaces a line's quantity.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := common.DecodeJSON(r, &payload, false); err != nil {
		h.writeError(w, err)
		return
	}
	c, err := h.Svc.UpdateQuantity(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productId"), payload.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, r, http.StatusOK, c)
}

// SetPrice sets a line's price override; a null price clears it.
func (h *Handler) SetPrice(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	var payload struct {
		Price *decimal.Decimal `json:"price"`
	}
	if err := common.DecodeJSON(r, &payload, true); err != nil {
		h.writeError(w, err)
		return
	}
	c, err := h.Svc.SetPriceOverride(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productId"), payload.Price)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, r, http.StatusOK, c)
}

// RemoveItem drops a line.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	c, err := h.Svc.Remove(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, r, http.StatusOK, c)
}

// Clear empties the cart.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	c, err := h.Svc.Clear(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, r, http.StatusOK, c)
}

// Discard cancels the sale and drops the session.
func (h *Handler) Discard(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	if err := h.Svc.Discard(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, c *Cart) {
	policy := pricing.Policy{}
	if h.Policies != nil {
		p, err := h.Policies.CurrentPolicy(r.Context())
		if err != nil {
			h.writeError(w, err)
			return
		}
		policy = p
	}
	common.Data(w, status, BuildView(c, policy))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var stockErr *StockError
	switch {
	case errors.As(err, &stockErr):
		common.JSONError(w, http.StatusConflict, "OUT_OF_STOCK", stockErr.Error(), map[string]any{
			"productId": stockErr.ProductID,
			"requested": stockErr.Requested,
			"available": stockErr.Available,
			"inCart":    stockErr.InCart,
		})
	case errors.Is(err, ErrInvalidQuantity):
		common.JSONError(w, http.StatusBadRequest, "INVALID_QUANTITY", err.Error(), nil)
	case errors.Is(err, ErrInvalidPrice):
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, ErrNotInCart):
		common.JSONError(w, http.StatusNotFound, "NOT_IN_CART", err.Error(), nil)
	case errors.Is(err, ErrProductNotFound):
		common.JSONError(w, http.StatusNotFound, "PRODUCT_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ErrAccountRequired):
		common.JSONError(w, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	default:
		common.WriteError(w, err)
	}
}
