package cart_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-inventory/internal/cart"
	"github.com/noah-isme/backend-inventory/internal/pricing"
)

type fixedPolicy pricing.Policy

func (p fixedPolicy) CurrentPolicy(context.Context) (pricing.Policy, error) {
	return pricing.Policy(p), nil
}

func routes(h *cart.Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/carts", h.Create)
	r.Get("/carts/{id}", h.Get)
	r.Post("/carts/{id}/items", h.AddItem)
	r.Put("/carts/{id}/items/{productId}/price", h.SetPrice)
	r.Delete("/carts/{id}", h.Discard)
	return r
}

func TestHandlerFlow(t *testing.T) {
	svc, _, ctx := newService(t, fakeCatalog{
		"p1": {ID: "p1", Name: "Widget", SellingPrice: decimal.NewFromInt(100), Available: 2},
	})
	h := &cart.Handler{Svc: svc, Policies: fixedPolicy{Enabled: true, RatePercent: decimal.NewFromInt(18)}}
	router := routes(h)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/carts", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Data cart.View `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created.Data.ID
	require.Equal(t, cart.StateEmpty, created.Data.State)

	rec = do(http.MethodPost, "/carts/"+id+"/items", `{"productId":"p1","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Data cart.View `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.True(t, view.Data.Totals.Subtotal.Equal(decimal.NewFromInt(200)))
	require.True(t, view.Data.Totals.Tax.Equal(decimal.NewFromInt(36)))
	require.True(t, view.Data.Totals.GrandTotal.Equal(decimal.NewFromInt(236)))

	rec = do(http.MethodPost, "/carts/"+id+"/items", `{"productId":"p1","quantity":1}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "OUT_OF_STOCK")
	require.Contains(t, rec.Body.String(), `"inCart":2`)

	rec = do(http.MethodPost, "/carts/"+id+"/items", `{"productId":"p1","quantity":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "INVALID_QUANTITY")

	rec = do(http.MethodPut, "/carts/"+id+"/items/p1/price", `{"price":"90"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.True(t, view.Data.Lines[0].UnitPrice.Equal(decimal.NewFromInt(90)))

	rec = do(http.MethodDelete, "/carts/"+id, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(http.MethodGet, "/carts/"+id, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerNotConfigured(t *testing.T) {
	h := &cart.Handler{}
	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/carts", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
