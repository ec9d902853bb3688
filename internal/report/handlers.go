package report

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/noah-isme/backend-inventory/internal/common"
	"github.com/noah-isme/backend-inventory/internal/repo"
)

// DefaultTopProducts is how many products the ranking shows.
const DefaultTopProducts = 10

// Handler exposes report read endpoints.
type Handler struct {
	Svc *Service
}

func (h *Handler) ready(w http.ResponseWriter) bool {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "NOT_CONFIGURED", "report service not configured", nil)
		return false
	}
	return true
}

// parseRange reads either from/to dates or a days count from the query.
func (h *Handler) parseRange(r *http.Request) (Range, error) {
	query := r.URL.Query()
	fromStr, toStr := query.Get("from"), query.Get("to")
	if fromStr != "" && toStr != "" {
		from, err := parseDay(fromStr)
		if err != nil {
			return Range{}, errors.New("invalid from date")
		}
		to, err := parseDay(toStr)
		if err != nil {
			return Range{}, errors.New("invalid to date")
		}
		// to is inclusive in the query and exclusive in Range.
		rng := Range{From: from, To: to.AddDate(0, 0, 1)}
		if !rng.From.Before(rng.To) {
			return Range{}, errors.New("from must not be after to")
		}
		return rng, nil
	}
	return h.Svc.LastDays(common.AtoiDefault(query.Get("days"), 0)), nil
}

func parseDay(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC().Truncate(24 * time.Hour), nil
}

// Daily returns one page of daily summaries, newest first.
func (h *Handler) Daily(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	rng, err := h.parseRange(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	days, err := h.Svc.Daily(r.Context(), rng)
	if err != nil {
		writeError(w, err)
		return
	}
	NewestFirst(days)
	pager := common.NewPager(common.DefaultPageSize, len(days))
	pager.Goto(common.ParsePage(r))
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       common.PageOf(days, pager),
		"summary":    Totals(days),
		"pagination": pager.Meta(),
	})
}

// Products returns the top products by revenue.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	rng, err := h.parseRange(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	products, err := h.Svc.ByProduct(r.Context(), rng)
	if err != nil {
		writeError(w, err)
		return
	}
	limit := common.PositiveOr(common.AtoiDefault(r.URL.Query().Get("limit"), DefaultTopProducts), DefaultTopProducts)
	common.Data(w, http.StatusOK, TopByRevenue(products, limit))
}

// Overview returns dashboard counters.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	overview, err := h.Svc.Overview(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, overview)
}

// ExportDaily downloads every daily summary of the range.
func (h *Handler) ExportDaily(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	rng, err := h.parseRange(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	days, err := h.Svc.Daily(r.Context(), rng)
	if err != nil {
		writeError(w, err)
		return
	}
	h.export(w, r, "daily-sales", DailyTable(NewestFirst(days)))
}

// ExportProducts downloads the product ranking of the range.
func (h *Handler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	rng, err := h.parseRange(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	products, err := h.Svc.ByProduct(r.Context(), rng)
	if err != nil {
		writeError(w, err)
		return
	}
	h.export(w, r, "product-sales", ProductTable(TopByRevenue(products, 0)))
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request, name string, t Table) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	stamp := h.Svc.now().Format("2006-01-02")
	switch format {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename="+name+"-"+stamp+".csv")
		_ = WriteCSV(w, t)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+name+"-"+stamp+".xlsx")
		_ = WriteXLSX(w, t)
	default:
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "format must be csv or xlsx", nil)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAccountRequired), errors.Is(err, repo.ErrAccountMissing), errors.Is(err, repo.ErrAccountInvalid):
		common.JSONError(w, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "REPORT_ERROR", "report unavailable", nil)
	}
}
