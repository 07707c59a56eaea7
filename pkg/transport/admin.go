package transport

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"storefront/pkg/domain/model"
	"storefront/pkg/infrastructure/report"
)

const (
	defaultOrdersLimit = 20
	maxOrdersLimit     = 100
)

var (
	errMarketingUnavailable    = errors.New("marketing copy could not be generated")
	errOrderHistoryUnavailable = errors.New("order history requires the mysql order sink")
)

func (h *Handler) marketingHandler(w http.ResponseWriter, r *http.Request) {
	var brief model.MarketingBrief
	if err := decodeJSON(r, &brief); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(brief.ProductName) == "" {
		writeError(w, errBadRequest)
		return
	}

	out := h.Marketing.Generate(r.Context(), brief)
	if out == nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: errMarketingUnavailable.Error()})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) reportHandler(w http.ResponseWriter, r *http.Request) {
	sales := h.Reports.Generate()
	log.WithFields(log.Fields{
		"admin":   userFrom(r.Context()).Email,
		"records": len(sales.Records),
	}).Info("sales report generated")

	if r.URL.Query().Get("format") != "pdf" {
		writeJSON(w, http.StatusOK, map[string]any{
			"generatedAt": sales.GeneratedAt,
			"records":     sales.Records,
			"totalCents":  sales.TotalCents(),
		})
		return
	}

	pdf, err := report.RenderPDF(sales)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="sales-report.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) ordersHandler(w http.ResponseWriter, r *http.Request) {
	if h.Orders == nil {
		writeError(w, errOrderHistoryUnavailable)
		return
	}

	limit := defaultOrdersLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, errBadRequest)
			return
		}
		limit = min(n, maxOrdersLimit)
	}

	orders, err := h.Orders.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if orders == nil {
		orders = []model.OrderPayload{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}
