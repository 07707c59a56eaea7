package transport

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"storefront/pkg/domain/model"
	"storefront/pkg/domain/service"
)

type productListResponse struct {
	Products   []model.Product      `json:"products"`
	Count      int                  `json:"count"`
	Criteria   model.FilterCriteria `json:"criteria"`
	Sort       model.SortKey        `json:"sort"`
	Categories []string             `json:"categories"`
	Colors     []string             `json:"colors"`
}

func (h *Handler) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	criteria, sortKey, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	products, err := h.Catalog.Browse(criteria, sortKey)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, productListResponse{
		Products:   products,
		Count:      len(products),
		Criteria:   criteria,
		Sort:       sortKey,
		Categories: model.StandardCategories,
		Colors:     h.Catalog.Catalog().Colors(),
	})
}

func (h *Handler) newArrivalsHandler(w http.ResponseWriter, r *http.Request) {
	limit := service.NewArrivalsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, errBadRequest)
			return
		}
		limit = n
	}
	products := h.Catalog.NewArrivals(limit)
	if products == nil {
		products = []model.Product{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *Handler) productHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	region, err := model.ParseSizeRegion(query.Get("sizeRegion"))
	if err != nil {
		writeError(w, err)
		return
	}

	view, err := h.Catalog.ViewProduct(mux.Vars(r)["productID"], h.country(query), region)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type promotionResponse struct {
	model.Promotion
	Banner string `json:"banner"`
}

func (h *Handler) promotionHandler(w http.ResponseWriter, r *http.Request) {
	promo, err := model.PromotionFor(model.ParseCountry(mux.Vars(r)["country"]))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, promotionResponse{Promotion: promo, Banner: promo.Banner()})
}

// parseFilter reads the catalog query. Prices are given in currency units.
func parseFilter(q url.Values) (model.FilterCriteria, model.SortKey, error) {
	var criteria model.FilterCriteria

	if q.Get("sale") == "true" {
		criteria = criteria.WithSaleOnly()
	} else if category := q.Get("category"); category != "" {
		criteria = criteria.WithCategory(category)
	}
	criteria.Color = q.Get("color")

	if raw := q.Get("minPrice"); raw != "" {
		cents, err := parseAmount(raw)
		if err != nil {
			return criteria, "", err
		}
		criteria.MinPriceCents = cents
	}
	if raw := q.Get("maxPrice"); raw != "" {
		cents, err := parseAmount(raw)
		if err != nil {
			return criteria, "", err
		}
		criteria = criteria.WithMaxPrice(cents)
	}

	sortKey, err := model.ParseSortKey(q.Get("sort"))
	if err != nil {
		return criteria, "", err
	}
	return criteria, sortKey, nil
}

func parseAmount(raw string) (int64, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, errBadRequest
	}
	return d.Shift(2).Round(0).IntPart(), nil
}

func (h *Handler) country(q url.Values) model.Country {
	if c := model.ParseCountry(q.Get("country")); c != "" {
		return c
	}
	return h.defaultCountry
}
