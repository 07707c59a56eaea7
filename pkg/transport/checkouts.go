package transport

import (
	"net/http"

	"github.com/google/uuid"

	"storefront/pkg/domain/model"
	"storefront/pkg/infrastructure/paypal"
)

type beginCheckoutRequest struct {
	CartID  uuid.UUID `json:"cartId"`
	Country string    `json:"country"`
}

type changeCountryRequest struct {
	Country string `json:"country"`
}

func (h *Handler) beginCheckoutHandler(w http.ResponseWriter, r *http.Request) {
	var req beginCheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	country := model.ParseCountry(req.Country)
	if country == "" {
		country = h.defaultCountry
	}

	checkout, err := h.Checkouts.Begin(req.CartID, country)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, checkout)
}

func (h *Handler) getCheckoutHandler(w http.ResponseWriter, r *http.Request) {
	h.withCheckout(w, r, http.StatusOK, h.Checkouts.Get)
}

func (h *Handler) shippingHandler(w http.ResponseWriter, r *http.Request) {
	var details model.ShippingDetails
	if err := decodeJSON(r, &details); err != nil {
		writeError(w, err)
		return
	}
	h.withCheckout(w, r, http.StatusOK, func(id uuid.UUID) (*model.Checkout, error) {
		return h.Checkouts.SubmitShipping(id, details)
	})
}

func (h *Handler) backToShippingHandler(w http.ResponseWriter, r *http.Request) {
	h.withCheckout(w, r, http.StatusOK, h.Checkouts.ReturnToShipping)
}

func (h *Handler) changeCountryHandler(w http.ResponseWriter, r *http.Request) {
	var req changeCountryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	country := model.ParseCountry(req.Country)
	if country == "" {
		writeError(w, errBadRequest)
		return
	}
	h.withCheckout(w, r, http.StatusOK, func(id uuid.UUID) (*model.Checkout, error) {
		return h.Checkouts.ChangeCountry(id, country)
	})
}

func (h *Handler) paymentHandler(w http.ResponseWriter, r *http.Request) {
	h.withCheckout(w, r, http.StatusOK, func(id uuid.UUID) (*model.Checkout, error) {
		return h.Checkouts.SubmitPayment(r.Context(), id)
	})
}

func (h *Handler) paymentQRHandler(w http.ResponseWriter, r *http.Request) {
	checkoutID, err := pathUUID(r, "checkoutID")
	if err != nil {
		writeError(w, err)
		return
	}
	checkout, err := h.Checkouts.Get(checkoutID)
	if err != nil {
		writeError(w, err)
		return
	}

	link := checkout.PaymentURL
	if link == "" {
		if link, err = h.Payments.PaymentURL(checkout.Totals.TotalCents); err != nil {
			writeError(w, err)
			return
		}
	}

	png, err := paypal.QRCode(link)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *Handler) deliveriesHandler(w http.ResponseWriter, r *http.Request) {
	checkoutID, err := pathUUID(r, "checkoutID")
	if err != nil {
		writeError(w, err)
		return
	}
	deliveries, err := h.Deliveries.Deliveries(checkoutID)
	if err != nil {
		writeError(w, err)
		return
	}
	if deliveries == nil {
		deliveries = []model.OrderDelivery{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"deliveries": deliveries})
}

func (h *Handler) withCheckout(w http.ResponseWriter, r *http.Request, status int, op func(uuid.UUID) (*model.Checkout, error)) {
	checkoutID, err := pathUUID(r, "checkoutID")
	if err != nil {
		writeError(w, err)
		return
	}
	checkout, err := op(checkoutID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, checkout)
}
