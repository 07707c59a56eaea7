package transport

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"storefront/pkg/domain/model"
)

type cartResponse struct {
	*model.Cart
	ItemCount int          `json:"itemCount"`
	Totals    model.Totals `json:"totals"`
}

type addItemRequest struct {
	ProductID string     `json:"productId"`
	Size      model.Size `json:"size"`
	Color     string     `json:"color"`
}

type quickAddRequest struct {
	ProductID string `json:"productId"`
}

type changeQuantityRequest struct {
	model.LineKey
	Delta int `json:"delta"`
}

func (h *Handler) createCartHandler(w http.ResponseWriter, r *http.Request) {
	cart, err := h.Carts.CreateCart()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.cartView(cart, h.country(r.URL.Query())))
}

func (h *Handler) getCartHandler(w http.ResponseWriter, r *http.Request) {
	cartID, err := pathUUID(r, "cartID")
	if err != nil {
		writeError(w, err)
		return
	}
	cart, err := h.Carts.GetCart(cartID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cartView(cart, h.country(r.URL.Query())))
}

func (h *Handler) addItemHandler(w http.ResponseWriter, r *http.Request) {
	cartID, err := pathUUID(r, "cartID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	cart, err := h.Carts.AddItem(cartID, req.ProductID, req.Size, req.Color)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cartView(cart, h.country(r.URL.Query())))
}

func (h *Handler) quickAddHandler(w http.ResponseWriter, r *http.Request) {
	cartID, err := pathUUID(r, "cartID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req quickAddRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	cart, err := h.Carts.QuickAdd(cartID, req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cartView(cart, h.country(r.URL.Query())))
}

func (h *Handler) changeQuantityHandler(w http.ResponseWriter, r *http.Request) {
	cartID, err := pathUUID(r, "cartID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req changeQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	cart, err := h.Carts.ChangeQuantity(cartID, req.LineKey, req.Delta)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cartView(cart, h.country(r.URL.Query())))
}

func (h *Handler) removeItemHandler(w http.ResponseWriter, r *http.Request) {
	cartID, err := pathUUID(r, "cartID")
	if err != nil {
		writeError(w, err)
		return
	}
	key, err := lineKeyFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	cart, err := h.Carts.RemoveItem(cartID, key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cartView(cart, h.country(r.URL.Query())))
}

func (h *Handler) cartView(cart *model.Cart, country model.Country) cartResponse {
	if cart.Lines == nil {
		cart.Lines = []model.CartLine{}
	}
	return cartResponse{
		Cart:      cart,
		ItemCount: cart.ItemCount(),
		Totals:    h.Pricing.Resolve(cart.SubtotalCents(), country),
	}
}

// lineKeyFromQuery reads the line key of a DELETE, which carries no body.
func lineKeyFromQuery(q url.Values) (model.LineKey, error) {
	key := model.LineKey{
		ProductID: q.Get("productId"),
		Size:      model.Size(q.Get("size")),
		Color:     q.Get("color"),
	}
	if key.ProductID == "" || key.Size == "" || key.Color == "" {
		return model.LineKey{}, errBadRequest
	}
	return key, nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, errBadRequest
	}
	return id, nil
}
