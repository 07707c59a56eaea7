package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"storefront/pkg/domain/model"
)

var (
	errBadRequest      = errors.New("malformed request")
	errUnauthenticated = errors.New("authentication required")
	errForbidden       = errors.New("admin role required")
)

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}

	var validation *model.ValidationError
	if errors.As(err, &validation) {
		resp.Fields = validation.Fields
	}
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
		resp.Error = http.StatusText(status)
	}
	writeJSON(w, status, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrProductNotFound),
		errors.Is(err, model.ErrCartNotFound),
		errors.Is(err, model.ErrCheckoutNotFound),
		errors.Is(err, model.ErrChatSessionNotFound),
		errors.Is(err, model.ErrNoPromotion):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, model.ErrInvalidSize),
		errors.Is(err, model.ErrInvalidColor),
		errors.Is(err, model.ErrShippingIncomplete),
		errors.Is(err, model.ErrUnknownCategory),
		errors.Is(err, model.ErrUnknownSortKey),
		errors.Is(err, model.ErrNegativePrice),
		errors.Is(err, model.ErrUnknownSizeChart),
		errors.Is(err, model.ErrCredentialsRequired),
		errors.Is(err, model.ErrNameRequired):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrInvalidStepTransition),
		errors.Is(err, model.ErrOptimisticLock):
		return http.StatusConflict
	case errors.Is(err, errUnauthenticated),
		errors.Is(err, model.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, errForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrOrderNotRecorded):
		return http.StatusBadGateway
	case errors.Is(err, errOrderHistoryUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Join(errBadRequest, err)
	}
	return nil
}
