package paypal

import (
	"net/url"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"

	"storefront/pkg/domain/model"
	"storefront/pkg/domain/service"
)

const (
	DefaultBaseURL  = "https://www.paypal.com/cgi-bin/webscr"
	DefaultCurrency = "USD"
	QRCodeSize      = 256
)

var ErrMissingBusiness = errors.New("paypal business account is not configured")

var _ service.PaymentRedirector = &Redirector{}

// Redirector builds hosted-checkout links. No payment is captured here.
type Redirector struct {
	baseURL  string
	business string
	currency string
}

func NewRedirector(baseURL, business, currency string) *Redirector {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Redirector{baseURL: baseURL, business: business, currency: currency}
}

func (r *Redirector) PaymentURL(totalCents int64) (string, error) {
	if r.business == "" {
		return "", ErrMissingBusiness
	}
	u, err := url.Parse(r.baseURL)
	if err != nil {
		return "", errors.Wrap(err, "parse payment base url")
	}

	// Parameter order is fixed so links are stable across runs.
	u.RawQuery = "cmd=_xclick" +
		"&business=" + url.QueryEscape(r.business) +
		"&currency_code=" + url.QueryEscape(r.currency) +
		"&amount=" + model.FormatCents(totalCents)
	return u.String(), nil
}

// QRCode renders a payment link as a PNG.
func QRCode(link string) ([]byte, error) {
	png, err := qrcode.Encode(link, qrcode.Medium, QRCodeSize)
	if err != nil {
		return nil, errors.Wrap(err, "encode payment qr code")
	}
	return png, nil
}
