package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"storefront/pkg/domain/model"
)

// placeholderMarker is left in the endpoint until a real spreadsheet script is deployed.
const placeholderMarker = "INSERT_YOUR_ID_HERE"

var _ model.OrderSink = &Sink{}

// Sink posts orders as JSON to a spreadsheet web-app endpoint.
type Sink struct {
	url    string
	client *http.Client
}

func NewSink(url string, timeout time.Duration) *Sink {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Sink{url: url, client: &http.Client{Timeout: timeout}}
}

func (s *Sink) Configured() bool {
	return s.url != "" && !strings.Contains(s.url, placeholderMarker)
}

func (s *Sink) Submit(ctx context.Context, payload model.OrderPayload) error {
	if !s.Configured() {
		log.Warn("order webhook URL is not configured, skipping submission")
		return model.ErrSinkNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encode order")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build order request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "post order")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("order webhook responded with status %d", resp.StatusCode)
	}

	log.WithField("email", payload.Email).Info("order sent to spreadsheet")
	return nil
}
