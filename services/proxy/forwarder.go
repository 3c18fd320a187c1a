package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Forwarder delivers a (possibly mutated) webhook payload downstream.
type Forwarder interface {
	Forward(ctx context.Context, payload map[string]interface{}) error
}

// HTTPForwarder posts the payload to the downstream automation endpoint.
type HTTPForwarder struct {
	URL    string
	Client *http.Client
}

func NewHTTPForwarder(url string, timeout time.Duration) *HTTPForwarder {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPForwarder{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

func (f *HTTPForwarder) Forward(ctx context.Context, payload map[string]interface{}) error {
	if f.URL == "" {
		return errors.New("forward URL not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("downstream returned %s", resp.Status)
	}
	return nil
}
