package firepanel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// NotFoundError is returned when the panel has no building for the given ref.
type NotFoundError struct {
	PanelRef string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("panel has no building %q", e.PanelRef)
}

// StatusError covers any other non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("panel API returned %d: %s", e.StatusCode, e.Body)
}

// Client is what the dashboard service consumes. The panel API itself is an
// opaque collaborator; only this surface is relied upon.
type Client interface {
	BuildingDevices(ctx context.Context, panelRef string) ([]Device, error)
}

// HTTPClient talks to the fire-alarm panel's REST API.
type HTTPClient struct {
	BaseURL    *url.URL
	APIKey     string
	HTTPClient *http.Client
	MaxElapsed time.Duration // total budget for retries on 5xx / transport errors
}

func NewHTTPClient(baseURL, apiKey string, maxElapsed time.Duration) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid panel base URL: %w", err)
	}
	if maxElapsed <= 0 {
		maxElapsed = 15 * time.Second
	}
	return &HTTPClient{
		BaseURL:    parsed,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
		MaxElapsed: maxElapsed,
	}, nil
}

// BuildingDevices fetches the device list for one building.
// Transport errors and 5xx responses are retried with exponential backoff;
// 4xx responses are permanent.
func (c *HTTPClient) BuildingDevices(ctx context.Context, panelRef string) ([]Device, error) {
	u := *c.BaseURL
	u.Path = path.Join(u.Path, "buildings", panelRef, "devices")

	var devices []Device
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if c.APIKey != "" {
			req.Header.Set("X-Api-Key", c.APIKey)
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(&NotFoundError{PanelRef: panelRef})
		case resp.StatusCode >= 500:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		case resp.StatusCode != http.StatusOK:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return backoff.Permanent(&StatusError{StatusCode: resp.StatusCode, Body: string(body)})
		}

		var parsed devicesResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return backoff.Permanent(fmt.Errorf("decode panel response: %w", err))
		}
		devices = parsed.Devices
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.MaxElapsed
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return devices, nil
}
