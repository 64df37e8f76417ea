// Package muralclient is a Go client for the plat-murals API. It backs the
// CLI commands and satisfies the persistence interfaces of the local mural
// store and the building capture saver.
package muralclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joeblew999/plat-murals/internal/service"
)

// Client talks to a plat-murals server.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a client for baseURL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Error is a non-2xx response, decoded from the server's problem JSON.
type Error struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Title)
}

// Health is the /health body.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Nearest is the /api/murals/nearest body.
type Nearest struct {
	Mural          service.Mural `json:"mural"`
	DistanceMeters float64       `json:"distanceMeters"`
	Distance       string        `json:"distance"`
}

type patchResult struct {
	Success bool          `json:"success"`
	Mural   service.Mural `json:"mural"`
}

type successCount struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

func (c *Client) ListMurals(ctx context.Context) ([]service.Mural, error) {
	var out []service.Mural
	err := c.do(ctx, http.MethodGet, "/api/murals", nil, &out)
	return out, err
}

// ReplaceMurals overwrites the whole collection and returns the stored count.
func (c *Client) ReplaceMurals(ctx context.Context, murals []service.Mural) (int, error) {
	var out successCount
	err := c.do(ctx, http.MethodPut, "/api/murals", murals, &out)
	return out.Count, err
}

func (c *Client) UpdateCoordinates(ctx context.Context, id string, lat, lng float64) (service.Mural, error) {
	body := map[string]any{"muralId": id, "lat": lat, "lng": lng}
	var out patchResult
	err := c.do(ctx, http.MethodPatch, "/api/murals", body, &out)
	return out.Mural, err
}

func (c *Client) UpdateMural(ctx context.Context, m service.Mural) (service.Mural, error) {
	var out patchResult
	err := c.do(ctx, http.MethodPatch, "/api/murals", m, &out)
	return out.Mural, err
}

func (c *Client) NearestMural(ctx context.Context, lat, lng float64) (Nearest, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	var out Nearest
	err := c.do(ctx, http.MethodGet, "/api/murals/nearest?"+q.Encode(), nil, &out)
	return out, err
}

func (c *Client) ListBuildings(ctx context.Context) ([]service.Building, error) {
	var out []service.Building
	err := c.do(ctx, http.MethodGet, "/api/buildings", nil, &out)
	return out, err
}

// SaveBuildings replaces the custom building collection.
func (c *Client) SaveBuildings(ctx context.Context, buildings []service.Building) error {
	return c.do(ctx, http.MethodPut, "/api/buildings", buildings, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
