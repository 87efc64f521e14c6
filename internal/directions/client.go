// Package directions talks to the external driving-directions provider.
// The response shape follows the Google Directions JSON API: only route legs
// and their distances are read.
package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"evbus/internal/domain/models"
)

// ErrUnavailable means the provider is not configured.
var ErrUnavailable = errors.New("directions provider unavailable")

// Leg is one segment between consecutive waypoints.
type Leg struct {
	DistanceMeters int64
	Start          models.GeoPoint
	End            models.GeoPoint
}

// Provider returns driving legs through points in order.
type Provider interface {
	Route(ctx context.Context, points []models.GeoPoint) ([]Leg, error)
}

// Client is a small HTTP client for the directions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		Legs []struct {
			Distance struct {
				Value int64 `json:"value"`
			} `json:"distance"`
			StartLocation latLng `json:"start_location"`
			EndLocation   latLng `json:"end_location"`
		} `json:"legs"`
	} `json:"routes"`
}

func formatPoint(p models.GeoPoint) string {
	return strconv.FormatFloat(p.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lng, 'f', 6, 64)
}

// Route requests a driving route from points[0] to points[len-1] through the
// points in between.
func (c *Client) Route(ctx context.Context, points []models.GeoPoint) ([]Leg, error) {
	if c == nil || c.baseURL == "" || c.apiKey == "" {
		return nil, ErrUnavailable
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("directions: need at least 2 points, got %d", len(points))
	}

	q := url.Values{}
	q.Set("origin", formatPoint(points[0]))
	q.Set("destination", formatPoint(points[len(points)-1]))
	if len(points) > 2 {
		wps := make([]string, 0, len(points)-2)
		for _, p := range points[1 : len(points)-1] {
			wps = append(wps, formatPoint(p))
		}
		q.Set("waypoints", strings.Join(wps, "|"))
	}
	q.Set("mode", "driving")
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/directions/json?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directions: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directions: HTTP %d", resp.StatusCode)
	}

	var body directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("directions: decode: %w", err)
	}
	if body.Status != "OK" {
		return nil, fmt.Errorf("directions: status %s %s", body.Status, body.ErrorMessage)
	}
	if len(body.Routes) == 0 || len(body.Routes[0].Legs) == 0 {
		return nil, errors.New("directions: no route")
	}

	legs := make([]Leg, 0, len(body.Routes[0].Legs))
	for _, l := range body.Routes[0].Legs {
		legs = append(legs, Leg{
			DistanceMeters: l.Distance.Value,
			Start:          models.GeoPoint{Lat: l.StartLocation.Lat, Lng: l.StartLocation.Lng},
			End:            models.GeoPoint{Lat: l.EndLocation.Lat, Lng: l.EndLocation.Lng},
		})
	}
	return legs, nil
}
