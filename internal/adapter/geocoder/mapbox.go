package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/andrew-widjaja/yelp-camp/internal/campground/domain"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/logger"
)

const defaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// MapboxClient resolves free-text locations to geographic points using the
// Mapbox forward geocoding API.
type MapboxClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *logger.Logger
}

type mapboxResponse struct {
	Features []struct {
		Geometry struct {
			Type        string    `json:"type"`
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// NewMapboxClient creates a geocoding client with a bounded request timeout.
func NewMapboxClient(token string, log *logger.Logger) *MapboxClient {
	return &MapboxClient{
		baseURL:    defaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     log.Named("MapboxGeocoder"),
	}
}

// NewMapboxClientWithBaseURL is used by tests to point the client at a
// fake server.
func NewMapboxClientWithBaseURL(baseURL, token string, log *logger.Logger) *MapboxClient {
	c := NewMapboxClient(token, log)
	c.baseURL = baseURL
	return c
}

// Forward geocodes a location string and returns the first resulting point.
// No results is an upstream error: a campground cannot exist without a
// geographic point.
func (c *MapboxClient) Forward(ctx context.Context, query string) (domain.GeoPoint, error) {
	endpoint := fmt.Sprintf("%s/%s.json?access_token=%s&limit=1",
		c.baseURL, url.PathEscape(query), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("%w: build geocoding request: %v", domain.ErrUpstream, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Geocoding request failed", zap.String("query", query), zap.Error(err))
		return domain.GeoPoint{}, fmt.Errorf("%w: geocoding request: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Geocoding request returned non-OK status",
			zap.String("query", query),
			zap.Int("status", resp.StatusCode))
		return domain.GeoPoint{}, fmt.Errorf("%w: geocoding returned status %d", domain.ErrUpstream, resp.StatusCode)
	}

	var body mapboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.GeoPoint{}, fmt.Errorf("%w: decode geocoding response: %v", domain.ErrUpstream, err)
	}
	if len(body.Features) == 0 {
		c.logger.Warn("Geocoding returned no results", zap.String("query", query))
		return domain.GeoPoint{}, fmt.Errorf("%w: no geocoding results for %q", domain.ErrUpstream, query)
	}

	feature := body.Features[0]
	return domain.GeoPoint{
		Type:        feature.Geometry.Type,
		Coordinates: feature.Geometry.Coordinates,
	}, nil
}
