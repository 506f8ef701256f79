package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sokerihelmi/bakery-api/config"
)

// GeocodeInterface resolves a free-text address into a coordinate. The
// delivery calculator only needs the point; everything else about the
// provider is opaque.
type GeocodeInterface interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

// GeocodeService implements GeocodeInterface against a Google-style
// geocoding HTTP API.
type GeocodeService struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
}

var geocodeServiceInstance GeocodeInterface

// InitGeocodeService initializes the geocode service from configuration
func InitGeocodeService(cfg *config.Config) GeocodeInterface {
	geocodeServiceInstance = &GeocodeService{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		apiURL: cfg.GeocodingAPIURL,
		apiKey: cfg.GeocodingAPIKey,
	}
	return geocodeServiceInstance
}

// GetGeocodeService returns the initialized geocode service instance
func GetGeocodeService() GeocodeInterface {
	return geocodeServiceInstance
}

// SetGeocodeService sets the geocode service instance (primarily for testing)
func SetGeocodeService(service GeocodeInterface) {
	geocodeServiceInstance = service
}

// geocodeResponse is the subset of the provider payload we read
type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves the given address to a coordinate
func (s *GeocodeService) Geocode(ctx context.Context, address string) (float64, float64, error) {
	query := url.Values{}
	query.Set("address", address)
	query.Set("key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+"?"+query.Encode(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, 0, fmt.Errorf("geocode provider returned status %d", resp.StatusCode)
	}

	var result geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, 0, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	if result.Status != "OK" || len(result.Results) == 0 {
		return 0, 0, fmt.Errorf("address could not be geocoded: %s", result.Status)
	}

	loc := result.Results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}
