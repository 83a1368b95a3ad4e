package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// DistanceService handles interactions with the Google Distance Matrix API.
type DistanceService struct {
	client *maps.Client
}

// NewDistanceService creates a new DistanceService with the given API Key.
// Extra client options (e.g. maps.WithBaseURL) are applied after the key.
func NewDistanceService(apiKey string, opts ...maps.ClientOption) (*DistanceService, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &DistanceService{client: client}, nil
}

// Distance returns the driving distance in meters and the provider's
// human-readable text between two addresses (pincodes are accepted as-is).
func (s *DistanceService) Distance(ctx context.Context, origin, destination string) (int, string, error) {
	r := &maps.DistanceMatrixRequest{
		Origins:      []string{origin},
		Destinations: []string{destination},
		Mode:         maps.TravelModeDriving,
		Units:        maps.UnitsMetric,
	}

	resp, err := s.client.DistanceMatrix(ctx, r)
	if err != nil {
		return 0, "", fmt.Errorf("maps api error: %w", err)
	}

	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 || resp.Rows[0].Elements[0] == nil {
		return 0, "", fmt.Errorf("no route found")
	}

	el := resp.Rows[0].Elements[0]
	if el.Status != "OK" {
		return 0, "", fmt.Errorf("route %s→%s: %s", origin, destination, el.Status)
	}
	return el.Distance.Meters, el.Distance.HumanReadable, nil
}
