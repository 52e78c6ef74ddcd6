package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	AddressNotFound = "Address not found"
	userAgent       = "Accident-App"
)

type Route struct {
	DistanceKm  float64         `json:"distance_km"`
	DurationMin float64         `json:"duration_min"`
	Geometry    json.RawMessage `json:"geometry"`
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64         `json:"distance"`
		Duration float64         `json:"duration"`
		Geometry json.RawMessage `json:"geometry"`
	} `json:"routes"`
}

// Client wraps the public OpenStreetMap reverse geocoder and the OSRM router.
type Client struct {
	nominatim *resty.Client
	osrm      *resty.Client
}

func NewClient(nominatimURL, osrmURL string) *Client {
	return &Client{
		nominatim: resty.New().
			SetBaseURL(nominatimURL).
			SetTimeout(10*time.Second).
			SetHeader("User-Agent", userAgent),
		osrm: resty.New().
			SetBaseURL(osrmURL).
			SetTimeout(15*time.Second).
			SetHeader("User-Agent", userAgent),
	}
}

// ReverseGeocode returns a display address, or AddressNotFound when the lookup
// yields nothing usable.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	resp, err := c.nominatim.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":    formatCoord(lat),
			"lon":    formatCoord(lon),
			"format": "json",
		}).
		Get("/reverse")
	if err != nil {
		return AddressNotFound, fmt.Errorf("nominatim request: %w", err)
	}
	if resp.IsError() {
		return AddressNotFound, fmt.Errorf("nominatim returned status %d", resp.StatusCode())
	}

	var parsed nominatimResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return AddressNotFound, fmt.Errorf("decode nominatim response: %w", err)
	}
	if parsed.DisplayName == "" {
		return AddressNotFound, nil
	}
	return parsed.DisplayName, nil
}

// DrivingRoute returns nil without error when OSRM finds no route.
func (c *Client) DrivingRoute(ctx context.Context, fromLat, fromLon, toLat, toLon float64) (*Route, error) {
	path := fmt.Sprintf("/route/v1/driving/%s,%s;%s,%s",
		formatCoord(fromLon), formatCoord(fromLat), formatCoord(toLon), formatCoord(toLat))

	resp, err := c.osrm.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"overview":   "full",
			"geometries": "geojson",
		}).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("osrm request: %w", err)
	}

	var parsed osrmResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("decode osrm response (status %d): %w", resp.StatusCode(), err)
	}
	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return nil, nil
	}

	r := parsed.Routes[0]
	return &Route{
		DistanceKm:  r.Distance / 1000,
		DurationMin: r.Duration / 60,
		Geometry:    r.Geometry,
	}, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
