package responder

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const DefaultSearchRadiusM = 5000.0

type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *overpassCenter   `json:"center,omitempty"`
	Tags   map[string]string `json:"tags"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// overpassDirectory looks responders up in OpenStreetMap through the public
// Overpass API and falls back to the static directory on empty results or errors.
type overpassDirectory struct {
	httpClient *resty.Client
	radiusM    float64
	fallback   *staticDirectory
	logger     *zap.SugaredLogger
}

func NewOverpassDirectory(baseURL string, radiusM float64, fallback StaticConfig, logger *zap.SugaredLogger) Directory {
	if radiusM <= 0 {
		radiusM = DefaultSearchRadiusM
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "accident-service")

	return &overpassDirectory{
		httpClient: client,
		radiusM:    radiusM,
		fallback:   &staticDirectory{cfg: fallback},
		logger:     logger,
	}
}

func (d *overpassDirectory) NearestPolice(ctx context.Context, lat, lon float64) Contact {
	found, err := d.search(ctx, "police", lat, lon)
	if err != nil {
		d.logger.Warnw("Police lookup failed, using fallback", "lat", lat, "lon", lon, "error", err)
		return d.fallback.police(lat, lon)
	}
	if len(found) == 0 {
		d.logger.Infow("No police within radius, using fallback", "lat", lat, "lon", lon, "radius_m", d.radiusM)
		return d.fallback.police(lat, lon)
	}
	return found[0]
}

func (d *overpassDirectory) TopHospitals(ctx context.Context, lat, lon float64, n int) []Contact {
	found, err := d.search(ctx, "hospital", lat, lon)
	if err != nil {
		d.logger.Warnw("Hospital lookup failed, using fallback", "lat", lat, "lon", lon, "error", err)
		return d.fallback.hospitals(lat, lon, 1)
	}
	if len(found) == 0 {
		d.logger.Infow("No hospitals within radius, using fallback", "lat", lat, "lon", lon, "radius_m", d.radiusM)
		return d.fallback.hospitals(lat, lon, 1)
	}
	if n > 0 && len(found) > n {
		found = found[:n]
	}
	return found
}

// search returns reachable amenities of the given kind ranked by distance.
// Features without a phone tag cannot be alerted and are dropped.
func (d *overpassDirectory) search(ctx context.Context, amenity string, lat, lon float64) ([]Contact, error) {
	query := buildQuery(amenity, lat, lon, d.radiusM)

	resp, err := d.httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{"data": query}).
		Post("/api/interpreter")
	if err != nil {
		return nil, fmt.Errorf("overpass request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("overpass returned status %d", resp.StatusCode())
	}

	var parsed overpassResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}

	var contacts []Contact
	for _, el := range parsed.Elements {
		phone := normalizePhone(firstTag(el.Tags, "phone", "contact:phone", "emergency:phone"))
		if phone == "" {
			continue
		}
		elLat, elLon := el.Lat, el.Lon
		if el.Center != nil {
			elLat, elLon = el.Center.Lat, el.Center.Lon
		}
		name := firstTag(el.Tags, "name", "official_name", "operator")
		if name == "" {
			name = strings.ToUpper(amenity[:1]) + amenity[1:]
		}
		contacts = append(contacts, Contact{
			Name:      name,
			Phone:     phone,
			Lat:       elLat,
			Lon:       elLon,
			DistanceM: HaversineMeters(lat, lon, elLat, elLon),
		})
	}

	sort.SliceStable(contacts, func(i, j int) bool {
		return contacts[i].DistanceM < contacts[j].DistanceM
	})
	return contacts, nil
}

func buildQuery(amenity string, lat, lon, radiusM float64) string {
	around := fmt.Sprintf("(around:%.0f,%f,%f)", radiusM, lat, lon)
	return fmt.Sprintf(`[out:json][timeout:25];(node["amenity"="%[1]s"]%[2]s;way["amenity"="%[1]s"]%[2]s;);out center tags;`,
		amenity, around)
}

func firstTag(tags map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(tags[k]); v != "" {
			return v
		}
	}
	return ""
}

// normalizePhone keeps the first number of a ";" separated OSM value and strips
// the spacing and punctuation humans put in phone tags.
func normalizePhone(raw string) string {
	if i := strings.IndexByte(raw, ';'); i >= 0 {
		raw = raw[:i]
	}
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}
