package responder

import (
	"context"
	"math"
)

// Contact is a police station or hospital that can be alerted about an accident.
type Contact struct {
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	DistanceM float64 `json:"distance_m"`
}

// Directory resolves a location to nearby responders. Implementations never
// return an error: on failure they fall back to configured contacts.
type Directory interface {
	NearestPolice(ctx context.Context, lat, lon float64) Contact
	TopHospitals(ctx context.Context, lat, lon float64, n int) []Contact
}

type StaticConfig struct {
	PoliceName     string
	PolicePhone    string
	HospitalNames  []string
	HospitalPhones []string
}

// used when no hospital phone is configured, so callers always get one hospital
const (
	DefaultHospitalName  = "Emergency Hospital - Primary"
	DefaultHospitalPhone = "+917338903743"
)

// hospital positions relative to the accident, mirroring the demo data
var hospitalOffsets = []float64{0, 0.01, -0.01}

type staticDirectory struct {
	cfg StaticConfig
}

func NewStaticDirectory(cfg StaticConfig) Directory {
	return &staticDirectory{cfg: cfg}
}

func (d *staticDirectory) NearestPolice(_ context.Context, lat, lon float64) Contact {
	return d.police(lat, lon)
}

func (d *staticDirectory) TopHospitals(_ context.Context, lat, lon float64, n int) []Contact {
	return d.hospitals(lat, lon, n)
}

func (d *staticDirectory) police(lat, lon float64) Contact {
	return Contact{
		Name:  d.cfg.PoliceName,
		Phone: d.cfg.PolicePhone,
		Lat:   lat,
		Lon:   lon,
	}
}

func (d *staticDirectory) hospitals(lat, lon float64, n int) []Contact {
	phones := d.cfg.HospitalPhones
	if len(phones) == 0 {
		return []Contact{{Name: DefaultHospitalName, Phone: DefaultHospitalPhone, Lat: lat, Lon: lon}}
	}
	var out []Contact
	for i, phone := range phones {
		if n > 0 && len(out) >= n {
			break
		}
		name := "Hospital"
		if i < len(d.cfg.HospitalNames) {
			name = d.cfg.HospitalNames[i]
		}
		offset := 0.0
		if i < len(hospitalOffsets) {
			offset = hospitalOffsets[i]
		}
		out = append(out, Contact{
			Name:      name,
			Phone:     phone,
			Lat:       lat + offset,
			Lon:       lon + offset,
			DistanceM: HaversineMeters(lat, lon, lat+offset, lon+offset),
		})
	}
	return out
}

const earthRadiusM = 6371000.0

// HaversineMeters returns the great-circle distance between two points.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusM * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
