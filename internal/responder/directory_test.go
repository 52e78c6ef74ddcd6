package responder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticDirectory(t *testing.T) {
	dir := NewStaticDirectory(testFallback)

	police := dir.NearestPolice(context.Background(), 13.05, 80.25)
	assert.Equal(t, "Local Police Station", police.Name)
	assert.Equal(t, 13.05, police.Lat)

	hospitals := dir.TopHospitals(context.Background(), 13.05, 80.25, 3)
	require.Len(t, hospitals, 3)
	assert.Equal(t, "+917338903743", hospitals[0].Phone)
	assert.InDelta(t, 13.06, hospitals[1].Lat, 1e-9)
	assert.InDelta(t, 80.24, hospitals[2].Lon, 1e-9)
	assert.Zero(t, hospitals[0].DistanceM)

	assert.Len(t, dir.TopHospitals(context.Background(), 0, 0, 2), 2)
}

func TestStaticDirectory_MissingNames(t *testing.T) {
	dir := NewStaticDirectory(StaticConfig{HospitalPhones: []string{"+911234567890"}})

	hospitals := dir.TopHospitals(context.Background(), 0, 0, 3)
	require.Len(t, hospitals, 1)
	assert.Equal(t, "Hospital", hospitals[0].Name)
}

func TestStaticDirectory_NoHospitalsConfigured(t *testing.T) {
	dir := NewStaticDirectory(StaticConfig{PoliceName: "Local Police Station", PolicePhone: "+919342170059"})

	hospitals := dir.TopHospitals(context.Background(), 13.05, 80.25, 3)
	require.Len(t, hospitals, 1)
	assert.Equal(t, DefaultHospitalName, hospitals[0].Name)
	assert.Equal(t, DefaultHospitalPhone, hospitals[0].Phone)
	assert.Equal(t, 13.05, hospitals[0].Lat)
}

func TestHaversineMeters(t *testing.T) {
	assert.Zero(t, HaversineMeters(13.05, 80.25, 13.05, 80.25))
	// one degree of latitude is roughly 111 km
	assert.InDelta(t, 111195, HaversineMeters(0, 0, 1, 0), 50)
}
