package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverseGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "13.05", r.URL.Query().Get("lat"))
		assert.Equal(t, "80.25", r.URL.Query().Get("lon"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "Accident-App", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"display_name":"Marina Beach Road, Chennai"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL)

	addr, err := c.ReverseGeocode(context.Background(), 13.05, 80.25)
	require.NoError(t, err)
	assert.Equal(t, "Marina Beach Road, Chennai", addr)
}

func TestReverseGeocode_NoAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
	}))
	defer srv.Close()

	addr, err := NewClient(srv.URL, srv.URL).ReverseGeocode(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, AddressNotFound, addr)
}

func TestReverseGeocode_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	addr, err := NewClient(srv.URL, srv.URL).ReverseGeocode(context.Background(), 0, 0)
	assert.Error(t, err)
	assert.Equal(t, AddressNotFound, addr)
}

func TestDrivingRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/route/v1/driving/80.25,13.05;80.26,13.06", r.URL.Path)
		assert.Equal(t, "geojson", r.URL.Query().Get("geometries"))
		_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"distance":2500,"duration":300,"geometry":{"type":"LineString","coordinates":[[80.25,13.05],[80.26,13.06]]}}]}`))
	}))
	defer srv.Close()

	route, err := NewClient(srv.URL, srv.URL).DrivingRoute(context.Background(), 13.05, 80.25, 13.06, 80.26)
	require.NoError(t, err)
	require.NotNil(t, route)
	assert.Equal(t, 2.5, route.DistanceKm)
	assert.Equal(t, 5.0, route.DurationMin)
	assert.Contains(t, string(route.Geometry), "LineString")
}

func TestDrivingRoute_NoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"NoRoute","message":"Impossible route between points"}`))
	}))
	defer srv.Close()

	route, err := NewClient(srv.URL, srv.URL).DrivingRoute(context.Background(), 0, 0, 1, 1)
	require.NoError(t, err)
	assert.Nil(t, route)
}
