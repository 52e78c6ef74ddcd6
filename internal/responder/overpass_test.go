package responder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testFallback = StaticConfig{
	PoliceName:     "Local Police Station",
	PolicePhone:    "+919342170059",
	HospitalNames:  []string{"Emergency Hospital - Primary", "City General Hospital", "Trauma Center"},
	HospitalPhones: []string{"+917338903743", "+919999999999", "+918888888888"},
}

func newTestDirectory(t *testing.T, handler http.HandlerFunc) Directory {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOverpassDirectory(srv.URL, 0, testFallback, zap.NewNop().Sugar())
}

func TestNearestPolice_QueryFailureFallsBack(t *testing.T) {
	dir := newTestDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	})

	got := dir.NearestPolice(context.Background(), 0, 0)

	assert.Equal(t, "Local Police Station", got.Name)
	assert.Equal(t, "+919342170059", got.Phone)
}

func TestNearestPolice_MalformedBodyFallsBack(t *testing.T) {
	dir := newTestDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>rate limited</html>"))
	})

	got := dir.NearestPolice(context.Background(), 13.05, 80.25)
	assert.Equal(t, "+919342170059", got.Phone)
}

func TestNearestPolice_PicksClosestWithPhone(t *testing.T) {
	var query string
	dir := newTestDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		query = r.PostForm.Get("data")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"elements":[
			{"type":"node","id":1,"lat":13.10,"lon":80.30,"tags":{"name":"Far Station","phone":"+91 44 2345 6789"}},
			{"type":"node","id":2,"lat":13.051,"lon":80.251,"tags":{"name":"No Phone Station"}},
			{"type":"way","id":3,"center":{"lat":13.052,"lon":80.252},"tags":{"name":"Near Station","contact:phone":"+91-44-1111-2222;+91 44 3333 4444"}}
		]}`))
	})

	got := dir.NearestPolice(context.Background(), 13.05, 80.25)

	assert.Equal(t, "Near Station", got.Name)
	assert.Equal(t, "+914411112222", got.Phone)
	assert.InDelta(t, 13.052, got.Lat, 1e-9)
	assert.True(t, strings.Contains(query, `"amenity"="police"`))
	assert.True(t, strings.Contains(query, "around:5000"))
}

func TestTopHospitals_RanksAndTruncates(t *testing.T) {
	dir := newTestDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"elements":[
			{"type":"node","id":1,"lat":13.09,"lon":80.25,"tags":{"name":"D","phone":"+914400000004"}},
			{"type":"node","id":2,"lat":13.06,"lon":80.25,"tags":{"name":"B","phone":"+914400000002"}},
			{"type":"node","id":3,"lat":13.051,"lon":80.25,"tags":{"name":"A","phone":"+914400000001"}},
			{"type":"node","id":4,"lat":13.07,"lon":80.25,"tags":{"name":"C","phone":"+914400000003"}}
		]}`))
	})

	got := dir.TopHospitals(context.Background(), 13.05, 80.25, 3)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{got[0].Name, got[1].Name, got[2].Name})
	assert.Less(t, got[0].DistanceM, got[1].DistanceM)
}

func TestTopHospitals_EmptyResultReturnsSingletonFallback(t *testing.T) {
	dir := newTestDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"elements":[]}`))
	})

	got := dir.TopHospitals(context.Background(), 13.05, 80.25, 3)

	require.Len(t, got, 1)
	assert.Equal(t, "Emergency Hospital - Primary", got[0].Name)
	assert.Equal(t, "+917338903743", got[0].Phone)
}

func TestTopHospitals_FailureWithoutConfiguredHospitals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	t.Cleanup(srv.Close)
	dir := NewOverpassDirectory(srv.URL, 0, StaticConfig{PolicePhone: "+919342170059"}, zap.NewNop().Sugar())

	got := dir.TopHospitals(context.Background(), 13.05, 80.25, 3)

	require.Len(t, got, 1)
	assert.Equal(t, DefaultHospitalPhone, got[0].Phone)
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+914423456789", normalizePhone("+91 44 2345 6789"))
	assert.Equal(t, "04423456789", normalizePhone("(044) 2345-6789"))
	assert.Equal(t, "+911", normalizePhone("+91+1"))
	assert.Equal(t, "", normalizePhone(""))
}
