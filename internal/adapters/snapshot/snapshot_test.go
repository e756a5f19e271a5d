package snapshot

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/platform/httpx"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	points, err := Decode(strings.NewReader(`[
		{"id": 7, "lat": 50.99, "lon": 7.12, "fill": 35},
		{"id": "c-2", "lat": 50.98, "lon": 7.11, "fill": 0}
	]`))
	require.NoError(t, err)
	assert.Equal(t, []domain.PickupPoint{
		{ID: "7", Coordinates: domain.Coordinates{Lat: 50.99, Lon: 7.12}, Fill: 35},
		{ID: "c-2", Coordinates: domain.Coordinates{Lat: 50.98, Lon: 7.11}, Fill: 0},
	}, points)
}

func TestDecodeRejectsBadRecords(t *testing.T) {
	bad := []string{
		`{"id": 1}`,
		`[{"lat": 1, "lon": 2, "fill": 3}]`,
		`[{"id": 1, "lon": 2, "fill": 3}]`,
		`[{"id": 1, "lat": 1, "lon": 2}]`,
		`[{"id": 1, "lat": 1, "lon": 2, "fill": -4}]`,
		`[{"id": true, "lat": 1, "lon": 2, "fill": 4}]`,
	}
	for _, body := range bad {
		_, err := Decode(strings.NewReader(body))
		assert.Error(t, err, body)
	}
}

func TestHTTPSourceRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"id": 1, "lat": 1.5, "lon": 2.5, "fill": 21}]`))
	}))
	defer srv.Close()

	client := httpx.NewClient(time.Second, 0)
	client.Backoff = time.Millisecond
	src, err := NewHTTPSource(srv.URL, client)
	require.NoError(t, err)

	points, err := src.ListPickupPoints(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 21, points[0].Fill)
	assert.Equal(t, int32(2), hits.Load())
}

func TestHTTPSourceDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL, httpx.NewClient(time.Second, 0))
	require.NoError(t, err)

	_, err = src.ListPickupPoints(context.Background())
	var se *httpx.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, int32(1), hits.Load())
}
