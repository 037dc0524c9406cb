package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_ParsesFeatures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/geocode/search", r.URL.Path)
		assert.Equal(t, "paradiso", r.URL.Query().Get("text"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"features":[
			{"properties":{"place_id":"p1","name":"Paradiso","formatted":"Paradiso, Amsterdam","city":"Amsterdam","country":"Netherlands","lat":52.36,"lon":4.88}}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", time.Second, nil)
	results, err := c.Search(context.Background(), "paradiso")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].PlaceID)
	assert.Equal(t, "Amsterdam", results[0].City)
	assert.InDelta(t, 52.36, results[0].Lat, 0.001)
}

func TestSearch_ProviderErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-key", time.Second, nil)
	_, err := c.Search(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestDetails_NoFeaturesMeansNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/place-details", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", time.Second, nil)
	place, err := c.Details(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, place)
}
