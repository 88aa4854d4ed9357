package inat

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallsgap-landcare/weed-priority-service/internal/observability"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testClient(baseURL string) *Client {
	return NewClient(baseURL, 5*time.Second,
		slog.New(slog.NewTextHandler(io.Discard, nil)), testMetrics())
}

func TestClient_FindPhoto_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/taxa", r.URL.Path)
		assert.Equal(t, "Ulex europaeus", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))

		resp := response{
			Results: []taxon{
				{
					Name: "Ulex europaeus",
					DefaultPhoto: &photo{
						MediumURL:   "https://static.inaturalist.org/photos/123/medium.jpg",
						URL:         "https://static.inaturalist.org/photos/123/original.jpg",
						Attribution: "(c) someone, CC BY-NC",
					},
				},
			},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.FindPhoto(context.Background(), "Ulex europaeus")
	require.NoError(t, err)

	assert.Equal(t, "https://static.inaturalist.org/photos/123/medium.jpg", result.URL)
	assert.Equal(t, "(c) someone, CC BY-NC", result.Attribution)
}

func TestClient_FindPhoto_FallsBackToOriginalURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := response{
			Results: []taxon{
				{
					Name: "Moraea flaccida",
					DefaultPhoto: &photo{
						URL:         "https://static.inaturalist.org/photos/9/original.jpg",
						Attribution: "(c) someone else",
					},
				},
			},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	result, err := testClient(srv.URL).FindPhoto(context.Background(), "Moraea flaccida")
	require.NoError(t, err)
	assert.Equal(t, "https://static.inaturalist.org/photos/9/original.jpg", result.URL)
}

func TestClient_FindPhoto_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(response{}))
	}))
	defer srv.Close()

	result, err := testClient(srv.URL).FindPhoto(context.Background(), "Nothingus foundus")
	require.NoError(t, err)
	assert.Empty(t, result.URL)
}

func TestClient_FindPhoto_NoDefaultPhoto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := response{Results: []taxon{{Name: "Ulex europaeus"}}}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	result, err := testClient(srv.URL).FindPhoto(context.Background(), "Ulex europaeus")
	require.NoError(t, err)
	assert.Empty(t, result.URL)
}

func TestClient_FindPhoto_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FindPhoto(context.Background(), "Ulex europaeus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestClient_FindPhoto_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FindPhoto(context.Background(), "Ulex europaeus")
	assert.Error(t, err)
}

func TestClient_FindPhoto_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(response{}))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL).FindPhoto(ctx, "Ulex europaeus")
	assert.Error(t, err)
}
