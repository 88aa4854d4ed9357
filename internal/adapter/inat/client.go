// Package inat finds representative species photos via the iNaturalist
// taxa API.
package inat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hallsgap-landcare/weed-priority-service/internal/domain"
	"github.com/hallsgap-landcare/weed-priority-service/internal/observability"
)

// DefaultBaseURL is the public iNaturalist API root.
const DefaultBaseURL = "https://api.inaturalist.org/v1"

// Client implements domain.PhotoFinder using the iNaturalist taxa search.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an iNaturalist photo client. Pass an empty baseURL to
// use the public API.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
		metrics: metrics,
	}
}

// FindPhoto searches the taxa endpoint by scientific name and returns the
// default photo of the top match. An empty result with a nil error means
// iNaturalist has no match or the match carries no photo.
func (c *Client) FindPhoto(ctx context.Context, scientificName string) (domain.PhotoResult, error) {
	params := url.Values{
		"q":        {scientificName},
		"per_page": {"1"},
	}
	fullURL := c.baseURL + "/taxa?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.PhotoResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.PhotoLookups.WithLabelValues("error").Inc()
		return domain.PhotoResult{}, fmt.Errorf("taxa request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.metrics.PhotoLookups.WithLabelValues("error").Inc()
		return domain.PhotoResult{}, fmt.Errorf("inaturalist API error: status %d: %s", resp.StatusCode, body)
	}

	var taxaResp response
	if err := json.NewDecoder(resp.Body).Decode(&taxaResp); err != nil {
		c.metrics.PhotoLookups.WithLabelValues("error").Inc()
		return domain.PhotoResult{}, fmt.Errorf("decode response: %w", err)
	}

	if len(taxaResp.Results) == 0 || taxaResp.Results[0].DefaultPhoto == nil {
		c.metrics.PhotoLookups.WithLabelValues("empty").Inc()
		return domain.PhotoResult{}, nil
	}

	photo := taxaResp.Results[0].DefaultPhoto
	result := domain.PhotoResult{
		// The medium rendition keeps report payloads small; fall back to
		// the original when no rendition is published.
		URL:         photo.MediumURL,
		Attribution: photo.Attribution,
	}
	if result.URL == "" {
		result.URL = photo.URL
	}
	if result.URL == "" {
		c.metrics.PhotoLookups.WithLabelValues("empty").Inc()
		return domain.PhotoResult{}, nil
	}

	c.metrics.PhotoLookups.WithLabelValues("success").Inc()
	return result, nil
}

// iNaturalist API response types.

type response struct {
	Results []taxon `json:"results"`
}

type taxon struct {
	Name         string `json:"name"`
	DefaultPhoto *photo `json:"default_photo"`
}

type photo struct {
	MediumURL   string `json:"medium_url"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}
