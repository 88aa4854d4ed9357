package domain

import (
	"context"
	"log/slog"
)

// PhotoResult is a species photo located by a photo provider.
type PhotoResult struct {
	URL         string
	Attribution string
}

// PhotoFinder locates a representative photo for a species.
type PhotoFinder interface {
	// FindPhoto looks up a photo by scientific name. An empty result with a
	// nil error means the provider knows nothing about the species.
	FindPhoto(ctx context.Context, scientificName string) (PhotoResult, error)
}

// EnrichWithPhoto fills a unified record's image list from a photo provider
// when every source left it empty. If finder is nil, the record already has
// images, or the species has no scientific name to search by, the record is
// returned unchanged. Lookup failures degrade gracefully: the missing photo
// stays a knowledge gap for the report layer, never an error.
func EnrichWithPhoto(ctx context.Context, rec UnifiedWeedRecord, finder PhotoFinder, logger *slog.Logger) UnifiedWeedRecord {
	if finder == nil || len(rec.Images) > 0 || rec.ScientificName == "" {
		return rec
	}

	result, err := finder.FindPhoto(ctx, rec.ScientificName)
	if err != nil {
		logger.Warn("photo lookup failed",
			"name", rec.Name,
			"scientific_name", rec.ScientificName,
			"error", err,
		)
		return rec
	}
	if result.URL == "" {
		return rec
	}

	rec.Images = []string{result.URL}
	rec.ImageAttribution = result.Attribution
	return rec
}
