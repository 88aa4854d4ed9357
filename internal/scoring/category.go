// Package scoring computes per-category and whole-of-species priority
// scores from reconciled weed records and user-entered criteria.
package scoring

import (
	"github.com/hallsgap-landcare/weed-priority-service/internal/domain"
)

// CategoryResult is the outcome of scoring one taxonomy for one species.
// Scaled weights each rating by its confidence; Unscaled ignores confidence.
// Both are 0-100. HasData distinguishes "no impact" from "no data": a
// taxonomy with zero rated categories must surface as a knowledge gap, not
// as a zero score.
type CategoryResult struct {
	Scaled             float64 `json:"scaled"`
	Unscaled           float64 `json:"unscaled"`
	HasData            bool    `json:"hasData"`
	ItemsWithData      int     `json:"itemsWithData"`
	TotalEligibleItems int     `json:"totalEligibleItems"`
}

// Partial reports whether the species is rated on some but not all eligible
// categories, so the UI can flag a score built on incomplete coverage.
func (r CategoryResult) Partial() bool {
	return r.HasData && r.ItemsWithData < r.TotalEligibleItems
}

// ScoreCategory scores one taxonomy. For each category id, the user's
// override rating takes precedence over the source rating; rating and
// confidence are looked up independently so a user can correct one without
// restating the other. selected, when non-nil, restricts scoring to the
// categories the user opted into. A rating grade outside the five-symbol
// enumeration is treated as absent; a missing or unrecognized confidence
// defaults to domain.DefaultConfidenceWeight. With no rated categories both
// scores are 0 and HasData is false (the divisor guard: never NaN).
func ScoreCategory(ids []string, userRatings, sourceRatings domain.RatingMap, selected map[string]bool) CategoryResult {
	var (
		totalScore     float64
		totalScoreMax  float64
		maxPossible    float64
		maxPossibleMax float64
		itemsWithData  int
		totalEligible  int
	)

	for _, id := range ids {
		if selected != nil && !selected[id] {
			continue
		}
		totalEligible++

		rating := userRatings[id].Rating
		if rating == "" {
			rating = sourceRatings[id].Rating
		}
		confidence := userRatings[id].Confidence
		if confidence == "" {
			confidence = sourceRatings[id].Confidence
		}

		ratingVal, ok := rating.RatingWeight()
		if !ok {
			continue
		}
		confVal := confidence.ConfidenceWeight()

		totalScore += ratingVal * confVal
		totalScoreMax += ratingVal
		maxPossible += 5
		maxPossibleMax += 5
		itemsWithData++
	}

	result := CategoryResult{
		ItemsWithData:      itemsWithData,
		TotalEligibleItems: totalEligible,
		HasData:            itemsWithData > 0,
	}
	if maxPossible > 0 {
		result.Scaled = totalScore / maxPossible * 100
	}
	if maxPossibleMax > 0 {
		result.Unscaled = totalScoreMax / maxPossibleMax * 100
	}
	return result
}
