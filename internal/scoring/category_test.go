package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hallsgap-landcare/weed-priority-service/internal/domain"
)

var impactIDs = domain.CategoryIDs(domain.ImpactCategories)

func TestScoreCategory_SingleFullyConfidentRating(t *testing.T) {
	// One H/H category out of the full impact taxonomy: 5*1.0 out of a
	// possible 5 scales to 100, with 25 unrated categories still counted
	// as eligible.
	source := domain.RatingMap{"env_flow": {Rating: domain.GradeHigh, Confidence: domain.GradeHigh}}

	result := ScoreCategory(impactIDs, domain.RatingMap{}, source, nil)

	assert.InDelta(t, 100.0, result.Scaled, 1e-9)
	assert.InDelta(t, 100.0, result.Unscaled, 1e-9)
	assert.True(t, result.HasData)
	assert.Equal(t, 1, result.ItemsWithData)
	assert.Equal(t, 26, result.TotalEligibleItems)
	assert.True(t, result.Partial())
}

func TestScoreCategory_MissingConfidenceDefaults(t *testing.T) {
	// A rating with no confidence uses the 0.5 default, not the MH
	// confidence table value of 0.8.
	source := domain.RatingMap{"env_flow": {Rating: domain.GradeMediumHigh}}

	result := ScoreCategory(impactIDs, domain.RatingMap{}, source, nil)

	assert.InDelta(t, 4*0.5/5*100, result.Scaled, 1e-9) // 40, not 64
	assert.InDelta(t, 80.0, result.Unscaled, 1e-9)
}

func TestScoreCategory_UnrecognizedGrades(t *testing.T) {
	t.Run("unknown rating is absent", func(t *testing.T) {
		source := domain.RatingMap{"env_flow": {Rating: "VH", Confidence: domain.GradeHigh}}
		result := ScoreCategory(impactIDs, domain.RatingMap{}, source, nil)

		assert.False(t, result.HasData)
		assert.Zero(t, result.ItemsWithData)
		assert.Zero(t, result.Scaled)
	})

	t.Run("unknown confidence defaults to 0.5", func(t *testing.T) {
		source := domain.RatingMap{"env_flow": {Rating: domain.GradeHigh, Confidence: "??"}}
		result := ScoreCategory(impactIDs, domain.RatingMap{}, source, nil)

		assert.InDelta(t, 50.0, result.Scaled, 1e-9)
	})
}

func TestScoreCategory_UserOverridesSource(t *testing.T) {
	source := domain.RatingMap{"env_flow": {Rating: domain.GradeLow, Confidence: domain.GradeHigh}}
	user := domain.RatingMap{"env_flow": {Rating: domain.GradeHigh}}

	result := ScoreCategory([]string{"env_flow"}, user, source, nil)

	// User rating (H=5) wins; confidence falls through to the source (H=1.0).
	assert.InDelta(t, 100.0, result.Scaled, 1e-9)
}

func TestScoreCategory_SelectedFilter(t *testing.T) {
	source := domain.RatingMap{
		"env_flow": {Rating: domain.GradeHigh, Confidence: domain.GradeHigh},
		"env_fire": {Rating: domain.GradeLow, Confidence: domain.GradeHigh},
	}

	t.Run("nil selects everything", func(t *testing.T) {
		result := ScoreCategory(impactIDs, domain.RatingMap{}, source, nil)
		assert.Equal(t, 2, result.ItemsWithData)
		assert.Equal(t, 26, result.TotalEligibleItems)
	})

	t.Run("opt-in restricts eligible categories", func(t *testing.T) {
		result := ScoreCategory(impactIDs, domain.RatingMap{}, source, map[string]bool{"env_flow": true})
		assert.Equal(t, 1, result.ItemsWithData)
		assert.Equal(t, 1, result.TotalEligibleItems)
		assert.InDelta(t, 100.0, result.Scaled, 1e-9)
		assert.False(t, result.Partial())
	})

	t.Run("deselecting every rated category yields a gap", func(t *testing.T) {
		result := ScoreCategory(impactIDs, domain.RatingMap{}, source, map[string]bool{"ag_yield": true})
		assert.False(t, result.HasData)
		assert.Equal(t, 1, result.TotalEligibleItems)
	})
}

func TestScoreCategory_NoDataNeverNaN(t *testing.T) {
	result := ScoreCategory(impactIDs, domain.RatingMap{}, domain.RatingMap{}, nil)

	assert.False(t, result.HasData)
	assert.False(t, math.IsNaN(result.Scaled))
	assert.False(t, math.IsNaN(result.Unscaled))
	assert.Zero(t, result.Scaled)
	assert.Zero(t, result.Unscaled)
	assert.Equal(t, 26, result.TotalEligibleItems)
}

func TestScoreCategory_ConfidenceWeighting(t *testing.T) {
	// Two rated categories: H at M confidence and ML at H confidence.
	// Scaled: (5*0.6 + 2*1.0) / 10 * 100 = 50. Unscaled: (5+2)/10*100 = 70.
	source := domain.RatingMap{
		"env_flow": {Rating: domain.GradeHigh, Confidence: domain.GradeMedium},
		"env_fire": {Rating: domain.GradeMediumLow, Confidence: domain.GradeHigh},
	}

	result := ScoreCategory([]string{"env_flow", "env_fire"}, domain.RatingMap{}, source, nil)

	assert.InDelta(t, 50.0, result.Scaled, 1e-9)
	assert.InDelta(t, 70.0, result.Unscaled, 1e-9)
	assert.Equal(t, 2, result.ItemsWithData)
	assert.Equal(t, 2, result.TotalEligibleItems)
}
