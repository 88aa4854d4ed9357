package scoring

import (
	"sort"

	"github.com/hallsgap-landcare/weed-priority-service/internal/domain"
)

// Weights is the user-adjustable weighting of the five priority criteria,
// in percent. The UI nudges users toward a total of 100 but nothing
// enforces it; renormalization in ScoreCandidate makes any positive total
// behave sensibly.
type Weights struct {
	Extent       int `json:"extent"`
	Impact       int `json:"impact"`
	Invasiveness int `json:"invasiveness"`
	Habitat      int `json:"habitat"`
	Control      int `json:"control"`
}

// DefaultWeights spreads the five criteria evenly.
func DefaultWeights() Weights {
	return Weights{Extent: 20, Impact: 20, Invasiveness: 20, Habitat: 20, Control: 20}
}

// Total sums the five weights.
func (w Weights) Total() int {
	return w.Extent + w.Impact + w.Invasiveness + w.Habitat + w.Control
}

// Scores carries every computed score for one candidate. Impact and
// Invasiveness are nil when no eligible category was rated; such criteria
// appear in KnowledgeGaps and are excluded from the weighted final rather
// than being counted as zero.
type Scores struct {
	Extent  float64 `json:"extent"`
	Habitat float64 `json:"habitat"`
	Control float64 `json:"control"`

	Impact                 *float64 `json:"impact"`
	ImpactUnweighted       *float64 `json:"impactUnweighted"`
	Invasiveness           *float64 `json:"invasiveness"`
	InvasivenessUnweighted *float64 `json:"invasivenessUnweighted"`

	ImpactCoverage       CategoryResult `json:"impactCoverage"`
	InvasivenessCoverage CategoryResult `json:"invasivenessCoverage"`

	Final           float64  `json:"final"`
	FinalUnweighted float64  `json:"finalUnweighted"`
	KnowledgeGaps   []string `json:"knowledgeGaps,omitempty"`
}

// ScoredCandidate is a PriorityCandidate augmented with computed scores.
type ScoredCandidate struct {
	domain.PriorityCandidate
	Scores Scores `json:"scores"`
}

// criterion pairs one raw score with its weight and data availability for
// the weighted average.
type criterion struct {
	name    string
	score   float64
	scoreUw float64
	weight  int
	hasData bool
}

// ScoreCandidate computes all criterion scores and the weighted final for
// one candidate against its reconciled record.
//
// Raw criterion scores: extent 1-5 maps to 20-100; habitat is binary (2 =
// high-value = 100, anything else 50); control level 1-4 maps to 25-100
// with a default level of 2. Impact is scored over the impact taxonomy
// filtered by the user's category opt-ins; invasiveness is scored over its
// full taxonomy (invasiveness categories are not user-selectable).
//
// Criteria without data are excluded from the weighted average and the
// remaining weights renormalized, so a species missing impact ratings is
// ranked on its other criteria instead of being dragged down by an implicit
// zero. A zero active weight collapses the divisor to 1 rather than
// dividing by zero. FinalUnweighted repeats the computation with the
// confidence-ignoring category scores.
func ScoreCandidate(c domain.PriorityCandidate, unified domain.UnifiedWeedRecord, selected map[string]bool, w Weights) ScoredCandidate {
	userImpact, userInvasiveness := c.UserRatings()

	impact := ScoreCategory(domain.CategoryIDs(domain.ImpactCategories), userImpact, unified.Impact, selected)
	invasiveness := ScoreCategory(domain.CategoryIDs(domain.InvasivenessCategories), userInvasiveness, unified.Invasiveness, nil)

	extentVal := c.Extent
	if extentVal < 1 {
		extentVal = 1
	}
	extentScore := float64(extentVal) * 20

	habitatScore := 50.0
	if c.Habitat == 2 {
		habitatScore = 100
	}

	controlLevel := c.ControlLevel
	if controlLevel < 1 {
		controlLevel = 2
	}
	controlScore := float64(controlLevel) * 25

	criteria := []criterion{
		{name: "extent", score: extentScore, scoreUw: extentScore, weight: w.Extent, hasData: true},
		{name: "impact", score: impact.Scaled, scoreUw: impact.Unscaled, weight: w.Impact, hasData: impact.HasData},
		{name: "invasiveness", score: invasiveness.Scaled, scoreUw: invasiveness.Unscaled, weight: w.Invasiveness, hasData: invasiveness.HasData},
		{name: "habitat", score: habitatScore, scoreUw: habitatScore, weight: w.Habitat, hasData: true},
		{name: "control", score: controlScore, scoreUw: controlScore, weight: w.Control, hasData: true},
	}

	var (
		gaps         []string
		activeWeight int
		weighted     float64
		weightedUw   float64
	)
	for _, cr := range criteria {
		if !cr.hasData {
			gaps = append(gaps, cr.name)
			continue
		}
		activeWeight += cr.weight
		weighted += cr.score * float64(cr.weight) / 100
		weightedUw += cr.scoreUw * float64(cr.weight) / 100
	}

	// Divisor guard: with every active weight at zero the weighted sum is
	// returned as-is instead of dividing by zero.
	normActive := 1.0
	if activeWeight > 0 {
		normActive = float64(activeWeight) / 100
	}

	scores := Scores{
		Extent:               extentScore,
		Habitat:              habitatScore,
		Control:              controlScore,
		ImpactCoverage:       impact,
		InvasivenessCoverage: invasiveness,
		Final:                weighted / normActive,
		FinalUnweighted:      weightedUw / normActive,
		KnowledgeGaps:        gaps,
	}
	if impact.HasData {
		scores.Impact = ptr(impact.Scaled)
		scores.ImpactUnweighted = ptr(impact.Unscaled)
	}
	if invasiveness.HasData {
		scores.Invasiveness = ptr(invasiveness.Scaled)
		scores.InvasivenessUnweighted = ptr(invasiveness.Unscaled)
	}

	return ScoredCandidate{PriorityCandidate: c, Scores: scores}
}

// SortField selects which final score orders the priority list.
type SortField string

const (
	SortFinal           SortField = "final"
	SortFinalUnweighted SortField = "finalUnweighted"
)

// Rank sorts candidates descending by the selected final score. The sort is
// stable; ties keep their input order.
func Rank(candidates []ScoredCandidate, by SortField) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if by == SortFinalUnweighted {
			return candidates[i].Scores.FinalUnweighted > candidates[j].Scores.FinalUnweighted
		}
		return candidates[i].Scores.Final > candidates[j].Scores.Final
	})
}

func ptr(v float64) *float64 { return &v }
