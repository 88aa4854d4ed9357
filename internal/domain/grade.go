package domain

// Grade is an ordinal assessment symbol: L < ML < M < MH < H.
// The same five symbols grade both a category's rating and the assessor's
// confidence in it, but they map to different numeric scales for each use.
type Grade string

const (
	GradeLow        Grade = "L"
	GradeMediumLow  Grade = "ML"
	GradeMedium     Grade = "M"
	GradeMediumHigh Grade = "MH"
	GradeHigh       Grade = "H"
)

// DefaultConfidenceWeight is applied when a category has a rating but its
// confidence is missing or unrecognized. This sits between the M (0.6) and
// ML (0.4) confidence weights rather than reusing either, so a blank
// confidence is never mistaken for a graded one.
const DefaultConfidenceWeight = 0.5

var ratingWeights = map[Grade]float64{
	GradeLow:        1,
	GradeMediumLow:  2,
	GradeMedium:     3,
	GradeMediumHigh: 4,
	GradeHigh:       5,
}

var confidenceWeights = map[Grade]float64{
	GradeLow:        0.2,
	GradeMediumLow:  0.4,
	GradeMedium:     0.6,
	GradeMediumHigh: 0.8,
	GradeHigh:       1.0,
}

// RatingWeight returns the 1-5 rating weight for the grade. Any string
// outside the five-symbol enumeration reports false; callers treat such a
// rating as absent rather than zero.
func (g Grade) RatingWeight() (float64, bool) {
	w, ok := ratingWeights[g]
	return w, ok
}

// ConfidenceWeight returns the 0.2-1.0 confidence weight for the grade, or
// DefaultConfidenceWeight when the grade is missing or unrecognized.
func (g Grade) ConfidenceWeight() float64 {
	if w, ok := confidenceWeights[g]; ok {
		return w
	}
	return DefaultConfidenceWeight
}

// Valid reports whether the grade is one of the five enumeration symbols.
func (g Grade) Valid() bool {
	_, ok := ratingWeights[g]
	return ok
}

// Rating is one assessed category: how severely the species rates and how
// confident the assessor was, with optional free-text commentary.
type Rating struct {
	Rating     Grade  `json:"rating"`
	Confidence Grade  `json:"confidence,omitempty"`
	Comments   string `json:"comments,omitempty"`
}

// RatingMap holds ratings keyed by category id (see taxonomy.go).
type RatingMap map[string]Rating

// MergeRatings overlays later maps onto earlier ones key by key. The result
// is the union of all inputs; where two maps rate the same category the later
// one wins. Score maps are always merged this way, never replaced wholesale,
// so no rated category is lost regardless of which source supplied it.
func MergeRatings(maps ...RatingMap) RatingMap {
	merged := RatingMap{}
	for _, m := range maps {
		for id, r := range m {
			merged[id] = r
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}
