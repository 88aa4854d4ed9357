package domain

import (
	"encoding/json"
	"time"
)

// PlaceholderDescription marks a record synthesized from the profile source
// when the primary database has no descriptive text. Kept as an explicit
// sentence rather than an empty string so report layers render something
// honest instead of a blank panel.
const PlaceholderDescription = "Description not available in primary database."

// PlaceholderControlMethods is the matching placeholder for control advice.
const PlaceholderControlMethods = "Control methods not available in primary database."

// GovRecord is one entry of the government assessment export: score maps
// only, keyed by species common name.
type GovRecord struct {
	Impact       RatingMap `json:"impact,omitempty"`
	Invasiveness RatingMap `json:"invasiveness,omitempty"`
	Notes        string    `json:"notes,omitempty"`
}

// AssessmentRecord is one scraped per-species assessment: score maps with
// assessor commentary, plus occasional content fields.
type AssessmentRecord struct {
	Name         string    `json:"name,omitempty"`
	Impact       RatingMap `json:"impact,omitempty"`
	Invasiveness RatingMap `json:"invasiveness,omitempty"`
	Description  string    `json:"description,omitempty"`
	Origin       string    `json:"origin,omitempty"`
	Comments     string    `json:"comments,omitempty"`
}

// ProfileRecord is one scraped rich-text species profile, keyed by common
// name. ProfileURL carries the slug used to bridge into the Victorian
// dataset.
type ProfileRecord struct {
	ScientificName    string   `json:"scientificName,omitempty"`
	Description       string   `json:"description,omitempty"`
	QuickFacts        []string `json:"quickFacts,omitempty"`
	ControlMethods    string   `json:"controlMethods,omitempty"`
	BestControlSeason string   `json:"bestControlSeason,omitempty"`
	Origin            string   `json:"origin,omitempty"`
	GrowthForm        string   `json:"growthForm,omitempty"`
	FlowerColour      string   `json:"flowerColour,omitempty"`
	Flowers           string   `json:"flowers,omitempty"`
	Leaves            string   `json:"leaves,omitempty"`
	Fruit             string   `json:"fruit,omitempty"`
	Reproduction      string   `json:"reproduction,omitempty"`
	ProfileURL        string   `json:"profileUrl,omitempty"`
}

// VicRecord is one entry of the Victorian regional dataset, keyed by slug.
// Its impact/invasiveness fields collide between free text (older exports)
// and score maps; TextOrRatings absorbs both shapes.
type VicRecord struct {
	ID             string        `json:"id,omitempty"`
	Name           string        `json:"name,omitempty"`
	ScientificName string        `json:"scientificName,omitempty"`
	Description    string        `json:"description,omitempty"`
	ControlMethods string        `json:"controlMethods,omitempty"`
	QuickFacts     []string      `json:"quickFacts,omitempty"`
	SimilarSpecies string        `json:"similarSpecies,omitempty"`
	Habitat        string        `json:"habitat,omitempty"`
	Origin         string        `json:"origin,omitempty"`
	GrowthForm     string        `json:"growthForm,omitempty"`
	FlowerColour   string        `json:"flowerColour,omitempty"`
	Images         []string      `json:"images,omitempty"`
	URL            string        `json:"url,omitempty"`
	Impact         TextOrRatings `json:"impact,omitempty"`
	Invasiveness   TextOrRatings `json:"invasiveness,omitempty"`
}

// TextOrRatings is a field that older Victorian exports wrote as a prose
// string and newer ones as a category-keyed score map.
type TextOrRatings struct {
	Text    string
	Ratings RatingMap
}

func (t *TextOrRatings) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &t.Text)
	}
	return json.Unmarshal(data, &t.Ratings)
}

func (t TextOrRatings) MarshalJSON() ([]byte, error) {
	if t.Text != "" {
		return json.Marshal(t.Text)
	}
	if t.Ratings == nil {
		return []byte("null"), nil
	}
	return json.Marshal(t.Ratings)
}

// Sources holds the four immutable source collections for one session.
// They are loaded fully before reconciliation begins and never mutated.
type Sources struct {
	Gov         map[string]GovRecord
	Assessments map[string]AssessmentRecord
	Profiles    map[string]ProfileRecord
	Vic         map[string]VicRecord
}

// UnifiedWeedRecord is the merged, best-available record for one species
// after reconciling all source collections. Content fields follow source
// precedence (Victorian > assessment > government > placeholder); the score
// maps are the additive union of every source that rated the species.
type UnifiedWeedRecord struct {
	Key            string `json:"key,omitempty"`
	Name           string `json:"name"`
	ScientificName string `json:"scientificName,omitempty"`

	Description       string   `json:"description,omitempty"`
	ControlMethods    string   `json:"controlMethods,omitempty"`
	BestControlSeason string   `json:"bestControlSeason,omitempty"`
	QuickFacts        []string `json:"quickFacts,omitempty"`
	SimilarSpecies    string   `json:"similarSpecies,omitempty"`
	Habitat           string   `json:"habitat,omitempty"`
	Origin            string   `json:"origin,omitempty"`
	GrowthForm        string   `json:"growthForm,omitempty"`
	FlowerColour      string   `json:"flowerColour,omitempty"`
	Flowers           string   `json:"flowers,omitempty"`
	Leaves            string   `json:"leaves,omitempty"`
	Fruit             string   `json:"fruit,omitempty"`
	Reproduction      string   `json:"reproduction,omitempty"`
	Images            []string `json:"images,omitempty"`
	ImageAttribution  string   `json:"imageAttribution,omitempty"`
	URL               string   `json:"url,omitempty"`
	ProfileURL        string   `json:"profileUrl,omitempty"`

	Impact           RatingMap `json:"impact,omitempty"`
	Invasiveness     RatingMap `json:"invasiveness,omitempty"`
	ImpactText       string    `json:"impactText,omitempty"`
	InvasivenessText string    `json:"invasivenessText,omitempty"`

	// Source records how the record was resolved: "vic" when the primary
	// dataset matched, "profile" for a profile-source fallback, "orphan"
	// when no source matched, or one of the offline merge provenance tags
	// (gov_orphan, assessment_orphan, profile_mapped_orphan, profile_orphan).
	Source      string    `json:"source,omitempty"`
	HasGovScore bool      `json:"hasGovScore,omitempty"`
	HasProfile  bool      `json:"hasProfile,omitempty"`
	MergedAt    time.Time `json:"mergedAt,omitempty"`
}

// ScientificReview carries a user's category-level corrections to the
// source ratings, nested under "detailed" the way the review step submits
// them. User entries take precedence over source entries for the same
// category id during scoring.
type ScientificReview struct {
	Detailed ReviewRatings `json:"detailed"`
}

// ReviewRatings is the per-taxonomy body of a review.
type ReviewRatings struct {
	Impact       RatingMap `json:"impact,omitempty"`
	Invasiveness RatingMap `json:"invasiveness,omitempty"`
}

// PriorityCandidate is one user-entered species of interest with the raw
// per-species inputs collected by the wizard. Extent is 1-5, Habitat is 1
// (general) or 2 (high-value), ControlLevel is 1 (unlikely) through 4
// (easy); zero values mean "unset" and fall back to defaults at scoring
// time.
type PriorityCandidate struct {
	Name         string            `json:"name"`
	Rank         int               `json:"rank,omitempty"`
	Extent       int               `json:"extent,omitempty"`
	Habitat      int               `json:"habitat,omitempty"`
	ControlLevel int               `json:"controlLevel,omitempty"`
	Review       *ScientificReview `json:"scientificReview,omitempty"`
}

// UserRatings returns the candidate's override maps, never nil.
func (c PriorityCandidate) UserRatings() (impact, invasiveness RatingMap) {
	if c.Review == nil {
		return RatingMap{}, RatingMap{}
	}
	impact, invasiveness = c.Review.Detailed.Impact, c.Review.Detailed.Invasiveness
	if impact == nil {
		impact = RatingMap{}
	}
	if invasiveness == nil {
		invasiveness = RatingMap{}
	}
	return impact, invasiveness
}
