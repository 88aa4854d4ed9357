package reconcile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallsgap-landcare/weed-priority-service/internal/domain"
)

func mergeSources() *domain.Sources {
	return &domain.Sources{
		Gov: map[string]domain.GovRecord{
			"Gorse": {
				Impact: domain.RatingMap{
					"ag_yield": {Rating: "H", Confidence: "H"},
				},
			},
			"Chilean Needle Grass": {
				Impact: domain.RatingMap{
					"ag_quality": {Rating: "MH", Confidence: "M"},
				},
			},
		},
		Assessments: map[string]domain.AssessmentRecord{
			"Gorse": {
				Impact: domain.RatingMap{
					"env_water": {Rating: "ML", Confidence: "M"},
				},
				Description: "Dense spiny shrub forming thickets.",
				Origin:      "Western Europe",
			},
		},
		Profiles: map[string]domain.ProfileRecord{
			"Gorse": {
				ScientificName: "Ulex europaeus",
				GrowthForm:     "Shrub",
				Flowers:        "Bright yellow pea flowers in winter and spring.",
				ProfileURL:     "https://weeds.example.org/weeds_db/gorse/",
			},
			"Cape Tulip": {
				ScientificName: "Moraea flaccida",
				ProfileURL:     "https://weeds.example.org/weeds_db/cape-tulip-one/",
			},
			"Angled Onion": {
				ScientificName: "Allium triquetrum",
				Description:    "Bulbous herb with a strong onion smell.",
			},
		},
		Vic: map[string]domain.VicRecord{
			"gorse": {
				Name:           "Gorse, Furze",
				ScientificName: "Ulex europaeus",
				Description:    "A spiny evergreen shrub.",
				Impact:         domain.TextOrRatings{Text: "Major impact on grazing land."},
			},
			"cape-tulip-one": {
				Name:        "One-leaf Cape Tulip",
				Description: "A cormous perennial herb.",
			},
		},
	}
}

func TestMergeAllVicBaseLayer(t *testing.T) {
	m := MergeAll(mergeSources(), Overrides{}, testLogger())

	rec, ok := m.Records["gorse"]
	require.True(t, ok)
	assert.Equal(t, "vic", rec.Source)
	assert.Equal(t, "Gorse, Furze", rec.Name)
	assert.True(t, rec.HasGovScore)
	assert.True(t, rec.HasProfile)

	// Government and assessment scores merge additively onto the base.
	assert.Equal(t, domain.Grade("H"), rec.Impact["ag_yield"].Rating)
	assert.Equal(t, domain.Grade("ML"), rec.Impact["env_water"].Rating)
}

func TestMergeAllImpactTextRepair(t *testing.T) {
	m := MergeAll(mergeSources(), Overrides{}, testLogger())

	rec := m.Records["gorse"]
	require.NotNil(t, rec)
	// Prose that older exports wrote into the score field moves aside so
	// the score maps stay numeric.
	assert.Equal(t, "Major impact on grazing land.", rec.ImpactText)
	assert.NotContains(t, rec.Impact, "Major impact on grazing land.")
}

func TestMergeAllProfileSlugBridge(t *testing.T) {
	m := MergeAll(mergeSources(), Overrides{}, testLogger())

	// "Cape Tulip" matches no Victorian name, but its profile URL slug does.
	rec, ok := m.Records["cape tulip one"]
	require.True(t, ok)
	assert.Equal(t, "vic", rec.Source)
	assert.Equal(t, "Moraea flaccida", rec.ScientificName)
	assert.True(t, rec.HasProfile)

	_, orphaned := m.Records["cape tulip"]
	assert.False(t, orphaned)
}

func TestMergeAllProfileContentWins(t *testing.T) {
	m := MergeAll(mergeSources(), Overrides{}, testLogger())

	rec := m.Records["gorse"]
	require.NotNil(t, rec)
	// Assessment text lands first, then the profile overlay replaces it.
	assert.Equal(t, "Shrub", rec.GrowthForm)
	assert.Equal(t, "Western Europe", rec.Origin)
}

func TestMergeAllOrphans(t *testing.T) {
	m := MergeAll(mergeSources(), Overrides{}, testLogger())

	gov, ok := m.Records["chilean needle grass"]
	require.True(t, ok)
	assert.Equal(t, "gov_orphan", gov.Source)
	assert.Equal(t, domain.Grade("MH"), gov.Impact["ag_quality"].Rating)
	assert.True(t, gov.HasGovScore)

	prof, ok := m.Records["angled onion"]
	require.True(t, ok)
	assert.Equal(t, "profile_orphan", prof.Source)
	assert.Equal(t, "Bulbous herb with a strong onion smell.", prof.Description)
	assert.True(t, prof.HasProfile)
}

func TestMergeAllProfileKeyOverride(t *testing.T) {
	src := mergeSources()
	m := MergeAll(src, Overrides{
		ProfileKeys: map[string]string{"Angled Onion": "gorse"},
	}, testLogger())

	// The override attaches the profile to an existing record instead of
	// creating an orphan.
	_, orphaned := m.Records["angled onion"]
	assert.False(t, orphaned)
	assert.Equal(t, "Bulbous herb with a strong onion smell.", m.Records["gorse"].Description)
}

func TestMergeAllProfileKeyOverrideMissingTarget(t *testing.T) {
	m := MergeAll(mergeSources(), Overrides{
		ProfileKeys: map[string]string{"Angled Onion": "triffid"},
	}, testLogger())

	rec, ok := m.Records["triffid"]
	require.True(t, ok)
	assert.Equal(t, "profile_mapped_orphan", rec.Source)
	assert.True(t, rec.HasProfile)
}

func TestMergeAllFlowerColourInference(t *testing.T) {
	m := MergeAll(mergeSources(), Overrides{}, testLogger())

	assert.Equal(t, "Yellow", m.Records["gorse"].FlowerColour)
}

func TestInferFlowerColour(t *testing.T) {
	tests := []struct {
		flowers string
		want    string
	}{
		{"Bright yellow pea flowers.", "Yellow"},
		{"White to pale pink, tubular.", "White, Pink"},
		{"Small and inconspicuous.", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, inferFlowerColour(tt.flowers), "flowers %q", tt.flowers)
	}
}

func TestMergeAllAliasesAndStats(t *testing.T) {
	m := MergeAll(mergeSources(), Overrides{}, testLogger())

	// "furze" is a fragment alias pointing at the primary key.
	assert.Equal(t, "gorse", m.Aliases["furze"])
	_, primaryAliased := m.Aliases["gorse"]
	assert.False(t, primaryAliased)

	assert.Equal(t, len(m.Records), m.Stats.Total)
	assert.Equal(t, len(m.Aliases), m.Stats.Aliases)
	assert.Equal(t, 2, m.Stats.BySource["vic"])
	assert.Equal(t, 1, m.Stats.BySource["gov_orphan"])
	assert.Equal(t, 1, m.Stats.BySource["profile_orphan"])
}

func TestMergeAllRecordShape(t *testing.T) {
	m := MergeAll(mergeSources(), Overrides{}, testLogger())

	got := m.Records["chilean needle grass"]
	require.NotNil(t, got)

	want := &domain.UnifiedWeedRecord{
		Key:  "chilean needle grass",
		Name: "Chilean Needle Grass",
		Impact: domain.RatingMap{
			"ag_quality": {Rating: "MH", Confidence: "M"},
		},
		Source:      "gov_orphan",
		HasGovScore: true,
	}
	diff := cmp.Diff(want, got, cmpopts.IgnoreFields(domain.UnifiedWeedRecord{}, "MergedAt"))
	assert.Empty(t, diff)
}

func TestMergeAllVicAliasOverride(t *testing.T) {
	m := MergeAll(mergeSources(), Overrides{
		VicAliases: map[string]string{"Chilean Needle Grass": "gorse"},
	}, testLogger())

	// The override redirects the government record onto an existing key.
	_, orphaned := m.Records["chilean needle grass"]
	assert.False(t, orphaned)
	assert.Equal(t, domain.Grade("MH"), m.Records["gorse"].Impact["ag_quality"].Rating)
}
