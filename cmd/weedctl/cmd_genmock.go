package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hallsgap-landcare/weed-priority-service/internal/domain"
)

var genmockFlags struct {
	outDir string
}

var genmockCmd = &cobra.Command{
	Use:   "genmock",
	Short: "Generate a small self-consistent fixture dataset",
	Long: "Genmock writes four source files plus an override table that\n" +
		"exercise every reconciliation path: direct matches, alias matches,\n" +
		"profile slug bridges, and orphans of each source.",
	RunE: runGenmock,
}

func init() {
	genmockCmd.Flags().StringVarP(&genmockFlags.outDir, "out-dir", "d", "data/mock", "Output directory for fixture files")
}

func runGenmock(cmd *cobra.Command, _ []string) error {
	if err := os.MkdirAll(genmockFlags.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	files := map[string]any{
		"gov_scores.json":  mockGov(),
		"assessments.json": mockAssessments(),
		"profiles.json":    mockProfiles(),
		"vic_weeds.json":   mockVic(),
	}
	for _, name := range []string{"gov_scores.json", "assessments.json", "profiles.json", "vic_weeds.json"} {
		path := filepath.Join(genmockFlags.outDir, name)
		if err := writeJSONFile(path, files[name]); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	overridesPath := filepath.Join(genmockFlags.outDir, "overrides.yaml")
	if err := os.WriteFile(overridesPath, []byte(mockOverridesYAML), 0o644); err != nil {
		return fmt.Errorf("write overrides.yaml: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote fixture dataset to %s\n", genmockFlags.outDir)
	return nil
}

// The fixture species cover each reconciliation path: Gorse matches every
// source directly, Cape Tulip needs the profile slug bridge, Blackberry
// needs a manual alias, Chilean Needle Grass is a government orphan, and
// Coastal Wattle exists only as a profile.

func mockGov() map[string]domain.GovRecord {
	return map[string]domain.GovRecord{
		"Gorse": {
			Impact: domain.RatingMap{
				"ag_yield":   {Rating: "H", Confidence: "H"},
				"ag_quality": {Rating: "MH", Confidence: "M"},
				"env_water":  {Rating: "M", Confidence: "ML"},
			},
			Invasiveness: domain.RatingMap{
				"inv_germination":   {Rating: "H", Confidence: "H"},
				"inv_establishment": {Rating: "MH", Confidence: "MH"},
			},
		},
		"Cape Tulip (one-leaf)": {
			Impact: domain.RatingMap{
				"ag_yield":   {Rating: "MH", Confidence: "M"},
				"ag_disease": {Rating: "L", Confidence: "ML"},
			},
		},
		"Blackberry": {
			Impact: domain.RatingMap{
				"env_biomass": {Rating: "H", Confidence: "MH"},
			},
			Invasiveness: domain.RatingMap{
				"inv_propagules_count": {Rating: "H", Confidence: "H"},
			},
		},
		"Chilean Needle Grass": {
			Impact: domain.RatingMap{
				"ag_quality": {Rating: "H", Confidence: "MH"},
			},
		},
	}
}

func mockAssessments() map[string]domain.AssessmentRecord {
	return map[string]domain.AssessmentRecord{
		"Gorse": {
			Name: "Gorse",
			Impact: domain.RatingMap{
				"ag_quality": {Rating: "H", Confidence: "H", Comments: "Heavy pasture contamination"},
			},
			Invasiveness: domain.RatingMap{
				"inv_mechanisms_count": {Rating: "MH", Confidence: "M", Comments: "Seed spread by machinery and water"},
			},
			Description: "Dense spiny shrub forming impenetrable thickets.",
			Origin:      "Western Europe",
		},
		"English Broom": {
			Name: "Montpellier Broom",
			Invasiveness: domain.RatingMap{
				"inv_propagules_count": {Rating: "H", Confidence: "MH"},
			},
			Comments: "Spreads rapidly along roadsides and waterways",
		},
	}
}

func mockProfiles() map[string]domain.ProfileRecord {
	return map[string]domain.ProfileRecord{
		"Gorse": {
			ScientificName:    "Ulex europaeus",
			Description:       "An evergreen shrub with rigid spiny branches.",
			QuickFacts:        []string{"Flowers most of the year", "Seeds persist 30+ years"},
			ControlMethods:    "Cut and paint, foliar spray, follow up seedlings.",
			BestControlSeason: "Autumn",
			GrowthForm:        "Shrub",
			Flowers:           "Bright yellow pea flowers.",
			ProfileURL:        "https://weeds.example.org/weeds_db/gorse/",
		},
		"Cape Tulip (one-leaf)": {
			ScientificName: "Moraea flaccida",
			ProfileURL:     "https://weeds.example.org/weeds_db/cape-tulip-one/",
		},
		"Coastal Wattle": {
			ScientificName:    "Acacia longifolia",
			Description:       "Spreading shrub of coastal dunes.",
			BestControlSeason: "Winter",
			ProfileURL:        "https://weeds.example.org/weeds_db/coastal-wattle/",
		},
	}
}

func mockVic() map[string]domain.VicRecord {
	return map[string]domain.VicRecord{
		"gorse": {
			ID:             "gorse",
			Name:           "Gorse, Furze",
			ScientificName: "Ulex europaeus",
			Description:    "A spiny evergreen shrub up to 3 m tall.",
			ControlMethods: "Remove isolated plants before seed set.",
			Habitat:        "Pasture, roadsides, waterways.",
			Origin:         "Western Europe",
			Impact: domain.TextOrRatings{
				Text: "Major impact on grazing land and native grasslands.",
			},
		},
		"cape-tulip-one": {
			ID:             "cape-tulip-one",
			Name:           "One-leaf Cape Tulip",
			ScientificName: "Moraea flaccida",
			Description:    "A cormous perennial herb toxic to stock.",
		},
		"blackberry-european": {
			ID:             "blackberry-european",
			Name:           "European Blackberry",
			ScientificName: "Rubus fruticosus agg.",
			Description:    "A scrambling perennial shrub forming large thickets.",
		},
	}
}

const mockOverridesYAML = `# Manual name-mismatch fixes for the fixture dataset.
vic_aliases:
  Blackberry: blackberry-european
profile_keys:
  Coastal Wattle: coastal wattle
`
