package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hallsgap-landcare/weed-priority-service/internal/domain"
	"github.com/hallsgap-landcare/weed-priority-service/internal/reconcile"
	"github.com/hallsgap-landcare/weed-priority-service/internal/scoring"
	"github.com/hallsgap-landcare/weed-priority-service/internal/source"
)

var scoreFlags struct {
	candidates string
	sortBy     string
	unweighted bool
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a candidate list against the source datasets",
	Long: "Score reads a JSON candidate file, resolves each species across\n" +
		"the sources, computes the weighted priority scores, and prints the\n" +
		"ranked table.",
	RunE: runScore,
}

func init() {
	addSourceFlags(scoreCmd)
	f := scoreCmd.Flags()
	f.StringVarP(&scoreFlags.candidates, "candidates", "c", "", "Candidates JSON file (required)")
	f.StringVar(&scoreFlags.sortBy, "sort", "final", `Sort field: "final" or "finalUnweighted"`)
	f.BoolVar(&scoreFlags.unweighted, "show-unweighted", false, "Include the confidence-ignoring scores")

	_ = scoreCmd.MarkFlagRequired("candidates")
}

// candidatesFile is the input shape: the candidate list plus optional
// weights and impact category opt-ins.
type candidatesFile struct {
	Candidates         []domain.PriorityCandidate `json:"candidates"`
	Weights            *scoring.Weights           `json:"weights,omitempty"`
	SelectedCategories []string                   `json:"selectedCategories,omitempty"`
}

func runScore(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(scoreFlags.candidates)
	if err != nil {
		return fmt.Errorf("read candidates: %w", err)
	}
	var in candidatesFile
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("parse candidates: %w", err)
	}
	if len(in.Candidates) == 0 {
		return fmt.Errorf("no candidates in %s", scoreFlags.candidates)
	}

	logger := quietLogger()
	src, metrics, err := loadAll(logger)
	if err != nil {
		return err
	}
	overrides, err := source.LoadOverrides(sourceFlags.overrides)
	if err != nil {
		return err
	}
	ix := reconcile.NewIndex(src, overrides, logger, metrics)

	weights := scoring.DefaultWeights()
	if in.Weights != nil {
		weights = *in.Weights
	}
	var selected map[string]bool
	if in.SelectedCategories != nil {
		selected = make(map[string]bool, len(in.SelectedCategories))
		for _, id := range in.SelectedCategories {
			selected[id] = true
		}
	}

	scored := make([]scoring.ScoredCandidate, 0, len(in.Candidates))
	for _, c := range in.Candidates {
		if canonical, ok := ix.ResolveCommonName(c.Name); ok {
			c.Name = canonical
		}
		rec, err := ix.Resolve(c.Name)
		if err != nil {
			return fmt.Errorf("candidate %q: %w", c.Name, err)
		}
		scored = append(scored, scoring.ScoreCandidate(c, rec, selected, weights))
	}

	sortBy := scoring.SortFinal
	if scoreFlags.sortBy == string(scoring.SortFinalUnweighted) {
		sortBy = scoring.SortFinalUnweighted
	}
	scoring.Rank(scored, sortBy)

	printScoreTable(cmd, scored)
	return nil
}

func printScoreTable(cmd *cobra.Command, scored []scoring.ScoredCandidate) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	defer w.Flush()

	header := "RANK\tNAME\tFINAL\tEXTENT\tIMPACT\tINVASIVENESS\tHABITAT\tCONTROL\tGAPS"
	if scoreFlags.unweighted {
		header += "\tFINAL (UNWEIGHTED)"
	}
	fmt.Fprintln(w, header)

	for i, sc := range scored {
		row := fmt.Sprintf("%d\t%s\t%.1f\t%.0f\t%s\t%s\t%.0f\t%.0f\t%s",
			i+1,
			sc.Name,
			sc.Scores.Final,
			sc.Scores.Extent,
			fmtScore(sc.Scores.Impact),
			fmtScore(sc.Scores.Invasiveness),
			sc.Scores.Habitat,
			sc.Scores.Control,
			fmtGaps(sc.Scores.KnowledgeGaps),
		)
		if scoreFlags.unweighted {
			row += fmt.Sprintf("\t%.1f", sc.Scores.FinalUnweighted)
		}
		fmt.Fprintln(w, row)
	}
}

// fmtScore renders a nullable criterion score; missing data prints as a
// dash, never as zero.
func fmtScore(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func fmtGaps(gaps []string) string {
	if len(gaps) == 0 {
		return "-"
	}
	return strings.Join(gaps, ",")
}
