package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hallsgap-landcare/weed-priority-service/internal/domain"
	"github.com/hallsgap-landcare/weed-priority-service/internal/reconcile"
	"github.com/hallsgap-landcare/weed-priority-service/internal/source"
)

var mergeFlags struct {
	out string
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Materialize the full merged dataset from the four sources",
	Long: "Merge walks every source collection and writes one reconciled\n" +
		"record per species, tagged with the provenance of how it entered\n" +
		"(Victorian base record or gov/assessment/profile orphan).",
	RunE: runMerge,
}

func init() {
	addSourceFlags(mergeCmd)
	mergeCmd.Flags().StringVarP(&mergeFlags.out, "out", "o", "merged_weeds.json", "Output path for the merged JSON")
}

// mergedFile is the on-disk shape of one merge run.
type mergedFile struct {
	GeneratedAt string                               `json:"generatedAt"`
	Stats       reconcile.MergeStats                 `json:"stats"`
	Aliases     map[string]string                    `json:"aliases"`
	Records     map[string]*domain.UnifiedWeedRecord `json:"records"`
}

func runMerge(cmd *cobra.Command, _ []string) error {
	logger := quietLogger()

	src, _, err := loadAll(logger)
	if err != nil {
		return err
	}
	overrides, err := source.LoadOverrides(sourceFlags.overrides)
	if err != nil {
		return err
	}

	merged := reconcile.MergeAll(src, overrides, logger)

	out := mergedFile{
		GeneratedAt: domain.Now().UTC().Format("2006-01-02T15:04:05Z07:00"),
		Stats:       merged.Stats,
		Aliases:     merged.Aliases,
		Records:     merged.Records,
	}
	if err := writeJSONFile(mergeFlags.out, out); err != nil {
		return fmt.Errorf("write merged dataset: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Merged %d species into %s\n", merged.Stats.Total, mergeFlags.out)
	for _, tag := range []string{"vic", "gov_orphan", "assessment_orphan", "profile_mapped_orphan", "profile_orphan"} {
		if n := merged.Stats.BySource[tag]; n > 0 {
			fmt.Fprintf(w, "  %-22s %d\n", tag, n)
		}
	}
	fmt.Fprintf(w, "  %-22s %d\n", "aliases", merged.Stats.Aliases)
	return nil
}
