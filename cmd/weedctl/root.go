package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hallsgap-landcare/weed-priority-service/internal/domain"
	"github.com/hallsgap-landcare/weed-priority-service/internal/observability"
	"github.com/hallsgap-landcare/weed-priority-service/internal/source"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "weedctl",
	Short: "Offline tooling for the weed priority datasets",
	Long: "Weedctl merges, validates, and scores the weed source datasets\n" +
		"outside the serving path: full-dataset merges, integrity checks,\n" +
		"one-off priority scoring runs, and fixture generation.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

// sourceFlags holds the shared dataset path flags.
var sourceFlags struct {
	gov         string
	assessments string
	profiles    string
	vic         string
	overrides   string
}

func addSourceFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&sourceFlags.gov, "gov", "data/gov_scores.json", "Government scores JSON")
	f.StringVar(&sourceFlags.assessments, "assessments", "data/assessments.json", "Assessments JSON")
	f.StringVar(&sourceFlags.profiles, "profiles", "data/profiles.json", "Species profiles JSON")
	f.StringVar(&sourceFlags.vic, "vic", "data/vic_weeds.json", "Victorian dataset JSON")
	f.StringVar(&sourceFlags.overrides, "overrides", "", "Override table YAML (optional)")
}

func sourcePaths() source.Paths {
	return source.Paths{
		Gov:         sourceFlags.gov,
		Assessments: sourceFlags.assessments,
		Profiles:    sourceFlags.profiles,
		Vic:         sourceFlags.vic,
		Overrides:   sourceFlags.overrides,
	}
}

// quietLogger routes loader warnings to stderr so command output on stdout
// stays machine-readable.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func loadAll(logger *slog.Logger) (*domain.Sources, *observability.Metrics, error) {
	metrics := observability.NewMetricsForTesting()
	src, err := source.NewLoader(logger, metrics).Load(sourcePaths())
	if err != nil {
		return nil, nil, err
	}
	return src, metrics, nil
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func init() {
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(genmockCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
