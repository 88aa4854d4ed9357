package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hallsgap-landcare/weed-priority-service/internal/domain"
	"github.com/hallsgap-landcare/weed-priority-service/internal/observability"
	"github.com/hallsgap-landcare/weed-priority-service/internal/reconcile"
	"github.com/hallsgap-landcare/weed-priority-service/internal/source"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run integrity checks across the four source datasets",
	Long: "Validate loads every source file and reports malformed records,\n" +
		"unknown category ids, unknown grade symbols, and normalized key\n" +
		"collisions. Exits non-zero when any phase fails.",
	RunE: runValidate,
}

func init() {
	addSourceFlags(validateCmd)
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func runValidate(cmd *cobra.Command, _ []string) error {
	logger := quietLogger()

	src, metrics, err := loadAll(logger)
	if err != nil {
		return err
	}
	overrides, err := source.LoadOverrides(sourceFlags.overrides)
	if err != nil {
		return err
	}

	phases := []*phase{
		checkTaxonomy(src),
		checkGrades(src),
		checkCollisions(src, overrides, metrics),
		checkOverrides(src, overrides),
	}

	w := cmd.OutOrStdout()
	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Fprintf(w, "PASS  %s\n", p.name)
			continue
		}
		failed++
		fmt.Fprintf(w, "FAIL  %s\n", p.name)
		for _, e := range p.errors {
			fmt.Fprintf(w, "      %s\n", e)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d validation phases failed", failed, len(phases))
	}
	fmt.Fprintf(w, "All %d validation phases passed\n", len(phases))
	return nil
}

// knownCategoryIDs is the union of both taxonomies.
func knownCategoryIDs() map[string]bool {
	known := map[string]bool{}
	for _, id := range domain.CategoryIDs(domain.ImpactCategories) {
		known[id] = true
	}
	for _, id := range domain.CategoryIDs(domain.InvasivenessCategories) {
		known[id] = true
	}
	return known
}

// forEachRatingMap visits every score map in every source with a location
// label like "gov[Gorse].impact".
func forEachRatingMap(src *domain.Sources, visit func(loc string, m domain.RatingMap)) {
	for _, name := range sortedKeys(src.Gov) {
		visit(fmt.Sprintf("gov[%s].impact", name), src.Gov[name].Impact)
		visit(fmt.Sprintf("gov[%s].invasiveness", name), src.Gov[name].Invasiveness)
	}
	for _, name := range sortedKeys(src.Assessments) {
		visit(fmt.Sprintf("assessments[%s].impact", name), src.Assessments[name].Impact)
		visit(fmt.Sprintf("assessments[%s].invasiveness", name), src.Assessments[name].Invasiveness)
	}
	for _, slug := range sortedKeys(src.Vic) {
		visit(fmt.Sprintf("vic[%s].impact", slug), src.Vic[slug].Impact.Ratings)
		visit(fmt.Sprintf("vic[%s].invasiveness", slug), src.Vic[slug].Invasiveness.Ratings)
	}
}

func checkTaxonomy(src *domain.Sources) *phase {
	p := &phase{name: "category ids match the taxonomies"}
	known := knownCategoryIDs()

	forEachRatingMap(src, func(loc string, m domain.RatingMap) {
		for _, id := range sortedKeys(m) {
			if !known[id] {
				p.errorf("%s: unknown category id %q", loc, id)
			}
		}
	})
	return p
}

func checkGrades(src *domain.Sources) *phase {
	p := &phase{name: "grades use the five-symbol scale"}

	forEachRatingMap(src, func(loc string, m domain.RatingMap) {
		for _, id := range sortedKeys(m) {
			r := m[id]
			if r.Rating != "" && !r.Rating.Valid() {
				p.errorf("%s.%s: unknown rating %q", loc, id, r.Rating)
			}
			if r.Confidence != "" && !r.Confidence.Valid() {
				p.errorf("%s.%s: unknown confidence %q", loc, id, r.Confidence)
			}
		}
	})
	return p
}

func checkCollisions(src *domain.Sources, overrides reconcile.Overrides, metrics *observability.Metrics) *phase {
	p := &phase{name: "normalized keys are collision-free"}

	ix := reconcile.NewIndex(src, overrides, quietLogger(), metrics)
	for _, c := range ix.Collisions() {
		p.errorf("key %q claimed by %q and %q (keeping %q)", c.Key, c.Discarded, c.Kept, c.Kept)
	}
	return p
}

func checkOverrides(src *domain.Sources, overrides reconcile.Overrides) *phase {
	p := &phase{name: "override targets exist"}

	for _, alias := range sortedKeys(overrides.VicAliases) {
		slug := overrides.VicAliases[alias]
		if _, ok := src.Vic[slug]; !ok {
			p.errorf("vic_aliases[%s]: slug %q not in victorian dataset", alias, slug)
		}
	}
	return p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
