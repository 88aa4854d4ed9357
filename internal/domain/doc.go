// Package domain models community weed-prioritization data.
//
// # Data Sources
//
// Four independent collections describe the same species pool with
// inconsistent free-text names:
//
//   - Government assessment export: per-species impact/invasiveness score
//     maps from the state weed risk assessment database.
//   - Scraped assessments: score maps with assessor commentary lifted from
//     published assessment pages.
//   - Scraped profiles: rich text profiles (description, control methods,
//     quick facts) keyed by common name, each carrying a profileUrl whose
//     final path segment is the profile site's stable slug.
//   - Victorian regional dataset: the richest structured source, keyed by
//     slug, with descriptions, images, and habitat notes.
//
// # Name Conventions
//
// Species names arrive as free text, often with parenthetical scientific
// names or separator-delimited synonyms:
//
//	"Cape tulip (one leaf)"
//	"Cape broom / Montpellier broom (genista)"
//
// [NormalizeKey] collapses a name to [a-z0-9] for equality lookup;
// [ExpandAliases] registers every fragment longer than two characters as an
// additional key for the same record. [NormalizeLoose] is a separate,
// token-preserving normalizer used only by the offline merge. The two must
// not be conflated: strict keys serve the in-memory lookup index, loose
// keys name entries in the materialized merged dataset.
//
// # Grades
//
// Ratings and confidences both use the five-symbol ordinal scale L, ML, M,
// MH, H. A rating grade maps to weight 1-5; a confidence grade maps to
// 0.2-1.0. A rating outside the enumeration is treated as absent, and a
// missing confidence defaults to [DefaultConfidenceWeight] rather than any
// grade's table value. "No data" is always distinguished from "rated low":
// a species with no rated categories surfaces a knowledge gap, never a
// zero score.
package domain
