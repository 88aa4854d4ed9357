package reconcile

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/hallsgap-landcare/weed-priority-service/internal/domain"
)

// Merged is the materialized full-dataset merge: every species from every
// source under one loose-normalized key, plus the alias keys each record is
// reachable through.
type Merged struct {
	Records map[string]*domain.UnifiedWeedRecord
	Aliases map[string]string // alias key -> primary key
	Stats   MergeStats
}

// MergeStats summarizes one offline merge for logging and validation.
type MergeStats struct {
	Total    int
	BySource map[string]int
	Aliases  int
}

// MergeAll performs the offline full-dataset merge. Unlike Index.Resolve,
// which answers one species at a time with strict collapsed keys, MergeAll
// walks every source and materializes the whole reconciled dataset under
// loose (token-preserving) keys, tagging each record with the provenance of
// how it entered: Victorian base record, or an orphan of the government,
// assessment, or profile source.
func MergeAll(src *domain.Sources, overrides Overrides, logger *slog.Logger) *Merged {
	records := map[string]*domain.UnifiedWeedRecord{}
	index := map[string]string{} // loose alias -> primary key

	// Victorian dataset is the base layer.
	for _, slug := range sortedKeys(src.Vic) {
		vic := src.Vic[slug]
		key := domain.NormalizeLoose(slug)
		if key == "" {
			logger.Warn("victorian entry has unusable key, skipping", "slug", slug)
			continue
		}

		rec := &domain.UnifiedWeedRecord{
			Key:            key,
			Name:           vic.Name,
			ScientificName: vic.ScientificName,
			Description:    vic.Description,
			ControlMethods: vic.ControlMethods,
			QuickFacts:     vic.QuickFacts,
			SimilarSpecies: vic.SimilarSpecies,
			Habitat:        vic.Habitat,
			Origin:         vic.Origin,
			GrowthForm:     vic.GrowthForm,
			FlowerColour:   vic.FlowerColour,
			Images:         vic.Images,
			URL:            vic.URL,
			Source:         "vic",
			MergedAt:       domain.Now(),
		}
		if rec.Name == "" {
			rec.Name = slug
		}
		// Field collision repair: older exports carry prose in the score
		// fields. The text moves aside so score maps can merge cleanly.
		rec.ImpactText = vic.Impact.Text
		rec.Impact = domain.MergeRatings(vic.Impact.Ratings)
		rec.InvasivenessText = vic.Invasiveness.Text
		rec.Invasiveness = domain.MergeRatings(vic.Invasiveness.Ratings)

		records[key] = rec
		index[key] = key
		for _, frag := range domain.AliasFragments(vic.Name) {
			if alias := domain.NormalizeLoose(frag); alias != "" {
				index[alias] = key
			}
		}
	}

	for _, alias := range sortedKeys(overrides.VicAliases) {
		index[domain.NormalizeLoose(alias)] = domain.NormalizeLoose(overrides.VicAliases[alias])
	}

	findKey := func(name, profileURL string) string {
		if profileURL != "" {
			slug := domain.NormalizeLoose(domain.SlugFromURL(profileURL))
			if _, ok := records[slug]; ok {
				return slug
			}
		}
		if key, ok := index[domain.NormalizeLoose(name)]; ok {
			if _, exists := records[key]; exists {
				return key
			}
		}
		return ""
	}

	orphan := func(name, source string) *domain.UnifiedWeedRecord {
		key := domain.NormalizeLoose(name)
		rec, ok := records[key]
		if !ok {
			rec = &domain.UnifiedWeedRecord{
				Key:      key,
				Name:     name,
				Source:   source,
				MergedAt: domain.Now(),
			}
			records[key] = rec
			index[key] = key
		}
		return rec
	}

	// Government scores.
	for _, name := range sortedKeys(src.Gov) {
		gov := src.Gov[name]
		key := findKey(name, "")

		var rec *domain.UnifiedWeedRecord
		if key != "" {
			rec = records[key]
		} else {
			if domain.NormalizeLoose(name) == "" {
				logger.Warn("government record has unusable name, skipping", "name", name)
				continue
			}
			rec = orphan(name, "gov_orphan")
		}

		rec.Impact = domain.MergeRatings(rec.Impact, gov.Impact)
		rec.Invasiveness = domain.MergeRatings(rec.Invasiveness, gov.Invasiveness)
		rec.HasGovScore = true
	}

	// Assessment scores and commentary.
	for _, name := range sortedKeys(src.Assessments) {
		assessment := src.Assessments[name]
		key := findKey(name, "")
		if key == "" && assessment.Name != "" {
			key = findKey(assessment.Name, "")
		}

		var rec *domain.UnifiedWeedRecord
		if key != "" {
			rec = records[key]
		} else {
			if domain.NormalizeLoose(name) == "" {
				logger.Warn("assessment record has unusable name, skipping", "name", name)
				continue
			}
			rec = orphan(name, "assessment_orphan")
		}

		rec.Impact = domain.MergeRatings(rec.Impact, assessment.Impact)
		rec.Invasiveness = domain.MergeRatings(rec.Invasiveness, assessment.Invasiveness)
		if assessment.Description != "" {
			rec.Description = assessment.Description
		}
		if rec.Origin == "" {
			rec.Origin = assessment.Origin
		}
	}

	// Rich profiles.
	for _, name := range sortedKeys(src.Profiles) {
		profile := src.Profiles[name]

		var rec *domain.UnifiedWeedRecord
		if mapped, ok := overrides.ProfileKeys[name]; ok {
			key := domain.NormalizeLoose(mapped)
			rec = records[key]
			if rec == nil {
				rec = &domain.UnifiedWeedRecord{
					Key:      key,
					Name:     name,
					Source:   "profile_mapped_orphan",
					MergedAt: domain.Now(),
				}
				records[key] = rec
				index[domain.NormalizeLoose(name)] = key
			}
		} else if key := findKey(name, profile.ProfileURL); key != "" {
			rec = records[key]
		} else {
			if domain.NormalizeLoose(name) == "" {
				logger.Warn("profile record has unusable name, skipping", "name", name)
				continue
			}
			rec = orphan(name, "profile_orphan")
		}

		applyProfileFields(rec, profile)
	}

	merged := &Merged{
		Records: records,
		Aliases: map[string]string{},
		Stats:   MergeStats{BySource: map[string]int{}},
	}
	for alias, key := range index {
		if _, isPrimary := records[alias]; isPrimary {
			continue
		}
		if _, ok := records[key]; ok {
			merged.Aliases[alias] = key
		}
	}
	merged.Stats.Total = len(records)
	merged.Stats.Aliases = len(merged.Aliases)
	for _, rec := range records {
		merged.Stats.BySource[rec.Source]++
	}
	return merged
}

// applyProfileFields overlays profile content; profile values win where
// present since the profile site is the freshest text source.
func applyProfileFields(rec *domain.UnifiedWeedRecord, p domain.ProfileRecord) {
	setIfPresent := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setIfPresent(&rec.ScientificName, p.ScientificName)
	if len(p.QuickFacts) > 0 {
		rec.QuickFacts = p.QuickFacts
	}
	setIfPresent(&rec.Origin, p.Origin)
	setIfPresent(&rec.GrowthForm, p.GrowthForm)
	setIfPresent(&rec.ControlMethods, p.ControlMethods)
	setIfPresent(&rec.BestControlSeason, p.BestControlSeason)
	setIfPresent(&rec.FlowerColour, p.FlowerColour)
	setIfPresent(&rec.ProfileURL, p.ProfileURL)
	setIfPresent(&rec.Flowers, p.Flowers)
	setIfPresent(&rec.Leaves, p.Leaves)
	setIfPresent(&rec.Fruit, p.Fruit)
	setIfPresent(&rec.Reproduction, p.Reproduction)
	setIfPresent(&rec.Description, p.Description)
	rec.HasProfile = true

	if rec.FlowerColour == "" && rec.Flowers != "" {
		rec.FlowerColour = inferFlowerColour(rec.Flowers)
	}
}

// flowerColours are scanned in a fixed order so inference is deterministic.
var flowerColours = []string{"white", "pink", "yellow", "red", "purple", "blue", "orange", "cream", "green"}

// inferFlowerColour extracts colour words from a free-text flower
// description when the structured colour field is missing.
func inferFlowerColour(flowers string) string {
	lower := strings.ToLower(flowers)
	var found []string
	for _, c := range flowerColours {
		if strings.Contains(lower, c) {
			found = append(found, strings.ToUpper(c[:1])+c[1:])
		}
	}
	return strings.Join(found, ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
