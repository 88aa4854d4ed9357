// Package reconcile resolves inconsistently named species records across
// the four source collections into unified per-species records.
package reconcile

import (
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/hallsgap-landcare/weed-priority-service/internal/domain"
	"github.com/hallsgap-landcare/weed-priority-service/internal/observability"
)

// ErrUnresolvableName is returned for names with no alphanumeric content.
// Such names would all collapse to the same empty key, silently merging
// unrelated species into one catch-all bucket, so they are rejected instead.
var ErrUnresolvableName = errors.New("name normalizes to an empty key")

// Collision records a normalized key claimed by more than one species
// during index construction. The index keeps the later claimant; collisions
// are surfaced here and counted so dataset maintainers can add an override
// instead of relying on registration order.
type Collision struct {
	Key       string
	Kept      string
	Discarded string
}

// Index is the read-only reconciliation index built once from the four
// source collections plus the override table. After construction it is safe
// for concurrent readers without locking.
type Index struct {
	src *domain.Sources

	vicByKey     map[string]string // normalized name/id/alias -> vic slug
	govByKey     map[string]string // normalized key -> gov map key
	assessByKey  map[string]string // normalized key -> assessment map key
	profileByKey map[string]string // normalized key -> profile map key

	collisions []Collision
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewIndex builds the lookup indices. Source collections are treated as
// immutable snapshots; the returned index never mutates them.
func NewIndex(src *domain.Sources, overrides Overrides, logger *slog.Logger, metrics *observability.Metrics) *Index {
	ix := &Index{
		src:          src,
		vicByKey:     make(map[string]string, len(src.Vic)*2),
		govByKey:     make(map[string]string, len(src.Gov)),
		assessByKey:  make(map[string]string, len(src.Assessments)),
		profileByKey: make(map[string]string, len(src.Profiles)*2),
		logger:       logger,
		metrics:      metrics,
	}

	for slug, rec := range src.Vic {
		ix.registerVic(domain.NormalizeKey(slug), slug)
		if rec.ID != "" {
			ix.registerVic(domain.NormalizeKey(rec.ID), slug)
		}
		for _, key := range domain.ExpandAliases(rec.Name) {
			ix.registerVic(key, slug)
		}
	}

	for alias, slug := range overrides.VicAliases {
		if _, ok := src.Vic[slug]; !ok {
			logger.Warn("override target not in victorian dataset", "alias", alias, "slug", slug)
			continue
		}
		ix.vicByKey[domain.NormalizeKey(alias)] = slug
	}

	registerNamed := func(m map[string]string, key string) {
		for _, k := range []string{domain.NormalizeKey(key), domain.NormalizeKey(domain.StripParenthetical(key))} {
			if k == "" {
				continue
			}
			if prev, ok := m[k]; ok && prev != key {
				ix.recordCollision(k, key, prev)
			}
			m[k] = key
		}
	}
	for key := range src.Gov {
		registerNamed(ix.govByKey, key)
	}
	for key := range src.Assessments {
		registerNamed(ix.assessByKey, key)
	}
	for key := range src.Profiles {
		registerNamed(ix.profileByKey, key)
	}

	metrics.IndexBuilds.Inc()
	return ix
}

func (ix *Index) registerVic(key, slug string) {
	if key == "" {
		return
	}
	if prev, ok := ix.vicByKey[key]; ok && prev != slug {
		ix.recordCollision(key, slug, prev)
	}
	ix.vicByKey[key] = slug
}

func (ix *Index) recordCollision(key, kept, discarded string) {
	ix.collisions = append(ix.collisions, Collision{Key: key, Kept: kept, Discarded: discarded})
	ix.metrics.IndexCollisions.Inc()
	ix.logger.Warn("normalized key collision, keeping later entry",
		"key", key, "kept", kept, "discarded", discarded)
}

// Collisions returns every key collision found during construction.
func (ix *Index) Collisions() []Collision {
	return ix.collisions
}

// Resolve builds the unified record for a species name using the layered
// fallback chain: direct/alias match into the Victorian dataset, then the
// assessment record's own name, then the profile URL slug bridge, then a
// synthesized profile-only record, and finally an orphan shell carrying
// whatever the score sources know. Whichever layer matches, score maps from
// the government and assessment sources always merge in additively.
func (ix *Index) Resolve(name string) (domain.UnifiedWeedRecord, error) {
	norm := domain.NormalizeKey(name)
	if norm == "" {
		return domain.UnifiedWeedRecord{}, ErrUnresolvableName
	}

	var gov domain.GovRecord
	hasGov := false
	if key, ok := ix.govByKey[norm]; ok {
		gov = ix.src.Gov[key]
		hasGov = true
	}
	var assessment domain.AssessmentRecord
	if key, ok := ix.assessByKey[norm]; ok {
		assessment = ix.src.Assessments[key]
	}
	var profile domain.ProfileRecord
	hasProfile := false
	profileName := ""
	if key, ok := ix.profileByKey[norm]; ok {
		profile = ix.src.Profiles[key]
		hasProfile = true
		profileName = key
	}

	vic, layer := ix.matchVic(norm, assessment, profile)
	ix.metrics.ResolveTotal.WithLabelValues(layer).Inc()

	unified := domain.UnifiedWeedRecord{
		Name:     name,
		Source:   "orphan",
		MergedAt: domain.Now(),
	}

	switch {
	case layer == "profile":
		unified.Source = "profile"
		unified.Key = norm
		applyProfile(&unified, profileName, profile)
	case vic != nil:
		unified.Source = "vic"
		unified.Key = vic.ID
		applyVic(&unified, vic)
	default:
		unified.Key = norm
	}

	// Content fallbacks below the primary layer: assessment text, then an
	// explicit assessor-notes rendering, then joined category commentary.
	if unified.Description == "" {
		unified.Description = firstNonEmpty(
			assessment.Description,
			assessorNotes(assessment.Comments),
			joinComments(assessment.Invasiveness),
		)
	}
	if unified.Origin == "" {
		unified.Origin = assessment.Origin
	}
	if unified.ScientificName == "" && hasProfile {
		unified.ScientificName = profile.ScientificName
	}

	// Score maps merge additively regardless of which content layer won:
	// government entries overlay the Victorian record's own ratings,
	// assessment entries overlay both, and no source's rated categories
	// are ever dropped.
	var vicImpact, vicInvasiveness domain.RatingMap
	if vic != nil {
		vicImpact = vic.Impact.Ratings
		vicInvasiveness = vic.Invasiveness.Ratings
	}
	unified.Impact = domain.MergeRatings(vicImpact, gov.Impact, assessment.Impact)
	unified.Invasiveness = domain.MergeRatings(vicInvasiveness, gov.Invasiveness, assessment.Invasiveness)
	unified.HasGovScore = hasGov && (len(gov.Impact) > 0 || len(gov.Invasiveness) > 0)
	unified.HasProfile = hasProfile

	return unified, nil
}

// matchVic runs the ordered matcher chain against the Victorian dataset.
// It returns the matched record and the name of the layer that matched
// ("alias", "name", "slug"), or nil with "profile"/"orphan" when only the
// profile fallback or nothing applies.
func (ix *Index) matchVic(norm string, assessment domain.AssessmentRecord, profile domain.ProfileRecord) (*domain.VicRecord, string) {
	type matcher struct {
		layer string
		match func() (string, bool)
	}
	chain := []matcher{
		{"alias", func() (string, bool) {
			slug, ok := ix.vicByKey[norm]
			return slug, ok
		}},
		{"name", func() (string, bool) {
			if assessment.Name == "" {
				return "", false
			}
			slug, ok := ix.vicByKey[domain.NormalizeKey(assessment.Name)]
			return slug, ok
		}},
		{"slug", func() (string, bool) {
			if profile.ProfileURL == "" {
				return "", false
			}
			slug := domain.SlugFromURL(profile.ProfileURL)
			_, ok := ix.src.Vic[slug]
			return slug, ok
		}},
	}

	for _, m := range chain {
		if slug, ok := m.match(); ok {
			rec := ix.src.Vic[slug]
			if rec.ID == "" {
				rec.ID = slug
			}
			return &rec, m.layer
		}
	}

	if _, ok := ix.profileByKey[norm]; ok {
		return nil, "profile"
	}
	return nil, "orphan"
}

func applyVic(u *domain.UnifiedWeedRecord, vic *domain.VicRecord) {
	if vic.Name != "" {
		u.Name = vic.Name
	}
	u.ScientificName = vic.ScientificName
	u.Description = vic.Description
	u.ControlMethods = vic.ControlMethods
	u.QuickFacts = vic.QuickFacts
	u.SimilarSpecies = vic.SimilarSpecies
	u.Habitat = vic.Habitat
	u.Origin = vic.Origin
	u.GrowthForm = vic.GrowthForm
	u.FlowerColour = vic.FlowerColour
	u.Images = vic.Images
	u.URL = vic.URL
	u.ImpactText = vic.Impact.Text
	u.InvasivenessText = vic.Invasiveness.Text
}

// applyProfile synthesizes a minimal record from the rich-profile source.
// The description placeholder is explicit: profile-only species have no
// entry in the primary database and downstream layers must say so rather
// than render a blank.
func applyProfile(u *domain.UnifiedWeedRecord, name string, p domain.ProfileRecord) {
	if name != "" {
		u.Name = name
	}
	u.ScientificName = p.ScientificName
	u.Description = firstNonEmpty(p.Description, domain.PlaceholderDescription)
	u.ControlMethods = firstNonEmpty(p.ControlMethods, domain.PlaceholderControlMethods)
	u.QuickFacts = p.QuickFacts
	u.BestControlSeason = p.BestControlSeason
	u.Origin = p.Origin
	u.GrowthForm = p.GrowthForm
	u.FlowerColour = p.FlowerColour
	u.Flowers = p.Flowers
	u.Leaves = p.Leaves
	u.Fruit = p.Fruit
	u.Reproduction = p.Reproduction
	u.ProfileURL = p.ProfileURL
}

// WeedListEntry is one selectable species for the wizard's search box.
type WeedListEntry struct {
	Name           string `json:"name"`
	ScientificName string `json:"scientificName,omitempty"`
}

// Weeds lists every species known to the score sources (the union of
// government and assessment names), sorted by name, with scientific names
// attached from the profile source where available.
func (ix *Index) Weeds() []WeedListEntry {
	seen := map[string]bool{}
	var list []WeedListEntry
	add := func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		list = append(list, WeedListEntry{
			Name:           name,
			ScientificName: ix.src.Profiles[name].ScientificName,
		})
	}
	for name := range ix.src.Gov {
		add(name)
	}
	for name := range ix.src.Assessments {
		add(name)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// ResolveCommonName maps free-text input back to a known species name,
// accepting either the name itself or a scientific name (case-insensitive).
func (ix *Index) ResolveCommonName(input string) (string, bool) {
	norm := domain.NormalizeKey(input)
	if key, ok := ix.govByKey[norm]; ok {
		return key, true
	}
	if key, ok := ix.assessByKey[norm]; ok {
		return key, true
	}
	for name, profile := range ix.src.Profiles {
		if profile.ScientificName != "" && strings.EqualFold(profile.ScientificName, input) {
			return name, true
		}
	}
	return "", false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func assessorNotes(comments string) string {
	if comments == "" {
		return ""
	}
	return "Assessors notes: " + comments
}

// joinComments concatenates category commentary as a description of last
// resort, matching how assessment-only species were summarized upstream.
func joinComments(ratings domain.RatingMap) string {
	if len(ratings) == 0 {
		return ""
	}
	ids := make([]string, 0, len(ratings))
	for id := range ratings {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var parts []string
	for _, id := range ids {
		if c := ratings[id].Comments; c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, ". ")
}
