package reconcile

// Overrides is the externally supplied table of manual name-mismatch fixes.
// The handful of species whose names differ across every source in ways no
// normalizer bridges (e.g. "Blackberry" vs the Victorian entry
// "blackberry-european") are mapped here instead of being hard-coded in the
// matching logic. Loaded from YAML; both tables are optional.
type Overrides struct {
	// VicAliases maps a free-text source name to the Victorian dataset
	// slug it should resolve to.
	VicAliases map[string]string `yaml:"vic_aliases"`

	// ProfileKeys maps a profile source name to the merged-dataset key it
	// belongs under, for profiles whose names match no other source.
	ProfileKeys map[string]string `yaml:"profile_keys"`
}
