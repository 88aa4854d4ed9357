// Package source loads the four species collections from their JSON
// exports and the reconciliation override tables from YAML.
package source

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hallsgap-landcare/weed-priority-service/internal/domain"
	"github.com/hallsgap-landcare/weed-priority-service/internal/observability"
	"github.com/hallsgap-landcare/weed-priority-service/internal/reconcile"
)

// Paths names the source files for one load. Overrides is optional; the
// four collection paths are required.
type Paths struct {
	Gov         string
	Assessments string
	Profiles    string
	Vic         string
	Overrides   string
}

// Loader reads and validates source collections. Individual malformed
// records are rejected and counted; a file that cannot be read or is not a
// JSON object at the top level fails the whole load.
type Loader struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewLoader(logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{logger: logger, metrics: metrics}
}

// Load reads all four collections. The returned Sources is a complete
// immutable snapshot; callers hand it to the reconciliation index without
// further mutation.
func (l *Loader) Load(paths Paths) (*domain.Sources, error) {
	src := &domain.Sources{}

	var err error
	if src.Gov, err = loadCollection[domain.GovRecord](l, "gov", paths.Gov); err != nil {
		return nil, err
	}
	if src.Assessments, err = loadCollection[domain.AssessmentRecord](l, "assessments", paths.Assessments); err != nil {
		return nil, err
	}
	if src.Profiles, err = loadCollection[domain.ProfileRecord](l, "profiles", paths.Profiles); err != nil {
		return nil, err
	}
	if src.Vic, err = loadCollection[domain.VicRecord](l, "vic", paths.Vic); err != nil {
		return nil, err
	}
	return src, nil
}

// loadCollection decodes one name-keyed JSON object record by record, so a
// single malformed entry rejects that entry instead of the whole file.
// Entries whose key has no alphanumeric content are rejected too: they
// would all collapse onto the same empty lookup key.
func loadCollection[T any](l *Loader, source, path string) (map[string]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s collection: %w", source, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s collection %s: %w", source, path, err)
	}

	out := make(map[string]T, len(raw))
	for key, msg := range raw {
		if domain.NormalizeKey(key) == "" {
			l.logger.Warn("rejecting record with empty normalized key", "source", source, "key", key)
			l.metrics.SourceRecordsRejected.WithLabelValues(source, "empty_key").Inc()
			continue
		}
		var rec T
		if err := json.Unmarshal(msg, &rec); err != nil {
			l.logger.Warn("rejecting malformed record", "source", source, "key", key, "error", err)
			l.metrics.SourceRecordsRejected.WithLabelValues(source, "malformed").Inc()
			continue
		}
		out[key] = rec
	}

	l.metrics.SourceRecordsLoaded.WithLabelValues(source).Add(float64(len(out)))
	l.logger.Info("source collection loaded",
		"source", source, "path", path, "records", len(out), "rejected", len(raw)-len(out))
	return out, nil
}

// LoadOverrides reads the alias and profile-key override tables. An empty
// path returns empty overrides, since the tables are optional curation aids.
func LoadOverrides(path string) (reconcile.Overrides, error) {
	if path == "" {
		return reconcile.Overrides{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return reconcile.Overrides{}, fmt.Errorf("read overrides: %w", err)
	}
	var o reconcile.Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return reconcile.Overrides{}, fmt.Errorf("parse overrides %s: %w", path, err)
	}
	return o, nil
}
