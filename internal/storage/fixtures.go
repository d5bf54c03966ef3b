package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/lumiere-aesthetics/matching-engine/internal/candidate"
	"gopkg.in/yaml.v3"
)

// FixtureFile is the on-disk format for seeding candidate records. JSON files
// parse too, since JSON is a subset of YAML.
type FixtureFile struct {
	Records []map[string]interface{} `yaml:"records"`
}

// LoadFixtures reads candidate records from a YAML or JSON file.
func LoadFixtures(path string) ([]candidate.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes fixture bytes.
func ParseFixtures(data []byte) ([]candidate.RawRecord, error) {
	var f FixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	out := make([]candidate.RawRecord, 0, len(f.Records))
	for _, r := range f.Records {
		out = append(out, candidate.RawRecord(r))
	}
	return out, nil
}

// Seed upserts every record, reporting progress after each one.
func Seed(ctx context.Context, repo *RecordRepository, recs []candidate.RawRecord, progress func(done, total int)) (int, error) {
	for i, payload := range recs {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := repo.Upsert(ctx, &Record{Payload: payload}); err != nil {
			return i, err
		}
		if progress != nil {
			progress(i+1, len(recs))
		}
	}
	return len(recs), nil
}
