package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store reads and writes per-org output documents. Single-writer access
// per org file is assumed; saves are atomic overwrites.
type Store struct {
	outputDir string
}

func NewStore(outputDir string) *Store {
	return &Store{outputDir: outputDir}
}

func (s *Store) path(orgAbbrev string) string {
	return filepath.Join(s.outputDir, orgAbbrev+".json")
}

// Load returns the existing output for an org, or nil if none exists.
func (s *Store) Load(orgAbbrev string) (*OrgOutput, error) {
	data, err := os.ReadFile(s.path(orgAbbrev))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read output for %s: %w", orgAbbrev, err)
	}
	var out OrgOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse output for %s: %w", orgAbbrev, err)
	}
	return &out, nil
}

// SuccessfulByURL indexes previously enriched jobs by URL for cache reuse.
func (s *Store) SuccessfulByURL(orgAbbrev string) (map[string]EnrichedJob, error) {
	existing, err := s.Load(orgAbbrev)
	if err != nil {
		return nil, err
	}
	byURL := make(map[string]EnrichedJob)
	if existing == nil {
		return byURL, nil
	}
	for _, job := range existing.Jobs {
		if job.URL != "" && job.IsEnriched() {
			byURL[job.URL] = job
		}
	}
	return byURL, nil
}

// Save overwrites the org's output document. The write goes through a
// temp file and rename so readers never observe a partial document.
func (s *Store) Save(orgName, orgAbbrev string, jobs []EnrichedJob) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if jobs == nil {
		jobs = []EnrichedJob{}
	}
	out := OrgOutput{
		OrgName:    orgName,
		OrgAbbrev:  orgAbbrev,
		EnrichedAt: nowUTC(),
		JobCount:   len(jobs),
		Jobs:       jobs,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal output for %s: %w", orgAbbrev, err)
	}

	path := s.path(orgAbbrev)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("write output for %s: %w", orgAbbrev, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("replace output for %s: %w", orgAbbrev, err)
	}
	return path, nil
}
