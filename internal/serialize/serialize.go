// Package serialize writes the analyzed solution model to disk: one
// solution.json index plus one JSON file per aggregate. Output is
// deterministic across runs over the same input, except for the run stamp
// fields on the index.
package serialize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"

	"github.com/aggregen/aggregen/internal/model"
)

// IndexFileName is the name of the solution index file.
const IndexFileName = "solution.json"

// Index is the solution.json document: solution identity, run stamps, and
// the project list with pointers to the per-aggregate files.
type Index struct {
	Name        string         `json:"name"`
	FullPath    string         `json:"fullPath"`
	RunID       string         `json:"runId"`
	GeneratedAt string         `json:"generatedAt"`
	Projects    []IndexProject `json:"projects"`
}

// IndexProject is one project entry in the index.
type IndexProject struct {
	Name           string      `json:"name"`
	Namespace      string      `json:"namespace"`
	AssemblyName   string      `json:"assemblyName"`
	Layer          model.Layer `json:"layer"`
	AggregateFiles []string    `json:"aggregateFiles,omitempty"`
}

// ConflictError reports a target file that already exists while overwriting
// is disabled. No file is written when it is returned.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("output file %q already exists (pass --overwrite to replace it)", e.Path)
}

// DuplicateTargetError reports two aggregates whose names map to the same
// output file. Writing would silently drop one of them, so the whole run
// fails before anything is emitted.
type DuplicateTargetError struct {
	Path   string
	First  string // full name of the aggregate that claimed the file
	Second string // full name of the aggregate colliding with it
}

func (e *DuplicateTargetError) Error() string {
	return fmt.Sprintf("aggregates %s and %s both map to output file %q", e.First, e.Second, e.Path)
}

// WrittenFile records one emitted file and its size for reporting.
type WrittenFile struct {
	Path  string
	Bytes int
}

// Pipeline writes one solution model to an output directory.
type Pipeline struct {
	OutDir    string
	Overwrite bool

	// Now and NewRunID are swappable for deterministic tests.
	Now      func() time.Time
	NewRunID func() string
}

// NewPipeline creates a pipeline targeting the given directory.
func NewPipeline(outDir string, overwrite bool) *Pipeline {
	return &Pipeline{OutDir: outDir, Overwrite: overwrite}
}

// Write emits the index and every aggregate file. The write is
// all-or-nothing: when overwriting is disabled and any target exists, or
// two aggregates map to the same file, nothing at all is written.
func (p *Pipeline) Write(sol *model.Solution) ([]WrittenFile, error) {
	index := p.buildIndex(sol)

	targets := []string{filepath.Join(p.OutDir, IndexFileName)}
	claimed := make(map[string]string)
	for _, proj := range sol.Projects {
		for _, agg := range proj.Aggregates {
			target := filepath.Join(p.OutDir, AggregateFileName(agg.Name))
			fullName := agg.Namespace + "." + agg.Name
			if first, ok := claimed[target]; ok {
				return nil, &DuplicateTargetError{Path: target, First: first, Second: fullName}
			}
			claimed[target] = fullName
			targets = append(targets, target)
		}
	}

	if !p.Overwrite {
		for _, target := range targets {
			if _, err := os.Stat(target); err == nil {
				return nil, &ConflictError{Path: target}
			}
		}
	}

	if err := os.MkdirAll(p.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %q: %w", p.OutDir, err)
	}

	var written []WrittenFile
	record := func(path string, v any) error {
		n, err := writeJSON(path, v)
		if err != nil {
			return err
		}
		written = append(written, WrittenFile{Path: path, Bytes: n})
		return nil
	}

	if err := record(targets[0], index); err != nil {
		return written, err
	}
	for _, proj := range sol.Projects {
		for _, agg := range proj.Aggregates {
			path := filepath.Join(p.OutDir, AggregateFileName(agg.Name))
			if err := record(path, agg); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

func (p *Pipeline) buildIndex(sol *model.Solution) *Index {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	newRunID := uuid.NewString
	if p.NewRunID != nil {
		newRunID = p.NewRunID
	}

	index := &Index{
		Name:        sol.Name,
		FullPath:    sol.FullPath,
		RunID:       newRunID(),
		GeneratedAt: now().UTC().Format(time.RFC3339),
	}
	for _, proj := range sol.Projects {
		entry := IndexProject{
			Name:         proj.Name,
			Namespace:    proj.Namespace,
			AssemblyName: proj.AssemblyName,
			Layer:        proj.Layer,
		}
		for _, agg := range proj.Aggregates {
			entry.AggregateFiles = append(entry.AggregateFiles, AggregateFileName(agg.Name))
		}
		index.Projects = append(index.Projects, entry)
	}
	return index
}

// AggregateFileName is the lower-cased file name for one aggregate.
func AggregateFileName(aggregateName string) string {
	return strings.ToLower(aggregateName) + ".json"
}

// ReadIndex loads a previously written solution.json.
func ReadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading index %q: %w", path, err)
	}
	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("parsing index %q: %w", path, err)
	}
	return &index, nil
}

// ReadAggregate loads a previously written aggregate file.
func ReadAggregate(path string) (*model.Aggregate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading aggregate %q: %w", path, err)
	}
	var agg model.Aggregate
	if err := json.Unmarshal(data, &agg); err != nil {
		return nil, fmt.Errorf("parsing aggregate %q: %w", path, err)
	}
	return &agg, nil
}

func writeJSON(path string, v any) (int, error) {
	data, err := json.Marshal(v, json.Deterministic(true), jsontext.WithIndent("  "))
	if err != nil {
		return 0, fmt.Errorf("encoding %q: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("writing %q: %w", path, err)
	}
	return len(data), nil
}
