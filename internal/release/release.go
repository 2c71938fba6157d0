// Package release merges every Turtle file of a catalog into one
// distributable release file.
package release

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/knakk/rdf"
	"github.com/leapstack-labs/ontolint/internal/catalog"
	"github.com/leapstack-labs/ontolint/pkg/ontology"
)

// DefaultExclude lists the base-name patterns left out of a release.
var DefaultExclude = []string{"*-shape.ttl", "vocabulary.ttl"}

// Config configures a release build.
type Config struct {
	CatalogPath string
	OutputDir   string
	Exclude     []string          // base-name patterns; nil means DefaultExclude
	Prefixes    map[string]string // prefix -> namespace; nil means ontology.DefaultPrefixes
	Logger      *slog.Logger
	Now         func() time.Time
}

// Result describes a written release file.
type Result struct {
	Path    string
	Files   int
	Triples int
}

// FileName returns the release file name for day.
func FileName(day time.Time) string {
	return "ontouml-models-" + day.Format("20060102") + ".ttl"
}

// Build merges the catalog's Turtle files and writes the release file.
// Any read, parse or write failure aborts the build.
func Build(ctx context.Context, cfg Config) (*Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	exclude := cfg.Exclude
	if exclude == nil {
		exclude = DefaultExclude
	}
	prefixes := cfg.Prefixes
	if prefixes == nil {
		prefixes = ontology.DefaultPrefixes()
	}
	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}

	logger.Info(fmt.Sprintf("Identifying all TTL files in directory %s and in its subdirectories.", cfg.CatalogPath))
	files, err := catalog.TurtleFiles(cfg.CatalogPath, exclude)
	if err != nil {
		return nil, err
	}

	logger.Info(fmt.Sprintf("Generating single graph containing information from %d TTL files.", len(files)))
	merged := newTripleSet()
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Info(fmt.Sprintf("Including file %d/%d: %s", i+1, len(files), file))
		doc, err := ontology.ReadTurtle(file)
		if err != nil {
			return nil, err
		}
		triples, err := scopeBlanks(doc.Triples, fmt.Sprintf("f%d", i))
		if err != nil {
			return nil, fmt.Errorf("could not merge %s: %w", file, err)
		}
		merged.add(triples...)
	}

	path := filepath.Join(cfg.OutputDir, FileName(now()))
	logger.Info("Saving a single file with graph's content.")
	if err := write(path, merged.sorted(), prefixes); err != nil {
		return nil, err
	}
	logger.Info(fmt.Sprintf("Release file successfully saved as %s.", path))

	return &Result{Path: path, Files: len(files), Triples: len(merged.triples)}, nil
}

func write(path string, triples []rdf.Triple, prefixes map[string]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("could not create release directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // path built from configured output dir
	if err != nil {
		return fmt.Errorf("could not create release file %s: %w", path, err)
	}

	enc := rdf.NewTripleEncoder(f, rdf.Turtle)
	enc.Namespaces = make(map[string]string, len(prefixes))
	for prefix, ns := range prefixes {
		enc.Namespaces[ns] = prefix
	}

	if err := enc.EncodeAll(triples); err != nil {
		_ = f.Close()
		return fmt.Errorf("could not write release file %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("could not write release file %s: %w", path, err)
	}
	return f.Close()
}

// scopeBlanks renames blank nodes so labels from different files never merge.
func scopeBlanks(triples []rdf.Triple, scope string) ([]rdf.Triple, error) {
	rename := func(b rdf.Blank) (rdf.Blank, error) {
		return rdf.NewBlank(scope + strings.TrimPrefix(b.String(), "_:"))
	}

	out := make([]rdf.Triple, len(triples))
	for i, t := range triples {
		if b, ok := t.Subj.(rdf.Blank); ok {
			nb, err := rename(b)
			if err != nil {
				return nil, err
			}
			t.Subj = nb
		}
		if b, ok := t.Obj.(rdf.Blank); ok {
			nb, err := rename(b)
			if err != nil {
				return nil, err
			}
			t.Obj = nb
		}
		out[i] = t
	}
	return out, nil
}

// tripleSet is an insertion-ordered set of triples keyed by their N-Triples form.
type tripleSet struct {
	seen    map[string]struct{}
	triples []rdf.Triple
	keys    []string
}

func newTripleSet() *tripleSet {
	return &tripleSet{seen: make(map[string]struct{})}
}

func (s *tripleSet) add(triples ...rdf.Triple) {
	for _, t := range triples {
		k := t.Serialize(rdf.NTriples)
		if _, dup := s.seen[k]; dup {
			continue
		}
		s.seen[k] = struct{}{}
		s.triples = append(s.triples, t)
		s.keys = append(s.keys, k)
	}
}

// sorted returns the triples ordered by subject, predicate and object so the
// encoder groups statements about the same subject.
func (s *tripleSet) sorted() []rdf.Triple {
	idx := make([]int, len(s.triples))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return s.keys[idx[a]] < s.keys[idx[b]] })

	out := make([]rdf.Triple, len(idx))
	for i, j := range idx {
		out[i] = s.triples[j]
	}
	return out
}
