// Package catalog discovers the datasets and Turtle files of an ontology
// catalog and drives data quality verification across its datasets.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrModelsDirMissing is returned when the catalog has no models directory.
var ErrModelsDirMissing = errors.New("models directory not found")

// Dataset is one ontology model of the catalog.
type Dataset struct {
	Name string // directory name
	Dir  string // directory path
}

// OntologyPath returns the path of the dataset's ontology file.
func (d Dataset) OntologyPath(file string) string {
	return filepath.Join(d.Dir, file)
}

// Discover lists the first-level, non-hidden directories of
// <catalogPath>/<modelsDir>, sorted by name.
func Discover(catalogPath, modelsDir string) ([]Dataset, error) {
	root := filepath.Join(catalogPath, modelsDir)
	entries, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrModelsDirMissing, root)
	}
	if err != nil {
		return nil, fmt.Errorf("could not list datasets in %s: %w", root, err)
	}

	var datasets []Dataset
	for _, e := range entries {
		if isHidden(e.Name()) || !isDir(root, e) {
			continue
		}
		datasets = append(datasets, Dataset{Name: e.Name(), Dir: filepath.Join(root, e.Name())})
	}
	sort.Slice(datasets, func(i, j int) bool { return datasets[i].Name < datasets[j].Name })
	return datasets, nil
}

// isDir follows symlinks so linked dataset directories are included.
func isDir(root string, e fs.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(root, e.Name()))
	return err == nil && info.IsDir()
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// TurtleFiles returns every *.ttl file under root, sorted. Files inside hidden
// directories, hidden files and files whose base name matches one of the
// exclude patterns are skipped.
func TurtleFiles(root string, exclude []string) ([]string, error) {
	for _, p := range exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	matches, err := doublestar.Glob(os.DirFS(root), "**/*.ttl", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("could not list turtle files in %s: %w", root, err)
	}

	var files []string
	for _, m := range matches {
		if hasHiddenSegment(m) || excluded(path.Base(m), exclude) {
			continue
		}
		files = append(files, filepath.Join(root, filepath.FromSlash(m)))
	}
	sort.Strings(files)
	return files, nil
}

func hasHiddenSegment(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if isHidden(seg) {
			return true
		}
	}
	return false
}

func excluded(base string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
	}
	return false
}
