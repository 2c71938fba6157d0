package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0o750))
	}
}

func touch(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, nil, 0o600))
	}
}

func TestDiscover_SortedNonHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "models/b", "models/a", "models/c", "models/.git", "models/a/nested")
	touch(t, root, "models/readme.md")

	datasets, err := Discover(root, "models")
	require.NoError(t, err)

	var names []string
	for _, d := range datasets {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
	assert.Equal(t, filepath.Join(root, "models", "a"), datasets[0].Dir)
	assert.Equal(t, filepath.Join(root, "models", "a", "ontology.ttl"), datasets[0].OntologyPath("ontology.ttl"))
}

func TestDiscover_MissingModelsDir(t *testing.T) {
	_, err := Discover(t.TempDir(), "models")
	require.ErrorIs(t, err, ErrModelsDirMissing)
}

func TestDiscover_Empty(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "models")

	datasets, err := Discover(root, "models")
	require.NoError(t, err)
	assert.Empty(t, datasets)
}

func TestTurtleFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"models/b/ontology.ttl",
		"models/a/ontology.ttl",
		"models/a/metadata.ttl",
		"models/a/notes.txt",
		"shapes/metadata-shape.ttl",
		"vocabulary.ttl",
		"models/.hidden/ontology.ttl",
		".git/x.ttl",
		"models/a/.draft.ttl",
	)

	tests := []struct {
		name    string
		exclude []string
		want    []string
	}{
		{
			name: "no exclusions",
			want: []string{
				"models/a/metadata.ttl",
				"models/a/ontology.ttl",
				"models/b/ontology.ttl",
				"shapes/metadata-shape.ttl",
				"vocabulary.ttl",
			},
		},
		{
			name:    "release exclusions",
			exclude: []string{"*-shape.ttl", "vocabulary.ttl"},
			want: []string{
				"models/a/metadata.ttl",
				"models/a/ontology.ttl",
				"models/b/ontology.ttl",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TurtleFiles(root, tt.exclude)
			require.NoError(t, err)

			want := make([]string, len(tt.want))
			for i, w := range tt.want {
				want[i] = filepath.Join(root, filepath.FromSlash(w))
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestTurtleFiles_InvalidPattern(t *testing.T) {
	_, err := TurtleFiles(t.TempDir(), []string{"[unclosed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid exclude pattern")
}
