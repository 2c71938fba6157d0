package report

import (
	"encoding/csv"
	"os"
	"strings"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/ontolint/internal/testutil"
	"github.com/leapstack-labs/ontolint/pkg/quality"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWriter_InitializeWritesHeader(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	w := NewWriter(dir, testutil.NewTestLogger(t))

	for _, id := range quality.AllChecks() {
		require.NoError(t, w.Initialize(id))
	}

	assert.Equal(t, "dataset,instance,type,problem\r\n", readFile(t, filepath.Join(dir, "results_char.csv")))
	assert.Equal(t, "dataset,related_class,relation_name,end_value,problem\r\n", readFile(t, filepath.Join(dir, "results_ends.csv")))
	assert.Equal(t, "dataset,generalization_name,specific_name,general_name,problem\r\n", readFile(t, filepath.Join(dir, "results_gens.csv")))
	assert.Equal(t, "dataset,class_name,old_stereotype,new_stereotype\r\n", readFile(t, filepath.Join(dir, "results_ster.csv")))
	assert.Len(t, w.Files(), 4)
}

func TestWriter_InitializeTruncates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results_char.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale,row\r\n"), 0o600))

	w := NewWriter(dir, testutil.NewTestLogger(t))
	require.NoError(t, w.Initialize(quality.CheckCharacters))

	assert.Equal(t, "dataset,instance,type,problem\r\n", readFile(t, path))
}

func TestWriter_Append(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, testutil.NewTestLogger(t))
	require.NoError(t, w.Initialize(quality.CheckCharacters))

	require.NoError(t, w.Append("A", quality.CheckCharacters, []quality.Problem{
		quality.CharacterProblem{InstanceName: " Person", EntityType: "Class", Description: quality.DefectLeadingSpace},
	}))
	require.NoError(t, w.Append("B", quality.CheckCharacters, []quality.Problem{
		quality.CharacterProblem{InstanceName: "a,b", EntityType: "Class", Description: quality.DefectImportedClassName},
	}))
	require.NoError(t, w.Append("C", quality.CheckCharacters, nil))

	want := "dataset,instance,type,problem\r\n" +
		"A,\" Person\",Class,starts with space\r\n" +
		"B,\"a,b\",Class,imported class in name\r\n"
	assert.Equal(t, want, readFile(t, w.Path(quality.CheckCharacters)))
}

func TestWriter_LeadingSpaceReadsBack(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, testutil.NewTestLogger(t))
	require.NoError(t, w.Initialize(quality.CheckCharacters))
	require.NoError(t, w.Append("A", quality.CheckCharacters, []quality.Problem{
		quality.CharacterProblem{InstanceName: " Person", EntityType: "Class", Description: quality.DefectLeadingSpace},
	}))

	records, err := csv.NewReader(strings.NewReader(readFile(t, w.Path(quality.CheckCharacters)))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"A", " Person", "Class", "starts with space"}, records[1])
}

func TestWriter_AppendGeneralizationCount(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, testutil.NewTestLogger(t))
	require.NoError(t, w.Initialize(quality.CheckGeneralizations))

	require.NoError(t, w.Append("A", quality.CheckGeneralizations, []quality.Problem{
		quality.GeneralizationProblem{
			Name:         "phases",
			SpecificName: "has only 1 generalizations",
			Description:  quality.DefectTooFewGeneralizations,
		},
	}))

	assert.Contains(t, readFile(t, w.Path(quality.CheckGeneralizations)),
		"A,phases,has only 1 generalizations,,generalization set with less than two generalizations\r\n")
}

func TestWriter_AppendErrors(t *testing.T) {
	tests := []struct {
		name    string
		id      quality.CheckID
		prepare func(w *Writer)
		check   func(t *testing.T, err error)
	}{
		{
			name: "not initialized",
			id:   quality.CheckOldStereotypes,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrNotInitialized)
			},
		},
		{
			name: "unknown check",
			id:   quality.CheckID("nope"),
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, quality.ErrUnknownCheck)
			},
		},
		{
			name: "problem of another check",
			id:   quality.CheckAssociationEnds,
			prepare: func(w *Writer) {
				_ = w.Initialize(quality.CheckAssociationEnds)
			},
			check: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "cannot append char problem to ends report")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(t.TempDir(), testutil.NewTestLogger(t))
			if tt.prepare != nil {
				tt.prepare(w)
			}
			err := w.Append("A", tt.id, []quality.Problem{
				quality.CharacterProblem{InstanceName: "x", EntityType: "Class", Description: quality.DefectLeadingSpace},
			})
			tt.check(t, err)
		})
	}
}

func TestWriter_InitializeFailsOnUnwritableDir(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	w := NewWriter(filepath.Join(blocker, "results"), testutil.NewTestLogger(t))
	err := w.Initialize(quality.CheckCharacters)
	require.Error(t, err)
	assert.Contains(t, err.Error(), blocker)
}

func TestWriter_InitializeUnknownCheck(t *testing.T) {
	w := NewWriter(t.TempDir(), nil)
	require.ErrorIs(t, w.Initialize("nope"), quality.ErrUnknownCheck)
	assert.Empty(t, w.Files())
}
