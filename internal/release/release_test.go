package release

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/knakk/rdf"
	"github.com/leapstack-labs/ontolint/internal/testutil"
	"github.com/leapstack-labs/ontolint/pkg/ontology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = `@prefix ontouml: <https://w3id.org/ontouml#> .
@prefix ex: <https://example.org/model#> .
`

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func fixedDay() time.Time {
	return time.Date(2024, time.March, 7, 15, 4, 5, 0, time.UTC)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "ontouml-models-20240307.ttl", FileName(fixedDay()))
}

func TestBuild(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "models/a/ontology.ttl", header+`
ex:person a ontouml:Class ; ontouml:name "Person" .
`)
	writeFile(t, root, "models/b/ontology.ttl", header+`
ex:person a ontouml:Class ; ontouml:name "Person" .
ex:car a ontouml:Class ; ontouml:name "Car" .
`)
	writeFile(t, root, "shapes/metadata-shape.ttl", header+`ex:shape a ontouml:Class .`)
	writeFile(t, root, "vocabulary.ttl", header+`ex:term a ontouml:Class .`)

	out := filepath.Join(t.TempDir(), "dist")
	res, err := Build(context.Background(), Config{
		CatalogPath: root,
		OutputDir:   out,
		Logger:      testutil.NewTestLogger(t),
		Now:         fixedDay,
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, "ontouml-models-20240307.ttl"), res.Path)
	assert.Equal(t, 2, res.Files)
	assert.Equal(t, 4, res.Triples)

	doc, err := ontology.ReadTurtle(res.Path)
	require.NoError(t, err)
	assert.Len(t, doc.Triples, 4)
}

func TestBuild_CustomExclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "models/a/ontology.ttl", header+`ex:a a ontouml:Class .`)
	writeFile(t, root, "vocabulary.ttl", header+`ex:term a ontouml:Class .`)

	res, err := Build(context.Background(), Config{
		CatalogPath: root,
		OutputDir:   t.TempDir(),
		Exclude:     []string{},
		Now:         fixedDay,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Files)
	assert.Equal(t, 2, res.Triples)
}

func TestBuild_ParseErrorAborts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "models/a/ontology.ttl", "not turtle at all")
	out := t.TempDir()

	_, err := Build(context.Background(), Config{CatalogPath: root, OutputDir: out, Now: fixedDay})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "models")
	assert.NoFileExists(t, filepath.Join(out, FileName(fixedDay())))
}

func TestScopeBlanks(t *testing.T) {
	b, err := rdf.NewBlank("b0")
	require.NoError(t, err)
	p, err := rdf.NewIRI("https://example.org/p")
	require.NoError(t, err)

	got, err := scopeBlanks([]rdf.Triple{{Subj: b, Pred: p, Obj: b}}, "f1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "f1b0", got[0].Subj.String())
	assert.Equal(t, "f1b0", got[0].Obj.String())
	assert.Contains(t, got[0].Serialize(rdf.NTriples), "_:f1b0 <https://example.org/p> _:f1b0")
}

func TestTripleSet_Deduplicates(t *testing.T) {
	s, err := rdf.NewIRI("https://example.org/s")
	require.NoError(t, err)
	p, err := rdf.NewIRI("https://example.org/p")
	require.NoError(t, err)
	o1, err := rdf.NewLiteral("b")
	require.NoError(t, err)
	o2, err := rdf.NewLiteral("a")
	require.NoError(t, err)

	set := newTripleSet()
	set.add(rdf.Triple{Subj: s, Pred: p, Obj: o1}, rdf.Triple{Subj: s, Pred: p, Obj: o2}, rdf.Triple{Subj: s, Pred: p, Obj: o1})

	sorted := set.sorted()
	require.Len(t, sorted, 2)
	assert.Equal(t, "a", sorted[0].Obj.String())
	assert.Equal(t, "b", sorted[1].Obj.String())
}
