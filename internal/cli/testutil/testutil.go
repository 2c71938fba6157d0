// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/ontolint/internal/cli/output"
)

// Turtle prefixes shared by the catalog fixtures.
const turtlePrefixes = `@prefix ontouml: <https://w3id.org/ontouml#> .
@prefix ex: <https://example.org/model#> .
`

// Fixture datasets. "alpha" has one character and one association-end
// problem, "beta" one old stereotype, "gamma" none.
var fixtureDatasets = map[string]string{
	"beta": turtlePrefixes + `
ex:person a ontouml:Class ;
    ontouml:name "Person" ;
    ontouml:stereotype ontouml:relatorKind .
`,
	"alpha": turtlePrefixes + `
ex:person a ontouml:Class ;
    ontouml:name " Person" .

ex:car a ontouml:Class ;
    ontouml:name "Car" .

ex:owns a ontouml:Relation ;
    ontouml:name "owns" ;
    ontouml:relationEnd ex:end1 .

ex:end1 a ontouml:Property ;
    ontouml:name "0..*" ;
    ontouml:propertyType ex:car .
`,
	"gamma": turtlePrefixes + `
ex:thing a ontouml:Class ;
    ontouml:name "Thing" ;
    ontouml:stereotype ontouml:category .
`,
}

// SetupTestCatalog creates a temporary catalog with three datasets under
// models/ and a vocabulary.ttl at the root. It returns the catalog root.
func SetupTestCatalog(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range fixtureDatasets {
		dir := filepath.Join(root, "models", name)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create directory %s: %v", dir, err)
		}
		if err := os.WriteFile(filepath.Join(dir, "ontology.ttl"), []byte(content), 0o600); err != nil {
			t.Fatalf("failed to create ontology for %s: %v", name, err)
		}
	}

	vocabulary := turtlePrefixes + "\nontouml:Class a ontouml:Class .\n"
	if err := os.WriteFile(filepath.Join(root, "vocabulary.ttl"), []byte(vocabulary), 0o600); err != nil {
		t.Fatalf("failed to create vocabulary.ttl: %v", err)
	}

	return root
}

// WriteConfig writes an ontolint.yaml with content into a new temporary
// directory and returns its path.
func WriteConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ontolint.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// Output returns the combined stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and basic structure.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	// Check for balanced code fences
	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	// Check that headers have content
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}

// ReadCSV returns the CRLF separated lines of a report file.
func ReadCSV(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return strings.Split(strings.TrimSuffix(string(data), "\r\n"), "\r\n")
}
