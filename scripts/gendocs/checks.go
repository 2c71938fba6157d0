package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/ontolint/internal/report"
	"github.com/leapstack-labs/ontolint/pkg/quality"
)

// generateCheckDocs generates the data quality check reference.
func generateCheckDocs(outDir string) error {
	log.Printf("Generating check docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	defs := quality.Definitions()
	if err := generateChecksIndex(outDir, defs); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	for _, def := range defs {
		if err := generateCheckPage(outDir, def); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", def.ID, err)
		}
		log.Printf("  Generated %s.md", def.ID)
	}

	return nil
}

// generateChecksIndex generates the checks overview page.
func generateChecksIndex(outDir string, defs []quality.CheckDef) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Checks", "Data quality checks run by ontolint")
	w.GeneratedMarker()

	w.Header(1, "Checks")
	w.Paragraph(fmt.Sprintf("ontolint runs **%d checks** on every dataset of the catalog. "+
		"Each check appends its findings to one CSV report in the results directory.", len(defs)))

	var rows [][]string
	for _, def := range defs {
		link := fmt.Sprintf("[%s](/checks/%s)", InlineCode(def.ID.String()), def.ID)
		rows = append(rows, []string{link, def.Name, InlineCode(report.FileName(def.ID)), cleanDescription(def.Description)})
	}
	w.Table([]string{"Check", "Name", "Report", "Description"}, rows)

	w.Header(2, "Report Format")
	w.BulletList([]string{
		"Comma separated, CRLF line endings, UTF-8",
		"The first column is always the dataset directory name",
		"Datasets appear in name order; a dataset without findings adds no rows",
		"Each run truncates the reports of the checks it runs",
	})

	w.Header(2, "Selecting Checks")
	w.CodeBlock("bash", `# Run two checks
ontolint verify --check char,ster

# Or in ontolint.yaml
checks: [char, ster]`)

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

// generateCheckPage writes detailed documentation for a single check.
func generateCheckPage(outDir string, def quality.CheckDef) error {
	w := NewMarkdownWriter()

	w.Frontmatter(def.ID.String()+" - "+def.Name, def.Description)
	w.GeneratedMarker()

	w.Header(1, fmt.Sprintf("%s - %s", def.ID, def.Name))
	w.Paragraph(cleanDescription(def.Description))

	header, err := quality.Header(def.ID)
	if err != nil {
		return err
	}
	w.Line(fmt.Sprintf("**Report:** %s", InlineCode(report.FileName(def.ID))))
	w.Newline()
	w.CodeBlock("csv", strings.Join(header, ","))

	if def.Rationale != "" {
		w.Header(2, "Why This Matters")
		w.Paragraph(def.Rationale)
	}
	if def.Fix != "" {
		w.Header(2, "How to Fix")
		w.Paragraph(def.Fix)
	}

	return os.WriteFile(filepath.Join(outDir, def.ID.String()+".md"), w.Bytes(), 0600)
}
