package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/ontolint/internal/cli"
	"github.com/leapstack-labs/ontolint/internal/cli/commands"
	"github.com/leapstack-labs/ontolint/internal/cli/config"
	"github.com/leapstack-labs/ontolint/internal/report"
	"github.com/leapstack-labs/ontolint/pkg/quality"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// releasePattern names the release file; the date is the day of the run.
const releasePattern = "ontouml-models-YYYYMMDD.ttl"

// generateCLIDocs writes an index page plus one page per ontolint command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	cmds := documented(root)

	if err := writePage(outDir, "index.md", cliIndex(root, cmds)); err != nil {
		return err
	}
	for _, cmd := range cmds {
		if err := writePage(outDir, cmd.Name()+".md", commandPage(cmd)); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.Name(), err)
		}
		log.Printf("  Generated %s.md", cmd.Name())
	}
	return nil
}

// documented returns the user-facing subcommands of root.
func documented(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || !cmd.IsAvailableCommand() {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

// artifacts lists the files a command writes, or nil.
func artifacts(name string) []string {
	switch name {
	case "verify":
		var files []string
		for _, def := range quality.Definitions() {
			files = append(files, report.FileName(def.ID))
		}
		return files
	case "release":
		return []string{releasePattern}
	case "init":
		return []string{commands.ConfigFileName}
	default:
		return nil
	}
}

func cliIndex(root *cobra.Command, cmds []*cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for ontolint")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(cleanDescription(root.Long))
	w.CodeBlock("bash", "go install github.com/leapstack-labs/ontolint/cmd/ontolint@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range cmds {
		writes := "-"
		if files := artifacts(cmd.Name()); len(files) > 0 {
			writes = strings.Join(codeAll(files), ", ")
		}
		link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name())
		rows = append(rows, []string{link, cleanDescription(cmd.Short), writes})
	}
	w.Table([]string{"Command", "Description", "Writes"}, rows)

	w.Header(2, "Global Options")
	flagTable(w, root.PersistentFlags(), true)

	w.Header(2, "Environment Variables")
	w.Paragraph("Flags override environment variables, which override `ontolint.yaml`. " +
		"Nested keys join with a double underscore.")
	var envRows [][]string
	for _, f := range getConfigSchema() {
		envRows = append(envRows, []string{InlineCode(config.EnvVar(f.Name)), InlineCode(f.Name)})
	}
	w.Table([]string{"Variable", "Config key"}, envRows)

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "The command completed. Data quality findings do not change the exit code."},
		{InlineCode("1"), "Configuration, catalog, report or validation failure. The error is logged to stderr."},
	})
	return w
}

func commandPage(cmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, "ontolint "+cmd.Name())
	w.Paragraph(cmd.Short)
	w.CodeBlock("bash", cmd.UseLine())
	if cmd.Long != "" {
		w.CodeBlock("text", cmd.Long)
	}

	if cmd.Name() == "verify" {
		w.Header(2, "Reports")
		var rows [][]string
		for _, def := range quality.Definitions() {
			rows = append(rows, []string{
				fmt.Sprintf("[%s](/checks/%s)", InlineCode(def.ID.String()), def.ID),
				InlineCode(report.FileName(def.ID)),
				strings.Join(def.Columns, ", "),
			})
		}
		w.Table([]string{"Check", "File", "Columns after dataset"}, rows)
	} else if files := artifacts(cmd.Name()); len(files) > 0 {
		w.Header(2, "Writes")
		w.BulletList(codeAll(files))
	}

	if cmd.HasAvailableLocalFlags() {
		w.Header(2, "Options")
		flagTable(w, cmd.LocalNonPersistentFlags(), false)
	}
	if cmd.HasAvailableInheritedFlags() {
		w.Header(2, "Global Options")
		w.Paragraph("See the [CLI reference](/cli/) for the global options.")
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}
	return w
}

// flagTable writes one row per visible flag. Persistent flags are loaded
// into the configuration and carry their config key.
func flagTable(w *MarkdownWriter, flags *pflag.FlagSet, persistent bool) {
	headers := []string{"Flag", "Default", "Description"}
	if persistent {
		headers = []string{"Flag", "Config key", "Description"}
	}
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			name += ", " + InlineCode("-"+f.Shorthand)
		}
		second := "-"
		switch {
		case persistent && f.Name != "config":
			second = InlineCode(config.FlagKey(f.Name))
		case !persistent && f.DefValue != "" && f.DefValue != "[]":
			second = InlineCode(f.DefValue)
		}
		rows = append(rows, []string{name, second, cleanDescription(f.Usage)})
	})
	w.Table(headers, rows)
}

func writePage(dir, name string, w *MarkdownWriter) error {
	return os.WriteFile(filepath.Join(dir, name), w.Bytes(), 0600)
}

func codeAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = InlineCode(s)
	}
	return out
}

// dedent strips the indentation shared by all non-blank lines.
func dedent(text string) string {
	lines := strings.Split(strings.Trim(text, "\n"), "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	for i, line := range lines {
		if len(line) >= indent && indent > 0 {
			lines[i] = line[indent:]
		}
	}
	return strings.Join(lines, "\n")
}
