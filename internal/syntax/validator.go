// Package syntax validates Turtle files with an external validator program.
package syntax

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/ontolint/internal/catalog"
)

// Defaults for the ttl validator.
const (
	DefaultCommand       = "ttl"
	DefaultSuccessMarker = "Validator finished with 0 warnings and 0 errors"
)

// ErrInvalidFiles is returned when at least one file fails validation.
var ErrInvalidFiles = errors.New("invalid turtle syntax")

// Runner executes the validator on one file and returns its standard output.
type Runner func(ctx context.Context, command []string, file string) ([]byte, error)

// ExecRunner runs the validator as a child process.
func ExecRunner(ctx context.Context, command []string, file string) ([]byte, error) {
	args := append(append([]string(nil), command[1:]...), file)
	cmd := exec.CommandContext(ctx, command[0], args...) //nolint:gosec // validator command comes from configuration
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	err := cmd.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// a non-zero exit still produced a verdict on stdout
		return stdout.Bytes(), nil
	}
	return stdout.Bytes(), err
}

// Config configures a Validator.
type Config struct {
	Command       []string // program and leading arguments; the file is appended
	SuccessMarker string
	Runner        Runner
	Logger        *slog.Logger
}

// Validator checks the syntax of every Turtle file in a catalog.
type Validator struct {
	command []string
	marker  string
	run     Runner
	logger  *slog.Logger
}

// FileResult is the verdict for one file.
type FileResult struct {
	Path   string `json:"path"`
	Valid  bool   `json:"valid"`
	Output string `json:"output,omitempty"`
}

// Result is the outcome of a validation pass.
type Result struct {
	Files   []FileResult
	Invalid []string
}

// NewValidator creates a Validator, filling defaults.
func NewValidator(cfg Config) *Validator {
	v := &Validator{
		command: cfg.Command,
		marker:  cfg.SuccessMarker,
		run:     cfg.Runner,
		logger:  cfg.Logger,
	}
	if len(v.command) == 0 {
		v.command = []string{DefaultCommand}
	}
	if v.marker == "" {
		v.marker = DefaultSuccessMarker
	}
	if v.run == nil {
		v.run = ExecRunner
	}
	if v.logger == nil {
		v.logger = slog.New(slog.DiscardHandler)
	}
	return v
}

// Validate runs the validator on every Turtle file under catalogPath. It
// returns ErrInvalidFiles, wrapped with the failing paths, when any file is
// invalid. Failing to run the validator aborts immediately.
func (v *Validator) Validate(ctx context.Context, catalogPath string) (*Result, error) {
	files, err := catalog.TurtleFiles(catalogPath, nil)
	if err != nil {
		return nil, err
	}
	v.logger.Info(fmt.Sprintf("Starting ttl syntax validation of %d files in %s.", len(files), catalogPath))

	res := &Result{}
	for i, file := range files {
		rel, err := filepath.Rel(catalogPath, file)
		if err != nil {
			rel = file
		}

		out, err := v.run(ctx, v.command, file)
		if err != nil {
			return res, fmt.Errorf("could not run validator %q on %s: %w", v.command[0], file, err)
		}

		output := strings.Join(strings.Fields(string(out)), " ")
		fr := FileResult{Path: file, Valid: strings.Contains(output, v.marker), Output: output}
		res.Files = append(res.Files, fr)

		if fr.Valid {
			v.logger.Info(fmt.Sprintf("File %d/%d: %s is valid.", i+1, len(files), rel))
			continue
		}
		v.logger.Warn(fmt.Sprintf("File %d/%d: %s has invalid syntax. %s", i+1, len(files), rel, output))
		res.Invalid = append(res.Invalid, rel)
	}

	if len(res.Invalid) > 0 {
		v.logger.Warn(fmt.Sprintf("VALIDATION FINISHED. The verification found %d problem(s): %v", len(res.Invalid), res.Invalid))
		return res, fmt.Errorf("%w: %s", ErrInvalidFiles, strings.Join(res.Invalid, ", "))
	}
	v.logger.Info(fmt.Sprintf("VALIDATION FINISHED. No problems found in the verification of %d files.", len(files)))
	return res, nil
}
