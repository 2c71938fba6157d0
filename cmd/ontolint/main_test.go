// Package main provides tests for the ontolint CLI.
package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leapstack-labs/ontolint/internal/cli"
)

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("version command error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "ontolint") {
		t.Errorf("version output should contain 'ontolint', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	output := buf.String()
	expectedCommands := []string{"verify", "release", "validate", "checks", "runs", "config"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestChecksHelp(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"checks", "--help"})

	if err := cmd.Execute(); err != nil {
		t.Errorf("checks help error = %v", err)
	}
	if !strings.Contains(buf.String(), "results_<id>.csv") {
		t.Errorf("checks help should describe the report files, got: %s", buf.String())
	}
}
