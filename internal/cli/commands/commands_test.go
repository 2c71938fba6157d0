package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/ontolint/internal/cli/config"
	"github.com/leapstack-labs/ontolint/internal/cli/testutil"
	"github.com/leapstack-labs/ontolint/internal/syntax"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadTestConfig loads the configuration as the root command would, from
// flag-style args. The run ledger is disabled unless args set --state.
func loadTestConfig(t *testing.T, args ...string) *config.Config {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("catalog", "", "")
	fs.String("results-dir", "", "")
	fs.String("log-dir", "", "")
	fs.String("state", "", "")
	fs.String("metrics-file", "", "")
	fs.StringSlice("check", nil, "")
	fs.StringP("output", "o", "", "")
	require.NoError(t, fs.Parse(append([]string{"--state", ""}, args...)))

	cfg, err := config.LoadConfig("", fs)
	require.NoError(t, err)
	return cfg
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewVerifyCommand(), "verify [catalog]", nil},
		{NewReleaseCommand(), "release [catalog]", []string{"output-dir"}},
		{NewValidateCommand(), "validate [catalog]", nil},
		{NewChecksCommand(), "checks [check-id]", []string{"verbose"}},
		{NewRunsCommand(), "runs [run-id]", []string{"limit"}},
		{NewDoctorCommand(), "doctor [catalog]", []string{"skip-parse"}},
		{NewConfigCommand(), "config", nil},
	}
	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestChecksCommand_JSON(t *testing.T) {
	loadTestConfig(t, "-o", "json")

	out, err := execute(t, NewChecksCommand())
	require.NoError(t, err)

	var got ChecksJSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 4, got.Count)

	var ids []string
	for _, c := range got.Checks {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"char", "ends", "gens", "ster"}, ids)
	assert.Equal(t, "results_char.csv", got.Checks[0].File)
	assert.Equal(t, []string{"dataset", "instance", "type", "problem"}, got.Checks[0].Columns)
}

func TestChecksCommand_Show(t *testing.T) {
	loadTestConfig(t, "-o", "markdown")

	out, err := execute(t, NewChecksCommand(), "ster")
	require.NoError(t, err)
	assert.Contains(t, out, "ster")
	assert.Contains(t, out, "results_ster.csv")
	testutil.AssertNoANSI(t, out)
	testutil.AssertValidMarkdown(t, out)
}

func TestChecksCommand_Unknown(t *testing.T) {
	loadTestConfig(t)

	_, err := execute(t, NewChecksCommand(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `check "nope" not found`)
	assert.Contains(t, err.Error(), "char, ends, gens, ster")
}

func TestVerifyCommand_JSON(t *testing.T) {
	root := testutil.SetupTestCatalog(t)
	results := t.TempDir()
	loadTestConfig(t, "--results-dir", results, "-o", "json")

	out, err := execute(t, NewVerifyCommand(), root)
	require.NoError(t, err)

	var got VerifyJSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Empty(t, got.RunID)
	assert.Equal(t, []string{"char", "ends", "gens", "ster"}, got.Checks)
	require.Len(t, got.Datasets, 3)
	assert.Equal(t, "alpha", got.Datasets[0].Name)
	assert.Equal(t, "beta", got.Datasets[1].Name)
	assert.Equal(t, "gamma", got.Datasets[2].Name)
	assert.Equal(t, 2, got.Datasets[0].Total)
	assert.Equal(t, 0, got.Datasets[2].Total)
	assert.Equal(t, map[string]int{"char": 1, "ends": 1, "gens": 0, "ster": 1}, got.Totals)

	assert.Equal(t, []string{
		"dataset,class_name,old_stereotype,new_stereotype",
		"beta,Person,relatorKind,relator",
	}, testutil.ReadCSV(t, filepath.Join(results, "results_ster.csv")))
}

func TestVerifyCommand_SelectedChecks(t *testing.T) {
	root := testutil.SetupTestCatalog(t)
	results := t.TempDir()
	loadTestConfig(t, "--results-dir", results, "--check", "ends", "-o", "json")

	out, err := execute(t, NewVerifyCommand(), root)
	require.NoError(t, err)

	var got VerifyJSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"ends"}, got.Checks)
	assert.Equal(t, []string{filepath.Join(results, "results_ends.csv")}, got.Files)
	assert.NoFileExists(t, filepath.Join(results, "results_char.csv"))
}

func TestVerifyCommand_MissingCatalog(t *testing.T) {
	loadTestConfig(t)

	_, err := execute(t, NewVerifyCommand(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog path does not exist")
}

func TestRunsCommand_Disabled(t *testing.T) {
	loadTestConfig(t)

	_, err := execute(t, NewRunsCommand())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run ledger is disabled")
}

func TestRunsCommand_AfterVerify(t *testing.T) {
	root := testutil.SetupTestCatalog(t)
	statePath := filepath.Join(t.TempDir(), "state.db")
	loadTestConfig(t, "--results-dir", t.TempDir(), "--state", statePath, "-o", "json")

	out, err := execute(t, NewVerifyCommand(), root)
	require.NoError(t, err)
	var verified VerifyJSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &verified))
	require.NotEmpty(t, verified.RunID)

	out, err = execute(t, NewRunsCommand(), verified.RunID)
	require.NoError(t, err)

	var detail struct {
		ID      string `json:"id"`
		Results []struct {
			Dataset string `json:"dataset"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &detail))
	assert.Equal(t, verified.RunID, detail.ID)
	assert.NotEmpty(t, detail.Results)
}

func TestValidateCommand(t *testing.T) {
	root := testutil.SetupTestCatalog(t)
	loadTestConfig(t, "-o", "json")

	runner := func(_ context.Context, command []string, file string) ([]byte, error) {
		assert.Equal(t, []string{syntax.DefaultCommand}, command)
		if strings.Contains(file, "beta") {
			return []byte("Validator finished with 0 warnings and 1 errors"), nil
		}
		return []byte(syntax.DefaultSuccessMarker), nil
	}

	out, err := execute(t, newValidateCommand(runner), root)
	require.ErrorIs(t, err, syntax.ErrInvalidFiles)

	var got ValidateJSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.False(t, got.Valid)
	assert.Len(t, got.Files, 4)
	assert.Equal(t, []string{filepath.Join("models", "beta", "ontology.ttl")}, got.Invalid)
}

func TestValidateCommand_AllValid(t *testing.T) {
	root := testutil.SetupTestCatalog(t)
	loadTestConfig(t, "-o", "markdown")

	runner := func(context.Context, []string, string) ([]byte, error) {
		return []byte(syntax.DefaultSuccessMarker), nil
	}

	out, err := execute(t, newValidateCommand(runner), root)
	require.NoError(t, err)
	assert.Contains(t, out, "- [success] vocabulary.ttl")
	assert.Contains(t, out, "4 files valid")
}

func TestConfigCommand(t *testing.T) {
	results := t.TempDir()
	loadTestConfig(t, "--results-dir", results, "-o", "json")

	out, err := execute(t, NewConfigCommand())
	require.NoError(t, err)

	var got config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, results, got.ResultsDir)
	assert.Equal(t, config.DefaultModelsDir, got.ModelsDir)
}
