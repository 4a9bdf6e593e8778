package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/eldritch/internal/canon"
	"github.com/roach88/eldritch/internal/scenario"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Golden string   `json:"golden,omitempty"` // "match", "updated" or empty when there is none
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Play every scenario in a directory",
		Long: `Play every scenario in a directory without journaling.

Each scenario passes when its turn expectations and assertions hold and,
if golden/<name>.golden exists next to it, when its trace matches the
golden file byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  eldritch test ./scenarios
  eldritch test ./scenarios --filter "shadow_*"
  eldritch test ./scenarios --update
  eldritch test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	scenarioFiles, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	runner := scenario.NewRunner(
		scenario.WithConfig(cfg),
		scenario.WithLogger(opts.logger(cfg, cmd.ErrOrStderr())),
	)
	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(scenarioFiles)),
		Total:     len(scenarioFiles),
	}
	for _, file := range scenarioFiles {
		sr := runScenario(runner, file, opts, cmd)
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	f := opts.formatter(cmd)
	text := func(w io.Writer) { printTests(w, result) }
	if result.Failed > 0 {
		return f.Fail(ExitFailure, CodeFailed, fmt.Sprintf("%d of %d scenarios failed", result.Failed, result.Total), result, text)
	}
	return f.Print(result, text)
}

// findScenarioFiles finds all YAML scenario files under dir. Golden
// directories are skipped.
func findScenarioFiles(dir string, filter string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && d.Name() == "golden" {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// runScenario plays one scenario file and checks it against its golden file.
func runScenario(runner *scenario.Runner, file string, opts *TestOptions, cmd *cobra.Command) ScenarioResult {
	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	fail := func(format string, args ...any) ScenarioResult {
		return ScenarioResult{Name: name, Errors: []string{fmt.Sprintf(format, args...)}}
	}

	s, err := scenario.Load(file)
	if err != nil {
		return fail("failed to load scenario: %v", err)
	}
	name = s.Name

	result, err := runner.Run(cmd.Context(), s)
	if err != nil {
		return fail("execution failed: %v", err)
	}
	sr := ScenarioResult{Name: s.Name, Pass: result.Pass, Errors: result.Errors}

	trace, err := canon.Marshal(result.Snapshot())
	if err != nil {
		return fail("failed to marshal trace: %v", err)
	}
	goldenPath := goldenFilePath(file)

	if opts.Update {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
			return fail("failed to create golden directory: %v", err)
		}
		if err := os.WriteFile(goldenPath, trace, 0o644); err != nil {
			return fail("failed to write golden file: %v", err)
		}
		sr.Golden = "updated"
		return sr
	}

	golden, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		return sr
	}
	if err != nil {
		return fail("failed to read golden file: %v", err)
	}
	if !bytes.Equal(golden, trace) {
		sr.Pass = false
		sr.Errors = append(sr.Errors, "trace does not match golden file (run with --update to regenerate)")
		return sr
	}
	sr.Golden = "match"
	return sr
}

// goldenFilePath returns the path to the golden file for a scenario.
func goldenFilePath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

func printTests(w io.Writer, result TestResult) {
	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return
	}
	for _, s := range result.Scenarios {
		status := "✓"
		if !s.Pass {
			status = "✗"
		}
		if s.Golden == "updated" {
			fmt.Fprintf(w, "%s %s (golden updated)\n", status, s.Name)
		} else {
			fmt.Fprintf(w, "%s %s\n", status, s.Name)
		}
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Results: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
}
