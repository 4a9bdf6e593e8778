package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/eldritch/internal/scenario"
)

// FileValidation is the verdict on one scenario file.
type FileValidation struct {
	Path  string `json:"path"`
	Name  string `json:"name,omitempty"`
	Turns int    `json:"turns,omitempty"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml|dir>...",
		Short: "Validate scenarios without playing them",
		Long: `Check scenario files against the scenario schema and the campaign rules
without playing a single turn. Directories are searched for .yaml and .yml
files.

Exit codes:
  0 - Every scenario is valid
  1 - At least one scenario is invalid
  2 - Command error (missing paths)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return WrapExitError(ExitCommandError, "scenario path not found", err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		found, err := findScenarioFiles(p, "")
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to find scenarios", err)
		}
		files = append(files, found...)
	}

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(files))}
	for _, path := range files {
		f.VerboseLog("Validating %s", path)
		fv := FileValidation{Path: path, Valid: true}
		s, err := scenario.Load(path)
		if err != nil {
			fv.Valid = false
			fv.Error = err.Error()
			result.Valid = false
		} else {
			fv.Name = s.Name
			fv.Turns = len(s.Turns)
		}
		result.Files = append(result.Files, fv)
	}

	text := func(w io.Writer) {
		for _, fv := range result.Files {
			if fv.Valid {
				fmt.Fprintf(w, "✓ %s (%s, %d turn entries)\n", fv.Path, fv.Name, fv.Turns)
			} else {
				fmt.Fprintf(w, "✗ %s: %s\n", fv.Path, fv.Error)
			}
		}
	}
	if !result.Valid {
		return f.Fail(ExitFailure, CodeInvalid, "invalid scenarios", result, text)
	}
	return f.Print(result, text)
}
