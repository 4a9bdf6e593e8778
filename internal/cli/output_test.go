package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONPrint(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Print(map[string]string{"result": "success"}, func(w io.Writer) {
		t.Fatal("text renderer called in json mode")
	})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_TextPrint(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.Print(nil, func(w io.Writer) { io.WriteString(w, "all scenarios valid\n") })
	require.NoError(t, err)
	assert.Equal(t, "all scenarios valid\n", buf.String())
}

func TestOutputFormatter_JSONFail(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Fail(ExitFailure, CodeDiverged, "replay diverged", map[string]int{"turns": 3}, nil)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeDiverged, resp.Error.Code)
	assert.Equal(t, "replay diverged", resp.Error.Message)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_TextFail(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.Fail(ExitFailure, CodeFailed, "scenario failed", nil, func(w io.Writer) {
		io.WriteString(w, "✗ first_revelation\n")
	})
	require.Error(t, err)
	assert.Equal(t, "scenario failed", err.Error())
	assert.Equal(t, "✗ first_revelation\n", buf.String())
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			errOut := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    out,
				ErrWriter: errOut,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("Validating %s", "dawn.yaml")

			assert.Empty(t, out.String())
			if tt.wantLog {
				assert.Contains(t, errOut.String(), "Validating dawn.yaml")
			} else {
				assert.Empty(t, errOut.String())
			}
		})
	}
}

func TestGetErrWriter_DefaultsToWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Writer: buf}
	assert.Same(t, buf, formatter.GetErrWriter())
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", errors.New("boom"), ExitFailure},
		{"command error", NewExitError(ExitCommandError, "bad path"), ExitCommandError},
		{"wrapped", WrapExitError(ExitFailure, "failed", errors.New("inner")), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	inner := errors.New("no such file")
	err := WrapExitError(ExitCommandError, "failed to load scenario", inner)

	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "failed to load scenario: no such file", err.Error())
}
