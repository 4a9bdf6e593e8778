package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// dawn is a quiet scenario: three turns without orders.
const dawn = `name: dawn
description: three quiet turns
seed: 11
campaign:
  regions:
    - id: arkham
      corruption: 20
      sanity: 70
  council:
    unity: 60
turns:
  - orders: []
    repeat: 3
assertions:
  - type: final_state
    field: turn
    expect: 3
`

// joke ends in the cosmic joke on its first turn.
const joke = `name: joke
description: the last of the truth comes out under an absurdist stance
seed: 5
campaign:
  regions:
    - id: arkham
      corruption: 40
      sanity: 50
  resources:
    sanity_fragments: 100
  revelation:
    truth_level: 95
    stance: absurdist
  total_summoned: 5
  council:
    unity: 60
  alignment:
    turn: 30
turns:
  - orders:
      - kind: reveal_truth
        reveal: 50
assertions:
  - type: ending
    ending: cosmic_joke
`

// scripted plays on fixed rolls, so it is never journaled.
const scripted = `name: scripted
description: a turn on fixed dice
rolls: [0.99, 0.99, 0.99]
campaign:
  regions:
    - id: arkham
  council:
    unity: 60
turns:
  - orders: []
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// decodeData unmarshals the data of a JSON envelope.
func decodeData(t *testing.T, out string) (CLIResponse, map[string]any) {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "data should be an object: %s", out)
	return resp, data
}

// journal plays doc into a fresh database and returns its path.
func journal(t *testing.T, doc string) string {
	t.Helper()
	dir := t.TempDir()
	path := writeFile(t, dir, "scenario.yaml", doc)
	db := filepath.Join(dir, "eldritch.db")

	_, err := execute(NewRunCommand(&RootOptions{Format: "text"}), "--db", db, path)
	require.NoError(t, err)
	return db
}
