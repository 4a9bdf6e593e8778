package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrace_Text(t *testing.T) {
	db := journal(t, dawn)

	out, err := execute(NewTraceCommand(&RootOptions{Format: "text"}), "--db", db, "--turn", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "(dawn, seed 11)")
	assert.Contains(t, out, "=== Turns ===")
	assert.Contains(t, out, "  [0] ")
	assert.Contains(t, out, "  [2] ")
	assert.Contains(t, out, "=== Changes ===")
	assert.Contains(t, out, "turn_advanced source=calendar")
	assert.Contains(t, out, "Turns:  3")
}

func TestTrace_FiltersByKind(t *testing.T) {
	db := journal(t, joke)

	out, err := execute(NewTraceCommand(&RootOptions{Format: "json"}), "--db", db, "--kind", "victory_achieved")
	require.NoError(t, err)

	resp, data := decodeData(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "joke", data["scenario"])

	events, ok := data["events"].([]any)
	require.True(t, ok)
	require.Len(t, events, 1)
	ev := events[0].(map[string]any)
	assert.Equal(t, "victory_achieved", ev["kind"])
	assert.Equal(t, 30.0, ev["turn"])

	turns, ok := data["turns"].([]any)
	require.True(t, ok)
	require.Len(t, turns, 1)
	turn := turns[0].(map[string]any)
	assert.Equal(t, []any{"reveal_truth"}, turn["orders"])
	assert.Equal(t, "cosmic_joke", turn["ending"])
}

func TestTrace_UnknownKindIsEmpty(t *testing.T) {
	db := journal(t, dawn)

	out, err := execute(NewTraceCommand(&RootOptions{Format: "text"}), "--db", db, "--kind", "no_such_kind")
	require.NoError(t, err)
	assert.Contains(t, out, "(no events)")
	assert.Contains(t, out, "Events: 0")
}

func TestTrace_UnknownRun(t *testing.T) {
	db := journal(t, dawn)

	_, err := execute(NewTraceCommand(&RootOptions{Format: "text"}), "--db", db, "--run", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFormatMeta_SortedKeys(t *testing.T) {
	got := formatMeta(map[string]string{"site": "s1", "entity": "e1", "ending": "banishment"})
	assert.Equal(t, "{ending=banishment, entity=e1, site=s1}", got)
}
