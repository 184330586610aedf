package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/controls/pkg/diagnostics"
	"github.com/go-drift/controls/pkg/errors"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(func() { errors.SetHandler(nil) })

	var stdout, stderr bytes.Buffer
	root := NewRootCmd("test")
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestTraceClosesDeferredScopes(t *testing.T) {
	out, _, err := run(t, "trace", "testdata/card.yaml")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"attached Border#card",
		"parent-changed Border#card (nil -> Root)",
		"styled Border#card",
		"attached StackPanel#body",
		"styled StackPanel#body",
		"attached Control#title",
		"styled Control#title",
		"attached Control#late",
		"initialized Control#late",
		"styled Control#late",
	}, lines(out))
}

func TestTraceKeepOpenWithMetrics(t *testing.T) {
	out, _, err := run(t, "trace", "--keep-open", "--metrics", "testdata/card.yaml")
	require.NoError(t, err)

	got := lines(out)
	assert.Equal(t, "attached Control#late", got[7])
	assert.Equal(t, "# HELP controls_attached_nodes Nodes currently attached to an observed tree, excluding roots.", got[8])
	for _, want := range []string{
		"# TYPE controls_attached_nodes gauge",
		"controls_attached_nodes 4",
		"# TYPE controls_lifecycle_events_total counter",
		`controls_lifecycle_events_total{event="attached"} 4`,
		`controls_lifecycle_events_total{event="styled"} 3`,
	} {
		assert.Contains(t, got[8:], want)
	}
	assert.NotContains(t, out, `event="initialized"`, "deferred scopes were left open")
}

func TestSnapshotCommand(t *testing.T) {
	out, _, err := run(t, "snapshot", "testdata/card.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, `"kind": "Border"`)
	assert.Contains(t, out, `"inheritsFrom": "Border#card"`)
	assert.NotContains(t, out, `"pending"`)

	path := filepath.Join(t.TempDir(), "snap.json")
	_, _, err = run(t, "snapshot", "--keep-open", "-o", path, "testdata/card.yaml")
	require.NoError(t, err)
	snap, err := diagnostics.LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, 4, snap.Count())
	assert.Equal(t, "pending", snap.Children[0].Children[1].Phase)
}

func TestTreeCommand(t *testing.T) {
	out, _, err := run(t, "tree", "--keep-open", "testdata/card.yaml")
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, 4)
	assert.Contains(t, got[0], "Border#card")
	assert.Contains(t, got[0], ".card")
	assert.Contains(t, got[1], "└── ")
	assert.Contains(t, got[2], "├── ")
	assert.Contains(t, got[2], "Control#title")
	assert.Contains(t, got[3], "pending")
	assert.Contains(t, got[3], "open scopes: 1")
	assert.Contains(t, got[3], "inherits Border#card")

	out, _, err = run(t, "tree", "--root", "testdata/card.yaml")
	require.NoError(t, err)
	assert.Contains(t, lines(out)[0], "Root")
}

func TestFindCommand(t *testing.T) {
	out, _, err := run(t, "find", "--kind", "Control", "testdata/card.yaml", "title")
	require.NoError(t, err)
	assert.Equal(t, "Control#title styled parent=StackPanel#body\n", out)

	_, _, err = run(t, "find", "--kind", "Border", "testdata/card.yaml", "title")
	assert.Error(t, err)

	_, _, err = run(t, "find", "--keep-open", "testdata/card.yaml", "late")
	assert.Error(t, err, "controls with open scopes are not findable")

	_, _, err = run(t, "find", "--class", "heading", "testdata/card.yaml", "title")
	assert.NoError(t, err)
}

func TestConfigStylesAndRoot(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "ctltree.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
log_level: info
root_kind: StackPanel
styles:
  - class: card
    note: rounded
`), 0o644))

	out, stderr, err := run(t, "--config", cfgPath, "tree", "--root", "testdata/card.yaml")
	require.NoError(t, err)
	assert.Contains(t, lines(out)[0], "StackPanel")
	assert.Contains(t, stderr, "style applied")
	assert.Contains(t, stderr, "node=Border#card")
	assert.Contains(t, stderr, "note=rounded")
}

func TestStrictFlag(t *testing.T) {
	_, _, err := run(t, "--strict", "trace", "testdata/gizmo.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown kind "Gizmo"`)

	out, stderr, err := run(t, "trace", "testdata/gizmo.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "attached Gizmo#odd")
	assert.Contains(t, stderr, "controls error")
}

func TestBadConfigFails(t *testing.T) {
	_, _, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "trace", "testdata/card.yaml")
	assert.Error(t, err)

	_, _, err = run(t, "--log-level", "loud", "trace", "testdata/card.yaml")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "--log-level", "loud", "version")
	require.NoError(t, err)
	assert.Equal(t, "ctltree version test (markup v1.0.0)\n", out)
}

func TestLenientDuplicateNamesStillMount(t *testing.T) {
	out, stderr, err := run(t, "find", "testdata/dup.yaml", "a")
	require.NoError(t, err)
	assert.Equal(t, "Control#a styled parent=Panel\n", out)
	assert.Contains(t, stderr, `duplicate name`)

	out, _, err = run(t, "trace", "testdata/dup.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "styled Border\n", "the later element is left unnamed")

	_, _, err = run(t, "--strict", "find", "testdata/dup.yaml", "a")
	assert.Error(t, err)
}
