package diagnostics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/controls/pkg/controls"
	"github.com/go-drift/controls/pkg/tree"
)

func TestRecorderOrdersAttachAndDetach(t *testing.T) {
	rec := NewRecorder()
	tr := tree.NewTree(tree.WithObserver(rec))
	b := controls.Named(controls.KindBorder, "b")
	c := controls.Named(controls.KindControl, "c")
	require.NoError(t, tree.SetChild(b, c))
	rec.TrackSubtree(b)

	require.NoError(t, tree.SetChild(tr.Root(), b))
	assert.Equal(t, []string{
		"attached Border#b",
		"parent-changed Border#b (nil -> Root)",
		"initialized Border#b",
		"styled Border#b",
		"attached Control#c",
		"initialized Control#c",
		"styled Control#c",
	}, rec.Strings())

	rec.Reset()
	require.NoError(t, tree.SetChild(tr.Root(), nil))
	assert.Equal(t, []string{
		"detached Border#b",
		"style-detached Border#b",
		"parent-changed Border#b (Root -> nil)",
		"detached Control#c",
		"style-detached Control#c",
	}, rec.Strings())

	events := rec.Events()
	require.Len(t, events, 5)
	assert.Same(t, tr.Root(), events[2].Old)
	assert.Nil(t, events[2].New)
}

func TestRecorderStopRemovesListeners(t *testing.T) {
	rec := NewRecorder()
	c := controls.NewControl()
	rec.Track(c)
	rec.Stop()

	require.NoError(t, tree.SetChild(controls.NewBorder(), c))
	assert.Empty(t, rec.Events())
}

func TestWalkVisitsInDocumentOrder(t *testing.T) {
	panel := controls.Named(controls.KindPanel, "p")
	border := controls.Named(controls.KindBorder, "b")
	require.NoError(t, tree.AddChild(panel, border))
	require.NoError(t, tree.SetChild(border, controls.Named(controls.KindControl, "inner")))
	require.NoError(t, tree.AddChild(panel, controls.Named(controls.KindControl, "last")))

	var seen []string
	Walk(panel, func(n *tree.Node, depth int) bool {
		seen = append(seen, n.String())
		return n.Kind() != controls.KindBorder || depth == 0
	})
	assert.Equal(t, []string{"Panel#p", "Border#b", "Control#last"}, seen)
}

func cardTree(t *testing.T) (*tree.Tree, *tree.Node) {
	t.Helper()
	tr := tree.NewTree()
	card := controls.Named(controls.KindBorder, "card")
	card.Classes().Add("card")
	body := controls.NewStackPanel()
	subtitle := controls.Named(controls.KindControl, "subtitle")
	subtitle.SetInheritanceParent(card)
	subtitle.BeginInit()

	require.NoError(t, tree.SetChild(card, body))
	require.NoError(t, tree.AddChild(body, controls.Named(controls.KindControl, "title")))
	require.NoError(t, tree.AddChild(body, subtitle))
	require.NoError(t, tree.SetChild(tr.Root(), card))
	return tr, card
}

func TestCaptureMatchesGolden(t *testing.T) {
	_, card := cardTree(t)

	snap := Capture(card)

	assert.Equal(t, 4, snap.Count())
	snap.MatchesFile(t, "testdata/card.snapshot.json")
}

func TestSnapshotDiff(t *testing.T) {
	_, card := cardTree(t)
	before := Capture(card)
	assert.Empty(t, before.Diff(Capture(card)))

	body := card.Children()[0]
	subtitle := body.Children()[1]
	require.NoError(t, subtitle.EndInit())

	diff := Capture(card).Diff(before)
	assert.Contains(t, diff, `-          "phase": "pending",`)
	assert.Contains(t, diff, `+          "phase": "styled",`)
	assert.True(t, strings.HasPrefix(diff, "--- expected\n+++ actual\n@@ "), diff)
	assert.Contains(t, diff, `-          "initDepth": 1,`)
}

func TestSnapshotRoundTripsThroughFile(t *testing.T) {
	_, card := cardTree(t)
	path := t.TempDir() + "/nested/card.json"

	require.NoError(t, Capture(card).UpdateFile(path))
	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Empty(t, Capture(card).Diff(loaded))
}

func TestMetricsCountLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	tr := tree.NewTree(tree.WithObserver(m))
	panel := controls.NewPanel()
	require.NoError(t, tree.AddChild(panel, controls.NewControl()))
	require.NoError(t, tree.AddChild(panel, controls.NewControl()))
	require.NoError(t, tree.SetChild(tr.Root(), panel))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.Events().WithLabelValues("attached")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Events().WithLabelValues("styled")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Attached()))

	require.NoError(t, tree.RemoveChild(panel, panel.Children()[0]))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Attached()))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Events().WithLabelValues("style-detached")))

	count, err := testutil.GatherAndCount(reg, "controls_lifecycle_events_total")
	require.NoError(t, err)
	assert.Equal(t, 5, count, "one series per observed event kind")
}

func TestMetricsRegisterTwiceFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)
	_, err = NewMetrics(reg)
	assert.Error(t, err)

	m, err := NewMetrics(nil)
	require.NoError(t, err)
	assert.NotNil(t, m)
}
