package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/controls/pkg/controls"
	"github.com/go-drift/controls/pkg/errors"
	"github.com/go-drift/controls/pkg/tree"
)

// eventLog collects "event:Node" strings from listeners and the observer.
type eventLog struct {
	entries []string
}

func (l *eventLog) add(event string, n *tree.Node) {
	l.entries = append(l.entries, event+":"+n.String())
}

func (l *eventLog) NodeAttached(n *tree.Node)      { l.add("attached", n) }
func (l *eventLog) NodeDetached(n *tree.Node)      { l.add("detached", n) }
func (l *eventLog) NodeInitialized(n *tree.Node)   { l.add("initialized", n) }
func (l *eventLog) NodeStyled(n *tree.Node)        { l.add("styled", n) }
func (l *eventLog) NodeStyleDetached(n *tree.Node) { l.add("style-detached", n) }

func TestObserverSeesEpisodeOrder(t *testing.T) {
	log := &eventLog{}
	root := tree.NewTree(tree.WithObserver(log))
	outer := controls.Named(controls.KindBorder, "outer")
	inner := controls.Named(controls.KindControl, "inner")
	require.NoError(t, tree.SetChild(outer, inner))

	require.NoError(t, tree.SetChild(root.Root(), outer))
	require.NoError(t, tree.SetChild(root.Root(), nil))

	assert.Equal(t, []string{
		"attached:Border#outer", "initialized:Border#outer", "styled:Border#outer",
		"attached:Control#inner", "initialized:Control#inner", "styled:Control#inner",
		"detached:Border#outer", "style-detached:Border#outer",
		"detached:Control#inner", "style-detached:Control#inner",
	}, log.entries)
}

func TestListenerAttachingElsewhereRunsAfterCurrentSubtree(t *testing.T) {
	log := &eventLog{}
	root := tree.NewTree(tree.WithObserver(log), tree.WithRootKind("Root", tree.ManyChildren))
	side := controls.Named(controls.KindPanel, "side")
	require.NoError(t, tree.AddChild(root.Root(), side))

	a := controls.Named(controls.KindBorder, "a")
	b := controls.Named(controls.KindControl, "b")
	late := controls.Named(controls.KindControl, "late")
	require.NoError(t, tree.SetChild(a, b))

	var nestedErr error
	a.OnAttached(func(tree.AttachEvent) {
		nestedErr = tree.AddChild(side, late)
		assert.Same(t, side, late.Parent(), "links change immediately")
		assert.False(t, late.IsAttached(), "the walk is queued")
	})

	log.entries = nil
	require.NoError(t, tree.AddChild(root.Root(), a))
	require.NoError(t, nestedErr)

	assert.Equal(t, []string{
		"attached:Border#a", "initialized:Border#a", "styled:Border#a",
		"attached:Control#b", "initialized:Control#b", "styled:Control#b",
		"attached:Control#late", "initialized:Control#late", "styled:Control#late",
	}, log.entries)
	assert.True(t, late.IsStyled())
}

func TestListenerAddingChildToAttachingNodeVisitsItOnce(t *testing.T) {
	styler := newRecordingStyler()
	root := tree.NewTree(tree.WithStyler(styler))
	panel := controls.NewPanel()
	extra := controls.NewControl()

	attached := 0
	parentChanges := 0
	extra.OnAttached(func(tree.AttachEvent) { attached++ })
	extra.OnParentChanged(func(tree.ParentChange) {
		assert.Equal(t, 1, attached, "attached precedes parent changed")
		parentChanges++
	})
	panel.OnAttached(func(tree.AttachEvent) {
		require.NoError(t, tree.AddChild(panel, extra))
	})

	require.NoError(t, tree.SetChild(root.Root(), panel))

	assert.Equal(t, 1, attached)
	assert.Equal(t, 1, parentChanges)
	assert.Equal(t, 1, styler.calls[extra])
}

func TestListenerDetachingNodeDuringAttachSkipsStyling(t *testing.T) {
	styler := newRecordingStyler()
	root := tree.NewTree(tree.WithStyler(styler))
	node := controls.NewBorder()
	child := controls.NewControl()
	require.NoError(t, tree.SetChild(node, child))

	detached := 0
	node.OnDetached(func(tree.AttachEvent) { detached++ })
	node.OnAttached(func(tree.AttachEvent) {
		require.NoError(t, tree.SetChild(root.Root(), nil))
	})

	require.NoError(t, tree.SetChild(root.Root(), node))

	assert.Equal(t, 1, detached)
	assert.False(t, node.IsAttached())
	assert.False(t, child.IsAttached(), "the child was never reached")
	assert.Equal(t, 0, styler.total())
	assert.Nil(t, node.Parent())
}

func TestEndInitInsideAttachedListenerKeepsOrder(t *testing.T) {
	root := tree.NewTree()
	node := controls.NewBorder()
	var sequence []string

	node.BeginInit()
	node.OnAttached(func(tree.AttachEvent) {
		sequence = append(sequence, "attached")
		require.NoError(t, node.EndInit())
		assert.False(t, node.IsInitialized(), "completion is queued behind the episode")
	})
	node.OnParentChanged(func(tree.ParentChange) { sequence = append(sequence, "parent") })
	node.OnInitialized(func(*tree.Node) { sequence = append(sequence, "initialized") })

	require.NoError(t, tree.SetChild(root.Root(), node))

	assert.Equal(t, []string{"attached", "parent", "initialized"}, sequence)
	assert.True(t, node.IsStyled())
}

func TestRelinkingNodeWithQueuedDetachFails(t *testing.T) {
	root := tree.NewTree(tree.WithRootKind("Root", tree.ManyChildren))
	trigger := controls.NewControl()
	moving := controls.NewControl()
	other := controls.NewPanel()
	require.NoError(t, tree.AddChild(root.Root(), moving))
	require.NoError(t, tree.AddChild(root.Root(), other))

	var relinkErr error
	trigger.OnAttached(func(tree.AttachEvent) {
		require.NoError(t, tree.RemoveChild(root.Root(), moving))
		relinkErr = tree.AddChild(other, moving)
	})
	require.NoError(t, tree.AddChild(root.Root(), trigger))

	require.Error(t, relinkErr)
	assert.False(t, moving.IsAttached())
	assert.Nil(t, moving.Parent())

	require.NoError(t, tree.AddChild(other, moving), "once detached the node can move")
	assert.True(t, moving.IsStyled())
}

func TestNestedEndInitErrorsSurfaceFromOuterCall(t *testing.T) {
	root := tree.NewTree(tree.WithRootKind("Root", tree.ManyChildren))
	first := controls.Named(controls.KindControl, "x")
	second := controls.Named(controls.KindControl, "x")
	second.BeginInit()
	require.NoError(t, tree.AddChild(root.Root(), first))
	require.NoError(t, tree.AddChild(root.Root(), second))

	trigger := controls.NewControl()
	var innerErr error
	trigger.OnAttached(func(tree.AttachEvent) {
		innerErr = second.EndInit()
	})
	outerErr := tree.AddChild(root.Root(), trigger)

	assert.NoError(t, innerErr, "the nested call only queues completion")
	require.Error(t, outerErr)
	assert.True(t, errors.IsInvalidState(outerErr))
	assert.Contains(t, outerErr.Error(), `"x"`)

	found, ok := root.Find("x")
	require.True(t, ok)
	assert.Same(t, first, found)
	assert.True(t, second.IsStyled(), "the losing node still completes")
}

func TestSetNameRejectedWhilePendingAtDepthZero(t *testing.T) {
	root := tree.NewTree()
	node := controls.Named(controls.KindControl, "before")

	var renameErr error
	var phase tree.Phase
	node.OnAttached(func(tree.AttachEvent) {
		phase = node.Phase()
		renameErr = node.SetName("after")
	})
	require.NoError(t, tree.SetChild(root.Root(), node))

	assert.Equal(t, tree.PhasePending, phase)
	require.Error(t, renameErr)
	assert.True(t, errors.IsInvalidState(renameErr))
	assert.Equal(t, "before", node.Name())
	_, ok := root.Find("before")
	assert.True(t, ok)
}
