// Package controls defines the stock control kinds and constructors for
// building logical trees.
package controls

import (
	"slices"
	"sync"

	"github.com/go-drift/controls/pkg/tree"
)

// Stock kinds.
const (
	KindControl        = "Control"
	KindDecorator      = "Decorator"
	KindBorder         = "Border"
	KindContentControl = "ContentControl"
	KindPanel          = "Panel"
	KindStackPanel     = "StackPanel"
)

var (
	kindsMu sync.RWMutex
	kinds   = map[string]tree.ContentModel{
		KindControl:        tree.NoChildren,
		KindDecorator:      tree.SingleChild,
		KindBorder:         tree.SingleChild,
		KindContentControl: tree.SingleChild,
		KindPanel:          tree.ManyChildren,
		KindStackPanel:     tree.ManyChildren,
	}
)

// Register adds or replaces a control kind so markup documents can use it.
func Register(kind string, model tree.ContentModel) {
	kindsMu.Lock()
	defer kindsMu.Unlock()
	kinds[kind] = model
}

// Lookup returns the content model registered for kind.
func Lookup(kind string) (tree.ContentModel, bool) {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	model, ok := kinds[kind]
	return model, ok
}

// Kinds returns all registered kinds in sorted order.
func Kinds() []string {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// New creates a detached node of a registered kind.
func New(kind string) (*tree.Node, bool) {
	model, ok := Lookup(kind)
	if !ok {
		return nil, false
	}
	return tree.NewNode(kind, model), true
}

// NewControl creates a leaf control.
func NewControl() *tree.Node { return tree.NewNode(KindControl, tree.NoChildren) }

// NewDecorator creates a single-child decorator.
func NewDecorator() *tree.Node { return tree.NewNode(KindDecorator, tree.SingleChild) }

// NewBorder creates a single-child border.
func NewBorder() *tree.Node { return tree.NewNode(KindBorder, tree.SingleChild) }

// NewContentControl creates a single-child content control.
func NewContentControl() *tree.Node { return tree.NewNode(KindContentControl, tree.SingleChild) }

// NewPanel creates a multi-child panel.
func NewPanel() *tree.Node { return tree.NewNode(KindPanel, tree.ManyChildren) }

// NewStackPanel creates a multi-child stack panel.
func NewStackPanel() *tree.Node { return tree.NewNode(KindStackPanel, tree.ManyChildren) }

// Named creates a node of kind with its name already set. Nodes are
// detached at creation, so setting the name cannot fail.
func Named(kind, name string) *tree.Node {
	n, ok := New(kind)
	if !ok {
		n = tree.NewNode(kind, tree.NoChildren)
	}
	_ = n.SetName(name)
	return n
}
