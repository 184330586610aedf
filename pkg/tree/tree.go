package tree

import (
	"io"
	"log/slog"
)

// Styler applies matched styles to a node. It is called at most once per
// node per attach episode, after the node is both attached and initialized.
type Styler interface {
	ApplyStyles(n *Node)
}

// StylerFunc adapts a function to the Styler interface.
type StylerFunc func(n *Node)

// ApplyStyles calls f(n).
func (f StylerFunc) ApplyStyles(n *Node) {
	f(n)
}

// Observer receives lifecycle transitions for every node of a tree.
// Collaborators such as diagnostics and metrics use it; it is called after
// the node's own listeners.
type Observer interface {
	NodeAttached(n *Node)
	NodeDetached(n *Node)
	NodeInitialized(n *Node)
	NodeStyled(n *Node)
	NodeStyleDetached(n *Node)
}

// Option configures a Tree.
type Option func(*Tree)

// WithStyler sets the styling capability.
func WithStyler(s Styler) Option {
	return func(t *Tree) {
		t.styler = s
	}
}

// WithLogger sets the logger used for debug traces of tree mutations.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tree) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithObserver adds an observer. It may be given more than once.
func WithObserver(o Observer) Option {
	return func(t *Tree) {
		if o != nil {
			t.observers = append(t.observers, o)
		}
	}
}

// WithRootKind overrides the kind and content model of the root node.
// The default is a single-child "Root".
func WithRootKind(kind string, model ContentModel) Option {
	return func(t *Tree) {
		t.root.kind = kind
		t.root.model = model
	}
}

// Tree is a rooted control tree. The root is attached and initialized from
// creation and is the style root, so it is never passed to the Styler.
type Tree struct {
	root      *Node
	registry  *Registry
	styler    Styler
	logger    *slog.Logger
	observers []Observer

	// Work stack for the current traversal session. pending collects visits
	// scheduled while a node is mid-episode; they are moved onto the stack
	// below that node's children once its episode completes.
	stack    []visit
	pending  []visit
	draining bool
	errs     []error
}

// NewTree creates a tree with an attached root node.
func NewTree(opts ...Option) *Tree {
	t := &Tree{
		registry: newRegistry(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	t.root = &Node{kind: "Root", model: SingleChild}
	for _, opt := range opts {
		opt(t)
	}
	t.root.tree = t
	t.root.phase = PhaseInitialized
	return t
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Registry returns the tree's name registry.
func (t *Tree) Registry() *Registry {
	return t.registry
}

// Find looks up a registered, initialized node by name. See [Find].
func (t *Tree) Find(name string, filters ...Filter) (*Node, bool) {
	n, ok := t.registry.lookup(name)
	if !ok || n.tree != t || n.initDepth > 0 || !n.IsInitialized() {
		return nil, false
	}
	for _, filter := range filters {
		if filter != nil && !filter(n) {
			return nil, false
		}
	}
	return n, true
}

func (t *Tree) notify(fn func(Observer)) {
	for _, o := range t.observers {
		fn(o)
	}
}
