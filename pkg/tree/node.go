package tree

import (
	"slices"

	"github.com/go-drift/controls/pkg/errors"
)

// AttachEvent is delivered to attached and detached listeners.
type AttachEvent struct {
	// Node is the node that joined or left the tree.
	Node *Node
	// Root is the root of the tree involved.
	Root *Node
}

// ParentChange is delivered to parent-changed listeners.
type ParentChange struct {
	Node *Node
	Old  *Node
	New  *Node
}

// Node is an entity in the logical control tree.
//
// The container owns its children; parent and inheritance parent are
// back-references only. Topology changes go through [SetChild],
// [AddChild], [InsertChild] and [RemoveChild].
type Node struct {
	kind  string
	model ContentModel

	parent            *Node
	inheritanceParent *Node
	children          []*Node
	tree              *Tree

	name         string
	registeredAs string
	classes      Classes

	phase     Phase
	initDepth int
	// preinitialized is set when initialization completed while the node
	// was detached. Such nodes keep their initialized state across detach.
	preinitialized bool

	attached      signal[AttachEvent]
	detached      signal[AttachEvent]
	parentChanged signal[ParentChange]
	initialized   signal[*Node]
	styleDetach   signal[*Node]
}

// NewNode creates a detached, uninitialized node.
// kind names the control type and is what [OfKind] filters match.
func NewNode(kind string, model ContentModel) *Node {
	return &Node{kind: kind, model: model}
}

// Kind returns the control type name.
func (n *Node) Kind() string {
	return n.kind
}

// ContentModel returns how many children the node accepts.
func (n *Node) ContentModel() ContentModel {
	return n.model
}

// String returns "Kind#name", or just the kind for unnamed nodes.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.name == "" {
		return n.kind
	}
	return n.kind + "#" + n.name
}

// Name returns the node's name, or "" when unnamed.
func (n *Node) Name() string {
	return n.name
}

// SetName changes the node's name. It fails with an InvalidStateError
// whenever the node is attached and has no open initialization scope,
// whether or not its initialization has completed yet.
func (n *Node) SetName(name string) error {
	if n.phase.Attached() && n.initDepth == 0 {
		return &errors.InvalidStateError{
			Op:     "tree.SetName",
			Node:   n.String(),
			Reason: "name cannot change after the node is attached and initialized",
		}
	}
	n.name = name
	return nil
}

// Classes returns the node's mutable class set.
func (n *Node) Classes() *Classes {
	return &n.classes
}

// Parent returns the logical parent, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// InheritanceParent returns the node used for inherited value lookup.
func (n *Node) InheritanceParent() *Node {
	return n.inheritanceParent
}

// SetInheritanceParent lets an external owner set the inheritance parent
// explicitly. A value set before the node is linked survives linking, but
// any later removal from the logical parent clears it.
func (n *Node) SetInheritanceParent(p *Node) {
	n.inheritanceParent = p
}

// Children returns a copy of the logical children in order.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// Tree returns the tree the node is attached to, or nil when detached.
func (n *Node) Tree() *Tree {
	return n.tree
}

// Phase returns the node's lifecycle phase.
func (n *Node) Phase() Phase {
	return n.phase
}

// IsAttached reports whether the node is reachable from a root.
func (n *Node) IsAttached() bool {
	return n.phase.Attached()
}

// IsInitialized reports whether the node's initialization has completed.
func (n *Node) IsInitialized() bool {
	return n.phase.Initialized()
}

// IsStyled reports whether styles were applied during the current episode.
func (n *Node) IsStyled() bool {
	return n.phase == PhaseStyled
}

// InitDepth returns the number of open initialization scopes.
func (n *Node) InitDepth() int {
	return n.initDepth
}

// OnAttached registers a listener called when the node joins a tree.
// The returned function unsubscribes it.
func (n *Node) OnAttached(fn func(AttachEvent)) func() {
	return n.attached.add(fn)
}

// OnDetached registers a listener called when the node leaves a tree.
func (n *Node) OnDetached(fn func(AttachEvent)) func() {
	return n.detached.add(fn)
}

// OnParentChanged registers a listener called when the logical parent
// changes. When the change attaches the node, the attached notification
// runs first.
func (n *Node) OnParentChanged(fn func(ParentChange)) func() {
	return n.parentChanged.add(fn)
}

// OnInitialized registers a listener called when initialization completes.
func (n *Node) OnInitialized(fn func(*Node)) func() {
	return n.initialized.add(fn)
}

// OnStyleDetach registers a listener called when a styled node leaves the
// tree, so applied styles can be torn down.
func (n *Node) OnStyleDetach(fn func(*Node)) func() {
	return n.styleDetach.add(fn)
}

// BeginInit opens an initialization scope. See [BeginInit].
func (n *Node) BeginInit() {
	BeginInit(n)
}

// EndInit closes an initialization scope. See [EndInit].
func (n *Node) EndInit() error {
	return EndInit(n)
}

func (n *Node) isAncestorOf(other *Node) bool {
	for current := other; current != nil; current = current.parent {
		if current == n {
			return true
		}
	}
	return false
}
