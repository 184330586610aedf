package tree

import (
	stderrors "errors"
	"fmt"
	"slices"

	"github.com/go-drift/controls/pkg/errors"
)

type visitKind uint8

const (
	visitAttach visitKind = iota
	visitDetach
	visitComplete
)

// visit is one unit of traversal work. change is set only on the node whose
// parent link was changed by the mutation.
type visit struct {
	node   *Node
	kind   visitKind
	change *ParentChange
}

// SetChild replaces the child of a single-child container. The old child's
// subtree is detached first, then the new child is linked and, when the
// container is attached, its subtree is attached in pre-order.
//
// Validation errors are returned before anything changes. Errors raised
// while completing nodes, such as duplicate names, are returned after the
// whole traversal has run.
func SetChild(container, child *Node) error {
	const op = "tree.SetChild"
	if container == nil {
		return invalid(op, nil, "container is nil")
	}
	if container.model != SingleChild {
		return invalid(op, container, fmt.Sprintf("container holds %s children, not a single child", container.model))
	}
	var old *Node
	if len(container.children) > 0 {
		old = container.children[0]
	}
	if old == child {
		return nil
	}
	if child != nil {
		if err := checkAdoptable(op, container, child); err != nil {
			return err
		}
	}
	return session(container.tree, func() {
		if old != nil {
			container.children = nil
			unlink(container, old)
		}
		if child != nil {
			container.children = []*Node{child}
			link(container, child)
		}
	})
}

// AddChild appends child to a multi-child container.
func AddChild(container, child *Node) error {
	if container == nil {
		return invalid("tree.AddChild", nil, "container is nil")
	}
	return insertChild("tree.AddChild", container, len(container.children), child)
}

// InsertChild inserts child at index in a multi-child container.
func InsertChild(container *Node, index int, child *Node) error {
	return insertChild("tree.InsertChild", container, index, child)
}

func insertChild(op string, container *Node, index int, child *Node) error {
	switch {
	case container == nil:
		return invalid(op, nil, "container is nil")
	case child == nil:
		return invalid(op, container, "child is nil")
	case container.model != ManyChildren:
		return invalid(op, container, fmt.Sprintf("container holds %s children, not many", container.model))
	case index < 0 || index > len(container.children):
		return invalid(op, container, fmt.Sprintf("index %d out of range [0,%d]", index, len(container.children)))
	}
	if err := checkAdoptable(op, container, child); err != nil {
		return err
	}
	return session(container.tree, func() {
		container.children = slices.Insert(container.children, index, child)
		link(container, child)
	})
}

// RemoveChild removes child from container and detaches its subtree.
func RemoveChild(container, child *Node) error {
	const op = "tree.RemoveChild"
	if container == nil || child == nil {
		return invalid(op, container, "container and child must be non-nil")
	}
	if child.parent != container {
		return invalid(op, container, child.String()+" is not a child of this container")
	}
	return session(container.tree, func() {
		container.children = slices.DeleteFunc(container.children, func(c *Node) bool {
			return c == child
		})
		unlink(container, child)
	})
}

func checkAdoptable(op string, container, child *Node) error {
	switch {
	case child.parent != nil:
		return invalid(op, child, "node already has a parent "+child.parent.String())
	case child.tree != nil && child.tree.root == child:
		return invalid(op, child, "a tree root cannot be adopted")
	case child.tree != nil:
		return invalid(op, child, "node is still being detached")
	case child.isAncestorOf(container):
		return invalid(op, child, "adopting the node would create a cycle")
	}
	return nil
}

func link(container, child *Node) {
	child.parent = container
	if child.inheritanceParent == nil {
		child.inheritanceParent = container
	}
	change := &ParentChange{Node: child, New: container}
	if t := container.tree; t != nil {
		t.schedule(visit{node: child, kind: visitAttach, change: change})
		return
	}
	child.parentChanged.emit(*change)
}

func unlink(container, child *Node) {
	child.parent = nil
	child.inheritanceParent = nil
	change := &ParentChange{Node: child, Old: container}
	if t := child.tree; t != nil {
		t.schedule(visit{node: child, kind: visitDetach, change: change})
		return
	}
	child.parentChanged.emit(*change)
}

func session(t *Tree, fn func()) error {
	if t == nil {
		fn()
		return nil
	}
	return t.run(fn)
}

// run executes fn and drains the work it schedules. A nested call, made by
// a listener during a traversal, only queues work; the outer call drains it
// and reports its errors.
func (t *Tree) run(fn func()) error {
	if t.draining {
		fn()
		return nil
	}
	t.draining = true
	defer func() {
		t.draining = false
		t.stack = t.stack[:0]
		t.pending = t.pending[:0]
		t.errs = nil
	}()

	fn()
	t.pushPending()
	for len(t.stack) > 0 {
		v := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]

		children := t.process(v)

		// Queued work goes below the children so the current subtree
		// finishes first.
		t.pushPending()
		for i := len(children) - 1; i >= 0; i-- {
			t.stack = append(t.stack, visit{node: children[i], kind: v.kind})
		}
	}

	err := stderrors.Join(t.errs...)
	t.errs = nil
	return err
}

func (t *Tree) schedule(v visit) {
	t.pending = append(t.pending, v)
}

func (t *Tree) pushPending() {
	for i := len(t.pending) - 1; i >= 0; i-- {
		t.stack = append(t.stack, t.pending[i])
	}
	t.pending = t.pending[:0]
}

func (t *Tree) process(v visit) []*Node {
	switch v.kind {
	case visitAttach:
		return t.attachNode(v)
	case visitDetach:
		return t.detachNode(v)
	case visitComplete:
		if t.linked(v.node) && v.node.initDepth == 0 {
			t.complete(v.node)
		}
	}
	return nil
}

// linked reports whether n is still reachable from t's root.
func (t *Tree) linked(n *Node) bool {
	if n == t.root {
		return true
	}
	return n.tree == t && n.parent != nil && n.parent.tree == t
}

func (t *Tree) attachNode(v visit) []*Node {
	n := v.node
	if n.tree != nil || n.parent == nil || n.parent.tree != t {
		t.emitChange(v)
		return nil
	}

	n.tree = t
	if n.inheritanceParent == nil {
		n.inheritanceParent = n.parent
	}
	n.phase = n.phase.attach()
	t.logger.Debug("node attached", "node", n.String(), "parent", n.parent.String(), "initDepth", n.initDepth)

	n.attached.emit(AttachEvent{Node: n, Root: t.root})
	t.notify(func(o Observer) { o.NodeAttached(n) })
	t.emitChange(v)

	if n.initDepth == 0 && t.linked(n) {
		t.complete(n)
	}
	if !t.linked(n) {
		return nil
	}
	return n.Children()
}

func (t *Tree) detachNode(v visit) []*Node {
	n := v.node
	if n.tree != t || (n.parent != nil && n.parent.tree == t) {
		t.emitChange(v)
		return nil
	}

	wasStyled := n.phase == PhaseStyled
	n.tree = nil
	if n.preinitialized {
		n.phase = PhaseDetachedInitialized
	} else {
		n.phase = PhaseDetached
	}
	n.inheritanceParent = nil
	t.registry.remove(n)
	t.logger.Debug("node detached", "node", n.String(), "styled", wasStyled)

	n.detached.emit(AttachEvent{Node: n, Root: t.root})
	t.notify(func(o Observer) { o.NodeDetached(n) })
	if wasStyled {
		n.styleDetach.emit(n)
		t.notify(func(o Observer) { o.NodeStyleDetached(n) })
	}
	t.emitChange(v)
	return n.Children()
}

// emitChange raises the parent-changed notification carried by v unless a
// later mutation has already superseded it.
func (t *Tree) emitChange(v visit) {
	c := v.change
	if c == nil {
		return
	}
	if v.kind == visitAttach && v.node.parent != c.New {
		return
	}
	if v.kind == visitDetach && v.node.parent == c.Old {
		return
	}
	v.node.parentChanged.emit(*c)
}

func invalid(op string, n *Node, reason string) error {
	var node string
	if n != nil {
		node = n.String()
	}
	return &errors.InvalidStateError{Op: op, Node: node, Reason: reason}
}
