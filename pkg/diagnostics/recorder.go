package diagnostics

import (
	"fmt"

	"github.com/go-drift/controls/pkg/tree"
)

// EventKind identifies a lifecycle notification.
type EventKind int

const (
	EventAttached EventKind = iota
	EventDetached
	EventParentChanged
	EventInitialized
	EventStyled
	EventStyleDetached
)

func (k EventKind) String() string {
	switch k {
	case EventAttached:
		return "attached"
	case EventDetached:
		return "detached"
	case EventParentChanged:
		return "parent-changed"
	case EventInitialized:
		return "initialized"
	case EventStyled:
		return "styled"
	case EventStyleDetached:
		return "style-detached"
	default:
		return "unknown"
	}
}

// Event is one recorded notification. Old and New are set for
// EventParentChanged only.
type Event struct {
	Kind EventKind
	Node *tree.Node
	Old  *tree.Node
	New  *tree.Node
}

func (e Event) String() string {
	if e.Kind == EventParentChanged {
		return fmt.Sprintf("%s %s (%s -> %s)", e.Kind, e.Node, describe(e.Old), describe(e.New))
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Node)
}

func describe(n *tree.Node) string {
	if n == nil {
		return "nil"
	}
	return n.String()
}

// Recorder collects lifecycle events in the order they are delivered.
// Install it with tree.WithObserver; parent changes are only visible
// through per-node listeners, so call Track for the nodes of interest.
type Recorder struct {
	events []Event
	unsubs []func()
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) NodeAttached(n *tree.Node) { r.add(EventAttached, n) }
func (r *Recorder) NodeDetached(n *tree.Node) { r.add(EventDetached, n) }
func (r *Recorder) NodeInitialized(n *tree.Node) { r.add(EventInitialized, n) }
func (r *Recorder) NodeStyled(n *tree.Node) { r.add(EventStyled, n) }
func (r *Recorder) NodeStyleDetached(n *tree.Node) { r.add(EventStyleDetached, n) }

func (r *Recorder) add(kind EventKind, n *tree.Node) {
	r.events = append(r.events, Event{Kind: kind, Node: n})
}

// Track records parent changes of the given nodes.
func (r *Recorder) Track(nodes ...*tree.Node) {
	for _, n := range nodes {
		unsub := n.OnParentChanged(func(c tree.ParentChange) {
			r.events = append(r.events, Event{Kind: EventParentChanged, Node: c.Node, Old: c.Old, New: c.New})
		})
		r.unsubs = append(r.unsubs, unsub)
	}
}

// TrackSubtree calls Track for root and every current descendant.
func (r *Recorder) TrackSubtree(root *tree.Node) {
	Walk(root, func(n *tree.Node, _ int) bool {
		r.Track(n)
		return true
	})
}

// Stop removes the listeners installed by Track.
func (r *Recorder) Stop() {
	for _, unsub := range r.unsubs {
		unsub()
	}
	r.unsubs = nil
}

// Events returns the recorded events.
func (r *Recorder) Events() []Event {
	return append([]Event(nil), r.events...)
}

// Strings returns the recorded events formatted as "attached Border#b".
func (r *Recorder) Strings() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.String()
	}
	return out
}

// Reset discards recorded events but keeps tracking.
func (r *Recorder) Reset() {
	r.events = nil
}

// Walk visits root and its logical descendants depth-first in child order.
// Returning false from fn skips the node's children.
func Walk(root *tree.Node, fn func(n *tree.Node, depth int) bool) {
	type entry struct {
		node  *tree.Node
		depth int
	}
	stack := []entry{{root, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(e.node, e.depth) {
			continue
		}
		children := e.node.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, entry{children[i], e.depth + 1})
		}
	}
}
