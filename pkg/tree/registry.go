package tree

import (
	"fmt"
	"slices"

	"github.com/go-drift/controls/pkg/errors"
)

// Registry maps names to nodes within one tree. Only attached nodes whose
// initialization has completed are entered; the first node to claim a name
// keeps it.
type Registry struct {
	names map[string]*Node
}

func newRegistry() *Registry {
	return &Registry{names: make(map[string]*Node)}
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	return len(r.names)
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.names))
	for name := range r.names {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) lookup(name string) (*Node, bool) {
	n, ok := r.names[name]
	return n, ok
}

func (r *Registry) add(n *Node) error {
	if existing, ok := r.names[n.name]; ok && existing != n {
		return &errors.InvalidStateError{
			Op:     "tree.Register",
			Node:   n.String(),
			Reason: fmt.Sprintf("name %q is already registered to another %s", n.name, existing.kind),
		}
	}
	r.names[n.name] = n
	n.registeredAs = n.name
	return nil
}

func (r *Registry) remove(n *Node) {
	if n.registeredAs == "" {
		return
	}
	if r.names[n.registeredAs] == n {
		delete(r.names, n.registeredAs)
	}
	n.registeredAs = ""
}

// Filter narrows a lookup to nodes of a particular capability.
type Filter func(*Node) bool

// OfKind matches nodes of the given kind.
func OfKind(kind string) Filter {
	return func(n *Node) bool {
		return n.kind == kind
	}
}

// WithClass matches nodes carrying class.
func WithClass(class string) Filter {
	return func(n *Node) bool {
		return n.classes.Contains(class)
	}
}

// Find returns the node registered under name in the tree from is attached
// to. Nodes with an open initialization scope are not found, and every
// filter must match. A detached from finds nothing.
func Find(from *Node, name string, filters ...Filter) (*Node, bool) {
	if from == nil || from.tree == nil {
		return nil, false
	}
	return from.tree.Find(name, filters...)
}
