package markup

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-drift/controls/pkg/controls"
	"github.com/go-drift/controls/pkg/errors"
	"github.com/go-drift/controls/pkg/tree"
)

// BuildOptions controls how a document is turned into nodes.
type BuildOptions struct {
	// Strict rejects unknown kinds and duplicate names. Otherwise they are
	// reported through errors.Warn and building continues.
	Strict bool
	// Logger receives debug records for each element. Nil discards them.
	Logger *slog.Logger
}

// Result is a built, detached node tree.
type Result struct {
	// Root is the node built from the document root.
	Root *tree.Node
	// Pending holds, in document order, the nodes whose scope was left open
	// because their element set deferInit.
	Pending []*tree.Node

	names map[string]*tree.Node
}

// Named returns the node built for the element carrying name.
func (r *Result) Named(name string) (*tree.Node, bool) {
	n, ok := r.names[name]
	return n, ok
}

// Close ends the initialization scopes left open by deferInit, innermost
// first. Closing an already closed result does nothing.
func (r *Result) Close() error {
	var errs []error
	for i := len(r.Pending) - 1; i >= 0; i-- {
		if err := r.Pending[i].EndInit(); err != nil {
			errs = append(errs, err)
		}
	}
	r.Pending = nil
	return stderrors.Join(errs...)
}

// AttachTo links the built root under container, using SetChild for
// single-child containers and AddChild otherwise.
func (r *Result) AttachTo(container *tree.Node) error {
	if container.ContentModel() == tree.SingleChild {
		return tree.SetChild(container, r.Root)
	}
	return tree.AddChild(container, r.Root)
}

type builder struct {
	opts    BuildOptions
	logger  *slog.Logger
	result  *Result
	inherit []inheritLink
}

type inheritLink struct {
	node *tree.Node
	from string
	path string
	line int
}

// Build creates the node tree described by the document. Nodes are created
// detached; attach the result with [Result.AttachTo].
func (d *Document) Build(opts BuildOptions) (*Result, error) {
	b := &builder{
		opts:   opts,
		logger: opts.Logger,
		result: &Result{names: make(map[string]*tree.Node)},
	}
	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	root, err := b.build(d.Root, "root")
	if err != nil {
		return nil, &errors.LifecycleError{Op: "markup.Build", Kind: errors.KindMarkup, Err: err}
	}
	for _, link := range b.inherit {
		target, ok := b.result.names[link.from]
		if !ok {
			return nil, &errors.LifecycleError{
				Op:   "markup.Build",
				Kind: errors.KindMarkup,
				Err:  &errors.MarkupError{Path: link.path, Line: link.line, Reason: fmt.Sprintf("inheritFrom names unknown element %q", link.from)},
			}
		}
		link.node.SetInheritanceParent(target)
	}
	b.result.Root = root
	return b.result, nil
}

func (b *builder) build(e *Element, path string) (*tree.Node, error) {
	n, err := b.create(e, path)
	if err != nil {
		return nil, err
	}

	n.BeginInit()
	if e.Name != "" {
		if err := b.claimName(n, e, path); err != nil {
			return nil, err
		}
	}
	n.Classes().Add(e.Classes...)
	if e.InheritFrom != "" {
		b.inherit = append(b.inherit, inheritLink{node: n, from: e.InheritFrom, path: path, line: e.line})
	}

	if e.Child != nil {
		child, err := b.build(e.Child, path+".child")
		if err != nil {
			return nil, err
		}
		if err := tree.SetChild(n, child); err != nil {
			return nil, &errors.MarkupError{Path: path, Line: e.line, Err: err}
		}
	}
	for i, ce := range e.Children {
		child, err := b.build(ce, fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return nil, err
		}
		if err := tree.AddChild(n, child); err != nil {
			return nil, &errors.MarkupError{Path: path, Line: e.line, Err: err}
		}
	}

	b.logger.Debug("markup element built", "path", path, "node", n.String(), "deferInit", e.DeferInit)
	if e.DeferInit {
		b.result.Pending = append(b.result.Pending, n)
		return n, nil
	}
	if err := n.EndInit(); err != nil {
		return nil, &errors.MarkupError{Path: path, Line: e.line, Err: err}
	}
	return n, nil
}

func (b *builder) create(e *Element, path string) (*tree.Node, error) {
	if n, ok := controls.New(e.Kind); ok {
		return n, nil
	}
	problem := &errors.MarkupError{Path: path, Line: e.line, Reason: fmt.Sprintf("unknown kind %q", e.Kind)}
	if b.opts.Strict {
		return nil, problem
	}
	errors.Warn("markup.Build", errors.KindMarkup, problem)

	model := tree.NoChildren
	switch {
	case e.Child != nil:
		model = tree.SingleChild
	case len(e.Children) > 0:
		model = tree.ManyChildren
	}
	return tree.NewNode(e.Kind, model), nil
}

func (b *builder) claimName(n *tree.Node, e *Element, path string) error {
	if _, taken := b.result.names[e.Name]; taken {
		problem := &errors.MarkupError{Path: path, Line: e.line, Reason: fmt.Sprintf("duplicate name %q", e.Name)}
		if b.opts.Strict {
			return problem
		}
		errors.Warn("markup.Build", errors.KindMarkup, problem)
		// The first element keeps the name; this one stays unnamed.
		return nil
	}
	b.result.names[e.Name] = n
	if err := n.SetName(e.Name); err != nil {
		return &errors.MarkupError{Path: path, Line: e.line, Err: err}
	}
	return nil
}
