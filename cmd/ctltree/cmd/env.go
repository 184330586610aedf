package cmd

import (
	"log/slog"

	"github.com/go-drift/controls/cmd/ctltree/internal/config"
	"github.com/go-drift/controls/pkg/markup"
	"github.com/go-drift/controls/pkg/tree"
)

// env is the state shared by commands once the root has resolved config.
type env struct {
	cfg    *config.Resolved
	logger *slog.Logger
}

// load parses and builds the document at path.
func (e *env) load(path string) (*markup.Result, error) {
	doc, err := markup.Load(path)
	if err != nil {
		return nil, err
	}
	if markup.NewerThanCurrent(doc.Version) {
		e.logger.Warn("document is newer than this tool", "path", path, "version", doc.Version, "current", markup.CurrentVersion)
	}
	return doc.Build(markup.BuildOptions{Strict: e.cfg.Strict, Logger: e.logger})
}

// newTree creates an empty tree using the configured root and styles.
func (e *env) newTree(observers ...tree.Observer) *tree.Tree {
	opts := []tree.Option{
		tree.WithStyler(&ruleStyler{rules: e.cfg.Styles, logger: e.logger}),
		tree.WithLogger(e.logger),
		tree.WithRootKind(e.cfg.RootKind, e.cfg.RootModel),
	}
	for _, o := range observers {
		opts = append(opts, tree.WithObserver(o))
	}
	return tree.NewTree(opts...)
}

// mount loads path, attaches it under a fresh tree and closes deferred
// scopes unless keepOpen is set.
func (e *env) mount(path string, keepOpen bool, observers ...tree.Observer) (*tree.Tree, *markup.Result, error) {
	res, err := e.load(path)
	if err != nil {
		return nil, nil, err
	}
	tr := e.newTree(observers...)
	if err := res.AttachTo(tr.Root()); err != nil {
		return nil, nil, err
	}
	if !keepOpen {
		if err := res.Close(); err != nil {
			return nil, nil, err
		}
	}
	return tr, res, nil
}

// ruleStyler logs the configured style rules that match each node.
type ruleStyler struct {
	rules  []config.StyleRule
	logger *slog.Logger
}

func (s *ruleStyler) ApplyStyles(n *tree.Node) {
	for _, rule := range s.rules {
		if rule.Matches(n) {
			s.logger.Info("style applied", "node", n.String(), "class", rule.Class, "note", rule.Note)
		}
	}
}
