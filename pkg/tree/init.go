package tree

// BeginInit opens an initialization scope on n. Scopes nest; while any is
// open the node is not styled, not registered and hidden from lookup, and
// its name may be changed.
func BeginInit(n *Node) {
	n.initDepth++
}

// EndInit closes an initialization scope. It fails with an InvalidStateError
// when no scope is open.
//
// Closing the outermost scope of an attached node completes it: the
// Initialized notification fires (once per attach episode), styles are
// applied and the name is registered. Closing it on a detached node marks
// the node initialized and defers styling to the next attach.
//
// Called from a listener while the same tree is mid-traversal, EndInit only
// queues the completion and returns nil. Errors raised by that completion,
// such as a duplicate name, are returned by the outer mutating call that
// started the traversal.
func EndInit(n *Node) error {
	if n.initDepth == 0 {
		return invalid("tree.EndInit", n, "EndInit called without a matching BeginInit")
	}
	n.initDepth--
	if n.initDepth > 0 {
		return nil
	}

	if t := n.tree; t != nil {
		return t.run(func() {
			t.schedule(visit{node: n, kind: visitComplete})
		})
	}
	if n.phase == PhaseDetached {
		n.phase = PhaseDetachedInitialized
		n.preinitialized = true
		n.initialized.emit(n)
	}
	return nil
}

// complete drives an attached node with no open scope through
// initialization, styling and name registration.
func (t *Tree) complete(n *Node) {
	if n.phase == PhasePending {
		n.phase = PhaseInitialized
		t.logger.Debug("node initialized", "node", n.String())
		n.initialized.emit(n)
		t.notify(func(o Observer) { o.NodeInitialized(n) })
		if !t.linked(n) || n.initDepth > 0 {
			return
		}
	}
	t.maybeStyle(n)
	if !t.linked(n) || n.initDepth > 0 {
		return
	}
	t.syncName(n)
}

// maybeStyle applies styles exactly once per episode. It is a no-op unless
// the node is attached, initialized, unstyled and has no open scope.
func (t *Tree) maybeStyle(n *Node) {
	if n == t.root || n.phase != PhaseInitialized || n.initDepth > 0 {
		return
	}
	if t.styler != nil {
		t.styler.ApplyStyles(n)
	}
	if n.phase != PhaseInitialized {
		return
	}
	n.phase = PhaseStyled
	t.logger.Debug("node styled", "node", n.String())
	t.notify(func(o Observer) { o.NodeStyled(n) })
}

func (t *Tree) syncName(n *Node) {
	if n.initDepth > 0 || !n.IsInitialized() || n.registeredAs == n.name {
		return
	}
	t.registry.remove(n)
	if n.name == "" {
		return
	}
	if err := t.registry.add(n); err != nil {
		t.errs = append(t.errs, err)
	}
}
