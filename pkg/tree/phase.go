package tree

// Phase is the lifecycle state of a node. It folds the attached,
// initialized and styled flags into one value so that impossible
// combinations, such as styled but detached, cannot occur.
type Phase uint8

const (
	// PhaseDetached is a node outside any tree that has not completed
	// initialization (or whose attached initialization was reset on detach).
	PhaseDetached Phase = iota
	// PhaseDetachedInitialized is a node outside any tree whose outermost
	// initialization scope closed while it was detached.
	PhaseDetachedInitialized
	// PhasePending is an attached node that has not completed initialization.
	PhasePending
	// PhaseInitialized is an attached, initialized node that has not been
	// styled yet.
	PhaseInitialized
	// PhaseStyled is an attached, initialized node whose styles were applied
	// during the current attach episode.
	PhaseStyled
)

func (p Phase) String() string {
	switch p {
	case PhaseDetached:
		return "detached"
	case PhaseDetachedInitialized:
		return "detached-initialized"
	case PhasePending:
		return "pending"
	case PhaseInitialized:
		return "initialized"
	case PhaseStyled:
		return "styled"
	default:
		return "unknown"
	}
}

// Attached reports whether the phase belongs to a node reachable from a root.
func (p Phase) Attached() bool {
	return p >= PhasePending
}

// Initialized reports whether initialization has completed.
func (p Phase) Initialized() bool {
	return p == PhaseDetachedInitialized || p == PhaseInitialized || p == PhaseStyled
}

// attach returns the phase a node moves to when it joins a tree.
func (p Phase) attach() Phase {
	if p == PhaseDetachedInitialized {
		return PhaseInitialized
	}
	return PhasePending
}

// ContentModel describes how many logical children a node may own.
type ContentModel uint8

const (
	// NoChildren is a leaf control.
	NoChildren ContentModel = iota
	// SingleChild is a decorator-like container with one child slot.
	SingleChild
	// ManyChildren is a panel-like container with an ordered child list.
	ManyChildren
)

func (m ContentModel) String() string {
	switch m {
	case NoChildren:
		return "none"
	case SingleChild:
		return "single"
	case ManyChildren:
		return "many"
	default:
		return "unknown"
	}
}
