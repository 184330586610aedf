// Package tree manages the lifecycle of nodes in a logical control tree.
//
// A [Tree] owns a root node and a name [Registry]. Containers adopt
// children through [SetChild] (single-child containers) or [AddChild],
// [InsertChild] and [RemoveChild] (multi-child containers). These are the
// only ways to change topology; each call walks the affected subtree and
// drives every node through a fixed sequence of notifications.
//
// # Lifecycle
//
// A node starts detached and uninitialized. When it becomes reachable from
// a root it is attached, and once no initialization scope is open it is
// initialized, styled once through the tree's [Styler], and registered
// under its name:
//
//	root := tree.NewTree(tree.WithStyler(styler))
//	border := tree.NewNode("Border", tree.SingleChild)
//	border.BeginInit()
//	tree.SetChild(root.Root(), border) // attached, not yet styled
//	border.SetName("main")             // allowed: a scope is open
//	border.EndInit()                   // Initialized, styled, registered
//
// Per node and per attach episode the order is always
//
//	attached → parent changed → initialized → styled
//
// and on removal
//
//	detached → style detach → parent changed
//
// # Initialization Scopes
//
// [Node.BeginInit] and [Node.EndInit] nest. Only the outermost EndInit
// completes initialization, and only while the node is attached does that
// completion style and register the node. A scope closed while detached
// marks the node initialized; styling waits for the next attach.
//
// # Re-entrancy
//
// Listeners may mutate the tree while being notified. Links change
// immediately, but the attach and detach walks a listener triggers are
// queued behind the subtree currently being visited, so a parent's episode
// always finishes before its descendants' and nested work never interleaves
// with a node mid-episode.
//
// Trees are NOT thread-safe. All calls must happen on the UI thread.
package tree
