// Package tree implements a mutable, lossless syntax tree and cursors for
// walking and editing it.
//
// The tree is plain data: tokens, tagged composites and untagged lists, with
// no parent pointers. A Cursor carries the path from the root so that
// navigation and in-place edits can be performed on any node.
package tree

import "errors"

// Lookup errors
var (
	// ErrNotFound indicates that a required ancestor, first match or previous
	// match does not exist.
	ErrNotFound = errors.New("node not found")
)

// Mutation errors
var (
	// ErrDetached indicates that the node cannot be located in its recorded
	// parent: the cursor was consumed by an earlier mutation, the node was
	// moved away or it was never attached to a tree.
	ErrDetached = errors.New("node is detached from its parent")

	// ErrNotComposite indicates a child sequence operation on a leaf.
	ErrNotComposite = errors.New("node has no child sequence")

	// ErrNilNode indicates an attempt to insert a nil node.
	ErrNilNode = errors.New("nil node")
)
