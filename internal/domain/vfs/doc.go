// Package vfs implements the session-scoped virtual file tree behind the
// terminal.
//
// The tree is an arena: nodes live in a table indexed by NodeID and refer to
// their parent and children by id. Every operation takes the path as typed
// plus the caller's working directory and resolves it with Resolve. Failures
// are returned as *PathError wrapping one of the sentinel errors, so callers
// can branch with errors.Is while Error() yields the shell message.
//
// Example Usage:
//
//	tree := vfs.NewDefault()
//	entries, err := tree.List(".", "/home/parth")
//	if errors.Is(err, vfs.ErrNotFound) { ... }
package vfs
