package vfs

import (
	"sync"

	"go.uber.org/zap"

	"github.com/parthos/desktop/backend/internal/infrastructure/logging"
	"github.com/parthos/desktop/backend/internal/shared/paths"
)

// Kind distinguishes directories from files. A node's kind never changes.
type Kind int

const (
	KindDir Kind = iota
	KindFile
)

// String returns the string representation of the kind
func (k Kind) String() string {
	if k == KindDir {
		return "dir"
	}
	return "file"
}

// NodeID indexes the node table. Ids are never reused after removal.
type NodeID int

const rootID NodeID = 0

type node struct {
	kind     Kind
	name     string
	parent   NodeID
	content  string
	children map[string]NodeID
	order    []string
}

// Node is a read-only copy of a tree node.
type Node struct {
	ID       NodeID   `json:"id"`
	Name     string   `json:"name"`
	Kind     Kind     `json:"kind"`
	Content  string   `json:"content,omitempty"`
	Children []string `json:"children,omitempty"`
}

// IsDir reports whether the node is a directory
func (n Node) IsDir() bool { return n.Kind == KindDir }

// Entry is one listing result.
type Entry struct {
	Name string `json:"name"`
	Dir  bool   `json:"dir"`
}

// String renders the entry with a trailing "/" for directories.
func (e Entry) String() string {
	if e.Dir {
		return e.Name + paths.Separator
	}
	return e.Name
}

// Tree is an in-memory file tree stored as an arena of nodes linked by id.
// All mutation goes through Tree methods; each successful mutation bumps
// Version so observers can tell whether anything changed.
type Tree struct {
	mu      sync.RWMutex
	nodes   []*node // nil entries are removed nodes
	version uint64
	logger  *zap.Logger
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the logger used for mutation events.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Tree) {
		t.logger = logger
	}
}

// New creates a tree holding only the root directory.
func New(opts ...Option) *Tree {
	t := &Tree{
		nodes:  []*node{{kind: KindDir, children: map[string]NodeID{}}},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Version returns a counter incremented by every successful mutation.
func (t *Tree) Version() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.version
}

// Len returns the number of live nodes, root included.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for _, nd := range t.nodes {
		if nd != nil {
			n++
		}
	}
	return n
}

// GetNode walks from the root following each segment of an absolute path.
func (t *Tree) GetNode(path string) (Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	id, ok := t.lookup(path)
	if !ok {
		return Node{}, false
	}
	return t.view(id), true
}

// NearestDir returns path if it names a directory, else its deepest
// ancestor that does. The root always qualifies.
func (t *Tree) NearestDir(path string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	segs := paths.Segments(path)
	id, depth := rootID, 0
	for _, seg := range segs {
		next, ok := t.nodes[id].children[seg]
		if !ok || t.nodes[next].kind != KindDir {
			break
		}
		id = next
		depth++
	}
	return paths.Join(segs[:depth])
}

// List returns the entries of the directory at path, in insertion order.
func (t *Tree) List(path, cwd string) ([]Entry, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	id, ok := t.lookup(Resolve(path, cwd))
	if !ok {
		return nil, pathErr(OpList, path, ErrNotFound)
	}
	dir := t.nodes[id]
	if dir.kind != KindDir {
		return nil, pathErr(OpList, path, ErrNotDirectory)
	}

	entries := make([]Entry, 0, len(dir.order))
	for _, name := range dir.order {
		child := t.nodes[dir.children[name]]
		entries = append(entries, Entry{Name: name, Dir: child.kind == KindDir})
	}
	return entries, nil
}

// ChangeDirectory validates a directory change and returns the new cwd.
// "~" names the home directory. On failure cwd is left to the caller unchanged.
func (t *Tree) ChangeDirectory(path, cwd string) (string, error) {
	target := path
	if target == paths.HomeSign {
		target = paths.Home
	}
	resolved := Resolve(target, cwd)

	t.mu.RLock()
	defer t.mu.RUnlock()

	id, ok := t.lookup(resolved)
	if !ok {
		return cwd, pathErr(OpCd, path, ErrNotFound)
	}
	if t.nodes[id].kind != KindDir {
		return cwd, pathErr(OpCd, path, ErrNotDirectory)
	}
	return paths.Join(paths.Segments(resolved)), nil
}

// ReadFile returns the content of the file at path.
func (t *Tree) ReadFile(path, cwd string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	id, ok := t.lookup(Resolve(path, cwd))
	if !ok {
		return "", pathErr(OpRead, path, ErrNotFound)
	}
	nd := t.nodes[id]
	if nd.kind == KindDir {
		return "", pathErr(OpRead, path, ErrIsDirectory)
	}
	return nd.content, nil
}

// MakeDirectory creates an empty directory. The parent must exist and the
// name must be free.
func (t *Tree) MakeDirectory(path, cwd string) error {
	resolved := Resolve(path, cwd)
	parentPath, name := paths.Split(resolved)

	t.mu.Lock()
	defer t.mu.Unlock()

	parentID, ok := t.lookup(parentPath)
	if name == "" || !ok {
		return pathErr(OpMkdir, path, ErrNotFound)
	}
	parent := t.nodes[parentID]
	if parent.kind != KindDir {
		return pathErr(OpMkdir, path, ErrNotFound)
	}
	if _, exists := parent.children[name]; exists {
		return pathErr(OpMkdir, path, ErrExists)
	}

	t.attach(parentID, &node{kind: KindDir, name: name, children: map[string]NodeID{}})
	t.logger.Debug("directory created", logging.Path(resolved))
	return nil
}

// Remove deletes the node at path. Protected paths are refused. A non-empty
// directory requires recursive.
func (t *Tree) Remove(path, cwd string, recursive bool) error {
	resolved := Resolve(path, cwd)
	if paths.IsProtected(resolved) {
		return pathErr(OpRm, path, ErrPermission)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	id, ok := t.lookup(resolved)
	if !ok {
		return pathErr(OpRm, path, ErrNotFound)
	}
	nd := t.nodes[id]
	if nd.kind == KindDir && len(nd.children) > 0 && !recursive {
		return pathErr(OpRm, path, ErrIsDirectory)
	}

	t.detach(id)
	t.logger.Debug("node removed", logging.Path(resolved), zap.Bool("recursive", recursive))
	return nil
}

// WriteFile creates or overwrites a file under an existing parent directory.
func (t *Tree) WriteFile(path, cwd, content string) error {
	resolved := Resolve(path, cwd)
	parentPath, name := paths.Split(resolved)

	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.lookup(resolved); ok {
		nd := t.nodes[id]
		if nd.kind == KindDir {
			return pathErr(OpWrite, path, ErrIsDirectory)
		}
		nd.content = content
		t.version++
		return nil
	}

	parentID, ok := t.lookup(parentPath)
	if name == "" || !ok || t.nodes[parentID].kind != KindDir {
		return pathErr(OpWrite, path, ErrInvalidPath)
	}

	t.attach(parentID, &node{kind: KindFile, name: name, content: content})
	t.logger.Debug("file created", logging.Path(resolved), zap.Int("bytes", len(content)))
	return nil
}

// lookup resolves an absolute path to a node id. Traversing through a file
// mid-path yields not found.
func (t *Tree) lookup(path string) (NodeID, bool) {
	if path == "" {
		return 0, false
	}
	id := rootID
	for _, seg := range paths.Segments(path) {
		nd := t.nodes[id]
		if nd.kind != KindDir {
			return 0, false
		}
		next, ok := nd.children[seg]
		if !ok {
			return 0, false
		}
		id = next
	}
	return id, true
}

func (t *Tree) attach(parentID NodeID, nd *node) NodeID {
	nd.parent = parentID
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, nd)

	parent := t.nodes[parentID]
	parent.children[nd.name] = id
	parent.order = append(parent.order, nd.name)
	t.version++
	return id
}

// detach unlinks a node from its parent and frees its whole subtree.
func (t *Tree) detach(id NodeID) {
	nd := t.nodes[id]
	parent := t.nodes[nd.parent]
	delete(parent.children, nd.name)
	for i, name := range parent.order {
		if name == nd.name {
			parent.order = append(parent.order[:i:i], parent.order[i+1:]...)
			break
		}
	}

	stack := []NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range t.nodes[cur].children {
			stack = append(stack, child)
		}
		t.nodes[cur] = nil
	}
	t.version++
}

func (t *Tree) view(id NodeID) Node {
	nd := t.nodes[id]
	out := Node{ID: id, Name: nd.name, Kind: nd.kind, Content: nd.content}
	if nd.kind == KindDir {
		out.Children = append([]string(nil), nd.order...)
	}
	return out
}
