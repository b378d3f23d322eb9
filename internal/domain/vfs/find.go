package vfs

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/parthos/desktop/backend/internal/shared/paths"
)

// Find returns absolute paths below the directory at path whose path relative
// to that directory matches a doublestar pattern. Results follow a depth-first
// walk in insertion order.
func (t *Tree) Find(pattern, path, cwd string) ([]string, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, pathErr(OpFind, pattern, ErrInvalidPath)
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	base := Resolve(path, cwd)
	id, ok := t.lookup(base)
	if !ok {
		return nil, pathErr(OpFind, path, ErrNotFound)
	}
	if t.nodes[id].kind != KindDir {
		return nil, pathErr(OpFind, path, ErrNotDirectory)
	}

	var matches []string
	var walk func(id NodeID, rel []string)
	walk = func(id NodeID, rel []string) {
		nd := t.nodes[id]
		for _, name := range nd.order {
			childRel := append(rel[:len(rel):len(rel)], name)
			relPath := strings.Join(childRel, paths.Separator)
			if ok, _ := doublestar.Match(pattern, relPath); ok {
				matches = append(matches, paths.Join(append(paths.Segments(base), childRel...)))
			}
			child := nd.children[name]
			if t.nodes[child].kind == KindDir {
				walk(child, childRel)
			}
		}
	}
	walk(id, nil)
	return matches, nil
}
