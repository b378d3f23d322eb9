package vfs

import "github.com/parthos/desktop/backend/internal/shared/paths"

// Resolve normalizes path against cwd. Absolute paths pass through unchanged.
// Relative segments are applied one at a time: "." is skipped, ".." pops a
// segment (and is a no-op at the root), anything else is pushed.
func Resolve(path, cwd string) string {
	if paths.IsAbs(path) {
		return path
	}

	stack := paths.Segments(cwd)
	for _, seg := range paths.Segments(path) {
		switch seg {
		case ".":
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, seg)
		}
	}
	return paths.Join(stack)
}
