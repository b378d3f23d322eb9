package paths

import "strings"

// Separator joins path segments in the virtual tree.
const Separator = "/"

// Fixed locations
const (
	Root     = "/"
	Homes    = "/home"
	User     = "parth"
	Home     = "/home/parth"
	HomeSign = "~"
)

// Seeded user directories
const (
	Projects  = "/home/parth/Projects"
	Documents = "/home/parth/Documents"
)

// Protected lists paths that can never be removed: the root and the
// ancestry of the home directory.
var Protected = []string{Root, Homes, Home}

// IsProtected reports whether an absolute path may not be removed.
func IsProtected(path string) bool {
	clean := Join(Segments(path))
	for _, p := range Protected {
		if clean == p {
			return true
		}
	}
	return false
}

// IsAbs reports whether path starts at the root.
func IsAbs(path string) bool {
	return strings.HasPrefix(path, Separator)
}

// Segments splits a path into its non-empty components.
func Segments(path string) []string {
	raw := strings.Split(path, Separator)
	out := raw[:0]
	for _, s := range raw {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Join builds an absolute path from segments.
func Join(segments []string) string {
	return Separator + strings.Join(segments, Separator)
}

// Split returns the parent path and final segment of an absolute path.
// The root has no final segment.
func Split(path string) (parent string, name string) {
	segs := Segments(path)
	if len(segs) == 0 {
		return "", ""
	}
	return Join(segs[:len(segs)-1]), segs[len(segs)-1]
}

// Display abbreviates the home directory prefix to "~" for prompts.
func Display(path string) string {
	if path == Home {
		return HomeSign
	}
	if strings.HasPrefix(path, Home+Separator) {
		return HomeSign + strings.TrimPrefix(path, Home)
	}
	return path
}

// StandardDirectories returns the directories every fresh tree contains.
func StandardDirectories() []string {
	return []string{Homes, Home, Projects, Documents}
}
