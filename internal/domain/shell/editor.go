package shell

// Editor is the state of an open nano buffer. Path is what the user typed;
// resolved is fixed when the editor opens so a later cd cannot redirect saves.
type Editor struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Status   string `json:"status,omitempty"`
	resolved string
}

// Title is the editor header line.
func (e Editor) Title() string {
	return "Nano 2.9.3 | File: " + e.Path
}

func savedStatus(path string) string {
	return "[ Saved " + path + " ]"
}
