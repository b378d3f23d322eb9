package vfs

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-yaml"
)

//go:embed layout.yaml
var defaultLayout []byte

// Layout describes the initial contents of a tree.
type Layout struct {
	Dirs  []string   `yaml:"dirs"`
	Files []FileSpec `yaml:"files"`
}

// FileSpec is one seeded file.
type FileSpec struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content"`
}

// ParseLayout decodes a YAML layout document.
func ParseLayout(data []byte) (Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("failed to parse layout: %w", err)
	}
	return l, nil
}

// DefaultLayout returns the built-in session layout.
func DefaultLayout() Layout {
	l, err := ParseLayout(defaultLayout)
	if err != nil {
		panic(err)
	}
	return l
}

// Seed applies a layout to the tree. Directories must be listed parent first.
func (t *Tree) Seed(l Layout) error {
	for _, dir := range l.Dirs {
		if err := t.MakeDirectory(dir, "/"); err != nil {
			return fmt.Errorf("failed to seed %s: %w", dir, err)
		}
	}
	for _, f := range l.Files {
		if err := t.WriteFile(f.Path, "/", f.Content); err != nil {
			return fmt.Errorf("failed to seed %s: %w", f.Path, err)
		}
	}
	return nil
}

// NewDefault creates a tree seeded with the built-in layout.
func NewDefault(opts ...Option) *Tree {
	t := New(opts...)
	if err := t.Seed(DefaultLayout()); err != nil {
		panic(err)
	}
	return t
}
