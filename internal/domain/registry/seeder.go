package registry

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/parthos/desktop/backend/internal/shared/types"
)

//go:embed apps.yaml
var builtinApps []byte

// Seed parses a YAML list of app descriptors and registers each of them.
func (m *Manager) Seed(data []byte) error {
	var descs []types.AppDescriptor
	if err := yaml.Unmarshal(data, &descs); err != nil {
		return fmt.Errorf("failed to parse app catalog: %w", err)
	}
	for _, desc := range descs {
		if err := m.Register(desc); err != nil {
			return err
		}
	}
	return nil
}

// Default returns a catalog seeded with the built-in applications.
func Default() *Manager {
	m := NewManager()
	if err := m.Seed(builtinApps); err != nil {
		panic(err)
	}
	return m
}
