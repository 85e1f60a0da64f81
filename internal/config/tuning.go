package config

import (
	"fmt"
	"os"
	"runtime"

	"searchit/internal/shading"

	"gopkg.in/yaml.v3"
)

// Tuning holds the renderer tunables read from tuning.yaml. Keys missing from
// the file keep their defaults.
type Tuning struct {
	ChunkDir      string         `yaml:"chunk_dir"`
	LoadRadius    int            `yaml:"load_radius"`
	Falloff       shading.Config `yaml:"shading"`
	MeshWorkers   int            `yaml:"mesh_workers"`
	StreamWorkers int            `yaml:"stream_workers"`
	CullMargin    float32        `yaml:"cull_margin"`
}

// DefaultTuning returns the built-in tunables.
func DefaultTuning() Tuning {
	return Tuning{
		ChunkDir:      "Chunks",
		LoadRadius:    2,
		Falloff:       shading.DefaultConfig(),
		MeshWorkers:   max(runtime.NumCPU()/2, 1),
		StreamWorkers: 2,
		CullMargin:    1,
	}
}

// LoadTuning reads a tuning file. A missing file yields the defaults.
func LoadTuning(path string) (Tuning, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultTuning(), nil
	}
	if err != nil {
		return DefaultTuning(), fmt.Errorf("read tuning: %w", err)
	}
	return ParseTuning(raw)
}

// ParseTuning decodes YAML tunables over the defaults and validates them.
func ParseTuning(raw []byte) (Tuning, error) {
	t := DefaultTuning()
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return DefaultTuning(), fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return DefaultTuning(), err
	}
	return t, nil
}

// Validate checks value ranges.
func (t Tuning) Validate() error {
	if t.ChunkDir == "" {
		return fmt.Errorf("tuning.yaml: chunk_dir is empty")
	}
	if t.LoadRadius < MinRenderDistance || t.LoadRadius > MaxRenderDistance {
		return fmt.Errorf("tuning.yaml: load_radius %d outside [%d, %d]", t.LoadRadius, MinRenderDistance, MaxRenderDistance)
	}
	if t.MeshWorkers < 0 || t.StreamWorkers < 0 {
		return fmt.Errorf("tuning.yaml: worker counts must not be negative")
	}
	if err := t.Falloff.Validate(); err != nil {
		return fmt.Errorf("tuning.yaml: %w", err)
	}
	return nil
}

// Shading returns the configured distance falloff.
func (t Tuning) Shading() shading.Config {
	return t.Falloff
}

// Marshal renders the tunables back to YAML.
func (t Tuning) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}
