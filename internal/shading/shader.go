package shading

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Config holds the distance falloff tunables. It is a value type; a Shader
// copies it at construction.
type Config struct {
	MinDistance float32 `yaml:"min_distance"`
	MaxDistance float32 `yaml:"max_distance"`
	MinShade    float32 `yaml:"min_shade"`
	MaxShade    float32 `yaml:"max_shade"`
}

// DefaultConfig is the standard falloff.
func DefaultConfig() Config {
	return Config{MinDistance: 2, MaxDistance: 20, MinShade: 0.5, MaxShade: 1}
}

// DramaticConfig darkens distant geometry much more aggressively.
func DramaticConfig() Config {
	return Config{MinDistance: 1, MaxDistance: 30, MinShade: 0.05, MaxShade: 1}
}

// Validate reports configurations the falloff cannot be computed from.
func (c Config) Validate() error {
	if c.MinDistance < 0 {
		return fmt.Errorf("shading: min distance %v is negative", c.MinDistance)
	}
	if c.MaxDistance <= c.MinDistance {
		return fmt.Errorf("shading: max distance %v must exceed min distance %v", c.MaxDistance, c.MinDistance)
	}
	if c.MinShade < 0 || c.MaxShade < c.MinShade {
		return fmt.Errorf("shading: shade range [%v, %v] is invalid", c.MinShade, c.MaxShade)
	}
	return nil
}

// Shader darkens colors with distance from the camera.
type Shader struct {
	cfg Config
}

// New returns a shader for cfg.
func New(cfg Config) Shader {
	return Shader{cfg: cfg}
}

// Config returns the tunables the shader was built with.
func (s Shader) Config() Config {
	return s.cfg
}

// Factor returns the brightness multiplier for a distance.
func (s Shader) Factor(distance float32) float32 {
	c := s.cfg
	if distance <= c.MinDistance {
		return c.MaxShade
	}
	if distance >= c.MaxDistance {
		return c.MinShade
	}
	t := (distance - c.MinDistance) / (c.MaxDistance - c.MinDistance)
	return c.MaxShade - t*(c.MaxShade-c.MinShade)
}

// Shade returns base scaled by the factor for the vertex-to-camera distance,
// clamped to [0,1] per component.
func (s Shader) Shade(base, vertex, camera mgl32.Vec3) mgl32.Vec3 {
	f := s.Factor(vertex.Sub(camera).Len())
	return mgl32.Vec3{
		mgl32.Clamp(base[0]*f, 0, 1),
		mgl32.Clamp(base[1]*f, 0, 1),
		mgl32.Clamp(base[2]*f, 0, 1),
	}
}

// ShadeBatch writes shaded colors into dst for every vertex. base, positions
// and dst must have the same length; dst may alias base.
func (s Shader) ShadeBatch(dst, base, positions []mgl32.Vec3, camera mgl32.Vec3) {
	if len(base) != len(positions) || len(dst) != len(positions) {
		panic(fmt.Sprintf("shading: batch lengths differ: dst=%d base=%d positions=%d", len(dst), len(base), len(positions)))
	}
	for i, p := range positions {
		dst[i] = s.Shade(base[i], p, camera)
	}
}
