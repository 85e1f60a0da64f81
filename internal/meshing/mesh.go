package meshing

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexStride is number of float32 per interleaved vertex (pos.xyz + color.rgb)
const VertexStride = 6

// Mesh is an indexed triangle list with one color per vertex.
type Mesh struct {
	Positions []mgl32.Vec3
	Colors    []mgl32.Vec3
	Indices   []uint32
}

// FaceCount returns the number of quads in the mesh.
func (m *Mesh) FaceCount() int {
	if m == nil {
		return 0
	}
	return len(m.Positions) / 4
}

// Empty reports whether the mesh has no triangles.
func (m *Mesh) Empty() bool {
	return m == nil || len(m.Indices) == 0
}

// Validate checks the structural invariants of a quad mesh.
func (m *Mesh) Validate() error {
	if m == nil {
		return nil
	}
	if len(m.Positions) != len(m.Colors) {
		return fmt.Errorf("meshing: %d positions but %d colors", len(m.Positions), len(m.Colors))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("meshing: %d indices is not a triangle list", len(m.Indices))
	}
	if len(m.Positions)%4 != 0 || len(m.Indices) != len(m.Positions)/4*6 {
		return fmt.Errorf("meshing: %d positions and %d indices do not describe whole quads", len(m.Positions), len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Positions) {
			return fmt.Errorf("meshing: index %d at %d out of range (%d vertices)", idx, i, len(m.Positions))
		}
	}
	return nil
}

// mustValidate panics on a broken mesh; such a mesh is always a mesher bug.
func (m *Mesh) mustValidate() {
	if err := m.Validate(); err != nil {
		panic(err)
	}
}

// Interleaved packs positions and colors for GPU upload, VertexStride floats
// per vertex.
func (m *Mesh) Interleaved() []float32 {
	if m == nil {
		return nil
	}
	out := make([]float32, 0, len(m.Positions)*VertexStride)
	for i, p := range m.Positions {
		c := m.Colors[i]
		out = append(out, p[0], p[1], p[2], c[0], c[1], c[2])
	}
	return out
}
