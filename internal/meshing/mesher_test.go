package meshing

import (
	"testing"

	"searchit/internal/shading"
	"searchit/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

func newMesher() *Mesher {
	return New(shading.New(shading.DefaultConfig()))
}

func TestSingleVoxelMesh(t *testing.T) {
	c := voxel.NewChunk(mgl32.Vec3{})
	c.Set(10, 10, 10, 2)

	m := newMesher().Build(c, mgl32.Vec3{10, 10, 10})
	if len(m.Positions) != 24 || len(m.Colors) != 24 || len(m.Indices) != 36 {
		t.Fatalf("got %d positions, %d colors, %d indices; want 24/24/36",
			len(m.Positions), len(m.Colors), len(m.Indices))
	}
	if m.FaceCount() != 6 {
		t.Errorf("FaceCount = %d, want 6", m.FaceCount())
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	for _, p := range m.Positions {
		for i := range 3 {
			if p[i] != 9.5 && p[i] != 10.5 {
				t.Fatalf("corner %v not on the unit cube around (10,10,10)", p)
			}
		}
	}
}

func TestEmptyMeshes(t *testing.T) {
	m := newMesher()
	for name, c := range map[string]*voxel.Chunk{"empty": voxel.NewChunk(mgl32.Vec3{}), "nil": nil} {
		mesh := m.Build(c, mgl32.Vec3{})
		if len(mesh.Positions) != 0 || len(mesh.Colors) != 0 || len(mesh.Indices) != 0 {
			t.Errorf("%s chunk produced %d/%d/%d", name, len(mesh.Positions), len(mesh.Colors), len(mesh.Indices))
		}
		if !mesh.Empty() {
			t.Errorf("%s chunk mesh not Empty()", name)
		}
	}
}

func TestAdjacentVoxelsHideSharedFaces(t *testing.T) {
	c := voxel.NewChunk(mgl32.Vec3{})
	c.Set(4, 4, 4, 1)
	c.Set(5, 4, 4, 1)
	if got := CountVisibleFaces(c); got != 10 {
		t.Fatalf("two adjacent voxels: %d faces, want 10", got)
	}
	if IsFaceVisible(c, 4, 4, 4, voxel.FaceRight) {
		t.Error("shared face reported visible")
	}
	if !IsFaceVisible(c, 4, 4, 4, voxel.FaceLeft) {
		t.Error("open face reported hidden")
	}

	c.Set(7, 4, 4, 1)
	if got := CountVisibleFaces(c); got != 16 {
		t.Errorf("with a separated voxel: %d faces, want 16", got)
	}
}

func TestBoundaryFacesAlwaysVisible(t *testing.T) {
	c := voxel.NewChunk(mgl32.Vec3{})
	last := voxel.ChunkSize - 1
	c.Set(last, 0, 0, 1)
	for _, f := range voxel.Faces {
		if !IsFaceVisible(c, last, 0, 0, f) {
			t.Errorf("face %v of corner voxel hidden", f)
		}
	}

	full := voxel.NewChunk(mgl32.Vec3{})
	for i := range voxel.ChunkVolume {
		x, y, z := voxel.PositionOf(i)
		full.Set(x, y, z, 1)
	}
	want := 6 * voxel.ChunkSize * voxel.ChunkSize
	if got := CountVisibleFaces(full); got != want {
		t.Errorf("solid chunk: %d faces, want %d", got, want)
	}
}

func TestWindingIsCounterClockwiseFromOutside(t *testing.T) {
	center := mgl32.Vec3{3, -2, 7}
	for _, f := range voxel.Faces {
		v := FaceVertices(center, f)
		n := f.Normal()
		for tri := 0; tri < 2; tri++ {
			a, b, c := v[quadIndices[tri*3]], v[quadIndices[tri*3+1]], v[quadIndices[tri*3+2]]
			if d := b.Sub(a).Cross(c.Sub(a)).Dot(n); d <= 0 {
				t.Errorf("face %v triangle %d winds clockwise (%v)", f, tri, d)
			}
		}
		for _, p := range v {
			if d := p.Sub(center).Dot(n); d != 0.5 {
				t.Errorf("face %v corner %v not on the face plane", f, p)
			}
		}
	}
}

func TestFaceColorsAndShading(t *testing.T) {
	origin := mgl32.Vec3{64, 0, -32}
	c := voxel.NewChunk(origin)
	c.Set(0, 0, 0, 3)

	geom := BuildGeometry(c)
	for i := 0; i < len(geom.Positions); i += 4 {
		if geom.Colors[i] != geom.Colors[i+3] {
			t.Fatalf("face %d has mixed colors", i/4)
		}
	}
	if geom.Colors[0] != voxel.ColorFor(3, voxel.FaceFront) {
		t.Errorf("front face color = %v", geom.Colors[0])
	}

	m := newMesher()
	near := m.Shade(geom, origin)
	far := m.Shade(geom, origin.Add(mgl32.Vec3{0, 500, 0}))
	for i := range geom.Colors {
		if near.Colors[i] != geom.Colors[i] {
			t.Fatalf("near vertex %d shaded to %v", i, near.Colors[i])
		}
		if far.Colors[i] != geom.Colors[i].Mul(0.5) {
			t.Fatalf("far vertex %d shaded to %v", i, far.Colors[i])
		}
	}
	if &far.Positions[0] != &geom.Positions[0] {
		t.Error("Shade copied the geometry")
	}
}

func TestUnknownTypeUsesTypeOneColors(t *testing.T) {
	c := voxel.NewChunk(mgl32.Vec3{})
	c.Set(1, 1, 1, 200)
	geom := BuildGeometry(c)
	if geom.Colors[0] != voxel.ColorFor(1, voxel.FaceFront) {
		t.Errorf("unknown type color = %v", geom.Colors[0])
	}
}

func TestValidateRejectsBrokenMeshes(t *testing.T) {
	bad := []*Mesh{
		{Positions: make([]mgl32.Vec3, 4), Colors: make([]mgl32.Vec3, 3), Indices: []uint32{0, 1, 2, 2, 1, 3}},
		{Positions: make([]mgl32.Vec3, 4), Colors: make([]mgl32.Vec3, 4), Indices: []uint32{0, 1, 2, 2, 1}},
		{Positions: make([]mgl32.Vec3, 4), Colors: make([]mgl32.Vec3, 4), Indices: []uint32{0, 1, 2, 2, 1, 4}},
	}
	for i, m := range bad {
		if m.Validate() == nil {
			t.Errorf("mesh %d accepted", i)
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("mustValidate did not panic")
		}
	}()
	bad[0].mustValidate()
}

func TestInterleaved(t *testing.T) {
	c := voxel.NewChunk(mgl32.Vec3{})
	c.Set(0, 0, 0, 1)
	m := BuildGeometry(c)
	data := m.Interleaved()
	if len(data) != len(m.Positions)*VertexStride {
		t.Fatalf("len = %d", len(data))
	}
	if data[3] != m.Colors[0][0] || data[VertexStride] != m.Positions[1][0] {
		t.Error("interleaving order wrong")
	}
}

func BenchmarkBuildTestPattern(b *testing.B) {
	c := voxel.NewTestPattern(mgl32.Vec3{})
	m := newMesher()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Build(c, mgl32.Vec3{16, 16, -10})
	}
}
