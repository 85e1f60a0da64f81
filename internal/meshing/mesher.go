package meshing

import (
	"searchit/internal/profiling"
	"searchit/internal/shading"
	"searchit/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

const h = 0.5

// faceCorners lists the four corners of each face relative to the voxel
// center: bottom-left, bottom-right, top-left, top-right as seen from outside.
// Triangles (0,1,2) and (2,1,3) are then counter-clockwise from outside.
var faceCorners = [6][4]mgl32.Vec3{
	voxel.FaceFront:  {{h, -h, -h}, {-h, -h, -h}, {h, h, -h}, {-h, h, -h}},
	voxel.FaceBack:   {{-h, -h, h}, {h, -h, h}, {-h, h, h}, {h, h, h}},
	voxel.FaceLeft:   {{-h, -h, -h}, {-h, -h, h}, {-h, h, -h}, {-h, h, h}},
	voxel.FaceRight:  {{h, -h, h}, {h, -h, -h}, {h, h, h}, {h, h, -h}},
	voxel.FaceTop:    {{-h, h, h}, {h, h, h}, {-h, h, -h}, {h, h, -h}},
	voxel.FaceBottom: {{-h, -h, -h}, {h, -h, -h}, {-h, -h, h}, {h, -h, h}},
}

// quadIndices are the per-quad triangle indices relative to its first vertex.
var quadIndices = [6]uint32{0, 1, 2, 2, 1, 3}

// FaceVertices returns the world-space corners of a voxel face. center is the
// voxel's world position.
func FaceVertices(center mgl32.Vec3, f voxel.Face) [4]mgl32.Vec3 {
	var out [4]mgl32.Vec3
	for i, c := range faceCorners[f] {
		out[i] = center.Add(c)
	}
	return out
}

// IsFaceVisible reports whether face f of the voxel at (x,y,z) is exposed.
// Neighbors outside the chunk always count as empty.
func IsFaceVisible(c *voxel.Chunk, x, y, z int, f voxel.Face) bool {
	dx, dy, dz := f.Offset()
	nx, ny, nz := x+dx, y+dy, z+dz
	if !voxel.InBounds(nx, ny, nz) {
		return true
	}
	return c.IsEmpty(nx, ny, nz)
}

// CountVisibleFaces returns the number of exposed faces of solid voxels.
func CountVisibleFaces(c *voxel.Chunk) int {
	if c == nil {
		return 0
	}
	n := 0
	for z := range voxel.ChunkSize {
		for y := range voxel.ChunkSize {
			for x := range voxel.ChunkSize {
				if c.Get(x, y, z) == voxel.TypeEmpty {
					continue
				}
				for _, f := range voxel.Faces {
					if IsFaceVisible(c, x, y, z, f) {
						n++
					}
				}
			}
		}
	}
	return n
}

// Mesher turns chunks into shaded meshes.
type Mesher struct {
	shader shading.Shader
}

// New returns a mesher shading with s.
func New(s shading.Shader) *Mesher {
	return &Mesher{shader: s}
}

// Build meshes a chunk and shades it for a camera position. A nil chunk
// yields an empty mesh.
func (m *Mesher) Build(c *voxel.Chunk, camera mgl32.Vec3) *Mesh {
	return m.Shade(BuildGeometry(c), camera)
}

// Shade returns a copy of base whose colors are shaded for camera. Positions
// and indices are shared with base.
func (m *Mesher) Shade(base *Mesh, camera mgl32.Vec3) *Mesh {
	defer profiling.Track("meshing.Shade")()
	out := &Mesh{
		Positions: base.Positions,
		Colors:    make([]mgl32.Vec3, len(base.Colors)),
		Indices:   base.Indices,
	}
	m.shader.ShadeBatch(out.Colors, base.Colors, base.Positions, camera)
	return out
}

// BuildGeometry emits one quad per exposed face with the unshaded face colors.
// Voxel centers sit at origin + local coordinates.
func BuildGeometry(c *voxel.Chunk) *Mesh {
	defer profiling.Track("meshing.BuildGeometry")()

	faces := CountVisibleFaces(c)
	mesh := &Mesh{
		Positions: make([]mgl32.Vec3, 0, faces*4),
		Colors:    make([]mgl32.Vec3, 0, faces*4),
		Indices:   make([]uint32, 0, faces*6),
	}
	if faces == 0 {
		return mesh
	}

	origin := c.Origin()
	for z := range voxel.ChunkSize {
		for y := range voxel.ChunkSize {
			for x := range voxel.ChunkSize {
				t := c.Get(x, y, z)
				if t == voxel.TypeEmpty {
					continue
				}
				center := origin.Add(mgl32.Vec3{float32(x), float32(y), float32(z)})
				colors := voxel.ColorsFor(t)
				for _, f := range voxel.Faces {
					if !IsFaceVisible(c, x, y, z, f) {
						continue
					}
					base := uint32(len(mesh.Positions))
					corners := FaceVertices(center, f)
					mesh.Positions = append(mesh.Positions, corners[:]...)
					for range 4 {
						mesh.Colors = append(mesh.Colors, colors[f])
					}
					for _, i := range quadIndices {
						mesh.Indices = append(mesh.Indices, base+i)
					}
				}
			}
		}
	}

	mesh.mustValidate()
	profiling.Count("meshing.faces", int64(faces))
	return mesh
}
