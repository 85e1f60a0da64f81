package culling

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Planes whose normal is shorter than this are left unnormalized
const degenerateEpsilon = 1e-6

// Plane is a*x + b*y + c*z + d = 0 with the inside on the positive side.
type Plane struct {
	A, B, C, D float32
}

// Normal returns the plane normal.
func (p Plane) Normal() mgl32.Vec3 {
	return mgl32.Vec3{p.A, p.B, p.C}
}

// Distance returns the signed distance of a point, exact for normalized planes.
func (p Plane) Distance(v mgl32.Vec3) float32 {
	return p.A*v[0] + p.B*v[1] + p.C*v[2] + p.D
}

func (p Plane) normalize() Plane {
	l := float32(math.Sqrt(float64(p.A*p.A + p.B*p.B + p.C*p.C)))
	if l < degenerateEpsilon {
		return p
	}
	return Plane{p.A / l, p.B / l, p.C / l, p.D / l}
}

// Frustum holds six planes in order: left, right, bottom, top, near, far.
type Frustum [6]Plane

// ExtractPlanes builds the frustum of a combined projection*view matrix.
func ExtractPlanes(clip mgl32.Mat4) Frustum {
	// Matrix is in column-major order in mgl32
	m00, m01, m02, m03 := clip[0], clip[4], clip[8], clip[12]
	m10, m11, m12, m13 := clip[1], clip[5], clip[9], clip[13]
	m20, m21, m22, m23 := clip[2], clip[6], clip[10], clip[14]
	m30, m31, m32, m33 := clip[3], clip[7], clip[11], clip[15]

	return Frustum{
		Plane{m30 + m00, m31 + m01, m32 + m02, m33 + m03}.normalize(), // left
		Plane{m30 - m00, m31 - m01, m32 - m02, m33 - m03}.normalize(), // right
		Plane{m30 + m10, m31 + m11, m32 + m12, m33 + m13}.normalize(), // bottom
		Plane{m30 - m10, m31 - m11, m32 - m12, m33 - m13}.normalize(), // top
		Plane{m30 + m20, m31 + m21, m32 + m22, m33 + m23}.normalize(), // near
		Plane{m30 - m20, m31 - m21, m32 - m22, m33 - m23}.normalize(), // far
	}
}

// IntersectsAABB reports whether the box is at least partly inside. A box is
// rejected only when it lies fully behind a single plane, which is checked
// with the corner furthest along that plane's normal.
func (f *Frustum) IntersectsAABB(lo, hi mgl32.Vec3) bool {
	for _, p := range f {
		px := hi[0]
		if p.A < 0 {
			px = lo[0]
		}
		py := hi[1]
		if p.B < 0 {
			py = lo[1]
		}
		pz := hi[2]
		if p.C < 0 {
			pz = lo[2]
		}
		if p.A*px+p.B*py+p.C*pz+p.D < 0 {
			return false
		}
	}
	return true
}

// IsChunkVisible tests the cube spanning origin to origin+edge on every axis.
func IsChunkVisible(origin mgl32.Vec3, edge float32, viewProj mgl32.Mat4) bool {
	f := ExtractPlanes(viewProj)
	return f.IntersectsAABB(origin, origin.Add(mgl32.Vec3{edge, edge, edge}))
}

// Culler caches the frustum of the last view-projection it saw. Margin
// inflates every tested box.
type Culler struct {
	Margin float32

	frustum Frustum
	last    mgl32.Mat4
	valid   bool
}

// Update recomputes the planes unless viewProj matches the previous matrix.
func (c *Culler) Update(viewProj mgl32.Mat4) {
	if c.valid && matrixNearEqual(c.last, viewProj, 1e-6) {
		return
	}
	c.frustum = ExtractPlanes(viewProj)
	c.last = viewProj
	c.valid = true
}

// Frustum returns the cached planes.
func (c *Culler) Frustum() Frustum {
	return c.frustum
}

// ChunkVisible tests a chunk cube against the cached frustum.
func (c *Culler) ChunkVisible(origin mgl32.Vec3, edge float32) bool {
	m := mgl32.Vec3{c.Margin, c.Margin, c.Margin}
	return c.frustum.IntersectsAABB(origin.Sub(m), origin.Add(mgl32.Vec3{edge, edge, edge}).Add(m))
}

// matrixNearEqual compares two matrices for approximate equality within epsilon
func matrixNearEqual(a, b mgl32.Mat4, epsilon float32) bool {
	for i := range 16 {
		if float32(math.Abs(float64(a[i]-b[i]))) > epsilon {
			return false
		}
	}
	return true
}
