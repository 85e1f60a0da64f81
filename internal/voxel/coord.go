package voxel

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Coord is an integer chunk origin usable as a map key. Components are
// multiples of ChunkSize.
type Coord struct {
	X, Y, Z int
}

// Vec returns the origin as a world-space vector.
func (c Coord) Vec() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.X), float32(c.Y), float32(c.Z)}
}

// Offset returns the origin shifted by whole chunks along each axis.
func (c Coord) Offset(dx, dy, dz int) Coord {
	return Coord{X: c.X + dx*ChunkSize, Y: c.Y + dy*ChunkSize, Z: c.Z + dz*ChunkSize}
}

// CoordOf returns the origin of the chunk containing a world position.
func CoordOf(world mgl32.Vec3) Coord {
	return Coord{
		X: floorToChunk(world.X()),
		Y: floorToChunk(world.Y()),
		Z: floorToChunk(world.Z()),
	}
}

// LocalPosition converts a world position into coordinates local to the chunk
// with the given origin.
func LocalPosition(world mgl32.Vec3, origin Coord) mgl32.Vec3 {
	return world.Sub(origin.Vec())
}

func floorToChunk(v float32) int {
	return int(math.Floor(float64(v)/ChunkSize)) * ChunkSize
}

// floorDiv performs floor division for possibly negative integers.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// CoordOfBlock returns the chunk origin containing integer world coordinates.
func CoordOfBlock(x, y, z int) Coord {
	return Coord{
		X: floorDiv(x, ChunkSize) * ChunkSize,
		Y: floorDiv(y, ChunkSize) * ChunkSize,
		Z: floorDiv(z, ChunkSize) * ChunkSize,
	}
}
