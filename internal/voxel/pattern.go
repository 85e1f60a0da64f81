package voxel

import "github.com/go-gl/mathgl/mgl32"

// NewTestPattern builds a hollow cube shell occupying the middle half of the
// chunk. Each side of the shell uses a different voxel type so orientation
// problems are visible at a glance.
func NewTestPattern(origin mgl32.Vec3) *Chunk {
	c := NewChunk(origin)
	lo := ChunkSize / 4
	hi := ChunkSize - lo - 1

	for z := lo; z <= hi; z++ {
		for y := lo; y <= hi; y++ {
			for x := lo; x <= hi; x++ {
				if x != lo && x != hi && y != lo && y != hi && z != lo && z != hi {
					continue
				}
				var t Type
				switch {
				case z == lo:
					t = 1
				case z == hi:
					t = 2
				case x == lo:
					t = 3
				case x == hi:
					t = 4
				case y == hi:
					t = 5
				default:
					t = 6
				}
				c.voxels[Index(x, y, z)] = t
			}
		}
	}
	return c
}
