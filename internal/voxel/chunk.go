package voxel

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Chunk edge length in voxels
	ChunkSize = 32

	// Number of voxels held by one chunk
	ChunkVolume = ChunkSize * ChunkSize * ChunkSize
)

// Type identifies the material of a voxel. Zero is empty space.
type Type = byte

const TypeEmpty Type = 0

// Chunk is a fixed 32x32x32 grid of voxel types anchored at a world-space origin.
type Chunk struct {
	origin   mgl32.Vec3
	voxels   []Type
	revision uint64
}

// NewChunk creates an empty chunk at the given world-space origin.
func NewChunk(origin mgl32.Vec3) *Chunk {
	return &Chunk{
		origin: origin,
		voxels: make([]Type, ChunkVolume),
	}
}

// NewChunkFromData wraps an existing voxel buffer. The buffer must hold exactly
// ChunkVolume entries; anything else is a programming error.
func NewChunkFromData(origin mgl32.Vec3, data []Type) *Chunk {
	if len(data) != ChunkVolume {
		panic(fmt.Sprintf("voxel: chunk data must contain exactly %d voxels, got %d", ChunkVolume, len(data)))
	}
	return &Chunk{
		origin: origin,
		voxels: data,
	}
}

// Index flattens local coordinates as z*S*S + y*S + x.
func Index(x, y, z int) int {
	return z*ChunkSize*ChunkSize + y*ChunkSize + x
}

// PositionOf is the inverse of Index.
func PositionOf(index int) (x, y, z int) {
	x = index % ChunkSize
	y = (index / ChunkSize) % ChunkSize
	z = index / (ChunkSize * ChunkSize)
	return x, y, z
}

// InBounds reports whether local coordinates address a voxel of the chunk.
func InBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkSize && y >= 0 && y < ChunkSize && z >= 0 && z < ChunkSize
}

func clamp(v int) int {
	return min(max(v, 0), ChunkSize-1)
}

// Origin returns the world-space corner of the chunk.
func (c *Chunk) Origin() mgl32.Vec3 {
	return c.origin
}

// Get returns the voxel type at local coordinates. Coordinates outside the
// chunk read as empty.
func (c *Chunk) Get(x, y, z int) Type {
	if !InBounds(x, y, z) {
		return TypeEmpty
	}
	return c.voxels[Index(clamp(x), clamp(y), clamp(z))]
}

// Set stores a voxel type at local coordinates. Out-of-range writes are ignored.
func (c *Chunk) Set(x, y, z int, value Type) {
	if !InBounds(x, y, z) {
		return
	}
	idx := Index(x, y, z)
	if c.voxels[idx] != value {
		c.voxels[idx] = value
		c.revision++
	}
}

// GetVec floors each component of a local position and reads the voxel there.
func (c *Chunk) GetVec(local mgl32.Vec3) Type {
	x, y, z := floorVec(local)
	return c.Get(x, y, z)
}

// SetVec floors each component of a local position and writes the voxel there.
func (c *Chunk) SetVec(local mgl32.Vec3, value Type) {
	x, y, z := floorVec(local)
	c.Set(x, y, z, value)
}

// IsEmpty checks if the voxel at local coordinates is empty
func (c *Chunk) IsEmpty(x, y, z int) bool {
	return c.Get(x, y, z) == TypeEmpty
}

// VoxelData returns a copy of the voxel buffer.
func (c *Chunk) VoxelData() []Type {
	out := make([]Type, len(c.voxels))
	copy(out, c.voxels)
	return out
}

// Revision increases every time a voxel value actually changes.
func (c *Chunk) Revision() uint64 {
	return c.revision
}

// SolidCount returns the number of non-empty voxels.
func (c *Chunk) SolidCount() int {
	n := 0
	for _, v := range c.voxels {
		if v != TypeEmpty {
			n++
		}
	}
	return n
}

func floorVec(v mgl32.Vec3) (int, int, int) {
	return int(math.Floor(float64(v.X()))), int(math.Floor(float64(v.Y()))), int(math.Floor(float64(v.Z())))
}
