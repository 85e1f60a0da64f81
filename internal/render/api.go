package render

import (
	"iter"

	"searchit/internal/meshing"
	"searchit/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the viewpoint the coordinator draws from.
type Camera interface {
	Position() mgl32.Vec3
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
	// ProcessMouse applies a mouse movement in pixels
	ProcessMouse(dx, dy float32)
}

// ChunkSource provides the chunks around a focus point.
type ChunkSource interface {
	Refresh(focus mgl32.Vec3, radius int) (loaded, evicted int)
	AllLoadedChunks() iter.Seq2[voxel.Coord, *voxel.Chunk]
	LoadedCount() int
}

// ChunkRenderer draws chunk meshes. Version changes whenever the mesh
// contents for an origin change, so uploads can be skipped otherwise.
type ChunkRenderer interface {
	DrawChunk(origin voxel.Coord, mesh *meshing.Mesh, version uint64)
	ReleaseChunk(origin voxel.Coord)
}
