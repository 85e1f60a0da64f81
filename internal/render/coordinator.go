package render

import (
	"iter"
	"log"
	"sync/atomic"

	"searchit/internal/culling"
	"searchit/internal/meshing"
	"searchit/internal/profiling"
	"searchit/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// cachedMesh is the mesh state of one chunk.
type cachedMesh struct {
	chunk    *voxel.Chunk
	revision uint64
	geometry *meshing.Mesh

	shaded    *meshing.Mesh
	shadedFor mgl32.Vec3

	version uint64
}

// Options tunes a Coordinator.
type Options struct {
	// Background mesh workers used by PrepareMeshes; 0 meshes inline
	MeshWorkers int
	// Inflates chunk boxes before frustum tests
	CullMargin float32
}

// Coordinator streams chunks around a focus point and produces the shaded
// meshes of the chunks inside the view frustum. Geometry is rebuilt only when
// a chunk's voxels change; a camera move only re-shades.
//
// A Coordinator is driven from a single goroutine; the counters may be read
// from any goroutine.
type Coordinator struct {
	source ChunkSource
	mesher *meshing.Mesher
	pool   *meshing.WorkerPool
	culler culling.Culler

	cache   map[voxel.Coord]*cachedMesh
	evicted []voxel.Coord
	focus   mgl32.Vec3
	version uint64

	rendered atomic.Int64
}

// NewCoordinator creates a coordinator over source.
func NewCoordinator(source ChunkSource, mesher *meshing.Mesher, opts Options) *Coordinator {
	c := &Coordinator{
		source: source,
		mesher: mesher,
		cache:  make(map[voxel.Coord]*cachedMesh),
	}
	c.culler.Margin = opts.CullMargin
	if opts.MeshWorkers > 0 {
		c.pool = meshing.NewWorkerPool(mesher, opts.MeshWorkers, opts.MeshWorkers*4)
	}
	return c
}

// Close stops the mesh workers.
func (c *Coordinator) Close() {
	if c.pool != nil {
		c.pool.Shutdown()
		c.pool = nil
	}
}

// SetMesher swaps the mesher, for example after the shading falloff changed.
// Cached geometry is kept; every mesh is re-shaded on its next use.
func (c *Coordinator) SetMesher(m *meshing.Mesher) {
	c.mesher = m
	for _, cm := range c.cache {
		cm.shaded = nil
	}
	if c.pool != nil {
		workers := c.pool.Workers()
		c.pool.Shutdown()
		c.pool = meshing.NewWorkerPool(m, workers, workers*4)
	}
}

// UpdateFocus refreshes the chunk source around position and forgets the
// meshes of chunks that are gone. Position is also the eye point used for
// shading.
func (c *Coordinator) UpdateFocus(position mgl32.Vec3, radius int) {
	defer profiling.Track("render.UpdateFocus")()
	c.focus = position
	c.source.Refresh(position, radius)

	live := make(map[voxel.Coord]*voxel.Chunk, len(c.cache))
	for coord, ch := range c.source.AllLoadedChunks() {
		live[coord] = ch
	}
	for coord, m := range c.cache {
		if ch, ok := live[coord]; !ok || ch != m.chunk {
			delete(c.cache, coord)
			c.evicted = append(c.evicted, coord)
		}
	}
}

// VisibleMeshes yields the meshes of loaded chunks that intersect the
// frustum of viewProj, shaded for the current focus. Chunks without any
// visible face are skipped. RenderedChunkCount reflects the last pass that
// ran to completion.
func (c *Coordinator) VisibleMeshes(viewProj mgl32.Mat4) iter.Seq2[voxel.Coord, *meshing.Mesh] {
	return func(yield func(voxel.Coord, *meshing.Mesh) bool) {
		defer profiling.Track("render.VisibleMeshes")()
		c.culler.Update(viewProj)

		var rendered int64
		for coord, ch := range c.source.AllLoadedChunks() {
			if !c.culler.ChunkVisible(ch.Origin(), voxel.ChunkSize) {
				continue
			}
			m := c.meshFor(coord, ch)
			if m.shaded.Empty() {
				continue
			}
			rendered++
			if !yield(coord, m.shaded) {
				return
			}
		}
		c.rendered.Store(rendered)
		profiling.Count("render.chunks", rendered)
	}
}

// Render draws every visible chunk through r and releases the GPU state of
// chunks evicted since the previous call.
func (c *Coordinator) Render(cam Camera, r ChunkRenderer) {
	for _, coord := range c.evicted {
		r.ReleaseChunk(coord)
	}
	c.evicted = c.evicted[:0]

	vp := cam.ProjectionMatrix().Mul4(cam.ViewMatrix())
	for coord, mesh := range c.VisibleMeshes(vp) {
		r.DrawChunk(coord, mesh, c.cache[coord].version)
	}
}

// meshFor returns an up-to-date cache entry, rebuilding or re-shading as
// needed.
func (c *Coordinator) meshFor(coord voxel.Coord, ch *voxel.Chunk) *cachedMesh {
	m := c.cache[coord]
	if m == nil || m.chunk != ch || m.revision != ch.Revision() {
		m = &cachedMesh{chunk: ch, revision: ch.Revision(), geometry: meshing.BuildGeometry(ch)}
		c.cache[coord] = m
	}
	c.reshade(m)
	return m
}

func (c *Coordinator) reshade(m *cachedMesh) {
	if m.shaded != nil && m.shadedFor == c.focus {
		return
	}
	m.shaded = c.mesher.Shade(m.geometry, c.focus)
	m.shadedFor = c.focus
	c.version++
	m.version = c.version
}

// PrepareMeshes builds every stale mesh of the chunks visible through
// viewProj on the worker pool and returns how many were rebuilt. Without a
// pool it does nothing; VisibleMeshes then meshes inline.
func (c *Coordinator) PrepareMeshes(viewProj mgl32.Mat4) int {
	if c.pool == nil {
		return 0
	}
	defer profiling.Track("render.PrepareMeshes")()
	c.culler.Update(viewProj)

	stale := make(map[voxel.Coord]*voxel.Chunk)
	for coord, ch := range c.source.AllLoadedChunks() {
		if !c.culler.ChunkVisible(ch.Origin(), voxel.ChunkSize) {
			continue
		}
		if m := c.cache[coord]; m != nil && m.chunk == ch && m.revision == ch.Revision() {
			continue
		}
		stale[coord] = ch
	}
	if len(stale) == 0 {
		return 0
	}

	out := make(chan meshing.MeshResult, len(stale))
	submitted := 0
	for coord, ch := range stale {
		if !c.pool.SubmitJobBlocking(meshing.MeshJob{Coord: coord, Chunk: ch, Camera: c.focus, ResultChan: out}) {
			break
		}
		submitted++
	}

	rebuilt := 0
	for range submitted {
		res := <-out
		if res.Error != nil {
			log.Printf("render: %v", res.Error)
			continue
		}
		c.version++
		c.cache[res.Coord] = &cachedMesh{
			chunk:     stale[res.Coord],
			revision:  res.Revision,
			geometry:  res.Geometry,
			shaded:    res.Mesh,
			shadedFor: c.focus,
			version:   c.version,
		}
		rebuilt++
	}
	return rebuilt
}

// LoadedChunkCount returns how many chunk origins the source tracks.
func (c *Coordinator) LoadedChunkCount() int {
	return c.source.LoadedCount()
}

// RenderedChunkCount returns how many chunks the last visible pass yielded.
func (c *Coordinator) RenderedChunkCount() int {
	return int(c.rendered.Load())
}

// CachedMeshCount returns how many chunk meshes are cached.
func (c *Coordinator) CachedMeshCount() int {
	return len(c.cache)
}
