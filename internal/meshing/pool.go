package meshing

import (
	"context"
	"fmt"
	"sync"

	"searchit/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// MeshJob represents a meshing job request
type MeshJob struct {
	Coord  voxel.Coord
	Chunk  *voxel.Chunk
	Camera mgl32.Vec3
	// Result channel - will be sent the result when done
	ResultChan chan MeshResult
}

// MeshResult contains the result of a meshing operation
type MeshResult struct {
	Coord voxel.Coord
	// Revision of the chunk the geometry was built from
	Revision uint64
	// Unshaded geometry, kept for re-shading without a rebuild
	Geometry *Mesh
	// Geometry shaded for the job's camera position
	Mesh  *Mesh
	Error error
}

// WorkerPool manages goroutines for mesh generation
type WorkerPool struct {
	mesher   *Mesher
	jobQueue chan MeshJob
	workers  int
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewWorkerPool creates a new mesh worker pool
func NewWorkerPool(mesher *Mesher, workers int, queueSize int) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	pool := &WorkerPool{
		mesher:   mesher,
		jobQueue: make(chan MeshJob, queueSize),
		workers:  max(workers, 1),
		ctx:      ctx,
		cancel:   cancel,
	}

	for range pool.workers {
		pool.wg.Add(1)
		go pool.worker()
	}

	return pool
}

// SubmitJobBlocking submits a job and blocks until it's queued. It returns
// false once the pool is shut down.
func (p *WorkerPool) SubmitJobBlocking(job MeshJob) bool {
	select {
	case p.jobQueue <- job:
		return true
	case <-p.ctx.Done():
		return false
	}
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			result := p.run(job)
			select {
			case job.ResultChan <- result:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// run meshes one job. A mesher panic becomes the job's error so one bad
// chunk cannot take down the pool.
func (p *WorkerPool) run(job MeshJob) (res MeshResult) {
	res.Coord = job.Coord
	defer func() {
		if r := recover(); r != nil {
			res.Geometry, res.Mesh = nil, nil
			res.Error = fmt.Errorf("meshing: chunk %v: %v", job.Coord, r)
		}
	}()
	if job.Chunk != nil {
		res.Revision = job.Chunk.Revision()
	}
	res.Geometry = BuildGeometry(job.Chunk)
	res.Mesh = p.mesher.Shade(res.Geometry, job.Camera)
	return res
}

// Shutdown stops the workers. Jobs still queued are dropped.
func (p *WorkerPool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

// Workers returns the number of worker goroutines
func (p *WorkerPool) Workers() int {
	return p.workers
}
