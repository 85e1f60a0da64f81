package world

import (
	"iter"
	"runtime"
	"sync"

	"searchit/internal/profiling"
	"searchit/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// Streamer decodes missing chunks on background workers and installs each
// one into the store in a single step, so readers never observe a
// half-decoded chunk.
type Streamer struct {
	jobs       chan voxel.Coord
	pending    map[voxel.Coord]struct{}
	pendingMu  sync.Mutex
	// Origins wanted by the latest request or eviction; nil until then
	keep       map[voxel.Coord]struct{}
	maxPending int
	inflight   sync.WaitGroup
	workers    sync.WaitGroup

	store *Store
}

// NewStreamer starts workers decoding chunks for store. A non-positive
// worker count uses one worker per CPU.
func NewStreamer(store *Store, workers int) *Streamer {
	if workers <= 0 {
		workers = max(runtime.NumCPU(), 1)
	}
	st := &Streamer{
		jobs:       make(chan voxel.Coord, 1024),
		pending:    make(map[voxel.Coord]struct{}),
		maxPending: 4096,
		store:      store,
	}
	for range workers {
		st.workers.Add(1)
		go st.worker()
	}
	return st
}

// Close stops the workers after the queued jobs drain.
func (st *Streamer) Close() {
	close(st.jobs)
	st.workers.Wait()
}

func (st *Streamer) worker() {
	defer st.workers.Done()
	for coord := range st.jobs {
		if st.wanted(coord) && !st.store.IsLoaded(coord) {
			e := st.store.fetch(coord)
			// Checked again under the lock so an eviction for a newer focus
			// either sees this install or makes the worker drop it.
			st.pendingMu.Lock()
			if st.wantedLocked(coord) {
				st.store.install(coord, e)
			}
			st.pendingMu.Unlock()
		}
		st.pendingMu.Lock()
		delete(st.pending, coord)
		st.pendingMu.Unlock()
		st.inflight.Done()
	}
}

func (st *Streamer) wanted(coord voxel.Coord) bool {
	st.pendingMu.Lock()
	defer st.pendingMu.Unlock()
	return st.wantedLocked(coord)
}

func (st *Streamer) wantedLocked(coord voxel.Coord) bool {
	if st.keep == nil {
		return true
	}
	_, ok := st.keep[coord]
	return ok
}

func (st *Streamer) setKeep(keep map[voxel.Coord]struct{}) {
	st.pendingMu.Lock()
	st.keep = keep
	st.pendingMu.Unlock()
}

// RequestAround queues every untracked keep-set origin, nearest rings first,
// and returns how many jobs were queued. Jobs still queued for origins
// outside this keep-set are dropped by the workers.
func (st *Streamer) RequestAround(focus mgl32.Vec3, radius int) int {
	defer profiling.Track("world.RequestAround")()
	radius = max(radius, 1)
	st.setKeep(KeepSet(focus, radius))
	center := voxel.CoordOf(focus)

	queued := 0
	for r := 0; r <= radius; r++ {
		for dx := -r; dx <= r; dx++ {
			for dy := -r; dy <= r; dy++ {
				for dz := -r; dz <= r; dz++ {
					// Only the shell of ring r
					if max(abs(dx), abs(dy), abs(dz)) != r {
						continue
					}
					if st.request(center.Offset(dx, dy, dz)) {
						queued++
					}
				}
			}
		}
	}
	return queued
}

// request respects the pending cap and returns true if the job was queued.
func (st *Streamer) request(coord voxel.Coord) bool {
	if st.store.IsLoaded(coord) {
		return false
	}

	st.pendingMu.Lock()
	if _, ok := st.pending[coord]; ok {
		st.pendingMu.Unlock()
		return false
	}
	if st.maxPending > 0 && len(st.pending) >= st.maxPending {
		st.pendingMu.Unlock()
		return false
	}
	st.pending[coord] = struct{}{}
	st.pendingMu.Unlock()

	st.inflight.Add(1)
	select {
	case st.jobs <- coord:
		return true
	default:
		// queue full: rollback
		st.inflight.Done()
		st.pendingMu.Lock()
		delete(st.pending, coord)
		st.pendingMu.Unlock()
		return false
	}
}

// Pending returns the number of queued or running jobs.
func (st *Streamer) Pending() int {
	st.pendingMu.Lock()
	defer st.pendingMu.Unlock()
	return len(st.pending)
}

// Wait blocks until every queued job has been installed.
func (st *Streamer) Wait() {
	st.inflight.Wait()
}

// Evict drops tracked chunks outside the keep-set around focus. Decodes
// still running for those origins are not installed.
func (st *Streamer) Evict(focus mgl32.Vec3, radius int) int {
	keep := KeepSet(focus, radius)
	st.setKeep(keep)
	return st.store.EvictOutside(keep)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Refresh queues the missing keep-set chunks and evicts the rest without
// waiting for any decode. It makes the streamer usable wherever a store is
// refreshed synchronously.
func (st *Streamer) Refresh(focus mgl32.Vec3, radius int) (queued, evicted int) {
	queued = st.RequestAround(focus, radius)
	evicted = st.Evict(focus, radius)
	profiling.Count("world.queued", int64(queued))
	profiling.Count("world.evicted", int64(evicted))
	return queued, evicted
}

// AllLoadedChunks yields the chunks installed so far.
func (st *Streamer) AllLoadedChunks() iter.Seq2[voxel.Coord, *voxel.Chunk] {
	return st.store.AllLoadedChunks()
}

// LoadedCount returns the number of origins the store tracks.
func (st *Streamer) LoadedCount() int {
	return st.store.LoadedCount()
}

// Store returns the backing store.
func (st *Streamer) Store() *Store {
	return st.store
}
