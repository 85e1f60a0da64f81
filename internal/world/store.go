package world

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"os"
	"path/filepath"
	"sync"

	"searchit/internal/gox"
	"searchit/internal/profiling"
	"searchit/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// Loader produces the chunk stored at origin. It returns an error matching
// os.ErrNotExist when there is no chunk there.
type Loader func(origin voxel.Coord) (gox.Result, error)

// EntryStatus describes what the store knows about a chunk origin.
type EntryStatus int

const (
	// The origin has never been looked up (or was evicted)
	StatusUntracked EntryStatus = iota
	// The lookup happened and found no chunk
	StatusAbsent
	// A decoded chunk is held
	StatusLoaded
	// The file was unreadable and a test-pattern chunk stands in for it
	StatusPlaceholder
)

func (s EntryStatus) String() string {
	switch s {
	case StatusUntracked:
		return "untracked"
	case StatusAbsent:
		return "absent"
	case StatusLoaded:
		return "loaded"
	case StatusPlaceholder:
		return "placeholder"
	}
	return "unknown"
}

// entry is a tracked origin. A nil chunk marks a known-absent chunk.
type entry struct {
	chunk       *voxel.Chunk
	placeholder bool
}

// Store keeps the chunks relevant to a moving focus point.
//
// Absent origins stay tracked so they are not looked up again on every
// refresh; they count towards LoadedCount but are never yielded by
// AllLoadedChunks.
type Store struct {
	load Loader
	dir  string

	mu       sync.RWMutex
	chunks   map[voxel.Coord]*entry
	modCount uint64 // Increases on any entry add/remove
}

// NewStore creates a store reading chunk files from dir, creating the
// directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chunk directory: %w", err)
	}
	s := NewStoreWithLoader(FileLoader(dir))
	s.dir = dir
	return s, nil
}

// NewStoreWithLoader creates a store backed by an arbitrary chunk source.
func NewStoreWithLoader(load Loader) *Store {
	return &Store{
		load:   load,
		chunks: make(map[voxel.Coord]*entry),
	}
}

// FileLoader loads chunks named by gox.FileName from dir, preferring the
// plain file over its zstd-compressed variant.
func FileLoader(dir string) Loader {
	return func(origin voxel.Coord) (gox.Result, error) {
		base := filepath.Join(dir, gox.FileName(origin))
		for _, path := range []string{base, base + ".zst"} {
			res, err := gox.DecodeFile(path, origin.Vec())
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return res, err
		}
		return gox.Result{}, os.ErrNotExist
	}
}

// Dir returns the chunk directory, or "" for stores built from a Loader.
func (s *Store) Dir() string {
	return s.dir
}

// KeepSet returns the (2r+1)^3 chunk origins around the chunk containing
// focus. The radius is clamped to at least 1.
func KeepSet(focus mgl32.Vec3, radius int) map[voxel.Coord]struct{} {
	radius = max(radius, 1)
	center := voxel.CoordOf(focus)
	span := 2*radius + 1
	keep := make(map[voxel.Coord]struct{}, span*span*span)
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			for dz := -radius; dz <= radius; dz++ {
				keep[center.Offset(dx, dy, dz)] = struct{}{}
			}
		}
	}
	return keep
}

// Refresh loads every keep-set origin that is not tracked yet and evicts
// every tracked origin outside the keep-set. Decode problems never escape.
func (s *Store) Refresh(focus mgl32.Vec3, radius int) (loaded, evicted int) {
	defer profiling.Track("world.Refresh")()

	keep := KeepSet(focus, radius)

	s.mu.RLock()
	missing := make([]voxel.Coord, 0, len(keep))
	for c := range keep {
		if _, ok := s.chunks[c]; !ok {
			missing = append(missing, c)
		}
	}
	s.mu.RUnlock()

	for _, c := range missing {
		if s.install(c, s.fetch(c)) {
			loaded++
		}
	}
	evicted = s.EvictOutside(keep)

	profiling.Count("world.loaded", int64(loaded))
	profiling.Count("world.evicted", int64(evicted))
	return loaded, evicted
}

// fetch runs the loader and turns every outcome into an entry.
func (s *Store) fetch(origin voxel.Coord) *entry {
	res, err := s.load(origin)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("world: chunk %v unreadable: %v", origin, err)
		}
		return &entry{}
	}
	if res.Chunk == nil {
		return &entry{}
	}

	switch res.Status {
	case gox.StatusPartial:
		log.Printf("world: chunk %v partially decoded (%d/%d sections): %v", origin, res.Sections, gox.SectionCount, res.Err)
	case gox.StatusPlaceholder:
		log.Printf("world: chunk %v replaced by placeholder: %v", origin, res.Err)
	}
	return &entry{chunk: res.Chunk, placeholder: res.Status == gox.StatusPlaceholder}
}

// install tracks an entry unless the origin is already tracked.
func (s *Store) install(origin voxel.Coord, e *entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chunks[origin]; ok {
		return false
	}
	s.chunks[origin] = e
	s.modCount++
	return true
}

// EvictOutside drops every tracked origin not in keep and returns how many
// were removed.
func (s *Store) EvictOutside(keep map[voxel.Coord]struct{}) int {
	removed := 0
	s.mu.Lock()
	for c := range s.chunks {
		if _, ok := keep[c]; !ok {
			delete(s.chunks, c)
			s.modCount++
			removed++
		}
	}
	s.mu.Unlock()
	return removed
}

// Get returns the chunk at origin, looking it up first if the origin is not
// tracked. Nil means there is no chunk there.
func (s *Store) Get(origin voxel.Coord) *voxel.Chunk {
	s.mu.RLock()
	e, ok := s.chunks[origin]
	s.mu.RUnlock()
	if ok {
		return e.chunk
	}

	s.install(origin, s.fetch(origin))

	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.chunks[origin]; ok {
		return e.chunk
	}
	return nil
}

// GetChunkAt returns the chunk containing a world position, loading on demand.
func (s *Store) GetChunkAt(world mgl32.Vec3) *voxel.Chunk {
	return s.Get(voxel.CoordOf(world))
}

// GetVoxelAt returns the voxel at a world position. Untracked and absent
// chunks read as empty.
func (s *Store) GetVoxelAt(world mgl32.Vec3) voxel.Type {
	origin := voxel.CoordOf(world)
	s.mu.RLock()
	e, ok := s.chunks[origin]
	s.mu.RUnlock()
	if !ok || e.chunk == nil {
		return voxel.TypeEmpty
	}
	return e.chunk.GetVec(voxel.LocalPosition(world, origin))
}

// SetVoxelAt writes the voxel at a world position, loading the containing
// chunk on demand. Writes into absent chunks are dropped.
func (s *Store) SetVoxelAt(world mgl32.Vec3, value voxel.Type) {
	origin := voxel.CoordOf(world)
	c := s.Get(origin)
	if c == nil {
		return
	}
	c.SetVec(voxel.LocalPosition(world, origin), value)
}

// IsLoaded reports whether origin is tracked, including known-absent origins.
func (s *Store) IsLoaded(origin voxel.Coord) bool {
	s.mu.RLock()
	_, ok := s.chunks[origin]
	s.mu.RUnlock()
	return ok
}

// Status reports what the store knows about origin.
func (s *Store) Status(origin voxel.Coord) EntryStatus {
	s.mu.RLock()
	e, ok := s.chunks[origin]
	s.mu.RUnlock()
	switch {
	case !ok:
		return StatusUntracked
	case e.chunk == nil:
		return StatusAbsent
	case e.placeholder:
		return StatusPlaceholder
	}
	return StatusLoaded
}

// LoadedCount returns the number of tracked origins, absent ones included.
func (s *Store) LoadedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// AllLoadedChunks yields every held chunk, skipping absence markers. The
// sequence iterates over a snapshot taken when iteration starts.
func (s *Store) AllLoadedChunks() iter.Seq2[voxel.Coord, *voxel.Chunk] {
	return func(yield func(voxel.Coord, *voxel.Chunk) bool) {
		type pair struct {
			coord voxel.Coord
			chunk *voxel.Chunk
		}
		s.mu.RLock()
		snap := make([]pair, 0, len(s.chunks))
		for c, e := range s.chunks {
			if e.chunk != nil {
				snap = append(snap, pair{c, e.chunk})
			}
		}
		s.mu.RUnlock()

		for _, p := range snap {
			if !yield(p.coord, p.chunk) {
				return
			}
		}
	}
}

// Add installs a chunk at its own origin, replacing any existing entry. The
// origin must be a multiple of the chunk size on every axis.
func (s *Store) Add(c *voxel.Chunk) {
	origin := voxel.CoordOf(c.Origin())
	if origin.Vec() != c.Origin() {
		panic(fmt.Sprintf("world: chunk origin %v is not chunk-aligned", c.Origin()))
	}
	s.mu.Lock()
	s.chunks[origin] = &entry{chunk: c}
	s.modCount++
	s.mu.Unlock()
}

// Remove forgets origin. It reports whether the origin was tracked.
func (s *Store) Remove(origin voxel.Coord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chunks[origin]; !ok {
		return false
	}
	delete(s.chunks, origin)
	s.modCount++
	return true
}

// ModCount returns the current modification count of the entry map.
func (s *Store) ModCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modCount
}
