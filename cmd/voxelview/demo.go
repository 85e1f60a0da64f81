package main

import (
	"os"
	"path/filepath"

	"searchit/internal/gox"
	"searchit/internal/voxel"
)

// demoOrigins places a small cross of chunks around the world origin
var demoOrigins = []voxel.Coord{
	{}, {X: 32}, {X: -32}, {Z: 32}, {Z: -32}, {Y: 32},
}

// writeDemoChunks fills an empty chunk directory with test-pattern chunks
// and returns how many files it wrote.
func writeDemoChunks(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	if len(entries) > 0 {
		return 0, nil
	}
	// Every other chunk is stored compressed
	for i, origin := range demoOrigins {
		compress := i%2 == 1
		name := gox.FileName(origin)
		if compress {
			name += ".zst"
		}
		if err := gox.WriteFile(filepath.Join(dir, name), voxel.NewTestPattern(origin.Vec()), compress); err != nil {
			return i, err
		}
	}
	return len(demoOrigins), nil
}
