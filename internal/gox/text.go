package gox

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"searchit/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// LoadText reads a plain-text voxel export made of "x y z RRGGBB" lines.
// The export is centered on x and z and uses z as its up axis, so a line maps
// to local voxel (x+16, z, y+16). Lines containing '#' are comments.
func LoadText(r io.Reader, origin mgl32.Vec3) (*voxel.Chunk, error) {
	c := voxel.NewChunk(origin)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.Contains(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 4 {
			continue
		}

		var coords [3]int
		for i := range coords {
			v, err := strconv.Atoi(fields[i])
			if err != nil {
				return nil, fmt.Errorf("line %d: coordinate %q: %w", line, fields[i], err)
			}
			coords[i] = v
		}
		rgb, err := strconv.ParseUint(fields[3], 16, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: color %q: %w", line, fields[3], err)
		}

		x := coords[0] + OctantSize
		z := coords[1] + OctantSize
		y := coords[2]
		c.Set(x, y, z, Classify(uint32(rgb)))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read text export: %w", err)
	}
	return c, nil
}
