package gox

import "searchit/internal/voxel"

// paletteEntry maps an authoring color (0xRRGGBB) to a voxel type.
type paletteEntry struct {
	rgb uint32
	typ voxel.Type
}

// Order matters: nearest-color ties resolve to the earliest entry.
var palette = []paletteEntry{
	{0x33FF33, 1}, // green
	{0xFFFF33, 2}, // yellow
	{0xFF3333, 3}, // red
	{0x333333, 4}, // dark gray
	{0x3333FF, 5}, // blue
	{0x33FFFF, 6}, // cyan
	{0xCCCCCC, 7}, // light gray
	{0xCC33CC, 8}, // magenta
	{0xFFFFFF, 0}, // white means empty
}

// Classify maps an RGB color to a voxel type. Exact palette colors map to
// their type; anything else maps to the palette entry with the smallest
// summed per-channel difference.
func Classify(rgb uint32) voxel.Type {
	rgb &= 0xFFFFFF
	best := palette[0]
	bestDist := -1
	for _, e := range palette {
		if e.rgb == rgb {
			return e.typ
		}
		d := channelDistance(rgb, e.rgb)
		if bestDist < 0 || d < bestDist {
			best, bestDist = e, d
		}
	}
	return best.typ
}

// PaletteColor returns the authoring color of a voxel type.
func PaletteColor(t voxel.Type) (uint32, bool) {
	if t == voxel.TypeEmpty {
		return 0, false
	}
	for _, e := range palette {
		if e.typ == t {
			return e.rgb, true
		}
	}
	return 0, false
}

func channelDistance(a, b uint32) int {
	return absDiff(int(a>>16&0xFF), int(b>>16&0xFF)) +
		absDiff(int(a>>8&0xFF), int(b>>8&0xFF)) +
		absDiff(int(a&0xFF), int(b&0xFF))
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
