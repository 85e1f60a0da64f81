package gox

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	// Section payload codecs
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"searchit/internal/profiling"
	"searchit/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Marker preceding every embedded section image
	SectionMarker = "BL16"

	// Sections per chunk, one per octant
	SectionCount = 8

	// Octant edge length in voxels
	OctantSize = voxel.ChunkSize / 2

	// Section images are 64x64, i.e. 16*16*16 pixels
	SectionImageSize = 64

	// Maximum bytes scanned forward while looking for the next marker
	MaxMarkerSearch = 1024 * 1024
)

// ErrMarkerNotFound is reported when a stream carries no section marker at all.
var ErrMarkerNotFound = errors.New("gox: section marker not found")

// octantOffsets maps section order to octant position in units of OctantSize.
// Files were authored against this exact order.
var octantOffsets = [SectionCount][3]int{
	{0, 0, 1},
	{1, 0, 1},
	{1, 0, 0},
	{0, 0, 0},
	{0, 1, 0},
	{0, 1, 1},
	{1, 1, 1},
	{1, 1, 0},
}

// Status tags how a chunk was produced by the decoder.
type Status int

const (
	// All sections were decoded
	StatusDecoded Status = iota
	// Decoding stopped early; the chunk holds the sections read so far
	StatusPartial
	// A section could not be decoded; the chunk is a synthetic test pattern
	StatusPlaceholder
)

func (s Status) String() string {
	switch s {
	case StatusDecoded:
		return "decoded"
	case StatusPartial:
		return "partial"
	case StatusPlaceholder:
		return "placeholder"
	}
	return "unknown"
}

// Result is the outcome of decoding one chunk. Chunk is never nil.
type Result struct {
	Chunk    *voxel.Chunk
	Status   Status
	Sections int
	// Err explains a partial or placeholder result
	Err error
}

// Decode reads a chunk stream and never fails: truncated input yields a
// partial chunk and undecodable images yield a placeholder.
func Decode(r io.Reader, origin mgl32.Vec3) Result {
	data, err := io.ReadAll(r)
	res := DecodeBytes(data, origin)
	if err != nil && res.Status == StatusDecoded {
		res.Status = StatusPartial
	}
	if err != nil && res.Err == nil {
		res.Err = fmt.Errorf("read chunk stream: %w", err)
	}
	return res
}

// DecodeBytes decodes an in-memory chunk file.
func DecodeBytes(data []byte, origin mgl32.Vec3) (res Result) {
	defer profiling.Track("gox.DecodeBytes")()

	defer func() {
		if r := recover(); r != nil {
			res = placeholder(origin, res.Sections, fmt.Errorf("gox: decoder panic: %v", r))
		}
	}()

	voxels := make([]voxel.Type, voxel.ChunkVolume)
	pos := 0
	sections := 0

	for sections < SectionCount {
		at := findMarker(data, pos)
		if at < 0 {
			if sections == 0 {
				res.Err = ErrMarkerNotFound
			} else {
				res.Err = fmt.Errorf("gox: no marker for section %d", sections)
			}
			break
		}
		pos = at + len(SectionMarker)

		if pos+4 > len(data) {
			res.Err = fmt.Errorf("gox: section %d: %w", sections, io.ErrUnexpectedEOF)
			break
		}
		size := int(binary.LittleEndian.Uint32(data[pos:]))
		pos += 4

		if size > len(data)-pos {
			res.Err = fmt.Errorf("gox: section %d: payload needs %d bytes, %d left: %w",
				sections, size, len(data)-pos, io.ErrUnexpectedEOF)
			break
		}
		payload := data[pos : pos+size]
		pos += size

		img, _, err := image.Decode(bytes.NewReader(payload))
		if err != nil {
			return placeholder(origin, sections, fmt.Errorf("gox: section %d: %w", sections, err))
		}
		applySection(sections, img, voxels)
		sections++
	}

	res.Chunk = voxel.NewChunkFromData(origin, voxels)
	res.Sections = sections
	if sections == SectionCount {
		res.Status = StatusDecoded
	} else {
		res.Status = StatusPartial
	}
	return res
}

func placeholder(origin mgl32.Vec3, sections int, err error) Result {
	return Result{
		Chunk:    voxel.NewTestPattern(origin),
		Status:   StatusPlaceholder,
		Sections: sections,
		Err:      err,
	}
}

// findMarker returns the offset of the next marker starting within
// MaxMarkerSearch bytes of from, or -1.
func findMarker(data []byte, from int) int {
	if from >= len(data) {
		return -1
	}
	end := min(len(data), from+MaxMarkerSearch+len(SectionMarker)-1)
	i := bytes.Index(data[from:end], []byte(SectionMarker))
	if i < 0 {
		return -1
	}
	return from + i
}

// applySection writes the voxels encoded by one section image.
func applySection(section int, img image.Image, voxels []voxel.Type) {
	b := img.Bounds()
	off := octantOffsets[section]

	for py := 0; py < SectionImageSize; py++ {
		for px := 0; px < SectionImageSize; px++ {
			ix, iy := b.Min.X+px, b.Min.Y+py
			if ix >= b.Max.X || iy >= b.Max.Y {
				continue
			}
			c := color.NRGBAModel.Convert(img.At(ix, iy)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			t := Classify(uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B))
			if t == voxel.TypeEmpty {
				continue
			}
			x, y, z := pixelToLocal(px, py)
			voxels[voxel.Index(x+off[0]*OctantSize, y+off[1]*OctantSize, z+off[2]*OctantSize)] = t
		}
	}
}

// pixelToLocal unpacks a pixel's linear index as x + 16*z + 256*y inside
// an octant.
func pixelToLocal(px, py int) (x, y, z int) {
	i := px + SectionImageSize*py
	x = i % OctantSize
	i /= OctantSize
	z = i % OctantSize
	y = i / OctantSize
	return x, y, z
}

// localToPixel is the inverse of pixelToLocal.
func localToPixel(x, y, z int) (px, py int) {
	i := x + OctantSize*z + OctantSize*OctantSize*y
	return i % SectionImageSize, i / SectionImageSize
}
