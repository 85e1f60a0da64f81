package gox

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"searchit/internal/voxel"
)

// fileHeader opens every file written by Encode. Decoding ignores it.
var fileHeader = []byte{'G', 'O', 'X', ' ', 2, 0, 0, 0}

// Encode writes a chunk as eight PNG sections in octant order. Every solid
// voxel type must have a palette color.
func Encode(w io.Writer, c *voxel.Chunk) error {
	if _, err := w.Write(fileHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	var buf bytes.Buffer
	for s := 0; s < SectionCount; s++ {
		img, err := sectionImage(c, s)
		if err != nil {
			return err
		}

		buf.Reset()
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("encode section %d: %w", s, err)
		}

		var hdr [8]byte
		copy(hdr[:4], SectionMarker)
		binary.LittleEndian.PutUint32(hdr[4:], uint32(buf.Len()))
		if _, err := w.Write(hdr[:]); err != nil {
			return fmt.Errorf("write section %d header: %w", s, err)
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("write section %d: %w", s, err)
		}
	}
	return nil
}

func sectionImage(c *voxel.Chunk, section int) (*image.NRGBA, error) {
	img := image.NewNRGBA(image.Rect(0, 0, SectionImageSize, SectionImageSize))
	off := octantOffsets[section]

	for y := 0; y < OctantSize; y++ {
		for z := 0; z < OctantSize; z++ {
			for x := 0; x < OctantSize; x++ {
				t := c.Get(x+off[0]*OctantSize, y+off[1]*OctantSize, z+off[2]*OctantSize)
				if t == voxel.TypeEmpty {
					continue
				}
				rgb, ok := PaletteColor(t)
				if !ok {
					return nil, fmt.Errorf("section %d: voxel type %d has no palette color", section, t)
				}
				px, py := localToPixel(x, y, z)
				img.SetNRGBA(px, py, color.NRGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xFF})
			}
		}
	}
	return img, nil
}
