package gox

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"searchit/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/klauspost/compress/zstd"
)

const (
	// Extension of plain chunk files
	Ext = ".gox"

	// Extension of zstd-compressed chunk files
	CompressedExt = Ext + ".zst"
)

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// FileName returns the base file name for the chunk at origin.
func FileName(origin voxel.Coord) string {
	return fmt.Sprintf("Chunk_%d_%d_%d%s", origin.X, origin.Y, origin.Z, Ext)
}

type zstdFile struct {
	*zstd.Decoder
	f *os.File
}

func (z *zstdFile) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}

type bufferedFile struct {
	*bufio.Reader
	f *os.File
}

func (b *bufferedFile) Close() error {
	return b.f.Close()
}

// Open opens a chunk file, transparently decompressing zstd content.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(f)
	head, _ := br.Peek(len(zstdMagic))
	if !bytes.Equal(head, zstdMagic) {
		return &bufferedFile{Reader: br, f: f}, nil
	}

	dec, err := zstd.NewReader(br)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open zstd stream %s: %w", path, err)
	}
	return &zstdFile{Decoder: dec, f: f}, nil
}

// DecodeFile decodes the chunk file at path. Only failures to open the file
// are returned; a missing file yields an error matching os.ErrNotExist.
func DecodeFile(path string, origin mgl32.Vec3) (Result, error) {
	rc, err := Open(path)
	if err != nil {
		return Result{}, err
	}
	defer rc.Close()
	return Decode(rc, origin), nil
}

// WriteFile encodes c to path, zstd-compressing the stream when compress is
// set. The file is written to a temporary name and renamed into place.
func WriteFile(path string, c *voxel.Chunk, compress bool) (err error) {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create chunk file: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	var w io.Writer = f
	var enc *zstd.Encoder
	if compress {
		enc, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return fmt.Errorf("zstd writer: %w", err)
		}
		w = enc
	}
	if err = Encode(w, c); err != nil {
		return err
	}
	if enc != nil {
		if err = enc.Close(); err != nil {
			return fmt.Errorf("flush zstd stream: %w", err)
		}
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close chunk file: %w", err)
	}
	return os.Rename(tmp, path)
}
