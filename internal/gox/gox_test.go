package gox

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"searchit/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/klauspost/compress/zstd"
)

func encodeSection(t *testing.T, img image.Image) []byte {
	t.Helper()
	var payload bytes.Buffer
	if err := png.Encode(&payload, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	out := []byte(SectionMarker)
	out = binary.LittleEndian.AppendUint32(out, uint32(payload.Len()))
	return append(out, payload.Bytes()...)
}

func blankSection() *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, SectionImageSize, SectionImageSize))
}

func opaque(rgb uint32) color.NRGBA {
	return color.NRGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xFF}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := voxel.NewTestPattern(mgl32.Vec3{})
	// One voxel per octant corner to exercise every section
	for _, p := range [][3]int{{0, 0, 0}, {31, 0, 0}, {0, 31, 0}, {0, 0, 31}, {31, 31, 0}, {31, 0, 31}, {0, 31, 31}, {31, 31, 31}} {
		src.Set(p[0], p[1], p[2], 8)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, src); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	origin := mgl32.Vec3{64, -32, 0}
	res := Decode(&buf, origin)
	if res.Status != StatusDecoded {
		t.Fatalf("status = %v (%v), want decoded", res.Status, res.Err)
	}
	if res.Sections != SectionCount {
		t.Errorf("sections = %d, want %d", res.Sections, SectionCount)
	}
	if res.Chunk.Origin() != origin {
		t.Errorf("origin = %v, want %v", res.Chunk.Origin(), origin)
	}
	if !bytes.Equal(res.Chunk.VoxelData(), src.VoxelData()) {
		t.Fatal("decoded voxels differ from encoded chunk")
	}
}

func TestEncodeRejectsUnpalettedType(t *testing.T) {
	c := voxel.NewChunk(mgl32.Vec3{})
	c.Set(3, 3, 3, 200)
	if err := Encode(&bytes.Buffer{}, c); err == nil {
		t.Fatal("expected error for type without palette color")
	}
}

func TestOctantOffsetsFollowSectionOrder(t *testing.T) {
	want := [SectionCount][3]int{
		{0, 0, 16}, {16, 0, 16}, {16, 0, 0}, {0, 0, 0},
		{0, 16, 0}, {0, 16, 16}, {16, 16, 16}, {16, 16, 0},
	}
	for s := 0; s < SectionCount; s++ {
		var data []byte
		for i := 0; i < s; i++ {
			data = append(data, encodeSection(t, blankSection())...)
		}
		img := blankSection()
		img.SetNRGBA(0, 0, opaque(0x33FF33))
		data = append(data, encodeSection(t, img)...)

		res := DecodeBytes(data, mgl32.Vec3{})
		if res.Sections != s+1 {
			t.Fatalf("section %d: decoded %d sections", s, res.Sections)
		}
		w := want[s]
		if got := res.Chunk.Get(w[0], w[1], w[2]); got != 1 {
			t.Errorf("section %d: voxel at %v = %d, want 1", s, w, got)
		}
		if got := res.Chunk.SolidCount(); got != 1 {
			t.Errorf("section %d: %d solid voxels, want 1", s, got)
		}
	}
}

func TestPixelRemap(t *testing.T) {
	// Section 3 sits at the chunk origin
	var data []byte
	for i := 0; i < 3; i++ {
		data = append(data, encodeSection(t, blankSection())...)
	}
	img := blankSection()
	img.SetNRGBA(17, 0, opaque(0xFFFF33)) // i=17 -> x=1 z=1 y=0
	img.SetNRGBA(0, 4, opaque(0x3333FF))  // i=256 -> y=1
	img.SetNRGBA(5, 63, opaque(0x333333)) // i=4037 -> x=5 z=12 y=15
	img.SetNRGBA(1, 0, opaque(0xFFFFFF))  // white is empty
	img.SetNRGBA(2, 0, color.NRGBA{R: 0x33, G: 0xFF, B: 0x33, A: 0})
	data = append(data, encodeSection(t, img)...)

	c := DecodeBytes(data, mgl32.Vec3{}).Chunk
	checks := []struct {
		x, y, z int
		want    voxel.Type
	}{
		{1, 0, 1, 2},
		{0, 1, 0, 5},
		{5, 15, 12, 4},
		{1, 0, 0, 0},
		{2, 0, 0, 0},
	}
	for _, ck := range checks {
		if got := c.Get(ck.x, ck.y, ck.z); got != ck.want {
			t.Errorf("voxel (%d,%d,%d) = %d, want %d", ck.x, ck.y, ck.z, got, ck.want)
		}
	}
	if got := c.SolidCount(); got != 3 {
		t.Errorf("solid voxels = %d, want 3", got)
	}
}

func TestDecodeSkipsLeadingBytes(t *testing.T) {
	img := blankSection()
	img.SetNRGBA(0, 0, opaque(0xFF3333))
	data := append([]byte("GOX junk BL1 BL"), encodeSection(t, img)...)

	res := DecodeBytes(data, mgl32.Vec3{})
	if res.Sections != 1 || res.Status != StatusPartial {
		t.Fatalf("got %d sections, status %v", res.Sections, res.Status)
	}
	if got := res.Chunk.Get(0, 0, 16); got != 3 {
		t.Errorf("voxel = %d, want 3", got)
	}
}

func TestDecodeWithoutMarker(t *testing.T) {
	res := Decode(strings.NewReader("not a chunk file"), mgl32.Vec3{})
	if res.Status != StatusPartial {
		t.Fatalf("status = %v, want partial", res.Status)
	}
	if !errors.Is(res.Err, ErrMarkerNotFound) {
		t.Errorf("err = %v, want ErrMarkerNotFound", res.Err)
	}
	if res.Chunk == nil || res.Chunk.SolidCount() != 0 {
		t.Error("expected an empty chunk")
	}
}

func TestDecodeTruncatedPayloadKeepsEarlierSections(t *testing.T) {
	img := blankSection()
	img.SetNRGBA(0, 0, opaque(0x33FF33))
	data := encodeSection(t, img)
	second := encodeSection(t, img)
	data = append(data, second[:len(second)-10]...)

	res := DecodeBytes(data, mgl32.Vec3{})
	if res.Status != StatusPartial || res.Sections != 1 {
		t.Fatalf("status %v, sections %d; want partial with 1 section", res.Status, res.Sections)
	}
	if res.Chunk.Get(0, 0, 16) != 1 {
		t.Error("first section voxel missing")
	}
	if res.Err == nil {
		t.Error("expected an explanation for the partial result")
	}
}

func TestDecodeCorruptImageYieldsPlaceholder(t *testing.T) {
	data := []byte(SectionMarker)
	data = binary.LittleEndian.AppendUint32(data, 6)
	data = append(data, "garbag"...)

	res := DecodeBytes(data, mgl32.Vec3{32, 0, 0})
	if res.Status != StatusPlaceholder {
		t.Fatalf("status = %v, want placeholder", res.Status)
	}
	want := voxel.NewTestPattern(mgl32.Vec3{32, 0, 0})
	if !bytes.Equal(res.Chunk.VoxelData(), want.VoxelData()) {
		t.Error("placeholder is not the test pattern")
	}
	if res.Chunk.Origin() != (mgl32.Vec3{32, 0, 0}) {
		t.Errorf("placeholder origin = %v", res.Chunk.Origin())
	}
}

func TestClassify(t *testing.T) {
	for _, e := range palette {
		if got := Classify(e.rgb); got != e.typ {
			t.Errorf("Classify(%06X) = %d, want %d", e.rgb, got, e.typ)
		}
	}
	if got := Classify(0xFF000000 | 0x33FF33); got != 1 {
		t.Errorf("alpha bits should be ignored, got %d", got)
	}
	if got := Classify(0x30F030); got != 1 {
		t.Errorf("near-green = %d, want 1", got)
	}
	if got := Classify(0x000000); got != 4 {
		t.Errorf("black = %d, want 4 (dark gray)", got)
	}
	// Equidistant from green and yellow: the earlier entry wins
	if got := Classify(0x99FF33); got != 1 {
		t.Errorf("tie = %d, want 1", got)
	}
	for i := 0; i < 10; i++ {
		if Classify(0x123456) != Classify(0x123456) {
			t.Fatal("Classify is not deterministic")
		}
	}
}

func TestPaletteColor(t *testing.T) {
	if rgb, ok := PaletteColor(5); !ok || rgb != 0x3333FF {
		t.Errorf("PaletteColor(5) = %06X, %v", rgb, ok)
	}
	if _, ok := PaletteColor(0); ok {
		t.Error("empty type should have no palette color")
	}
}

func TestDecodeFileZstd(t *testing.T) {
	dir := t.TempDir()
	src := voxel.NewTestPattern(mgl32.Vec3{})

	var raw bytes.Buffer
	if err := Encode(&raw, src); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, FileName(voxel.Coord{})+".zst")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Write(raw.Bytes()); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	res, err := DecodeFile(path, mgl32.Vec3{})
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if res.Status != StatusDecoded || !bytes.Equal(res.Chunk.VoxelData(), src.VoxelData()) {
		t.Fatalf("zstd chunk did not round-trip (status %v)", res.Status)
	}
}

func TestDecodeFileMissing(t *testing.T) {
	_, err := DecodeFile(filepath.Join(t.TempDir(), "nope.gox"), mgl32.Vec3{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist", err)
	}
}

func TestFileName(t *testing.T) {
	if got := FileName(voxel.Coord{X: -32, Y: 0, Z: 64}); got != "Chunk_-32_0_64.gox" {
		t.Errorf("FileName = %q", got)
	}
}

func TestLoadText(t *testing.T) {
	src := `# Goxel export
# X Y Z RRGGBB
0 0 0 33ff33
-16 -16 5 ff3333
15 15 31 ffffff

1 2
`
	c, err := LoadText(strings.NewReader(src), mgl32.Vec3{})
	if err != nil {
		t.Fatalf("LoadText: %v", err)
	}
	if got := c.Get(16, 0, 16); got != 1 {
		t.Errorf("voxel (16,0,16) = %d, want 1", got)
	}
	if got := c.Get(0, 5, 0); got != 3 {
		t.Errorf("voxel (0,5,0) = %d, want 3", got)
	}
	if got := c.SolidCount(); got != 2 {
		t.Errorf("solid = %d, want 2", got)
	}

	if _, err := LoadText(strings.NewReader("1 2 x 33ff33"), mgl32.Vec3{}); err == nil {
		t.Error("expected error for bad coordinate")
	}
}

func BenchmarkDecodeBytes(b *testing.B) {
	var buf bytes.Buffer
	if err := Encode(&buf, voxel.NewTestPattern(mgl32.Vec3{})); err != nil {
		b.Fatal(err)
	}
	data := buf.Bytes()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = DecodeBytes(data, mgl32.Vec3{})
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	src := voxel.NewTestPattern(mgl32.Vec3{32, 0, 0})

	for _, compress := range []bool{false, true} {
		path := filepath.Join(dir, FileName(voxel.Coord{X: 32}))
		if compress {
			path += ".zst"
		}
		if err := WriteFile(path, src, compress); err != nil {
			t.Fatalf("WriteFile(compress=%v): %v", compress, err)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if got := bytes.HasPrefix(raw, zstdMagic); got != compress {
			t.Errorf("compress=%v: zstd magic present = %v", compress, got)
		}
		res, err := DecodeFile(path, src.Origin())
		if err != nil {
			t.Fatal(err)
		}
		if res.Status != StatusDecoded || !bytes.Equal(res.Chunk.VoxelData(), src.VoxelData()) {
			t.Errorf("compress=%v: round trip failed (status %v)", compress, res.Status)
		}
		if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
			t.Errorf("temporary file left behind")
		}
	}

	bad := voxel.NewChunk(mgl32.Vec3{})
	bad.Set(0, 0, 0, 77)
	path := filepath.Join(dir, "bad.gox")
	if err := WriteFile(path, bad, false); err == nil {
		t.Error("unpaletted chunk written")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("failed write left a file")
	}
}
