// Command goxtool inspects and converts chunk files.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"searchit/internal/gox"
	"searchit/internal/meshing"
	"searchit/internal/shading"
	"searchit/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

const usage = `usage: goxtool <command> [flags] <file>...

commands:
  inspect   decode chunk files and report their status
  convert   rewrite a .gox or .txt export as a .gox file
  stats     mesh chunk files and report face counts
`

func main() {
	log.SetFlags(0)
	log.SetPrefix("goxtool: ")

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "inspect":
		err = runInspect(args)
	case "convert":
		err = runConvert(args)
	case "stats":
		err = runStats(args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	fs.Parse(args)

	for _, path := range fs.Args() {
		res, err := gox.DecodeFile(path, mgl32.Vec3{})
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s, %d/%d sections, %d solid voxels\n",
			path, res.Status, res.Sections, gox.SectionCount, res.Chunk.SolidCount())
		if res.Err != nil {
			fmt.Printf("  %v\n", res.Err)
		}
	}
	return nil
}

func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	compress := fs.Bool("zstd", false, "compress the output with zstd")
	out := fs.String("o", "", "output path (default: input with a .gox extension)")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("convert takes exactly one input file")
	}
	in := fs.Arg(0)

	chunk, err := loadChunk(in)
	if err != nil {
		return err
	}

	dst := *out
	if dst == "" {
		dst = strings.TrimSuffix(strings.TrimSuffix(in, gox.CompressedExt), filepath.Ext(in)) + gox.Ext
		if *compress {
			dst += ".zst"
		}
	}
	if err := gox.WriteFile(dst, chunk, *compress); err != nil {
		return err
	}
	log.Printf("wrote %s (%d solid voxels)", dst, chunk.SolidCount())
	return nil
}

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Parse(args)

	mesher := meshing.New(shading.New(shading.DefaultConfig()))
	var total int
	for _, path := range fs.Args() {
		chunk, err := loadChunk(path)
		if err != nil {
			return err
		}
		mesh := mesher.Build(chunk, mgl32.Vec3{16, 16, -32})
		fmt.Printf("%s: %d solid, %d faces, %d vertices, %d indices\n",
			path, chunk.SolidCount(), mesh.FaceCount(), len(mesh.Positions), len(mesh.Indices))
		total += mesh.FaceCount()
	}
	if fs.NArg() > 1 {
		fmt.Printf("total: %d faces\n", total)
	}
	return nil
}

func loadChunk(path string) (*voxel.Chunk, error) {
	if filepath.Ext(path) == ".txt" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return gox.LoadText(f, mgl32.Vec3{})
	}

	res, err := gox.DecodeFile(path, mgl32.Vec3{})
	if err != nil {
		return nil, err
	}
	if res.Status != gox.StatusDecoded {
		log.Printf("%s: %s: %v", path, res.Status, res.Err)
	}
	return res.Chunk, nil
}
