package main

import (
	"flag"
	"log"
	"path/filepath"
	"runtime"

	"searchit/internal/camera"
	"searchit/internal/config"
	"searchit/internal/graphics"
	"searchit/internal/meshing"
	"searchit/internal/render"
	"searchit/internal/shading"
	"searchit/internal/world"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	tuningPath := flag.String("tuning", "tuning.yaml", "renderer tunables (YAML)")
	settingsPath := flag.String("settings", "settings.json", "camera settings (JSON)")
	chunkDir := flag.String("chunks", "", "chunk directory; overrides chunk_dir from the tuning file")
	demo := flag.Bool("demo", false, "write test-pattern chunks into an empty chunk directory")
	flag.Parse()

	defer closer.Close()

	tuning, err := config.LoadTuning(*tuningPath)
	if err != nil {
		log.Printf("voxelview: %v; using defaults", err)
	}
	if *chunkDir != "" {
		tuning.ChunkDir = *chunkDir
	}
	config.SetRenderDistance(tuning.LoadRadius)

	settings := config.NewCachingSettingsProvider(config.NewJSONSettingsProvider(*settingsPath))

	store, err := world.NewStore(tuning.ChunkDir)
	if err != nil {
		log.Fatalf("voxelview: %v", err)
	}
	if *demo {
		n, err := writeDemoChunks(tuning.ChunkDir)
		if err != nil {
			log.Fatalf("voxelview: demo chunks: %v", err)
		}
		if n > 0 {
			log.Printf("voxelview: wrote %d demo chunks to %s", n, filepath.Clean(tuning.ChunkDir))
		}
	}

	streamer := world.NewStreamer(store, tuning.StreamWorkers)
	closer.Bind(streamer.Close)

	if err := glfw.Init(); err != nil {
		closer.Fatalln("voxelview: glfw:", err)
	}
	closer.Bind(glfw.Terminate)

	window, err := setupWindow()
	if err != nil {
		closer.Fatalln("voxelview: window:", err)
	}

	renderer, err := graphics.NewChunkRenderer()
	if err != nil {
		closer.Fatalln("voxelview: renderer:", err)
	}
	closer.Bind(renderer.Dispose)

	mesher := meshing.New(shading.New(config.ActiveShading(tuning.Shading())))
	coord := render.NewCoordinator(streamer, mesher, render.Options{
		MeshWorkers: tuning.MeshWorkers,
		CullMargin:  tuning.CullMargin,
	})
	closer.Bind(coord.Close)

	cam := camera.NewFly(mgl32.Vec3{16, 40, -40}, mgl32.Vec3{16, 16, 16}, graphics.WinWidth, graphics.WinHeight)
	cam.ApplySettings(settings.Get())

	v := newViewer(window, renderer, coord, cam, settings, tuning)
	v.bindCallbacks()
	v.Run()
}
