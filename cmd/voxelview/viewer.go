package main

import (
	"fmt"
	"log"
	"time"

	"searchit/internal/camera"
	"searchit/internal/config"
	"searchit/internal/graphics"
	"searchit/internal/input"
	"searchit/internal/meshing"
	"searchit/internal/profiling"
	"searchit/internal/render"
	"searchit/internal/shading"

	"github.com/go-gl/glfw/v3.3/glfw"
)

const slowFrame = 50 * time.Millisecond

type viewer struct {
	window   *glfw.Window
	renderer *graphics.ChunkRenderer
	coord    *render.Coordinator
	cam      *camera.Fly
	settings config.SettingsProvider
	tuning   config.Tuning
	input    *input.Manager
	limiter  FPSLimiter

	profile    bool
	background bool
	lastTitle  time.Time
	frameCount int
}

func newViewer(window *glfw.Window, renderer *graphics.ChunkRenderer, coord *render.Coordinator,
	cam *camera.Fly, settings config.SettingsProvider, tuning config.Tuning) *viewer {
	return &viewer{
		window:   window,
		renderer: renderer,
		coord:    coord,
		cam:      cam,
		settings: settings,
		tuning:   tuning,
		input:    input.NewManager(defaultBindings()),
	}
}

func (v *viewer) bindCallbacks() {
	v.window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		switch action {
		case glfw.Press:
			v.input.HandleKey(input.Key(key), true)
		case glfw.Release:
			v.input.HandleKey(input.Key(key), false)
		}
	})
	v.window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		v.cam.HandleCursor(xpos, ypos)
	})
	v.window.SetFocusCallback(func(w *glfw.Window, focused bool) {
		v.background = !focused
		if focused {
			v.cam.ResetCursor()
		}
	})
	v.window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		if width == 0 || height == 0 {
			return
		}
		v.renderer.SetViewport(width, height)
		v.cam.SetViewport(width, height)
	})

	width, height := v.window.GetFramebufferSize()
	v.renderer.SetViewport(width, height)
	v.cam.SetViewport(width, height)
}

// Run drives frames until the window closes.
func (v *viewer) Run() {
	last := time.Now()
	for !v.window.ShouldClose() {
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		profiling.ResetFrame()
		glfw.PollEvents()
		v.handleActions(dt)
		v.input.PostUpdate()

		v.frame()
		v.window.SwapBuffers()

		frameTime := time.Since(now)
		if v.profile && frameTime > slowFrame {
			log.Printf("slow frame %v: %s [%s]", frameTime.Round(time.Millisecond), profiling.TopN(4), profiling.Counters())
		}
		v.updateTitle(now)
		v.limiter.Wait(v.background)
	}
}

func (v *viewer) frame() {
	defer profiling.Track("frame")()

	v.coord.UpdateFocus(v.cam.Position(), config.GetChunkLoadRadius())

	vp := v.cam.ViewProjection()
	v.renderer.BeginFrame(v.cam.ViewMatrix(), v.cam.ProjectionMatrix())
	v.coord.PrepareMeshes(vp)
	v.coord.Render(v.cam, v.renderer)
}

func (v *viewer) handleActions(dt float32) {
	in := v.input

	v.cam.MoveForward(dt * in.Axis(input.ActionMoveForward, input.ActionMoveBackward))
	v.cam.MoveRight(dt * in.Axis(input.ActionMoveRight, input.ActionMoveLeft))
	v.cam.MoveUp(dt * in.Axis(input.ActionMoveUp, input.ActionMoveDown))

	s := v.settings.Get()
	adjusted := s
	switch {
	case in.JustPressed(input.ActionLookSlower):
		adjusted = s.AdjustLook(-0.05)
	case in.JustPressed(input.ActionLookFaster):
		adjusted = s.AdjustLook(0.05)
	case in.JustPressed(input.ActionMoveSlower):
		adjusted = s.AdjustMove(-0.05)
	case in.JustPressed(input.ActionMoveFaster):
		adjusted = s.AdjustMove(0.05)
	}
	if adjusted != s {
		if err := v.settings.Save(adjusted); err != nil {
			log.Printf("voxelview: saving settings: %v", err)
		}
		v.cam.ApplySettings(adjusted)
	}

	if in.JustPressed(input.ActionRadiusDown) {
		config.SetRenderDistance(config.GetRenderDistance() - 1)
	}
	if in.JustPressed(input.ActionRadiusUp) {
		config.SetRenderDistance(config.GetRenderDistance() + 1)
	}

	if in.JustPressed(input.ActionToggleShading) {
		config.SetDramaticShading(!config.GetDramaticShading())
		falloff := config.ActiveShading(v.tuning.Shading())
		v.coord.SetMesher(meshing.New(shading.New(falloff)))
		log.Printf("shading: min %.2f max %.2f over %.0f..%.0f",
			falloff.MinShade, falloff.MaxShade, falloff.MinDistance, falloff.MaxDistance)
	}
	if in.JustPressed(input.ActionToggleProfiling) {
		v.profile = !v.profile
	}
	if in.JustPressed(input.ActionQuit) {
		v.window.SetShouldClose(true)
	}
}

func (v *viewer) updateTitle(now time.Time) {
	v.frameCount++
	elapsed := now.Sub(v.lastTitle)
	if elapsed < time.Second {
		return
	}
	fps := float64(v.frameCount) / elapsed.Seconds()
	v.frameCount = 0
	v.lastTitle = now

	p := v.cam.Position()
	v.window.SetTitle(fmt.Sprintf("voxelview | %.0f fps | chunks %d/%d | pos %.1f %.1f %.1f | r%d",
		fps, v.coord.RenderedChunkCount(), v.coord.LoadedChunkCount(), p[0], p[1], p[2], config.GetRenderDistance()))
}
