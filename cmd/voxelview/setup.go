package main

import (
	"searchit/internal/graphics"
	"searchit/internal/input"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func setupWindow() (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(graphics.WinWidth, graphics.WinHeight, "voxelview", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	// Disable V-Sync; the FPS limiter paces frames
	glfw.SwapInterval(0)
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	return window, nil
}

func defaultBindings() map[input.Key][]input.Action {
	return map[input.Key][]input.Action{
		input.Key(glfw.KeyW):            {input.ActionMoveForward},
		input.Key(glfw.KeyS):            {input.ActionMoveBackward},
		input.Key(glfw.KeyA):            {input.ActionMoveLeft},
		input.Key(glfw.KeyD):            {input.ActionMoveRight},
		input.Key(glfw.KeySpace):        {input.ActionMoveUp},
		input.Key(glfw.KeyC):            {input.ActionMoveDown},
		input.Key(glfw.KeyLeftBracket):  {input.ActionLookSlower},
		input.Key(glfw.KeyRightBracket): {input.ActionLookFaster},
		input.Key(glfw.KeyMinus):        {input.ActionMoveSlower},
		input.Key(glfw.KeyEqual):        {input.ActionMoveFaster},
		input.Key(glfw.KeyPageDown):     {input.ActionRadiusDown},
		input.Key(glfw.KeyPageUp):       {input.ActionRadiusUp},
		input.Key(glfw.KeyF):            {input.ActionToggleShading},
		input.Key(glfw.KeyV):            {input.ActionToggleProfiling},
		input.Key(glfw.KeyEscape):       {input.ActionQuit},
	}
}
