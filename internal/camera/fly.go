package camera

import (
	"math"

	"searchit/internal/config"

	"github.com/go-gl/mathgl/mgl32"
)

// Pitch stays this far away from straight up or down
const pitchMargin = 0.1

// SpeedScale converts a MoveSpeed setting into blocks per second
const SpeedScale = 100

var worldUp = mgl32.Vec3{0, 1, 0}

// Fly is a free-flying perspective camera. Yaw 0 looks down +Z; angles are
// in radians.
type Fly struct {
	pos   mgl32.Vec3
	yaw   float32
	pitch float32

	FOV         float32 // degrees
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	// Degrees per pixel of mouse movement
	LookSensitivity float32
	MoveSpeed       float32

	firstMouse             bool
	lastMouseX, lastMouseY float64
}

// NewFly creates a camera at position looking at target.
func NewFly(position, target mgl32.Vec3, width, height int) *Fly {
	s := config.DefaultSettings()
	c := &Fly{
		pos:             position,
		FOV:             45,
		NearPlane:       0.1,
		FarPlane:        500,
		LookSensitivity: float32(s.LookSensitivity),
		MoveSpeed:       float32(s.MoveSpeed),
		firstMouse:      true,
	}
	c.SetViewport(width, height)
	c.LookAt(target)
	return c
}

// LookAt turns the camera towards target.
func (c *Fly) LookAt(target mgl32.Vec3) {
	d := target.Sub(c.pos)
	if d.Len() < 1e-6 {
		return
	}
	d = d.Normalize()
	c.yaw = float32(math.Atan2(float64(d.X()), float64(d.Z())))
	c.SetPitch(float32(math.Asin(float64(d.Y()))))
}

// SetViewport updates the aspect ratio.
func (c *Fly) SetViewport(width, height int) {
	if height <= 0 {
		height = 1
	}
	c.AspectRatio = float32(width) / float32(height)
}

// ApplySettings copies user settings onto the camera.
func (c *Fly) ApplySettings(s config.Settings) {
	c.LookSensitivity = float32(s.LookSensitivity)
	c.MoveSpeed = float32(s.MoveSpeed)
}

func (c *Fly) Position() mgl32.Vec3 {
	return c.pos
}

func (c *Fly) SetPosition(p mgl32.Vec3) {
	c.pos = p
}

func (c *Fly) Yaw() float32 {
	return c.yaw
}

func (c *Fly) SetYaw(yaw float32) {
	c.yaw = yaw
}

func (c *Fly) Pitch() float32 {
	return c.pitch
}

// SetPitch clamps to avoid flipping over the poles.
func (c *Fly) SetPitch(pitch float32) {
	limit := float32(math.Pi/2 - pitchMargin)
	c.pitch = mgl32.Clamp(pitch, -limit, limit)
}

// Direction returns the unit view direction.
func (c *Fly) Direction() mgl32.Vec3 {
	sy, cy := math.Sincos(float64(c.yaw))
	sp, cp := math.Sincos(float64(c.pitch))
	return mgl32.Vec3{float32(sy * cp), float32(sp), float32(cy * cp)}.Normalize()
}

// Right returns the unit vector to the right of the view direction.
func (c *Fly) Right() mgl32.Vec3 {
	return c.Direction().Cross(worldUp).Normalize()
}

// ProcessMouse turns the camera by a mouse movement in pixels; positive dy
// is downwards on screen.
func (c *Fly) ProcessMouse(dx, dy float32) {
	c.yaw -= mgl32.DegToRad(dx * c.LookSensitivity)
	c.SetPitch(c.pitch - mgl32.DegToRad(dy*c.LookSensitivity))
}

// HandleCursor feeds an absolute cursor position; the first call only
// records it.
func (c *Fly) HandleCursor(xpos, ypos float64) {
	if c.firstMouse {
		c.lastMouseX = xpos
		c.lastMouseY = ypos
		c.firstMouse = false
		return
	}
	dx := xpos - c.lastMouseX
	dy := ypos - c.lastMouseY
	c.lastMouseX = xpos
	c.lastMouseY = ypos
	c.ProcessMouse(float32(dx), float32(dy))
}

// ResetCursor makes the next HandleCursor call a fresh start.
func (c *Fly) ResetCursor() {
	c.firstMouse = true
}

// level drops the vertical component, keeping v when it is nearly vertical.
func level(v mgl32.Vec3) mgl32.Vec3 {
	l := mgl32.Vec3{v.X(), 0, v.Z()}
	if l.Dot(l) > 0.0001 {
		return l.Normalize()
	}
	return l
}

// MoveForward moves along the horizontal view direction for dt seconds.
func (c *Fly) MoveForward(dt float32) {
	c.pos = c.pos.Add(level(c.Direction()).Mul(dt * c.MoveSpeed * SpeedScale))
}

// MoveRight strafes horizontally for dt seconds.
func (c *Fly) MoveRight(dt float32) {
	c.pos = c.pos.Add(level(c.Right()).Mul(dt * c.MoveSpeed * SpeedScale))
}

// MoveUp moves along world up for dt seconds.
func (c *Fly) MoveUp(dt float32) {
	c.pos = c.pos.Add(worldUp.Mul(dt * c.MoveSpeed * SpeedScale))
}

func (c *Fly) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.pos, c.pos.Add(c.Direction()), worldUp)
}

func (c *Fly) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// ViewProjection returns projection * view.
func (c *Fly) ViewProjection() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}
