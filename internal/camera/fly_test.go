package camera

import (
	"math"
	"testing"

	"searchit/internal/config"
	"searchit/internal/render"

	"github.com/go-gl/mathgl/mgl32"
)

var _ render.Camera = (*Fly)(nil)

func vecNear(a, b mgl32.Vec3) bool {
	return a.Sub(b).Len() < 1e-4
}

func TestNewFlyLooksAtTarget(t *testing.T) {
	c := NewFly(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 10}, 800, 600)
	if !vecNear(c.Direction(), mgl32.Vec3{0, 0, 1}) {
		t.Errorf("direction = %v", c.Direction())
	}
	if !vecNear(c.Right(), mgl32.Vec3{-1, 0, 0}) {
		t.Errorf("right = %v", c.Right())
	}
	if c.AspectRatio != 800.0/600.0 {
		t.Errorf("aspect = %v", c.AspectRatio)
	}

	c = NewFly(mgl32.Vec3{5, 3, 8}, mgl32.Vec3{}, 800, 600)
	want := mgl32.Vec3{-5, -3, -8}.Normalize()
	if !vecNear(c.Direction(), want) {
		t.Errorf("direction = %v, want %v", c.Direction(), want)
	}
}

func TestPitchClamp(t *testing.T) {
	c := NewFly(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, 1, 1)
	limit := float32(math.Pi/2 - 0.1)

	c.SetPitch(10)
	if c.Pitch() != limit {
		t.Errorf("pitch = %v, want %v", c.Pitch(), limit)
	}
	c.SetPitch(-10)
	if c.Pitch() != -limit {
		t.Errorf("pitch = %v, want %v", c.Pitch(), -limit)
	}

	c = NewFly(mgl32.Vec3{}, mgl32.Vec3{0, 100, 0.001}, 1, 1)
	if c.Pitch() > limit {
		t.Errorf("looking straight up was not clamped: %v", c.Pitch())
	}
}

func TestProcessMouse(t *testing.T) {
	c := NewFly(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, 1, 1)
	c.LookSensitivity = 1

	c.ProcessMouse(90, 0)
	if !vecNear(c.Direction(), mgl32.Vec3{-1, 0, 0}) {
		t.Errorf("after turning right: %v", c.Direction())
	}

	c.ProcessMouse(0, 30)
	if got := c.Pitch(); !mgl32.FloatEqualThreshold(got, mgl32.DegToRad(-30), 1e-5) {
		t.Errorf("pitch after moving down = %v", got)
	}
}

func TestHandleCursorSkipsFirstSample(t *testing.T) {
	c := NewFly(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, 1, 1)
	c.HandleCursor(400, 300)
	if c.Yaw() != 0 || c.Pitch() != 0 {
		t.Fatal("first cursor sample turned the camera")
	}
	c.HandleCursor(410, 300)
	if c.Yaw() >= 0 {
		t.Errorf("yaw = %v after moving right", c.Yaw())
	}
}

func TestLevelMovement(t *testing.T) {
	c := NewFly(mgl32.Vec3{}, mgl32.Vec3{0, 5, 10}, 1, 1)
	c.ApplySettings(config.Settings{LookSensitivity: 0.1, MoveSpeed: 0.1})

	c.MoveForward(1)
	if !vecNear(c.Position(), mgl32.Vec3{0, 0, 10}) {
		t.Errorf("forward moved to %v", c.Position())
	}
	c.MoveRight(1)
	if !vecNear(c.Position(), mgl32.Vec3{-10, 0, 10}) {
		t.Errorf("right moved to %v", c.Position())
	}
	c.MoveUp(-0.5)
	if !vecNear(c.Position(), mgl32.Vec3{-10, -5, 10}) {
		t.Errorf("up moved to %v", c.Position())
	}
}

func TestViewProjectionSeesAhead(t *testing.T) {
	c := NewFly(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}, 1, 1)
	clip := c.ViewProjection().Mul4x1(mgl32.Vec4{0, 0, 10, 1})
	ndc := clip.Vec3().Mul(1 / clip.W())
	if ndc.X() < -1 || ndc.X() > 1 || ndc.Z() < -1 || ndc.Z() > 1 {
		t.Errorf("point ahead projects outside the view: %v", ndc)
	}
	behind := c.ViewProjection().Mul4x1(mgl32.Vec4{0, 0, -10, 1})
	if behind.W() > 0 {
		t.Error("point behind has positive w")
	}
}
