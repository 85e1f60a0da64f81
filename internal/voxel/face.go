package voxel

import "github.com/go-gl/mathgl/mgl32"

// Face identifies one of the six cube faces.
type Face int

const (
	FaceFront  Face = iota // -Z
	FaceBack               // +Z
	FaceLeft               // -X
	FaceRight              // +X
	FaceTop                // +Y
	FaceBottom             // -Y
)

// Faces lists every face direction in palette order.
var Faces = [6]Face{FaceFront, FaceBack, FaceLeft, FaceRight, FaceTop, FaceBottom}

var faceOffsets = [6][3]int{
	FaceFront:  {0, 0, -1},
	FaceBack:   {0, 0, 1},
	FaceLeft:   {-1, 0, 0},
	FaceRight:  {1, 0, 0},
	FaceTop:    {0, 1, 0},
	FaceBottom: {0, -1, 0},
}

// Offset returns the integer step towards the neighbor across this face.
func (f Face) Offset() (dx, dy, dz int) {
	o := faceOffsets[f]
	return o[0], o[1], o[2]
}

// Normal returns the outward unit normal of the face.
func (f Face) Normal() mgl32.Vec3 {
	o := faceOffsets[f]
	return mgl32.Vec3{float32(o[0]), float32(o[1]), float32(o[2])}
}

func (f Face) String() string {
	switch f {
	case FaceFront:
		return "front"
	case FaceBack:
		return "back"
	case FaceLeft:
		return "left"
	case FaceRight:
		return "right"
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	}
	return "unknown"
}
