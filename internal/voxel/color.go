package voxel

import "github.com/go-gl/mathgl/mgl32"

// FaceColors holds one RGB color per face, indexed by Face.
type FaceColors [6]mgl32.Vec3

var faceColorTable = map[Type]FaceColors{
	// Empty voxels are never meshed
	0: {},
	// Red
	1: {{1.0, 0.2, 0.2}, {0.9, 0.1, 0.1}, {0.8, 0.0, 0.0}, {0.7, 0.0, 0.0}, {0.6, 0.0, 0.0}, {0.5, 0.0, 0.0}},
	// Green
	2: {{0.2, 1.0, 0.2}, {0.1, 0.9, 0.1}, {0.0, 0.8, 0.0}, {0.0, 0.7, 0.0}, {0.0, 0.6, 0.0}, {0.0, 0.5, 0.0}},
	// Blue
	3: {{0.2, 0.2, 1.0}, {0.1, 0.1, 0.9}, {0.0, 0.0, 0.8}, {0.0, 0.0, 0.7}, {0.0, 0.0, 0.6}, {0.0, 0.0, 0.5}},
	// Yellow
	4: {{1.0, 1.0, 0.2}, {0.9, 0.9, 0.1}, {0.8, 0.8, 0.0}, {0.7, 0.7, 0.0}, {0.6, 0.6, 0.0}, {0.5, 0.5, 0.0}},
	// Cyan
	5: {{0.2, 1.0, 1.0}, {0.1, 0.9, 0.9}, {0.0, 0.8, 0.8}, {0.0, 0.7, 0.7}, {0.0, 0.6, 0.6}, {0.0, 0.5, 0.5}},
	// Magenta
	6: {{1.0, 0.2, 1.0}, {0.9, 0.1, 0.9}, {0.8, 0.0, 0.8}, {0.7, 0.0, 0.7}, {0.6, 0.0, 0.6}, {0.5, 0.0, 0.5}},
}

// ColorsFor returns the per-face colors of a voxel type. Unmapped types use
// the colors of type 1.
func ColorsFor(t Type) FaceColors {
	if c, ok := faceColorTable[t]; ok {
		return c
	}
	return faceColorTable[1]
}

// ColorFor returns the color of a single face of a voxel type.
func ColorFor(t Type, f Face) mgl32.Vec3 {
	return ColorsFor(t)[f]
}
