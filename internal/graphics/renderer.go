package graphics

import (
	"searchit/internal/meshing"
	"searchit/internal/voxel"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	WinWidth  = 900
	WinHeight = 600
)

// Colors arrive already distance-shaded, so the fragment stage only passes
// them through.
const chunkVertexShader = `#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aColor;

uniform mat4 proj;
uniform mat4 view;

out vec3 vColor;

void main() {
	vColor = aColor;
	gl_Position = proj * view * vec4(aPos, 1.0);
}
`

const chunkFragmentShader = `#version 410 core
in vec3 vColor;
out vec4 FragColor;

void main() {
	FragColor = vec4(vColor, 1.0);
}
`

// SkyColor is the clear color
var SkyColor = mgl32.Vec3{0.53, 0.81, 0.92}

type chunkMesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	version    uint64
}

// ChunkRenderer uploads chunk meshes to the GPU and draws them.
type ChunkRenderer struct {
	shader *Shader
	meshes map[voxel.Coord]*chunkMesh
	draws  int
}

// NewChunkRenderer initializes GL state. A GL context must be current.
func NewChunkRenderer() (*ChunkRenderer, error) {
	if err := gl.Init(); err != nil {
		return nil, err
	}

	gl.Enable(gl.DEPTH_TEST)
	// Enable back-face culling (meshing emits CCW front faces)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	shader, err := NewShader(chunkVertexShader, chunkFragmentShader)
	if err != nil {
		return nil, err
	}
	return &ChunkRenderer{
		shader: shader,
		meshes: make(map[voxel.Coord]*chunkMesh),
	}, nil
}

// BeginFrame clears the screen and binds the camera matrices.
func (r *ChunkRenderer) BeginFrame(view, proj mgl32.Mat4) {
	gl.ClearColor(SkyColor[0], SkyColor[1], SkyColor[2], 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.shader.Use()
	r.shader.SetMatrix4("proj", proj)
	r.shader.SetMatrix4("view", view)
	r.draws = 0
}

// DrawChunk draws a mesh, re-uploading it only when version changed.
func (r *ChunkRenderer) DrawChunk(origin voxel.Coord, mesh *meshing.Mesh, version uint64) {
	existing := r.meshes[origin]
	if existing == nil {
		existing = &chunkMesh{}
		gl.GenVertexArrays(1, &existing.vao)
		gl.GenBuffers(1, &existing.vbo)
		gl.GenBuffers(1, &existing.ebo)
		// Setup VAO attribute layout (pos.xyz, color.rgb)
		gl.BindVertexArray(existing.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, existing.vbo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, existing.ebo)
		stride := int32(meshing.VertexStride * 4)
		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
		gl.EnableVertexAttribArray(1)
		gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
		r.meshes[origin] = existing
	} else {
		gl.BindVertexArray(existing.vao)
	}

	if existing.version != version || existing.indexCount == 0 {
		verts := mesh.Interleaved()
		gl.BindBuffer(gl.ARRAY_BUFFER, existing.vbo)
		gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.DYNAMIC_DRAW)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, existing.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.DYNAMIC_DRAW)
		existing.indexCount = int32(len(mesh.Indices))
		existing.version = version
	}

	gl.DrawElementsWithOffset(gl.TRIANGLES, existing.indexCount, gl.UNSIGNED_INT, 0)
	r.draws++
}

// ReleaseChunk frees the GPU buffers of an evicted chunk.
func (r *ChunkRenderer) ReleaseChunk(origin voxel.Coord) {
	m := r.meshes[origin]
	if m == nil {
		return
	}
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
	gl.DeleteVertexArrays(1, &m.vao)
	delete(r.meshes, origin)
}

// UploadedCount returns how many chunks hold GPU buffers.
func (r *ChunkRenderer) UploadedCount() int {
	return len(r.meshes)
}

// DrawCount returns the draw calls issued since BeginFrame.
func (r *ChunkRenderer) DrawCount() int {
	return r.draws
}

// SetViewport resizes the GL viewport.
func (r *ChunkRenderer) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Dispose frees every GPU resource.
func (r *ChunkRenderer) Dispose() {
	for origin := range r.meshes {
		r.ReleaseChunk(origin)
	}
	r.shader.Delete()
}
