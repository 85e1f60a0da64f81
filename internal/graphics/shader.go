package graphics

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Shader is a linked GL program with cached uniform locations.
type Shader struct {
	ID        uint32
	locations map[string]int32
}

// NewShader compiles and links a program from GLSL sources.
func NewShader(vertexSrc, fragmentSrc string) (*Shader, error) {
	stages := []struct {
		kind uint32
		name string
		src  string
	}{
		{gl.VERTEX_SHADER, "vertex", vertexSrc},
		{gl.FRAGMENT_SHADER, "fragment", fragmentSrc},
	}

	program := gl.CreateProgram()
	for _, st := range stages {
		sh, err := compileStage(st.kind, st.src)
		if err != nil {
			gl.DeleteProgram(program)
			return nil, fmt.Errorf("%s shader: %w", st.name, err)
		}
		gl.AttachShader(program, sh)
		// Flagged for deletion; freed once the program goes away
		gl.DeleteShader(sh)
	}
	gl.LinkProgram(program)

	var ok int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(program)
		return nil, fmt.Errorf("link program: %s", msg)
	}
	return &Shader{ID: program, locations: make(map[string]int32)}, nil
}

func compileStage(kind uint32, src string) (uint32, error) {
	sh := gl.CreateShader(kind)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(sh, 1, csrc, nil)
	free()
	gl.CompileShader(sh)

	var ok int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(sh, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("compile: %s", msg)
	}
	return sh, nil
}

func infoLog(id uint32,
	param func(uint32, uint32, *int32),
	read func(uint32, int32, *int32, *uint8)) string {
	var n int32
	param(id, gl.INFO_LOG_LENGTH, &n)
	buf := strings.Repeat("\x00", int(n+1))
	read(id, n, nil, gl.Str(buf))
	return strings.TrimSpace(strings.TrimRight(buf, "\x00"))
}

// Use activates the program.
func (s *Shader) Use() {
	gl.UseProgram(s.ID)
}

// Delete frees the program.
func (s *Shader) Delete() {
	gl.DeleteProgram(s.ID)
	s.ID = 0
}

func (s *Shader) location(name string) int32 {
	loc, ok := s.locations[name]
	if !ok {
		loc = gl.GetUniformLocation(s.ID, gl.Str(name+"\x00"))
		s.locations[name] = loc
	}
	return loc
}

// SetMatrix4 sets a mat4 uniform.
func (s *Shader) SetMatrix4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(s.location(name), 1, false, &m[0])
}
