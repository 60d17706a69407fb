package renderer

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/hellotriangle/shader"
)

const (
	coordsPerVertex     = 3
	triangleVertexCount = 3
)

var triangleVertices = []float32{
	0.0, 0.5, 0.0,
	-0.5, -0.5, 0.0,
	0.5, -0.5, 0.0,
}

// Triangle owns everything the per-frame draw needs. It is created once the
// program is built and handed to the frame loop by the caller.
type Triangle struct {
	program *shader.Program
	vao     uint32
	vbo     uint32
	clear   [4]float32
}

// NewTriangle uploads the vertex data and takes ownership of program.
func NewTriangle(program *shader.Program, clearColor [4]float32) (*Triangle, error) {
	t := &Triangle{program: program, clear: clearColor}

	gl.GenVertexArrays(1, &t.vao)
	gl.GenBuffers(1, &t.vbo)
	gl.BindVertexArray(t.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, t.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(triangleVertices)*4, gl.Ptr(triangleVertices), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, coordsPerVertex, gl.FLOAT, false, coordsPerVertex*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	if err := CheckError("upload triangle"); err != nil {
		t.Destroy()
		return nil, err
	}
	return t, nil
}

// Draw clears the color buffer and draws the triangle with the program.
func (t *Triangle) Draw() {
	gl.ClearColor(t.clear[0], t.clear[1], t.clear[2], t.clear[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
	t.program.Use()
	gl.BindVertexArray(t.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, triangleVertexCount)
	gl.BindVertexArray(0)
}

// SetProgram swaps in a freshly built program and deletes the old one.
func (t *Triangle) SetProgram(program *shader.Program) {
	if program == t.program {
		return
	}
	t.program.Delete()
	t.program = program
}

// Resize matches the viewport to a new framebuffer size.
func (t *Triangle) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Destroy releases the vertex objects and the program.
func (t *Triangle) Destroy() {
	if t.vbo != 0 {
		gl.DeleteBuffers(1, &t.vbo)
		t.vbo = 0
	}
	if t.vao != 0 {
		gl.DeleteVertexArrays(1, &t.vao)
		t.vao = 0
	}
	t.program.Delete()
}
