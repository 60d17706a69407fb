package renderer

import (
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/hellotriangle/shader"
)

// Device issues shader and program calls against the current GL context.
// It implements shader.Device; Init must have succeeded first.
type Device struct{}

func NewDevice() *Device { return &Device{} }

func (Device) CreateShader(kind shader.Kind) uint32 {
	switch kind {
	case shader.Vertex:
		return gl.CreateShader(gl.VERTEX_SHADER)
	case shader.Fragment:
		return gl.CreateShader(gl.FRAGMENT_SHADER)
	}
	return 0
}

func (Device) ShaderSource(id uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(id, 1, csources, nil)
	free()
}

func (Device) CompileShader(id uint32) { gl.CompileShader(id) }

func (Device) ShaderCompiled(id uint32) bool {
	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (Device) ShaderInfoLog(id uint32) string {
	var logLength int32
	gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &logLength)
	if logLength <= 1 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(id, logLength, nil, gl.Str(logText))
	return logText
}

func (Device) DeleteShader(id uint32) { gl.DeleteShader(id) }

func (Device) CreateProgram() uint32 { return gl.CreateProgram() }

func (Device) AttachShader(program, id uint32) { gl.AttachShader(program, id) }

func (Device) BindAttribLocation(program, index uint32, name string) {
	gl.BindAttribLocation(program, index, gl.Str(name+"\x00"))
}

func (Device) LinkProgram(program uint32) { gl.LinkProgram(program) }

func (Device) ProgramLinked(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (Device) ProgramInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength <= 1 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
	return logText
}

func (Device) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (Device) UseProgram(program uint32) { gl.UseProgram(program) }

var _ shader.Device = Device{}
