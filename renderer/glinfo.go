package renderer

import (
	"fmt"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// glInitOnce ensures gl.Init() is called only once.
var (
	glInitOnce sync.Once
	glInitErr  error
)

// Init loads the OpenGL function pointers. A context must be current on the
// calling thread.
func Init() error {
	glInitOnce.Do(func() {
		glInitErr = gl.Init()
	})
	if glInitErr != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", glInitErr)
	}
	return nil
}

// Info describes the driver behind the current context.
type Info struct {
	Vendor      string
	Renderer    string
	Version     string
	ShadingLang string
	Extensions  []string
}

// QueryInfo reads the driver strings of the current context.
func QueryInfo() Info {
	info := Info{
		Vendor:      gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer:    gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:     gl.GoStr(gl.GetString(gl.VERSION)),
		ShadingLang: gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}

	// Core profiles only expose extensions one at a time.
	var n int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &n)
	for i := int32(0); i < n; i++ {
		info.Extensions = append(info.Extensions, gl.GoStr(gl.GetStringi(gl.EXTENSIONS, uint32(i))))
	}
	return info
}

// GLError is a non-zero glGetError code observed after Op.
type GLError struct {
	Op   string
	Code uint32
}

var glErrorNames = map[uint32]string{
	0x0500: "GL_INVALID_ENUM",
	0x0501: "GL_INVALID_VALUE",
	0x0502: "GL_INVALID_OPERATION",
	0x0503: "GL_STACK_OVERFLOW",
	0x0504: "GL_STACK_UNDERFLOW",
	0x0505: "GL_OUT_OF_MEMORY",
	0x0506: "GL_INVALID_FRAMEBUFFER_OPERATION",
}

func (e *GLError) Error() string {
	name, ok := glErrorNames[e.Code]
	if !ok {
		name = fmt.Sprintf("0x%04x", e.Code)
	}
	return fmt.Sprintf("%s: OpenGL error %s", e.Op, name)
}

// maxQueuedErrors bounds the drain loop; without a current context some
// drivers report the same error forever.
const maxQueuedErrors = 32

// CheckError drains the GL error queue and reports the first error found.
func CheckError(op string) error {
	var first uint32
	for i := 0; i < maxQueuedErrors; i++ {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			break
		}
		if first == 0 {
			first = code
		}
	}
	if first == 0 {
		return nil
	}
	return &GLError{Op: op, Code: first}
}
