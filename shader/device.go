package shader

// Device is the slice of the graphics API the builder needs. Every method
// must be called on the goroutine that owns the current rendering context.
//
// Creation methods return 0 when the object could not be allocated.
type Device interface {
	CreateShader(kind Kind) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	ShaderCompiled(shader uint32) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	BindAttribLocation(program, index uint32, name string)
	LinkProgram(program uint32)
	ProgramLinked(program uint32) bool
	ProgramInfoLog(program uint32) string
	DeleteProgram(program uint32)
	UseProgram(program uint32)
}

// Translation is the output of a Translator: the code to hand to the driver
// and the names the translator gave to declared variables.
type Translation struct {
	Code  string
	Names map[string]string
}

// Translator rewrites stage source into the dialect the current context
// accepts.
type Translator interface {
	Translate(kind Kind, source string) (*Translation, error)
}
