package shader

import (
	"fmt"
	"strings"
)

// AttributeBinding fixes a named vertex input to a numeric location. It only
// takes effect when applied before the program is linked.
type AttributeBinding struct {
	Name     string
	Location uint32
}

// DefaultBindings binds the position attribute of VertexSource to slot 0.
var DefaultBindings = []AttributeBinding{{Name: PositionAttribute, Location: 0}}

// Builder turns stage sources into linked programs on a Device.
type Builder struct {
	dev        Device
	bindings   []AttributeBinding
	translator Translator
}

type BuilderOption func(*Builder)

// WithBindings replaces the default attribute bindings.
func WithBindings(bindings ...AttributeBinding) BuilderOption {
	return func(b *Builder) {
		b.bindings = append([]AttributeBinding(nil), bindings...)
	}
}

// WithTranslator makes the builder translate every stage before compiling it.
func WithTranslator(t Translator) BuilderOption {
	return func(b *Builder) {
		b.translator = t
	}
}

func NewBuilder(dev Device, opts ...BuilderOption) *Builder {
	b := &Builder{
		dev:      dev,
		bindings: DefaultBindings,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CompileStage compiles one stage. On failure the shader object, if one was
// allocated, is deleted before the error is returned.
func (b *Builder) CompileStage(kind Kind, source string) (*CompiledShader, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &CompilationError{Kind: kind, Log: "empty shader source"}
	}

	var names map[string]string
	if b.translator != nil {
		t, err := b.translator.Translate(kind, source)
		if err != nil {
			return nil, &CompilationError{Kind: kind, Log: trimLog(err.Error())}
		}
		source = t.Code
		names = t.Names
	}

	id := b.dev.CreateShader(kind)
	if id == 0 {
		return nil, &AllocationError{Object: "shader", Kind: kind}
	}

	b.dev.ShaderSource(id, source)
	b.dev.CompileShader(id)
	if !b.dev.ShaderCompiled(id) {
		log := trimLog(b.dev.ShaderInfoLog(id))
		b.dev.DeleteShader(id)
		return nil, &CompilationError{Kind: kind, Log: log}
	}

	return &CompiledShader{dev: b.dev, id: id, kind: kind, names: names}, nil
}

// LinkProgram attaches both stages, applies the attribute bindings and links.
// The stages stay owned by the caller.
func (b *Builder) LinkProgram(vs, fs *CompiledShader) (*Program, error) {
	if !vs.live() || vs.kind != Vertex {
		return nil, fmt.Errorf("vertex slot: %w", ErrStageMismatch)
	}
	if !fs.live() || fs.kind != Fragment {
		return nil, fmt.Errorf("fragment slot: %w", ErrStageMismatch)
	}

	id := b.dev.CreateProgram()
	if id == 0 {
		return nil, &AllocationError{Object: "program"}
	}

	b.dev.AttachShader(id, vs.id)
	b.dev.AttachShader(id, fs.id)
	for _, binding := range b.bindings {
		b.dev.BindAttribLocation(id, binding.Location, mappedName(binding.Name, vs, fs))
	}
	b.dev.LinkProgram(id)

	if !b.dev.ProgramLinked(id) {
		log := trimLog(b.dev.ProgramInfoLog(id))
		b.dev.DeleteProgram(id)
		return nil, &LinkError{Log: log}
	}

	return &Program{dev: b.dev, id: id}, nil
}

// Build compiles the vertex stage, then the fragment stage, then links them.
// It stops at the first failure; the fragment stage is not compiled when the
// vertex stage fails and no program object is created unless both compiled.
func (b *Builder) Build(vertexSrc, fragmentSrc string) (*Program, error) {
	vs, err := b.CompileStage(Vertex, vertexSrc)
	if err != nil {
		return nil, err
	}
	defer vs.Release()

	fs, err := b.CompileStage(Fragment, fragmentSrc)
	if err != nil {
		return nil, err
	}
	defer fs.Release()

	return b.LinkProgram(vs, fs)
}

func mappedName(name string, stages ...*CompiledShader) string {
	for _, s := range stages {
		if mapped, ok := s.names[name]; ok && mapped != "" {
			return mapped
		}
	}
	return name
}

func trimLog(log string) string {
	return strings.TrimRight(log, "\x00 \t\r\n")
}
