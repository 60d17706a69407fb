package shader_test

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/richinsley/hellotriangle/shader"
)

// fakeDevice is an in-memory stand-in for a GL context. It "compiles" by
// rejecting statements that are not terminated before a closing brace and
// "links" by matching varyings between the two stages.
type fakeDevice struct {
	nextID uint32

	shaders  map[uint32]*fakeShader
	programs map[uint32]*fakeProgram
	calls    []string

	failShaderAlloc  bool
	failProgramAlloc bool

	glError string
}

type fakeShader struct {
	kind     shader.Kind
	source   string
	compiled bool
	log      string
}

type fakeProgram struct {
	attached []uint32
	pending  map[string]uint32
	bound    map[string]uint32
	linked   bool
	log      string
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		shaders:  make(map[uint32]*fakeShader),
		programs: make(map[uint32]*fakeProgram),
	}
}

func (d *fakeDevice) record(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *fakeDevice) CreateShader(kind shader.Kind) uint32 {
	d.record("CreateShader %s", kind)
	if d.failShaderAlloc {
		return 0
	}
	d.nextID++
	d.shaders[d.nextID] = &fakeShader{kind: kind}
	return d.nextID
}

func (d *fakeDevice) ShaderSource(id uint32, source string) {
	d.record("ShaderSource %d", id)
	d.shaders[id].source = source
}

var missingSemicolon = regexp.MustCompile(`[^;{}\s]\s*}`)

func (d *fakeDevice) CompileShader(id uint32) {
	d.record("CompileShader %d", id)
	s := d.shaders[id]
	if loc := missingSemicolon.FindStringIndex(s.source); loc != nil {
		line := strings.Count(s.source[:loc[1]], "\n") + 1
		s.log = fmt.Sprintf("0:%d(1): error: syntax error, unexpected '}', expecting ';'\n\x00", line)
		return
	}
	s.compiled = true
}

func (d *fakeDevice) ShaderCompiled(id uint32) bool { return d.shaders[id].compiled }

func (d *fakeDevice) ShaderInfoLog(id uint32) string { return d.shaders[id].log }

func (d *fakeDevice) DeleteShader(id uint32) {
	d.record("DeleteShader %d", id)
	delete(d.shaders, id)
}

func (d *fakeDevice) CreateProgram() uint32 {
	d.record("CreateProgram")
	if d.failProgramAlloc {
		return 0
	}
	d.nextID++
	d.programs[d.nextID] = &fakeProgram{
		pending: make(map[string]uint32),
		bound:   make(map[string]uint32),
	}
	return d.nextID
}

func (d *fakeDevice) AttachShader(program, id uint32) {
	d.record("AttachShader %d %d", program, id)
	p := d.programs[program]
	p.attached = append(p.attached, id)
}

func (d *fakeDevice) BindAttribLocation(program, index uint32, name string) {
	d.record("BindAttribLocation %d %d %s", program, index, name)
	d.programs[program].pending[name] = index
}

var varyingDecl = regexp.MustCompile(`varying\s+(\w+)\s+(\w+)\s*;`)

func varyings(src string) map[string]string {
	out := make(map[string]string)
	for _, m := range varyingDecl.FindAllStringSubmatch(src, -1) {
		out[m[2]] = m[1]
	}
	return out
}

func (d *fakeDevice) LinkProgram(program uint32) {
	d.record("LinkProgram %d", program)
	p := d.programs[program]
	for name, index := range p.pending {
		p.bound[name] = index
	}

	var vs, fs *fakeShader
	for _, id := range p.attached {
		s, ok := d.shaders[id]
		if !ok || !s.compiled {
			p.log = "error: attached shader is not compiled"
			return
		}
		if s.kind == shader.Vertex {
			vs = s
		} else {
			fs = s
		}
	}
	if vs == nil || fs == nil {
		p.log = "error: program needs a vertex and a fragment shader"
		return
	}

	written := varyings(vs.source)
	for name, typ := range varyings(fs.source) {
		vt, ok := written[name]
		if !ok {
			p.log = fmt.Sprintf("error: fragment shader varying %s not written by vertex shader", name)
			return
		}
		if vt != typ {
			p.log = fmt.Sprintf("error: varying %s type mismatch (%s vs %s)", name, vt, typ)
			return
		}
	}
	p.linked = true
}

func (d *fakeDevice) ProgramLinked(program uint32) bool { return d.programs[program].linked }

func (d *fakeDevice) ProgramInfoLog(program uint32) string { return d.programs[program].log }

func (d *fakeDevice) DeleteProgram(program uint32) {
	d.record("DeleteProgram %d", program)
	delete(d.programs, program)
}

func (d *fakeDevice) UseProgram(program uint32) {
	d.record("UseProgram %d", program)
	p, ok := d.programs[program]
	if !ok || !p.linked {
		d.glError = "GL_INVALID_OPERATION"
	}
}

func (d *fakeDevice) count(prefix string) int {
	n := 0
	for _, c := range d.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (d *fakeDevice) index(call string) int {
	for i, c := range d.calls {
		if c == call {
			return i
		}
	}
	return -1
}

// fakeTranslator renames every attribute the way a WebGL translator does.
type fakeTranslator struct {
	fail  error
	calls int
}

func (t *fakeTranslator) Translate(kind shader.Kind, source string) (*shader.Translation, error) {
	t.calls++
	if t.fail != nil {
		return nil, t.fail
	}
	names := map[string]string{}
	if kind == shader.Vertex {
		names[shader.PositionAttribute] = "_u" + shader.PositionAttribute
	}
	return &shader.Translation{
		Code:  "#version 410 core\n" + source,
		Names: names,
	}, nil
}
