package shader

// CompiledShader is a successfully compiled stage. Release it once it has
// been linked, or when it is no longer needed; releasing after attachment is
// safe, the driver keeps the object alive until the program goes away.
type CompiledShader struct {
	dev   Device
	id    uint32
	kind  Kind
	names map[string]string
}

func (s *CompiledShader) Kind() Kind { return s.kind }

func (s *CompiledShader) ID() uint32 { return s.id }

// Release deletes the shader object. Calling it more than once is a no-op.
func (s *CompiledShader) Release() {
	if !s.live() {
		return
	}
	s.dev.DeleteShader(s.id)
	s.id = 0
}

func (s *CompiledShader) live() bool {
	return s != nil && s.id != 0
}

// Program is a linked vertex/fragment pair ready to be made current.
type Program struct {
	dev Device
	id  uint32
}

func (p *Program) ID() uint32 { return p.id }

// Use makes the program current for subsequent draw calls.
func (p *Program) Use() {
	p.dev.UseProgram(p.id)
}

// Delete frees the program object. Calling it more than once is a no-op.
func (p *Program) Delete() {
	if p == nil || p.id == 0 {
		return
	}
	p.dev.DeleteProgram(p.id)
	p.id = 0
}
