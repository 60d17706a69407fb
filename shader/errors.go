package shader

import (
	"errors"
	"fmt"
)

// ErrStageMismatch is returned by LinkProgram when the handles passed in are
// not one live vertex shader and one live fragment shader.
var ErrStageMismatch = errors.New("link requires one vertex and one fragment shader")

// AllocationError reports that the device refused to create a shader or
// program object, usually because no rendering context is current.
type AllocationError struct {
	Object string // "shader" or "program"
	Kind   Kind   // only meaningful when Object is "shader"
}

func (e *AllocationError) Error() string {
	if e.Object == "shader" {
		return fmt.Sprintf("could not allocate %s shader object", e.Kind)
	}
	return fmt.Sprintf("could not allocate %s object", e.Object)
}

// CompilationError carries the driver's diagnostic for a stage that failed to
// compile (or translate).
type CompilationError struct {
	Kind Kind
	Log  string
}

func (e *CompilationError) Error() string {
	if e.Log == "" {
		return fmt.Sprintf("failed to compile %s shader", e.Kind)
	}
	return fmt.Sprintf("failed to compile %s shader:\n%s", e.Kind, e.Log)
}

// LinkError carries the driver's diagnostic for a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	if e.Log == "" {
		return "failed to link program"
	}
	return fmt.Sprintf("failed to link program:\n%s", e.Log)
}
