package renderer

import (
	"errors"
	"testing"
)

func TestGLErrorMessage(t *testing.T) {
	tests := []struct {
		code uint32
		want string
	}{
		{0x0502, "draw: OpenGL error GL_INVALID_OPERATION"},
		{0x0505, "draw: OpenGL error GL_OUT_OF_MEMORY"},
		{0x9999, "draw: OpenGL error 0x9999"},
	}
	for _, tt := range tests {
		err := error(&GLError{Op: "draw", Code: tt.code})
		if got := err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
		var glErr *GLError
		if !errors.As(err, &glErr) || glErr.Code != tt.code {
			t.Errorf("errors.As lost the code for 0x%04x", tt.code)
		}
	}
}

func TestTriangleVertexData(t *testing.T) {
	if len(triangleVertices) != coordsPerVertex*triangleVertexCount {
		t.Fatalf("got %d floats, want %d", len(triangleVertices), coordsPerVertex*triangleVertexCount)
	}
	// One triangle: apex on top, base below it.
	if triangleVertices[1] <= triangleVertices[4] || triangleVertices[4] != triangleVertices[7] {
		t.Errorf("unexpected triangle layout %v", triangleVertices)
	}
}
