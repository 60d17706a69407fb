package shader

// Kind identifies the pipeline stage a shader object belongs to.
type Kind int

const (
	Vertex Kind = iota
	Fragment
)

func (k Kind) String() string {
	switch k {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// PositionAttribute is the per-vertex input of VertexSource. It is bound to
// location 0 before the program is linked.
const PositionAttribute = "vPosition"

// ──────────────────────────────── ESSL 1.00 sources ─────────────────────────────

// VertexSource passes the incoming position through untouched.
const VertexSource = `attribute vec4 vPosition;
void main()
{
   gl_Position = vPosition;
}
`

// FragmentSource paints every fragment opaque red.
const FragmentSource = `precision mediump float;
void main()
{
   gl_FragColor = vec4(1.0, 0.0, 0.0, 1.0);
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

// Source returns the built-in source text for the given stage.
func Source(kind Kind) string {
	if kind == Vertex {
		return VertexSource
	}
	return FragmentSource
}
