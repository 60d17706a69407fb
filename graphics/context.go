package graphics

// Context defines the interface for an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
}

// Run calls draw once per frame, presenting after each call, until the
// context asks to close. It returns the number of frames presented.
func Run(ctx Context, draw func()) int {
	frames := 0
	for !ctx.ShouldClose() {
		draw()
		ctx.EndFrame()
		frames++
	}
	return frames
}
