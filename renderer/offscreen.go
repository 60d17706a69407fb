package renderer

import (
	"fmt"
	"log"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// Offscreen is an RGBA8 framebuffer used when frames are captured instead of
// shown.
type Offscreen struct {
	fbo               uint32
	textureID         uint32
	depthRenderbuffer uint32
	width             int
	height            int
}

func NewOffscreen(width, height int) (*Offscreen, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid offscreen size %dx%d", width, height)
	}

	o := &Offscreen{width: width, height: height}

	gl.GenFramebuffers(1, &o.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, o.fbo)
	gl.GenTextures(1, &o.textureID)
	gl.BindTexture(gl.TEXTURE_2D, o.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, o.textureID, 0)
	gl.GenRenderbuffers(1, &o.depthRenderbuffer)
	gl.BindRenderbuffer(gl.RENDERBUFFER, o.depthRenderbuffer)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, int32(width), int32(height))
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, o.depthRenderbuffer)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		o.Destroy()
		return nil, fmt.Errorf("offscreen fbo is not complete (status 0x%04x)", status)
	}

	log.Printf("Offscreen FBO: %dx%d RGBA8", width, height)
	return o, nil
}

func (o *Offscreen) Size() (int, int) { return o.width, o.height }

// FrameSize is the number of bytes ReadPixels returns.
func (o *Offscreen) FrameSize() int { return o.width * o.height * 4 }

// Bind directs drawing into the offscreen buffer and sets the viewport.
func (o *Offscreen) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, o.fbo)
	gl.Viewport(0, 0, int32(o.width), int32(o.height))
}

func (o *Offscreen) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// ReadPixels copies the color attachment into a new buffer. Rows are bottom
// up, as GL stores them.
func (o *Offscreen) ReadPixels() ([]byte, error) {
	pixels := make([]byte, o.FrameSize())
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, o.fbo)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(o.width), int32(o.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pixels[0]))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	if err := CheckError("read pixels"); err != nil {
		return nil, err
	}
	return pixels, nil
}

func (o *Offscreen) Destroy() {
	if o.fbo != 0 {
		gl.DeleteFramebuffers(1, &o.fbo)
		o.fbo = 0
	}
	if o.textureID != 0 {
		gl.DeleteTextures(1, &o.textureID)
		o.textureID = 0
	}
	if o.depthRenderbuffer != 0 {
		gl.DeleteRenderbuffers(1, &o.depthRenderbuffer)
		o.depthRenderbuffer = 0
	}
}
