package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	encoder "github.com/richinsley/hellotriangle/encoder"
	"github.com/richinsley/hellotriangle/glfwcontext"
	"github.com/richinsley/hellotriangle/graphics"
	options "github.com/richinsley/hellotriangle/options"
	renderer "github.com/richinsley/hellotriangle/renderer"
	shader "github.com/richinsley/hellotriangle/shader"
	xlate "github.com/richinsley/hellotriangle/translator"
)

// Exit statuses let operators tell platform problems from shader bugs.
const (
	exitPlatform = 1 // window, context or GL error state
	exitGLInit   = 2 // GL function loading or shader toolchain setup
	exitShader   = 3 // shader build failed
	exitCapture  = 4 // recording failed
)

func init() {
	runtime.LockOSThread()
}

func main() {
	opts, err := options.Parse(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Printf("Invalid configuration: %v", err)
		os.Exit(exitPlatform)
	}
	os.Exit(run(opts))
}

func run(opts *options.Options) int {
	if err := glfwcontext.InitGraphics(); err != nil {
		log.Printf("Failed to initialize GLFW: %v", err)
		return exitPlatform
	}
	defer glfwcontext.TerminateGraphics()

	recording := opts.Capture.Enabled()
	ctx, err := glfwcontext.New(opts, !recording)
	if err != nil {
		log.Printf("Failed to create window: %v", err)
		return exitPlatform
	}
	defer ctx.Shutdown()
	ctx.MakeCurrent()

	if err := renderer.Init(); err != nil {
		log.Printf("%v", err)
		return exitGLInit
	}
	if err := renderer.CheckError("context creation"); err != nil {
		log.Printf("%v", err)
		return exitPlatform
	}
	logDriverInfo(renderer.QueryInfo())

	builder, err := newBuilder(opts)
	if err != nil {
		log.Printf("%v", err)
		return exitGLInit
	}

	program, err := builder.Build(shader.VertexSource, shader.FragmentSource)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error building shader program:\n%v\n", err)
		return exitShader
	}

	tri, err := renderer.NewTriangle(program, opts.ClearColor)
	if err != nil {
		program.Delete()
		log.Printf("Failed to set up triangle: %v", err)
		return exitPlatform
	}
	defer tri.Destroy()

	if recording {
		if err := record(tri, opts); err != nil {
			log.Printf("Recording failed: %v", err)
			return exitCapture
		}
		log.Printf("Successfully rendered to %s", opts.Capture.Output)
		return 0
	}

	interactive(ctx, tri, builder, opts.VSync)
	return 0
}

func newBuilder(opts *options.Options) (*shader.Builder, error) {
	dev := renderer.NewDevice()
	if !opts.Translate {
		return shader.NewBuilder(dev), nil
	}

	target, err := xlate.ParseTarget(opts.Target)
	if err != nil {
		return nil, err
	}
	translator, err := xlate.New(context.Background(), target)
	if err != nil {
		return nil, err
	}
	log.Printf("Translating shaders to %s", translator.Target())
	return shader.NewBuilder(dev, shader.WithTranslator(translator)), nil
}

func logDriverInfo(info renderer.Info) {
	log.Printf("Using OpenGL %s (%s, %s)", info.Version, info.Vendor, info.Renderer)
	log.Printf("Using shading language %s", info.ShadingLang)
	log.Printf("Available extensions: %s", strings.Join(info.Extensions, " "))
}

// interactive draws until the window is closed. R rebuilds the program from
// the built-in sources.
func interactive(ctx *glfwcontext.Context, tri *renderer.Triangle, builder *shader.Builder, vsync bool) {
	if vsync {
		ctx.SetSwapInterval(1)
	} else {
		ctx.SetSwapInterval(0)
	}

	width, height := ctx.GetFramebufferSize()
	tri.Resize(width, height)
	ctx.OnResize(tri.Resize)

	ctx.RegisterKeyCallback(glfw.KeyR, func() {
		program, err := builder.Build(shader.VertexSource, shader.FragmentSource)
		if err != nil {
			log.Printf("Rebuild failed, keeping current program: %v", err)
			return
		}
		tri.SetProgram(program)
		log.Printf("Rebuilt shader program %d", program.ID())
	})

	log.Println("Starting interactive render loop...")
	frames := graphics.Run(ctx, tri.Draw)
	log.Printf("Window closed after %d frames", frames)
}

// record renders the configured number of frames offscreen and encodes them.
func record(tri *renderer.Triangle, opts *options.Options) error {
	off, err := renderer.NewOffscreen(opts.Width, opts.Height)
	if err != nil {
		return err
	}
	defer off.Destroy()
	width, height := off.Size()

	rec, err := encoder.NewRecorder(encoder.Config{
		Output:     opts.Capture.Output,
		Width:      width,
		Height:     height,
		FPS:        opts.Capture.FPS,
		Frames:     opts.Capture.Frames,
		Codec:      opts.Capture.Codec,
		FFMPEGPath: opts.Capture.FFMPEGPath,
		Progress:   os.Stderr,
	})
	if err != nil {
		return err
	}
	if err := rec.Start(); err != nil {
		return err
	}

	log.Println("Starting offscreen render loop...")
	for i := 0; i < opts.Capture.Frames; i++ {
		off.Bind()
		tri.Draw()
		pixels, err := off.ReadPixels()
		off.Unbind()
		if err != nil {
			rec.Close()
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if err := rec.WriteFrame(pixels); err != nil {
			rec.Close()
			return err
		}
	}
	return rec.Close()
}
