package translator

import (
	"context"
	"fmt"
	"log"

	"github.com/richinsley/hellotriangle/shader"
	gst "github.com/richinsley/goshadertranslator"
)

// Target names the shading language the current context compiles.
type Target string

const (
	GLSL410 Target = "glsl410"
	GLSL330 Target = "glsl330"
	ESSL    Target = "essl"
)

// ParseTarget accepts the names used in configuration files and flags.
func ParseTarget(s string) (Target, error) {
	switch t := Target(s); t {
	case GLSL410, GLSL330, ESSL:
		return t, nil
	}
	return "", fmt.Errorf("unknown shading language target %q", s)
}

// Translator rewrites ESSL 1.00 stage sources for the target context. It
// implements shader.Translator.
type Translator struct {
	st     *gst.ShaderTranslator
	target Target
}

func New(ctx context.Context, target Target) (*Translator, error) {
	if _, err := ParseTarget(string(target)); err != nil {
		return nil, err
	}
	t, err := gst.NewShaderTranslator(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start shader translator: %w", err)
	}
	log.Printf("Shader translator ready (target %s)", target)
	return &Translator{st: t, target: target}, nil
}

func (t *Translator) Target() Target { return t.target }

func (t *Translator) Translate(kind shader.Kind, source string) (*shader.Translation, error) {
	stage, err := stageName(kind)
	if err != nil {
		return nil, err
	}

	outputFormat := gst.OutputFormatGLSL410
	switch t.target {
	case GLSL330:
		outputFormat = gst.OutputFormatGLSL330
	case ESSL:
		outputFormat = gst.OutputFormatESSL
	}

	out, err := t.st.TranslateShader(source, stage, gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		names[name] = v.MappedName
	}
	return &shader.Translation{Code: out.Code, Names: names}, nil
}

func stageName(kind shader.Kind) (string, error) {
	switch kind {
	case shader.Vertex:
		return "vertex", nil
	case shader.Fragment:
		return "fragment", nil
	}
	return "", fmt.Errorf("no translator stage for %s shader", kind)
}
