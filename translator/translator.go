// Package translator converts WebGL2-flavored GLSL into the dialect of the
// current context, so the same program sources run on desktop GL and on
// GLES (headless EGL) contexts.
package translator

import (
	"context"
	"fmt"
	"log/slog"

	gst "github.com/richinsley/goshadertranslator"

	"github.com/richinsley/glrenderer/graphics"
	"github.com/richinsley/glrenderer/shader"
)

// Dialect is the GLSL flavor produced by a Translator.
type Dialect int

const (
	GLSL410 Dialect = iota
	GLSL330
	ESSL
)

func (d Dialect) String() string {
	switch d {
	case GLSL410:
		return "glsl410"
	case GLSL330:
		return "glsl330"
	case ESSL:
		return "essl"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// IsGLES reports whether the dialect targets OpenGL ES.
func (d Dialect) IsGLES() bool {
	return d == ESSL
}

// ForBackend returns the dialect matching the contexts a backend creates.
func ForBackend(b graphics.BackendType) Dialect {
	if b == graphics.BackendHeadless {
		return ESSL
	}
	return GLSL410
}

// Translator is a shader.Translator backed by goshadertranslator.
type Translator struct {
	dialect    Dialect
	translator *gst.ShaderTranslator
}

var _ shader.Translator = (*Translator)(nil)

func New(ctx context.Context, dialect Dialect) (*Translator, error) {
	t, err := gst.NewShaderTranslator(ctx)
	if err != nil {
		return nil, fmt.Errorf("create shader translator: %w", err)
	}
	graphics.Logger().Info("shader translator ready", slog.String("dialect", dialect.String()))
	return &Translator{dialect: dialect, translator: t}, nil
}

func (t *Translator) Dialect() Dialect {
	return t.dialect
}

// Translate rewrites source for the translator's dialect. Names maps every
// declared variable to the name it has in the translated code.
func (t *Translator) Translate(source string, stage graphics.ShaderStage) (shader.Translation, error) {
	outputFormat := gst.OutputFormatGLSL410
	switch t.dialect {
	case GLSL330:
		outputFormat = gst.OutputFormatGLSL330
	case ESSL:
		outputFormat = gst.OutputFormatESSL
	}

	res, err := t.translator.TranslateShader(source, stage.String(), gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return shader.Translation{}, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}

	names := make(map[string]string, len(res.Variables))
	for name, v := range res.Variables {
		names[name] = v.MappedName
	}
	return shader.Translation{Code: res.Code, Names: names}, nil
}

// Close releases the translator's wasm runtime.
func (t *Translator) Close() error {
	return t.translator.Close()
}
