// Package resources is a name-keyed cache of shader programs and textures.
//
// Loads follow a first-writer-wins policy: once a key is cached, later
// loads under the same key return the cached instance and ignore their
// arguments. Failed loads are not cached, so a later load can succeed.
// The Manager owns every cached instance; callers borrow them for the
// manager's lifetime and must not release them.
package resources

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/richinsley/glrenderer/graphics"
	"github.com/richinsley/glrenderer/shader"
	"github.com/richinsley/glrenderer/texture"
)

type programEntry struct {
	program      *shader.Program
	vertexPath   string
	fragmentPath string
}

type Manager struct {
	ctx        *graphics.Context
	codec      texture.Codec
	translator shader.Translator

	programs map[string]*programEntry
	textures map[string]*texture.Texture

	watcher *Watcher
}

type Option func(*Manager)

// WithCodec replaces the default image codec.
func WithCodec(c texture.Codec) Option {
	return func(m *Manager) {
		m.codec = c
	}
}

// WithTranslator translates every program loaded by the manager.
func WithTranslator(t shader.Translator) Option {
	return func(m *Manager) {
		m.translator = t
	}
}

func NewManager(ctx *graphics.Context, opts ...Option) *Manager {
	m := &Manager{
		ctx:      ctx,
		codec:    texture.NewDefaultCodec(),
		programs: map[string]*programEntry{},
		textures: map[string]*texture.Texture{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("shader source %q: %w: %w", path, graphics.ErrResourceNotFound, err)
	}
	return string(data), nil
}

func (m *Manager) programOptions() []shader.Option {
	if m.translator == nil {
		return nil
	}
	return []shader.Option{shader.WithTranslator(m.translator)}
}

// LoadProgram returns the program cached under key. On a miss it reads both
// source files and caches a new, unbuilt program; the caller still has to
// call Build. Unreadable paths fail with graphics.ErrResourceNotFound.
func (m *Manager) LoadProgram(key, vertexPath, fragmentPath string) (*shader.Program, error) {
	if e, ok := m.programs[key]; ok {
		if e.vertexPath != vertexPath || e.fragmentPath != fragmentPath {
			graphics.Logger().Warn("program already loaded, ignoring new paths",
				slog.String("key", key),
				slog.String("vertex", vertexPath),
				slog.String("fragment", fragmentPath))
		}
		return e.program, nil
	}

	vs, err := readSource(vertexPath)
	if err != nil {
		return nil, fmt.Errorf("load program %q: %w", key, err)
	}
	fs, err := readSource(fragmentPath)
	if err != nil {
		return nil, fmt.Errorf("load program %q: %w", key, err)
	}

	p := shader.NewProgram(m.ctx, vs, fs, m.programOptions()...)
	m.programs[key] = &programEntry{program: p, vertexPath: vertexPath, fragmentPath: fragmentPath}
	if m.watcher != nil {
		m.watcher.watchProgram(key, vertexPath, fragmentPath)
	}
	graphics.Logger().Info("program loaded",
		slog.String("key", key),
		slog.String("vertex", vertexPath),
		slog.String("fragment", fragmentPath))
	return p, nil
}

// LoadProgramSource is LoadProgram for in-memory sources. Programs loaded
// this way are never reloaded from disk.
func (m *Manager) LoadProgramSource(key, vertexSrc, fragmentSrc string) *shader.Program {
	return m.loadSource(key, vertexSrc, fragmentSrc, m.programOptions()...)
}

// LoadNativeProgramSource is LoadProgramSource for sources already written
// in the context's own dialect; they skip the translator.
func (m *Manager) LoadNativeProgramSource(key, vertexSrc, fragmentSrc string) *shader.Program {
	return m.loadSource(key, vertexSrc, fragmentSrc)
}

func (m *Manager) loadSource(key, vertexSrc, fragmentSrc string, opts ...shader.Option) *shader.Program {
	if e, ok := m.programs[key]; ok {
		return e.program
	}
	p := shader.NewProgram(m.ctx, vertexSrc, fragmentSrc, opts...)
	m.programs[key] = &programEntry{program: p}
	return p
}

// LoadTexture returns the texture cached under key, or loads path and
// caches it.
func (m *Manager) LoadTexture(key, path string) (*texture.Texture, error) {
	if t, ok := m.textures[key]; ok {
		if t.Path() != path {
			graphics.Logger().Warn("texture already loaded, ignoring new path",
				slog.String("key", key),
				slog.String("path", path))
		}
		return t, nil
	}

	t, err := texture.Load(m.ctx, m.codec, path)
	if err != nil {
		return nil, fmt.Errorf("load texture %q: %w", key, err)
	}
	m.textures[key] = t
	graphics.Logger().Info("texture loaded",
		slog.String("key", key),
		slog.String("path", path),
		slog.Int("width", t.Width()),
		slog.Int("height", t.Height()))
	return t, nil
}

// Program returns the program cached under key, or nil.
func (m *Manager) Program(key string) *shader.Program {
	e, ok := m.programs[key]
	if !ok {
		graphics.Logger().Warn("program not found", slog.String("key", key))
		return nil
	}
	return e.program
}

// Texture returns the texture cached under key, or nil.
func (m *Manager) Texture(key string) *texture.Texture {
	t, ok := m.textures[key]
	if !ok {
		graphics.Logger().Warn("texture not found", slog.String("key", key))
		return nil
	}
	return t
}

func (m *Manager) HasProgram(key string) bool {
	_, ok := m.programs[key]
	return ok
}

func (m *Manager) HasTexture(key string) bool {
	_, ok := m.textures[key]
	return ok
}

func (m *Manager) ProgramKeys() []string {
	return slices.Sorted(maps.Keys(m.programs))
}

func (m *Manager) TextureKeys() []string {
	return slices.Sorted(maps.Keys(m.textures))
}

// Release frees every cached program and texture and empties the caches.
// A running watcher is closed.
func (m *Manager) Release() {
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			graphics.Logger().Warn("closing source watcher", slog.Any("error", err))
		}
	}
	for key, e := range m.programs {
		e.program.Release()
		delete(m.programs, key)
	}
	for key, t := range m.textures {
		t.Release()
		delete(m.textures, key)
	}
}

func (m *Manager) String() string {
	var sb strings.Builder
	sb.WriteString("Resources\n  programs:\n")
	for _, key := range m.ProgramKeys() {
		e := m.programs[key]
		state := "valid"
		if !e.program.Valid() {
			state = "invalid"
		}
		fmt.Fprintf(&sb, "    %s: %s (%s, %s)\n", key, state, e.vertexPath, e.fragmentPath)
	}
	sb.WriteString("  textures:\n")
	for _, key := range m.TextureKeys() {
		t := m.textures[key]
		fmt.Fprintf(&sb, "    %s: %dx%d %s (%s)\n", key, t.Width(), t.Height(), t.Format(), t.Path())
	}
	return sb.String()
}
