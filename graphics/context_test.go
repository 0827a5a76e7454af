package graphics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glrenderer/dummy"
	"github.com/richinsley/glrenderer/graphics"
)

func TestProgramStackRestoresPrevious(t *testing.T) {
	dev := dummy.NewDevice()
	ctx := graphics.NewContext(dev)

	ctx.PushProgram(1)
	ctx.PushProgram(2)
	assert.Equal(t, uint32(2), dev.CurrentProgram())

	require.True(t, ctx.PopProgram(2))
	assert.Equal(t, uint32(1), ctx.CurrentProgram())
	assert.Equal(t, uint32(1), dev.CurrentProgram())

	require.True(t, ctx.PopProgram(1))
	assert.Equal(t, uint32(0), dev.CurrentProgram())

	assert.False(t, ctx.PopProgram(1))
}

func TestPopNonTopKeepsCurrent(t *testing.T) {
	dev := dummy.NewDevice()
	ctx := graphics.NewContext(dev)

	ctx.PushProgram(1)
	ctx.PushProgram(2)
	require.True(t, ctx.PopProgram(1))
	assert.Equal(t, uint32(2), dev.CurrentProgram())

	require.True(t, ctx.PopProgram(2))
	assert.Equal(t, uint32(0), dev.CurrentProgram())
}

func TestVertexArrayBindIsIdempotent(t *testing.T) {
	dev := dummy.NewDevice()
	ctx := graphics.NewContext(dev)

	assert.True(t, ctx.BindVertexArray(5))
	assert.False(t, ctx.BindVertexArray(5))
	assert.Equal(t, 1, dev.Calls("BindVertexArray"))

	ctx.ForgetVertexArray(5)
	assert.Equal(t, uint32(0), ctx.BoundVertexArray())
}

func TestTextureUnits(t *testing.T) {
	dev := dummy.NewDevice()
	ctx := graphics.NewContext(dev)

	ctx.BindTexture(0, 7)
	ctx.BindTexture(3, 9)
	assert.Equal(t, uint32(7), dev.BoundTexture(0))
	assert.Equal(t, uint32(9), dev.BoundTexture(3))
	assert.Equal(t, uint32(9), ctx.BoundTexture(3))

	ctx.ForgetTexture(9)
	assert.Equal(t, uint32(0), ctx.BoundTexture(3))
}

func TestElementTypeSizes(t *testing.T) {
	cases := map[graphics.ElementType]int{
		graphics.Float1: 4, graphics.Float2: 8, graphics.Float3: 12, graphics.Float4: 16,
		graphics.Int1: 4, graphics.Int2: 8, graphics.Int3: 12, graphics.Int4: 16,
	}
	for typ, size := range cases {
		assert.Equal(t, size, typ.Size(), typ.String())
	}
	assert.True(t, graphics.Int3.IsInteger())
	assert.False(t, graphics.Float3.IsInteger())
}

func TestParseBackendType(t *testing.T) {
	b, err := graphics.ParseBackendType("EGL")
	require.NoError(t, err)
	assert.Equal(t, graphics.BackendHeadless, b)

	b, err = graphics.ParseBackendType("none")
	require.NoError(t, err)
	assert.Equal(t, graphics.BackendNone, b)

	_, err = graphics.ParseBackendType("vulkan")
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := graphics.DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Width = 0
	assert.Error(t, cfg.Validate())
}
