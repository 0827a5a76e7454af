package buffers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glrenderer/graphics"
)

func TestPositionTexcoordLayout(t *testing.T) {
	l, err := NewLayout(
		Element{Name: "position", Type: graphics.Float2},
		Element{Name: "texcoord", Type: graphics.Float2},
	)
	require.NoError(t, err)

	assert.Equal(t, 16, l.Stride())
	assert.Equal(t, 0, l.Offset(l.Index("position")))
	assert.Equal(t, 8, l.Offset(l.Index("texcoord")))
	assert.Equal(t, 4, l.ComponentCount())
}

func permutations(elems []Element) [][]Element {
	if len(elems) <= 1 {
		return [][]Element{append([]Element(nil), elems...)}
	}
	var out [][]Element
	for i := range elems {
		rest := make([]Element, 0, len(elems)-1)
		rest = append(rest, elems[:i]...)
		rest = append(rest, elems[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]Element{elems[i]}, p...))
		}
	}
	return out
}

func TestLayoutOffsetsForEveryOrder(t *testing.T) {
	elems := []Element{
		{Name: "a", Type: graphics.Float1},
		{Name: "b", Type: graphics.Float3},
		{Name: "c", Type: graphics.Int2},
		{Name: "d", Type: graphics.Float4, Normalized: true},
	}
	for _, order := range permutations(elems) {
		l, err := NewLayout(order...)
		require.NoError(t, err)

		sum := 0
		for i, e := range order {
			assert.Equal(t, sum, l.Offset(i), l.String())
			sum += e.Type.Size()
		}
		assert.Equal(t, sum, l.Stride())
		assert.Equal(t, 4+12+8+16, l.Stride())
	}
}

func TestDuplicateAttribute(t *testing.T) {
	l, err := NewLayout(Element{Name: "position", Type: graphics.Float3})
	require.NoError(t, err)

	err = l.AddElement(Element{Name: "position", Type: graphics.Float2})
	assert.True(t, errors.Is(err, graphics.ErrDuplicateAttribute))
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 12, l.Stride())

	_, err = NewLayout(
		Element{Name: "uv", Type: graphics.Float2},
		Element{Name: "uv", Type: graphics.Float2},
	)
	assert.ErrorIs(t, err, graphics.ErrDuplicateAttribute)
}

func TestLayoutIsDeterministic(t *testing.T) {
	build := func() *Layout {
		l := &Layout{}
		require.NoError(t, l.AddElement(Element{Name: "p", Type: graphics.Float3}))
		require.NoError(t, l.AddElement(Element{Name: "n", Type: graphics.Float3}))
		require.NoError(t, l.AddElement(Element{Name: "id", Type: graphics.Int1}))
		return l
	}
	a, b := build(), build()
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, []int{0, 12, 24}, []int{a.Offset(0), a.Offset(1), a.Offset(2)})
}
