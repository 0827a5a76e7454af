// Package buffers holds vertex and index buffers, the layouts describing
// vertex data and the vertex arrays that bind them together.
//
// All objects in this package must be created, bound and released on the
// thread that owns their graphics.Context.
package buffers

import (
	"fmt"
	"strings"

	"github.com/richinsley/glrenderer/graphics"
)

// Element is one named vertex attribute.
type Element struct {
	Name       string
	Type       graphics.ElementType
	Normalized bool
}

func (e Element) Size() int {
	return e.Type.Size()
}

// Layout is an ordered list of attributes. Insertion order is the
// attribute slot order and the memory order inside one vertex.
type Layout struct {
	elements []Element
	offsets  []int
	stride   int
}

// NewLayout builds a layout from elements in order.
func NewLayout(elements ...Element) (*Layout, error) {
	l := &Layout{}
	for _, e := range elements {
		if err := l.AddElement(e); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// AddElement appends e. It fails with graphics.ErrDuplicateAttribute when
// the name is already present, leaving the layout unchanged.
func (l *Layout) AddElement(e Element) error {
	for _, existing := range l.elements {
		if existing.Name == e.Name {
			return fmt.Errorf("layout: %q: %w", e.Name, graphics.ErrDuplicateAttribute)
		}
	}
	l.elements = append(l.elements, e)
	l.offsets = append(l.offsets, l.stride)
	l.stride += e.Size()
	return nil
}

// Stride is the byte size of one vertex.
func (l *Layout) Stride() int {
	return l.stride
}

func (l *Layout) Len() int {
	return len(l.elements)
}

func (l *Layout) Element(i int) Element {
	return l.elements[i]
}

// Offset is the byte offset of element i inside one vertex.
func (l *Layout) Offset(i int) int {
	return l.offsets[i]
}

// Elements returns a copy of the elements in order.
func (l *Layout) Elements() []Element {
	return append([]Element(nil), l.elements...)
}

// ComponentCount is the number of scalar values per vertex.
func (l *Layout) ComponentCount() int {
	n := 0
	for _, e := range l.elements {
		n += e.Type.Count()
	}
	return n
}

// Index returns the position of the named element, or -1.
func (l *Layout) Index(name string) int {
	for i, e := range l.elements {
		if e.Name == name {
			return i
		}
	}
	return -1
}

func (l *Layout) clone() *Layout {
	return &Layout{
		elements: append([]Element(nil), l.elements...),
		offsets:  append([]int(nil), l.offsets...),
		stride:   l.stride,
	}
}

func (l *Layout) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Layout{stride=%d", l.stride)
	for i, e := range l.elements {
		fmt.Fprintf(&sb, " %s:%s@%d", e.Name, e.Type, l.offsets[i])
		if e.Normalized {
			sb.WriteString("(norm)")
		}
	}
	sb.WriteString("}")
	return sb.String()
}
