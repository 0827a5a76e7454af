package graphics

import (
	"log/slog"
	"slices"
)

// Context is the per-context binding state shared by every GPU object
// created against a Device. Objects keep the Context they were created
// with and route all binding through it.
//
// A Context belongs to the thread that owns the native graphics context.
type Context struct {
	device Device

	// programs is the program binding stack; the top entry is in use.
	programs []uint32

	vertexArray uint32
	activeUnit  uint32
	textures    map[uint32]uint32
}

func NewContext(device Device) *Context {
	return &Context{
		device:   device,
		textures: make(map[uint32]uint32),
	}
}

func (c *Context) Device() Device {
	return c.device
}

// CurrentProgram returns the program in use, or 0.
func (c *Context) CurrentProgram() uint32 {
	if len(c.programs) == 0 {
		return 0
	}
	return c.programs[len(c.programs)-1]
}

// PushProgram makes program current and remembers the previous one.
func (c *Context) PushProgram(program uint32) {
	prev := c.CurrentProgram()
	c.programs = append(c.programs, program)
	if prev != program {
		c.device.UseProgram(program)
	}
}

// PopProgram removes the most recent binding of program. When that binding
// was on top, the previous program is restored. It reports false when
// program was not bound.
func (c *Context) PopProgram(program uint32) bool {
	for i := len(c.programs) - 1; i >= 0; i-- {
		if c.programs[i] != program {
			continue
		}
		top := i == len(c.programs)-1
		c.programs = slices.Delete(c.programs, i, i+1)
		if top {
			if next := c.CurrentProgram(); next != program {
				c.device.UseProgram(next)
			}
		}
		return true
	}
	return false
}

// ForgetProgram drops every binding of a deleted program.
func (c *Context) ForgetProgram(program uint32) {
	current := c.CurrentProgram()
	c.programs = slices.DeleteFunc(c.programs, func(p uint32) bool { return p == program })
	if current == program {
		c.device.UseProgram(c.CurrentProgram())
	}
}

// BindVertexArray binds array unless it is already bound. It reports
// whether a device call was issued.
func (c *Context) BindVertexArray(array uint32) bool {
	if c.vertexArray == array {
		return false
	}
	c.device.BindVertexArray(array)
	c.vertexArray = array
	return true
}

func (c *Context) BoundVertexArray() uint32 {
	return c.vertexArray
}

// SetActiveUnit selects the texture unit later bindings apply to.
func (c *Context) SetActiveUnit(unit uint32) {
	if c.activeUnit != unit {
		c.device.ActiveTexture(Texture0 + unit)
		c.activeUnit = unit
	}
}

func (c *Context) ActiveUnit() uint32 {
	return c.activeUnit
}

// BindTexture binds texture to the 2D target of unit.
func (c *Context) BindTexture(unit, texture uint32) {
	c.SetActiveUnit(unit)
	if c.textures[unit] == texture {
		return
	}
	c.device.BindTexture(Texture2D, texture)
	if texture == 0 {
		delete(c.textures, unit)
	} else {
		c.textures[unit] = texture
	}
}

func (c *Context) BoundTexture(unit uint32) uint32 {
	return c.textures[unit]
}

// ForgetTexture clears every unit that still points at a deleted texture.
func (c *Context) ForgetTexture(texture uint32) {
	for unit, t := range c.textures {
		if t == texture {
			delete(c.textures, unit)
		}
	}
}

// ForgetVertexArray clears the binding of a deleted vertex array.
func (c *Context) ForgetVertexArray(array uint32) {
	if c.vertexArray == array {
		c.vertexArray = 0
	}
}

// LogInfo logs the driver strings of the current context.
func (c *Context) LogInfo() {
	Logger().Info("graphics context",
		slog.String("vendor", c.device.GetString(Vendor)),
		slog.String("renderer", c.device.GetString(Renderer)),
		slog.String("version", c.device.GetString(Version)),
		slog.String("glsl", c.device.GetString(ShadingLanguageVersion)),
	)
}
