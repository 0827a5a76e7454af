package graphics

import "fmt"

// ElementType is the type of one vertex attribute.
type ElementType int

const (
	Float1 ElementType = iota
	Float2
	Float3
	Float4
	Int1
	Int2
	Int3
	Int4
)

// Size returns the byte size of one attribute of this type.
func (t ElementType) Size() int {
	return 4 * t.Count()
}

// Count returns the number of scalar components.
func (t ElementType) Count() int {
	switch t {
	case Float1, Int1:
		return 1
	case Float2, Int2:
		return 2
	case Float3, Int3:
		return 3
	case Float4, Int4:
		return 4
	default:
		return 0
	}
}

// IsInteger reports whether the attribute is fed to the shader as integers.
func (t ElementType) IsInteger() bool {
	return t >= Int1 && t <= Int4
}

// GLType returns the scalar component type.
func (t ElementType) GLType() uint32 {
	if t.IsInteger() {
		return Int
	}
	return Float
}

func (t ElementType) String() string {
	switch t {
	case Float1:
		return "float"
	case Float2:
		return "float2"
	case Float3:
		return "float3"
	case Float4:
		return "float4"
	case Int1:
		return "int"
	case Int2:
		return "int2"
	case Int3:
		return "int3"
	case Int4:
		return "int4"
	default:
		return fmt.Sprintf("ElementType(%d)", int(t))
	}
}

// BufferUsage hints how often a buffer's contents change after upload.
type BufferUsage int

const (
	Static BufferUsage = iota
	Dynamic
)

func (u BufferUsage) GLUsage() uint32 {
	if u == Dynamic {
		return DynamicDraw
	}
	return StaticDraw
}

func (u BufferUsage) String() string {
	switch u {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("BufferUsage(%d)", int(u))
	}
}

type TextureWrap int

const (
	WrapRepeat TextureWrap = iota
	WrapMirroredRepeat
	WrapClampToEdge
	WrapClampToBorder
)

func (w TextureWrap) GLValue() int32 {
	switch w {
	case WrapMirroredRepeat:
		return MirroredRepeat
	case WrapClampToEdge:
		return ClampToEdge
	case WrapClampToBorder:
		return ClampToBorder
	default:
		return Repeat
	}
}

func (w TextureWrap) String() string {
	switch w {
	case WrapRepeat:
		return "repeat"
	case WrapMirroredRepeat:
		return "mirrored_repeat"
	case WrapClampToEdge:
		return "clamp_to_edge"
	case WrapClampToBorder:
		return "clamp_to_border"
	default:
		return fmt.Sprintf("TextureWrap(%d)", int(w))
	}
}

type TextureFilter int

const (
	FilterNearest TextureFilter = iota
	FilterLinear
	FilterNearestMipmapNearest
	FilterLinearMipmapNearest
	FilterNearestMipmapLinear
	FilterLinearMipmapLinear
)

func (f TextureFilter) GLValue() int32 {
	switch f {
	case FilterLinear:
		return Linear
	case FilterNearestMipmapNearest:
		return NearestMipmapNearest
	case FilterLinearMipmapNearest:
		return LinearMipmapNearest
	case FilterNearestMipmapLinear:
		return NearestMipmapLinear
	case FilterLinearMipmapLinear:
		return LinearMipmapLinear
	default:
		return Nearest
	}
}

// UsesMipmaps reports whether sampling with f reads mipmap levels.
func (f TextureFilter) UsesMipmaps() bool {
	return f >= FilterNearestMipmapNearest && f <= FilterLinearMipmapLinear
}

func (f TextureFilter) String() string {
	switch f {
	case FilterNearest:
		return "nearest"
	case FilterLinear:
		return "linear"
	case FilterNearestMipmapNearest:
		return "nearest_mipmap_nearest"
	case FilterLinearMipmapNearest:
		return "linear_mipmap_nearest"
	case FilterNearestMipmapLinear:
		return "nearest_mipmap_linear"
	case FilterLinearMipmapLinear:
		return "linear_mipmap_linear"
	default:
		return fmt.Sprintf("TextureFilter(%d)", int(f))
	}
}

// TextureFormat is the pixel layout of uploaded texture data.
type TextureFormat int

const (
	FormatRGB TextureFormat = iota
	FormatRGBA
)

// FormatForChannels picks RGB for three channels and RGBA otherwise.
func FormatForChannels(channels int) TextureFormat {
	if channels == 3 {
		return FormatRGB
	}
	return FormatRGBA
}

func (f TextureFormat) Channels() int {
	if f == FormatRGB {
		return 3
	}
	return 4
}

func (f TextureFormat) GLFormat() uint32 {
	if f == FormatRGB {
		return RGB
	}
	return RGBA
}

func (f TextureFormat) GLInternalFormat() int32 {
	if f == FormatRGB {
		return RGB8
	}
	return RGBA8
}

func (f TextureFormat) String() string {
	switch f {
	case FormatRGB:
		return "rgb"
	case FormatRGBA:
		return "rgba"
	default:
		return fmt.Sprintf("TextureFormat(%d)", int(f))
	}
}

type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StageFragment
)

func (s ShaderStage) GLType() uint32 {
	if s == StageFragment {
		return FragmentShader
	}
	return VertexShader
}

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderStage(%d)", int(s))
	}
}
