package graphics

// OpenGL enum values used by the runtime. They match the values in the
// Khronos headers so a Device can pass them straight to the driver.
const (
	ColorBufferBit = 0x00004000
	DepthBufferBit = 0x00000100

	DepthTest = 0x0B71
	Blend     = 0x0BE2

	SrcAlpha         = 0x0302
	OneMinusSrcAlpha = 0x0303

	Points        = 0x0000
	Lines         = 0x0001
	Triangles     = 0x0004
	TriangleStrip = 0x0005

	Byte         = 0x1400
	UnsignedByte = 0x1401
	Int          = 0x1404
	UnsignedInt  = 0x1405
	Float        = 0x1406

	ArrayBuffer        = 0x8892
	ElementArrayBuffer = 0x8893
	StaticDraw         = 0x88E4
	DynamicDraw        = 0x88E8

	VertexShader   = 0x8B31
	FragmentShader = 0x8B30
	CompileStatus  = 0x8B81
	LinkStatus     = 0x8B82
	InfoLogLength  = 0x8B84

	Texture2D          = 0x0DE1
	Texture0           = 0x84C0
	TextureWrapS       = 0x2802
	TextureWrapT       = 0x2803
	TextureMinFilter   = 0x2801
	TextureMagFilter   = 0x2800
	TextureBorderColor = 0x1004
	UnpackAlignment    = 0x0CF5
	PackAlignment      = 0x0D05

	Nearest              = 0x2600
	Linear               = 0x2601
	NearestMipmapNearest = 0x2700
	LinearMipmapNearest  = 0x2701
	NearestMipmapLinear  = 0x2702
	LinearMipmapLinear   = 0x2703

	Repeat         = 0x2901
	MirroredRepeat = 0x8370
	ClampToEdge    = 0x812F
	ClampToBorder  = 0x812D

	Red   = 0x1903
	RGB   = 0x1907
	RGBA  = 0x1908
	RG    = 0x8227
	RGB8  = 0x8051
	RGBA8 = 0x8058

	Vendor                 = 0x1F00
	Renderer               = 0x1F01
	Version                = 0x1F02
	ShadingLanguageVersion = 0x8B8C
)
