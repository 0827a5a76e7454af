package graphics

import "errors"

// Setup failures. These are fatal and returned from construction.
var (
	ErrBackendInit     = errors.New("backend initialization failed")
	ErrContextCreation = errors.New("graphics context creation failed")
)

// Misuse errors. The refused operation leaves all state unchanged.
var (
	ErrDuplicateAttribute = errors.New("duplicate attribute")
	ErrImmutableBuffer    = errors.New("buffer is immutable")
	ErrInvalidProgram     = errors.New("invalid shader program")
	ErrInvalidPayload     = errors.New("invalid buffer payload")
	ErrFrameState         = errors.New("invalid frame state")
)

// I/O errors. They are wrapped together with the offending path.
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrImageDecode      = errors.New("image decode failed")
)
