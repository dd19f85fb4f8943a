package engine

import "errors"

// Sentinel errors identifying the engine's failure categories: the three of
// spec.md §7 plus ErrNotInitialized. Callers can test for a category with
// errors.Is.
var (
	// ErrInvalidDimensions is returned when w<=0, h<=0, paletteSize<1, or
	// the input image is empty.
	ErrInvalidDimensions = errors.New("superpix: invalid dimensions")

	// ErrShapeMismatch is returned when a weights grid does not match the
	// input image's dimensions, or a constraint index is out of palette
	// range.
	ErrShapeMismatch = errors.New("superpix: shape mismatch")

	// ErrPaletteIndexOutOfRange is returned when a palette index passed to
	// a mutator is out of range. SetColor and SetColorFromSuperpixel check
	// the index against the raw subcluster count len(State.Palette), and
	// SetColorLock/ColorLock against the lock table (MaxPaletteSize
	// entries); none of them checks against the effective (pair-count)
	// palette size, so before condensation an index past the effective
	// palette is accepted when it names an existing subcluster.
	ErrPaletteIndexOutOfRange = errors.New("superpix: palette index out of range")

	// ErrNotInitialized is returned by any stateful method called before
	// Initialize has succeeded.
	ErrNotInitialized = errors.New("superpix: engine not initialized")
)
