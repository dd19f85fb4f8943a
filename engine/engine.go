// Package engine implements the joint superpixel-segmentation and
// palette-learning solver: a deterministic-annealing variant of soft
// K-means that simultaneously partitions an input image into a grid of
// superpixel regions and grows a bounded-size color palette to match.
package engine

import (
	"fmt"
	"image"
	"math"

	"github.com/google/uuid"
	"github.com/willibrandon/mtlog"
	"github.com/willibrandon/mtlog/core"

	"github.com/pixelab/superpix/colorspace"
)

// Engine owns the immutable input image and importance weights, the scalar
// tuning parameters, the annealing temperature, and a bounded history of
// mutable State snapshots. The zero value is not usable; construct with
// NewEngine.
type Engine struct {
	input   LabImage
	weights WeightGrid

	outputWidth, outputHeight int
	maxPaletteSize             int

	slicFactor    float64
	sigmaColor    float64
	sigmaPosition float64
	smoothPos     float64

	rangeRadius float64
	temperature float64

	converged    bool
	paletteMaxed bool
	initialized  bool

	// regionMap holds, for each input pixel (flattened row-major, idxIn),
	// the flat output-grid index of the superpixel that currently owns it.
	regionMap []int

	history *History
	logger  core.Logger
}

// NewEngine allocates an Engine for the given input image and target output
// grid/palette size. It validates dimensions but performs no further work;
// call Initialize to populate the superpixel grid and starting palette.
func NewEngine(input LabImage, w, h, paletteSize int, logger core.Logger) (*Engine, error) {
	if w <= 0 || h <= 0 || paletteSize < 1 || input.Width <= 0 || input.Height <= 0 {
		return nil, fmt.Errorf("%w: output %dx%d, palette size %d, input %dx%d",
			ErrInvalidDimensions, w, h, paletteSize, input.Width, input.Height)
	}
	if logger == nil {
		logger = mtlog.New(mtlog.WithMinimumLevel(core.ErrorLevel))
	}
	return &Engine{
		input:         input,
		weights:       uniformWeights(input.Width, input.Height),
		outputWidth:   w,
		outputHeight:  h,
		maxPaletteSize: paletteSize,
		slicFactor:    45,
		sigmaColor:    0.87,
		sigmaPosition: 0.87,
		smoothPos:     0.4,
		logger:        logger,
	}, nil
}

// SetWeights replaces the importance-weight grid. Must match the input
// image's dimensions.
func (e *Engine) SetWeights(w WeightGrid) error {
	if w.Width != e.input.Width || w.Height != e.input.Height {
		return fmt.Errorf("%w: weights %dx%d, input %dx%d",
			ErrShapeMismatch, w.Width, w.Height, e.input.Width, e.input.Height)
	}
	e.weights = w
	return nil
}

func (e *Engine) SetSlicFactor(f float64)    { e.slicFactor = f }
func (e *Engine) SetSigmaColor(f float64)    { e.sigmaColor = f }
func (e *Engine) SetSigmaPosition(f float64) { e.sigmaPosition = f }
func (e *Engine) SetSmoothPos(f float64)     { e.smoothPos = f }

// SetSaturation sets the a*/b* multiplier applied when rendering the
// effective palette to RGB (GetOutputImage, GetPalette). It is part of
// State so it participates in history snapshots.
func (e *Engine) SetSaturation(f float64) error {
	if !e.initialized {
		return ErrNotInitialized
	}
	e.history.Current().Saturation = f
	return nil
}

// InputWidth returns the input image width.
func (e *Engine) InputWidth() int { return e.input.Width }

// InputHeight returns the input image height.
func (e *Engine) InputHeight() int { return e.input.Height }

// OutputWidth returns the superpixel grid width.
func (e *Engine) OutputWidth() int { return e.outputWidth }

// OutputHeight returns the superpixel grid height.
func (e *Engine) OutputHeight() int { return e.outputHeight }

// MaxPaletteSize returns the target (post-condensation) palette size P.
func (e *Engine) MaxPaletteSize() int { return e.maxPaletteSize }

// Initialize computes the starting superpixel grid, region map, superpixel
// means, and two-subcluster palette (spec §4.1). It must be called exactly
// once before Iterate or any accessor.
func (e *Engine) Initialize() error {
	n := e.outputWidth * e.outputHeight
	e.rangeRadius = sqrtRange(e.input.Width, e.input.Height, e.outputWidth, e.outputHeight)

	st := newState(n)
	for y := 0; y < e.outputHeight; y++ {
		for x := 0; x < e.outputWidth; x++ {
			px := (float64(x) + 0.5) / float64(e.outputWidth) * float64(e.input.Width)
			py := (float64(y) + 0.5) / float64(e.outputHeight) * float64(e.input.Height)
			st.SuperpixelPos[e.idxOut(x, y)] = Vec2{X: px, Y: py}
		}
	}

	e.regionMap = make([]int, e.input.Width*e.input.Height)
	for y := 0; y < e.input.Height; y++ {
		for x := 0; x < e.input.Width; x++ {
			gx := x * e.outputWidth / e.input.Width
			gy := y * e.outputHeight / e.input.Height
			e.regionMap[e.idxIn(x, y)] = e.idxOut(gx, gy)
		}
	}

	e.history = newHistory(maxHistoryDepth, st)
	e.initialized = true

	e.updateSuperpixelMeans()

	st = e.history.Current()
	var mean colorspace.Lab
	for _, c := range st.SuperpixelColor {
		mean = mean.Add(c)
	}
	mean = mean.Scale(1.0 / float64(n))

	st.Prior = []float64{0.5, 0.5}
	st.Assoc = [][]float64{
		make([]float64, n),
		make([]float64, n),
	}
	for s := 0; s < n; s++ {
		st.Assoc[0][s] = 0.5
		st.Assoc[1][s] = 0.5
	}

	st.Palette = []colorspace.Lab{mean, mean}
	v, lambdaMax := e.getMaxEigen(st, 0)
	st.Palette[1] = mean.Add(v.Scale(subclusterPerturbation))
	st.Pairs = []Pair{{A: 0, B: 1}}

	e.temperature = initialTemperatureSafetyFactor * math.Sqrt(2*lambdaMax)

	st.Locked = make([]bool, e.maxPaletteSize)
	st.Constraints = make([][]int, n)

	e.converged = false
	e.paletteMaxed = false

	e.logger.Information(
		"Initialized superpix engine: {Width}x{Height} -> {OutputWidth}x{OutputHeight}, palette {PaletteSize}",
		e.input.Width, e.input.Height, e.outputWidth, e.outputHeight, e.maxPaletteSize)

	return nil
}

// Iterate performs one full pipeline pass (spec §4.6): segmentation update,
// mean update, association, refinement, and conditional annealing/growth.
// It is a no-op once HasConverged is true.
func (e *Engine) Iterate() {
	if e.converged {
		return
	}

	e.updateSuperpixelMapping()
	e.updateSuperpixelMeans()
	e.associatePalette()
	err := e.refinePalette()

	if err < paletteErrorTolerance {
		if e.temperature <= finalTemperature {
			e.converged = true
			e.logger.Information("Converged at iteration {Iteration}", e.history.Current().Iteration)
		} else {
			e.temperature = math.Max(e.temperature*coolingFactor, finalTemperature)
		}
		e.expandPalette()
	}

	e.history.Current().Iteration++
}

// HasConverged reports whether the engine has reached its final temperature
// with sub-tolerance palette movement.
func (e *Engine) HasConverged() bool { return e.converged }

// SetColor overwrites a palette entry directly, clearing the converged flag
// so subsequent Iterate calls resume refinement from the new color.
func (e *Engine) SetColor(index int, c colorspace.Color) error {
	if !e.initialized {
		return ErrNotInitialized
	}
	st := e.history.Current()
	if index < 0 || index >= len(st.Palette) {
		return fmt.Errorf("%w: index %d, palette size %d", ErrPaletteIndexOutOfRange, index, len(st.Palette))
	}
	st.Palette[index] = colorspace.RGBToLab(c)
	e.converged = false
	return nil
}

// SetColorFromSuperpixel overwrites a palette entry with the current mean
// color of the superpixel at sp, clearing the converged flag.
func (e *Engine) SetColorFromSuperpixel(index int, sp image.Point) error {
	if !e.initialized {
		return ErrNotInitialized
	}
	st := e.history.Current()
	if index < 0 || index >= len(st.Palette) {
		return fmt.Errorf("%w: index %d, palette size %d", ErrPaletteIndexOutOfRange, index, len(st.Palette))
	}
	if sp.X < 0 || sp.X >= e.outputWidth || sp.Y < 0 || sp.Y >= e.outputHeight {
		return fmt.Errorf("%w: superpixel (%d,%d) outside %dx%d grid",
			ErrShapeMismatch, sp.X, sp.Y, e.outputWidth, e.outputHeight)
	}
	st.Palette[index] = st.SuperpixelColor[e.idxOut(sp.X, sp.Y)]
	e.converged = false
	return nil
}

// SetColorLock marks a palette entry as immovable (or releases it).
func (e *Engine) SetColorLock(index int, locked bool) error {
	if !e.initialized {
		return ErrNotInitialized
	}
	st := e.history.Current()
	if index < 0 || index >= len(st.Locked) {
		return fmt.Errorf("%w: index %d, lock table size %d", ErrPaletteIndexOutOfRange, index, len(st.Locked))
	}
	st.Locked[index] = locked
	e.converged = false
	return nil
}

// ColorLock reports whether the palette entry at index is locked.
func (e *Engine) ColorLock(index int) (bool, error) {
	if !e.initialized {
		return false, ErrNotInitialized
	}
	st := e.history.Current()
	if index < 0 || index >= len(st.Locked) {
		return false, fmt.Errorf("%w: index %d, lock table size %d", ErrPaletteIndexOutOfRange, index, len(st.Locked))
	}
	return st.Locked[index], nil
}

// SetPixelConstraints restricts the superpixel at px to associate only
// with the given palette indices (empty clears the restriction).
func (e *Engine) SetPixelConstraints(px image.Point, constraints []int) error {
	if !e.initialized {
		return ErrNotInitialized
	}
	if px.X < 0 || px.X >= e.outputWidth || px.Y < 0 || px.Y >= e.outputHeight {
		return fmt.Errorf("%w: superpixel (%d,%d) outside %dx%d grid",
			ErrShapeMismatch, px.X, px.Y, e.outputWidth, e.outputHeight)
	}
	st := e.history.Current()
	for _, idx := range constraints {
		if idx < 0 || idx >= len(st.Palette) {
			return fmt.Errorf("%w: constraint index %d, palette size %d", ErrShapeMismatch, idx, len(st.Palette))
		}
	}
	st.Constraints[e.idxOut(px.X, px.Y)] = append([]int(nil), constraints...)
	e.converged = false
	return nil
}

// PixelConstraints returns the admissible palette indices for the
// superpixel at px, or nil if unconstrained.
func (e *Engine) PixelConstraints(px image.Point) ([]int, error) {
	if !e.initialized {
		return nil, ErrNotInitialized
	}
	if px.X < 0 || px.X >= e.outputWidth || px.Y < 0 || px.Y >= e.outputHeight {
		return nil, fmt.Errorf("%w: superpixel (%d,%d) outside %dx%d grid",
			ErrShapeMismatch, px.X, px.Y, e.outputWidth, e.outputHeight)
	}
	return e.history.Current().Constraints[e.idxOut(px.X, px.Y)], nil
}

// sqrtRange returns the expected linear radius of a superpixel in input
// space (spec §4.1): sqrt((W/w)*(H/h)).
func sqrtRange(inputW, inputH, outputW, outputH int) float64 {
	return math.Sqrt((float64(inputH) / float64(outputH)) * (float64(inputW) / float64(outputW)))
}

// Snapshot freezes the current state into history and returns a correlation
// id for the new snapshot.
func (e *Engine) Snapshot() uuid.UUID { return e.history.Snapshot() }

// Undo moves the history cursor to the previous snapshot, if any.
func (e *Engine) Undo() bool { return e.history.Undo() }

// Redo moves the history cursor to the next snapshot, if any.
func (e *Engine) Redo() bool { return e.history.Redo() }
