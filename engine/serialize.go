package engine

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/willibrandon/mtlog"
	"github.com/willibrandon/mtlog/core"

	"github.com/pixelab/superpix/colorspace"
)

// sessionFile is the JSON container persisted by Save/LoadEngine: every
// State snapshot field plus the input image, weights, dimensions, and
// scalar parameters, mirroring original_source/pix.cpp's SaveToFile/the
// Pix(string filename) constructor field-for-field. Format-level
// bit-exactness across implementations is explicitly not required
// (spec.md §6).
type sessionFile struct {
	InputWidth, InputHeight     int
	OutputWidth, OutputHeight   int
	MaxPaletteSize               int
	Input                        []colorspace.Lab
	Weights                      []float64

	SlicFactor, SigmaColor, SigmaPosition, SmoothPos float64
	Temperature                                       float64
	Converged, PaletteMaxed                           bool

	SuperpixelPos   []Vec2
	SuperpixelColor []colorspace.Lab
	SuperpixelWeight []float64
	Palette         []colorspace.Lab
	Pairs           []Pair
	Prior           []float64
	Assoc           [][]float64
	HardAssign      []int
	Locked          []bool
	Constraints     [][]int
	Iteration       int
	Saturation      float64

	RegionMap []int
}

// Save writes the engine's full state to w as JSON.
func (e *Engine) Save(w io.Writer) error {
	if !e.initialized {
		return ErrNotInitialized
	}
	st := e.history.Current()

	sf := sessionFile{
		InputWidth: e.input.Width, InputHeight: e.input.Height,
		OutputWidth: e.outputWidth, OutputHeight: e.outputHeight,
		MaxPaletteSize: e.maxPaletteSize,
		Input:          e.input.Pix,
		Weights:        e.weights.Values,
		SlicFactor:     e.slicFactor,
		SigmaColor:     e.sigmaColor,
		SigmaPosition:  e.sigmaPosition,
		SmoothPos:      e.smoothPos,
		Temperature:    e.temperature,
		Converged:      e.converged,
		PaletteMaxed:   e.paletteMaxed,

		SuperpixelPos:    st.SuperpixelPos,
		SuperpixelColor:  st.SuperpixelColor,
		SuperpixelWeight: st.SuperpixelWeight,
		Palette:          st.Palette,
		Pairs:            st.Pairs,
		Prior:            st.Prior,
		Assoc:            st.Assoc,
		HardAssign:       st.HardAssign,
		Locked:           st.Locked,
		Constraints:      st.Constraints,
		Iteration:        st.Iteration,
		Saturation:       st.Saturation,

		RegionMap: e.regionMap,
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(sf); err != nil {
		return fmt.Errorf("superpix: encode session: %w", err)
	}
	return nil
}

// LoadEngine reconstructs an Engine from a session previously written by
// Save. The returned engine is initialized and has a fresh single-entry
// history rooted at the loaded state.
func LoadEngine(r io.Reader, logger core.Logger) (*Engine, error) {
	if logger == nil {
		logger = mtlog.New(mtlog.WithMinimumLevel(core.ErrorLevel))
	}

	var sf sessionFile
	if err := json.NewDecoder(r).Decode(&sf); err != nil {
		return nil, fmt.Errorf("superpix: decode session: %w", err)
	}

	e := &Engine{
		input:         LabImage{Width: sf.InputWidth, Height: sf.InputHeight, Pix: sf.Input},
		weights:       WeightGrid{Width: sf.InputWidth, Height: sf.InputHeight, Values: sf.Weights},
		outputWidth:   sf.OutputWidth,
		outputHeight:  sf.OutputHeight,
		maxPaletteSize: sf.MaxPaletteSize,
		slicFactor:    sf.SlicFactor,
		sigmaColor:    sf.SigmaColor,
		sigmaPosition: sf.SigmaPosition,
		smoothPos:     sf.SmoothPos,
		temperature:   sf.Temperature,
		converged:     sf.Converged,
		paletteMaxed:  sf.PaletteMaxed,
		regionMap:     sf.RegionMap,
		logger:        logger,
		initialized:   true,
	}
	e.rangeRadius = sqrtRange(e.input.Width, e.input.Height, e.outputWidth, e.outputHeight)

	st := &State{
		SuperpixelPos:    sf.SuperpixelPos,
		SuperpixelColor:  sf.SuperpixelColor,
		SuperpixelWeight: sf.SuperpixelWeight,
		Palette:          sf.Palette,
		Pairs:            sf.Pairs,
		Prior:            sf.Prior,
		Assoc:            sf.Assoc,
		HardAssign:       sf.HardAssign,
		Locked:           sf.Locked,
		Constraints:      sf.Constraints,
		Iteration:        sf.Iteration,
		Saturation:       sf.Saturation,
	}
	e.history = newHistory(maxHistoryDepth, st)

	e.logger.Information("Loaded superpix session: {Width}x{Height} -> {OutputWidth}x{OutputHeight}",
		e.input.Width, e.input.Height, e.outputWidth, e.outputHeight)

	return e, nil
}
