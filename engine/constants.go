package engine

// Numeric constants that are part of the engine's interface contract, not
// tunable parameters. Centralized here per spec.md's Design Notes.
const (
	// coolingFactor is the multiplicative cooling rate applied to the
	// annealing temperature once the palette error drops below tolerance.
	coolingFactor = 0.7

	// finalTemperature is the temperature floor; once reached and the
	// palette error is again below tolerance, the engine converges.
	finalTemperature = 1.0

	// paletteErrorTolerance is the RefinePalette movement threshold below
	// which cooling/expansion is triggered.
	paletteErrorTolerance = 1.0

	// subclusterSplitThreshold is the Lab distance between a pair's two
	// subcluster colors above which the pair is split.
	subclusterSplitThreshold = 1.6

	// subclusterPerturbation scales the eigenvector nudge applied when
	// creating or re-perturbing a subcluster.
	subclusterPerturbation = 0.8

	// initialTemperatureSafetyFactor scales the starting temperature above
	// the critical temperature implied by the initial color covariance.
	initialTemperatureSafetyFactor = 1.1

	// maxHistoryDepth bounds the number of retained undo/redo snapshots.
	maxHistoryDepth = 12
)
