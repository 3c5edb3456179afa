package rawraster

// ProgressFunc reports fraction done in [0,1] with an optional message.
// Returning false requests cancellation: the in-flight IO call stops and
// returns ErrCancelled. Per-row boundaries are the only place IO checks it;
// cancellation never interrupts a single scanline's read or write.
type ProgressFunc func(fraction float64, message string) bool

// scaledProgress wraps parent so its [0,1] domain maps onto [lo,hi] of the
// parent's own range, for composing a multi-band or multi-stage progress
// report out of per-band or per-stage ones. Returns nil if parent is nil.
func scaledProgress(parent ProgressFunc, lo, hi float64) ProgressFunc {
	if parent == nil {
		return nil
	}
	return func(fraction float64, message string) bool {
		return parent(lo+(hi-lo)*fraction, message)
	}
}
