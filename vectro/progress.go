package vectro

// ProgressReporter receives incremental progress updates during a
// compress_stream run. Add is called with the count of newly parsed
// records since the last call, not a running total.
type ProgressReporter interface {
	Add(n int)
}
