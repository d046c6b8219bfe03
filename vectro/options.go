package vectro

// CompressConfig holds the configuration a compress_stream run is built
// from; CompressStream builds it from the functional options below.
type CompressConfig struct {
	Quantize   bool
	Workers    int
	ProgressTo ProgressReporter
}

// CompressOption configures a streaming compress operation.
type CompressOption func(*CompressConfig) error

// WithQuantize enables the two-pass scalar-quantized output path
// (QSTREAM), instead of the default full-precision STREAM format.
func WithQuantize(enabled bool) CompressOption {
	return func(c *CompressConfig) error {
		c.Quantize = enabled
		return nil
	}
}

// WithWorkers overrides the worker-pool size used by the compressor's fan-
// out stage. The default is one worker per CPU; 0 or negative restores
// that default.
func WithWorkers(n int) CompressOption {
	return func(c *CompressConfig) error {
		if n < 0 {
			n = 0
		}
		c.Workers = n
		return nil
	}
}

// WithProgress attaches a ProgressReporter that receives periodic
// parsed-record counts during compression.
func WithProgress(r ProgressReporter) CompressOption {
	return func(c *CompressConfig) error {
		c.ProgressTo = r
		return nil
	}
}
