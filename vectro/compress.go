package vectro

import (
	"github.com/vectroplus/vectro/internal/compress"
	"github.com/vectroplus/vectro/internal/obs"
)

// CompressStream parses input line by line and writes a STREAM (default)
// or QSTREAM (WithQuantize(true)) container to output, returning the
// count of successfully parsed records. Malformed lines are dropped
// silently; I/O and container failures are returned wrapped in *Error.
func CompressStream(input, output string, opts ...CompressOption) (int, error) {
	cfg := &CompressConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return 0, &Error{Code: ErrCodeConfig, Component: "vectro", Operation: "CompressStream", Message: "invalid option", Cause: err}
		}
	}

	n, err := compress.Stream(compress.Config{
		Quantize: cfg.Quantize,
		Workers:  cfg.Workers,
		Progress: cfg.ProgressTo,
		Metrics:  obs.NewMetrics(),
	}, input, output)

	return n, err
}
