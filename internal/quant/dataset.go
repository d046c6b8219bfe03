package quant

import "math"

// QuantizeDataset builds one Table per dimension from the observed extrema
// of vectors, then quantizes every vector against those tables.
//
// This is a two-pass operation: the tables depend on the full dataset's
// min/max per dimension, so every vector must be seen before the first byte
// is emitted. Callers that need to stream output to disk (internal/compress)
// collect vectors in memory for this reason rather than quantizing as they
// arrive.
func QuantizeDataset(vectors [][]float32) ([]Table, [][]byte) {
	if len(vectors) == 0 {
		return nil, nil
	}

	dim := len(vectors[0])
	mins := make([]float32, dim)
	maxs := make([]float32, dim)
	for i := range mins {
		mins[i] = float32(math.Inf(1))
		maxs[i] = float32(math.Inf(-1))
	}

	for _, v := range vectors {
		n := dim
		if len(v) < n {
			n = len(v)
		}
		for i := 0; i < n; i++ {
			if v[i] < mins[i] {
				mins[i] = v[i]
			}
			if v[i] > maxs[i] {
				maxs[i] = v[i]
			}
		}
	}

	tables := make([]Table, dim)
	for i := range tables {
		tables[i] = Table{Min: mins[i], Max: maxs[i]}
	}

	qvecs := make([][]byte, len(vectors))
	for i, v := range vectors {
		qv := make([]byte, dim)
		for d := 0; d < dim; d++ {
			var x float32
			if d < len(v) {
				x = v[d]
			}
			qv[d] = tables[d].Quantize(x)
		}
		qvecs[i] = qv
	}

	return tables, qvecs
}
