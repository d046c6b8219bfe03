// Package quantized implements the byte-quantized in-memory index: vectors
// stored as one byte per dimension via a per-dimension min/max table, with
// an optional precomputed normalized cache that trades memory for hot-loop
// speed.
package quantized

import (
	"github.com/vectroplus/vectro/internal/quant"
	"github.com/vectroplus/vectro/internal/simil"
)

// Dataset is the minimal view an index needs to build itself.
type Dataset interface {
	Len() int
	At(i int) (id string, vector []float32)
}

// Index holds byte-quantized vectors and their per-dimension tables. Scoring
// runs on-the-fly (dequantize each row per query) until PrecomputeNormalized
// is called, after which it scores against a cached, normalized dequantized
// copy instead.
type Index struct {
	ids        []string
	tables     []quant.Table
	qvecs      [][]byte
	dim        int
	normalized [][]float32 // nil until PrecomputeNormalized runs
}

// FromDataset collects every vector in ds, builds one quant.Table per
// dimension from their observed extrema, and quantizes each vector against
// those tables. This is a two-pass operation: QuantizeDataset must see every
// vector before it can emit the first byte.
func FromDataset(ds Dataset) *Index {
	n := ds.Len()
	ids := make([]string, n)
	vectors := make([][]float32, n)
	for i := 0; i < n; i++ {
		id, v := ds.At(i)
		ids[i] = id
		vectors[i] = v
	}

	tables, qvecs := quant.QuantizeDataset(vectors)

	return &Index{
		ids:    ids,
		tables: tables,
		qvecs:  qvecs,
		dim:    len(tables),
	}
}

// Dim returns the dimension this index was built with.
func (idx *Index) Dim() int { return idx.dim }

// Len returns the number of vectors held by the index.
func (idx *Index) Len() int { return len(idx.ids) }

// Cached reports whether PrecomputeNormalized has run.
func (idx *Index) Cached() bool { return idx.normalized != nil }

// CompressionRatio returns the ratio of the float32 representation's size to
// the quantized representation's size (ids and tables excluded from both
// sides): 4 bytes/dimension against 1 byte/dimension, i.e. always 4.0 for a
// non-empty index. Present for introspection; the index's scoring behavior
// does not depend on it.
func (idx *Index) CompressionRatio() float64 {
	if idx.dim == 0 || len(idx.qvecs) == 0 {
		return 0
	}
	return 4.0
}

// MemoryUsageBytes sums the index's actual storage: quantized row bytes,
// the min/max table (8 bytes per dimension), id string bytes, and the
// normalized cache if PrecomputeNormalized has run.
func (idx *Index) MemoryUsageBytes() int64 {
	var total int64
	total += int64(len(idx.qvecs)) * int64(idx.dim)
	total += int64(len(idx.tables)) * 8
	for _, id := range idx.ids {
		total += int64(len(id))
	}
	if idx.normalized != nil {
		total += int64(len(idx.normalized)) * int64(idx.dim) * 4
	}
	return total
}

func (idx *Index) dequantize(qv []byte) []float32 {
	v := make([]float32, idx.dim)
	for d := 0; d < idx.dim && d < len(qv); d++ {
		v[d] = idx.tables[d].Dequantize(qv[d])
	}
	return v
}

// scoreOnTheFly dequantizes qv and scores it against the already-normalized
// query q, returning -1 if the dequantized row has zero norm.
func (idx *Index) scoreOnTheFly(qv []byte, q []float32) float32 {
	v := idx.dequantize(qv)
	n := simil.Norm(v)
	if n == 0 {
		return -1.0
	}
	return simil.Dot(v, q) / n
}

// PrecomputeNormalized dequantizes and L2-normalizes every row once, caching
// the result so later queries skip dequantize+normalize in the hot loop.
// This is a write-once transition: the external contract is idempotent, but
// a second call recomputes the cache rather than being a no-op.
func (idx *Index) PrecomputeNormalized() {
	normalized := make([][]float32, len(idx.qvecs))
	for i, qv := range idx.qvecs {
		normalized[i] = simil.Normalize(idx.dequantize(qv))
	}
	idx.normalized = normalized
}

// TopK normalizes query and returns the k highest cosine-scoring rows in
// descending order, using the cached normalized copy if PrecomputeNormalized
// has run, or dequantizing on the fly otherwise.
func (idx *Index) TopK(query []float32, k int) []simil.Scored {
	if len(query) != idx.dim || simil.Norm(query) == 0 {
		return []simil.Scored{}
	}

	q := simil.Normalize(query)
	n := len(idx.ids)
	if n == 0 || k <= 0 {
		return []simil.Scored{}
	}

	var score func(i int) simil.Scored
	if idx.normalized != nil {
		score = func(i int) simil.Scored {
			s := simil.Dot(idx.normalized[i], q)
			if s == 0 && simil.Norm(idx.normalized[i]) == 0 {
				s = -1.0 // degenerate row, scored as on the on-the-fly path
			}
			return simil.Scored{ID: idx.ids[i], Score: s}
		}
	} else {
		score = func(i int) simil.Scored {
			return simil.Scored{ID: idx.ids[i], Score: idx.scoreOnTheFly(idx.qvecs[i], q)}
		}
	}

	results := simil.TopKParallel(n, k, simil.Workers(), score)
	if results == nil {
		return []simil.Scored{}
	}
	return results
}

// BatchTopK runs TopK for every query in queries, in parallel across
// queries.
func (idx *Index) BatchTopK(queries [][]float32, k int) [][]simil.Scored {
	out := make([][]simil.Scored, len(queries))

	type job struct {
		i int
		q []float32
	}
	jobs := make(chan job, len(queries))
	for i, q := range queries {
		jobs <- job{i, q}
	}
	close(jobs)

	workers := simil.Workers()
	if workers > len(queries) {
		workers = len(queries)
	}
	if workers < 1 {
		workers = 1
	}

	done := make(chan struct{})
	for w := 0; w < workers; w++ {
		go func() {
			for j := range jobs {
				out[j.i] = idx.TopK(j.q, k)
			}
			done <- struct{}{}
		}()
	}
	for w := 0; w < workers; w++ {
		<-done
	}

	return out
}
