// Package float implements the full-precision in-memory index: a
// pre-normalized copy of a dataset's vectors scored against queries by
// parallel cosine similarity.
package float

import (
	"github.com/vectroplus/vectro/internal/simil"
)

// Index holds a pre-normalized copy of a dataset's embeddings. It owns its
// data and does not reference the dataset it was built from.
type Index struct {
	ids        []string
	normalized [][]float32
	dim        int
}

// Dataset is the minimal view an index needs to build itself; satisfied by
// vectro.Dataset without importing it (avoids an import cycle, since vectro
// depends on the index packages for construction).
type Dataset interface {
	Len() int
	At(i int) (id string, vector []float32)
}

// FromDataset builds an Index from ds, normalizing each vector once at
// build time. Dimension is taken from the first record; a zero-norm vector
// is stored as an all-zero normalized row.
func FromDataset(ds Dataset) *Index {
	n := ds.Len()
	idx := &Index{
		ids:        make([]string, n),
		normalized: make([][]float32, n),
	}

	for i := 0; i < n; i++ {
		id, v := ds.At(i)
		if i == 0 {
			idx.dim = len(v)
		}
		idx.ids[i] = id
		idx.normalized[i] = simil.Normalize(v)
	}

	return idx
}

// Dim returns the dimension this index was built with.
func (idx *Index) Dim() int { return idx.dim }

// Len returns the number of vectors held by the index.
func (idx *Index) Len() int { return len(idx.ids) }

// TopK normalizes query and returns the k highest cosine-scoring rows in
// descending order. It returns an empty slice if query's length does not
// match the index dimension or query has zero norm.
func (idx *Index) TopK(query []float32, k int) []simil.Scored {
	if len(query) != idx.dim || simil.Norm(query) == 0 {
		return []simil.Scored{}
	}

	q := simil.Normalize(query)
	n := len(idx.ids)
	if n == 0 || k <= 0 {
		return []simil.Scored{}
	}

	results := simil.TopKParallel(n, k, simil.Workers(), func(i int) simil.Scored {
		if len(idx.normalized[i]) != len(q) {
			return simil.Scored{ID: idx.ids[i], Score: -1.0}
		}
		return simil.Scored{ID: idx.ids[i], Score: simil.Dot(idx.normalized[i], q)}
	})
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
