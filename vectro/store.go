package vectro

import (
	"sync"
	"time"

	ifloat "github.com/vectroplus/vectro/internal/index/float"
	iquant "github.com/vectroplus/vectro/internal/index/quantized"
	"github.com/vectroplus/vectro/internal/obs"
	"github.com/vectroplus/vectro/internal/simil"
)

// Result pairs an embedding id with its similarity score, the unit returned
// by a top-k query.
type Result = simil.Scored

// index is the common surface both the float and quantized indexes expose;
// Store is built against this interface so it doesn't care which backing
// representation it holds.
type index interface {
	TopK(query []float32, k int) []simil.Scored
	BatchTopK(queries [][]float32, k int) [][]simil.Scored
}

// Store is a read-mostly wrapper pairing a built index with the metrics and
// locking a caller expects from a long-lived query surface, following the
// RWMutex-guarded wrapper shape of the teacher's Collection/Database types.
// A Store is immutable once built except for the quantized path's
// PromoteNormalizedCache transition.
type Store struct {
	mu      sync.RWMutex
	idx     index
	quant   *iquant.Index // non-nil only when built in quantized mode
	metrics *obs.Metrics
}

// NewFloatStore builds a Store backed by a full-precision float.Index over
// ds.
func NewFloatStore(ds *Dataset) *Store {
	return &Store{
		idx:     ifloat.FromDataset(ds),
		metrics: obs.NewMetrics(),
	}
}

// NewQuantizedStore builds a Store backed by a byte-quantized
// quantized.Index over ds.
func NewQuantizedStore(ds *Dataset) *Store {
	qi := iquant.FromDataset(ds)
	return &Store{
		idx:     qi,
		quant:   qi,
		metrics: obs.NewMetrics(),
	}
}

// PromoteNormalizedCache runs the quantized index's precompute_normalized
// transition. It is a no-op on a float-backed Store.
func (s *Store) PromoteNormalizedCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quant != nil {
		s.quant.PrecomputeNormalized()
	}
}

// TopK returns the k highest cosine-scoring embeddings for query.
func (s *Store) TopK(query []float32, k int) []Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := time.Now()
	defer func() {
		s.metrics.QueryTotal.Inc()
		s.metrics.QueryLatency.Observe(time.Since(start).Seconds())
	}()

	return s.idx.TopK(query, k)
}

// BatchTopK runs TopK for every query in queries.
func (s *Store) BatchTopK(queries [][]float32, k int) [][]Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := time.Now()
	defer func() {
		s.metrics.QueryTotal.Add(float64(len(queries)))
		s.metrics.QueryLatency.Observe(time.Since(start).Seconds())
	}()

	return s.idx.BatchTopK(queries, k)
}
