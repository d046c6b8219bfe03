package simil

import (
	"container/heap"
	"runtime"
	"sort"
	"sync"
)

// Scored pairs an identifier with a similarity score, the unit returned by
// a top-k query.
type Scored struct {
	ID    string
	Score float32
}

// scoredHeap is a min-heap of Scored ordered by ascending Score, used to
// retain only the k best candidates a worker has seen without buffering
// every candidate it scores.
type scoredHeap []Scored

func (h scoredHeap) Len() int            { return len(h) }
func (h scoredHeap) Less(i, j int) bool  { return h[i].Score < h[j].Score }
func (h scoredHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *scoredHeap) Push(x interface{}) { *h = append(*h, x.(Scored)) }
func (h *scoredHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// pushBounded adds c to h, evicting the current minimum once h already
// holds k items and c scores higher than that minimum.
func pushBounded(h *scoredHeap, k int, c Scored) {
	if k <= 0 {
		return
	}
	if h.Len() < k {
		heap.Push(h, c)
		return
	}
	if (*h)[0].Score < c.Score {
		(*h)[0] = c
		heap.Fix(h, 0)
	}
}

// Workers returns a sane default worker count for data-parallel scoring:
// one goroutine per CPU, floor 1.
func Workers() int {
	n := runtime.NumCPU()
	if n < 1 {
		return 1
	}
	return n
}

// TopKParallel evaluates score(i) for every i in [0, n) across `workers`
// goroutines and returns the k highest-scoring results in descending
// order. Equal scores break ties in an unspecified but
// deterministic-for-a-given-build order (stable sort over each chunk's
// retained candidates, concatenated in chunk order); NaN scores compare as
// equal to everything,
// per the kernel's contract that invalid comparisons never panic.
func TopKParallel(n, k, workers int, score func(i int) Scored) []Scored {
	if k <= 0 || n == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	chunk := (n + workers - 1) / workers
	partials := make([][]Scored, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= n {
			break
		}
		end := start + chunk
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			h := &scoredHeap{}
			for i := start; i < end; i++ {
				pushBounded(h, k, score(i))
			}
			partials[w] = []Scored(*h)
		}(w, start, end)
	}
	wg.Wait()

	var all []Scored
	for _, partial := range partials {
		all = append(all, partial...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		si, sj := all[i].Score, all[j].Score
		if si != si || sj != sj { // NaN: treat as equal, never greater
			return false
		}
		return si > sj
	})

	if len(all) > k {
		all = all[:k]
	}
	return all
}
