// Package vectro is the public API of the embedding compression and
// nearest-neighbor search core: load and save datasets, compress streams of
// identified vectors to disk, and build float or quantized indexes over
// them for top-k cosine-similarity queries.
package vectro

// Embedding pairs an opaque, user-assigned identifier with a dense vector.
// A dataset does not enforce uniqueness of id.
type Embedding struct {
	ID     string    `msgpack:"id"`
	Vector []float32 `msgpack:"vector"`
}

// Dataset is an ordered sequence of embeddings. A built index assumes every
// embedding shares the dimension of the first record; differing dimensions
// are not rejected at parse, load or build time. A query whose length
// differs from that dimension yields an empty result rather than an error;
// a float index scores a row of a different length as -1, and a quantized
// index truncates or zero-pads every row to the first record's dimension
// when it is built.
type Dataset struct {
	Embeddings []Embedding `msgpack:"embeddings"`
}

// NewDataset returns an empty dataset ready to accept embeddings via Add.
func NewDataset() *Dataset {
	return &Dataset{}
}

// Add appends e to the dataset.
func (d *Dataset) Add(e Embedding) {
	d.Embeddings = append(d.Embeddings, e)
}

// Len returns the number of embeddings in the dataset.
func (d *Dataset) Len() int {
	return len(d.Embeddings)
}

// At returns the id and vector of the i'th embedding. It satisfies the
// Dataset interface consumed by internal/index/float and
// internal/index/quantized.
func (d *Dataset) At(i int) (string, []float32) {
	e := d.Embeddings[i]
	return e.ID, e.Vector
}

// Dim reports the dimension of the dataset's first embedding, or 0 if the
// dataset is empty.
func (d *Dataset) Dim() int {
	if len(d.Embeddings) == 0 {
		return 0
	}
	return len(d.Embeddings[0].Vector)
}
