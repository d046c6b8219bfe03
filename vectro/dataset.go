package vectro

import (
	"bufio"
	"io"
	"os"

	"github.com/vectroplus/vectro/internal/codec"
	"github.com/vectroplus/vectro/internal/quant"
)

// Load reads a dataset file from path, identifying its container by
// prefix (§4.3): STREAM and QSTREAM both carry a magic header and
// length-prefixed frames, while BULK (no magic) is the whole-file
// serialized Dataset. QSTREAM records are dequantized back to float32 as
// they're read, so the returned Dataset is always full-precision
// regardless of which format produced the file.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, verrorsIO("vectro", "Load", "failed to open dataset file", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	kind, err := codec.Detect(r)
	if err != nil {
		return nil, err
	}

	switch kind {
	case codec.KindStream:
		return loadStream(r)
	case codec.KindQStream:
		return loadQStream(r)
	default:
		return loadBulk(r)
	}
}

func loadStream(r io.Reader) (*Dataset, error) {
	if err := codec.ReadStreamHeader(r); err != nil {
		return nil, err
	}

	ds := NewDataset()
	for {
		payload, err := codec.ReadFrame(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		e, err := codec.DecodeEmbedding(payload)
		if err != nil {
			return nil, err
		}
		ds.Add(Embedding{ID: e.ID, Vector: e.Vector})
	}
	return ds, nil
}

func loadQStream(r io.Reader) (*Dataset, error) {
	wireTables, err := codec.ReadQStreamHeader(r)
	if err != nil {
		return nil, err
	}

	tables := make([]quant.Table, len(wireTables))
	for i, t := range wireTables {
		tables[i] = quant.Table{Min: t.Min, Max: t.Max}
	}

	ds := NewDataset()
	for {
		payload, err := codec.ReadFrame(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		rec, err := codec.DecodeQRecord(payload)
		if err != nil {
			return nil, err
		}

		vector := make([]float32, len(rec.QVec))
		for d, q := range rec.QVec {
			if d < len(tables) {
				vector[d] = tables[d].Dequantize(q)
			}
		}
		ds.Add(Embedding{ID: rec.ID, Vector: vector})
	}
	return ds, nil
}

func loadBulk(r io.Reader) (*Dataset, error) {
	wire, err := codec.ReadBulk(r)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Embeddings: make([]Embedding, len(wire.Embeddings))}
	for i, e := range wire.Embeddings {
		ds.Embeddings[i] = Embedding{ID: e.ID, Vector: e.Vector}
	}
	return ds, nil
}

// Save writes ds to path in BULK format.
func (d *Dataset) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return verrorsIO("vectro", "Save", "failed to create dataset file", err)
	}
	defer f.Close()

	wire := codec.DatasetWire{Embeddings: make([]codec.EmbeddingWire, len(d.Embeddings))}
	for i, e := range d.Embeddings {
		wire.Embeddings[i] = codec.EmbeddingWire{ID: e.ID, Vector: e.Vector}
	}

	return codec.WriteBulk(f, wire)
}

func verrorsIO(component, operation, message string, cause error) *Error {
	return &Error{Code: ErrCodeIO, Component: component, Operation: operation, Message: message, Cause: cause}
}
