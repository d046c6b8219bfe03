package vectro

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDataset_SaveLoadRoundTrip(t *testing.T) {
	ds := NewDataset()
	ds.Add(Embedding{ID: "one", Vector: []float32{0.1, 0.2}})
	ds.Add(Embedding{ID: "two", Vector: []float32{1.0, 2.0}})

	path := filepath.Join(t.TempDir(), "dataset.bulk")
	if err := ds.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("expected 2 embeddings, got %d", loaded.Len())
	}
	if id, _ := loaded.At(0); id != "one" {
		t.Errorf("expected first id 'one', got %q", id)
	}
}

func TestDataset_Dim(t *testing.T) {
	ds := NewDataset()
	if ds.Dim() != 0 {
		t.Errorf("expected dim 0 for empty dataset, got %d", ds.Dim())
	}
	ds.Add(Embedding{ID: "a", Vector: []float32{1, 2, 3}})
	if ds.Dim() != 3 {
		t.Errorf("expected dim 3, got %d", ds.Dim())
	}
}

func TestLoad_MissingFileIsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.bulk")); err == nil {
		t.Error("expected an error loading a nonexistent file")
	}
}

func TestLoad_StreamRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.jsonl")
	writeFile(t, in, `{"id":"one","vector":[1.0,0.0]}
{"id":"two","vector":[0.0,1.0]}
`)

	out := filepath.Join(dir, "out.stream")
	if _, err := CompressStream(in, out); err != nil {
		t.Fatalf("CompressStream: %v", err)
	}

	loaded, err := Load(out)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("expected 2 embeddings, got %d", loaded.Len())
	}

	ids := map[string]bool{}
	for i := 0; i < loaded.Len(); i++ {
		id, _ := loaded.At(i)
		ids[id] = true
	}
	if !ids["one"] || !ids["two"] {
		t.Errorf("expected ids 'one' and 'two', got %v", ids)
	}
}

func TestLoad_QStreamRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.jsonl")
	writeFile(t, in, `{"id":"one","vector":[1.0,2.0,3.0]}
{"id":"two","vector":[4.0,5.0,6.0]}
`)

	out := filepath.Join(dir, "out.qstream")
	if _, err := CompressStream(in, out, WithQuantize(true)); err != nil {
		t.Fatalf("CompressStream: %v", err)
	}

	loaded, err := Load(out)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("expected 2 embeddings, got %d", loaded.Len())
	}
	if loaded.Dim() != 3 {
		t.Fatalf("expected dim 3, got %d", loaded.Dim())
	}

	// Quantization is lossy; the dequantized extrema should land close to
	// the originals ("one" holds each dimension's min, "two" its max).
	// Record order in a compressed stream is not fixed, so "one" is looked
	// up by id.
	var vec []float32
	for i := 0; i < loaded.Len(); i++ {
		if id, v := loaded.At(i); id == "one" {
			vec = v
		}
	}
	if vec == nil {
		t.Fatalf("expected a record with id 'one' in the loaded dataset")
	}
	if diff := vec[0] - 1.0; diff < -0.05 || diff > 0.05 {
		t.Errorf("expected vec[0] close to 1.0, got %v", vec[0])
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}
