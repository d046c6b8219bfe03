package codec

import (
	"bufio"
	"bytes"
	"io"
	"testing"

	"github.com/vectroplus/vectro/internal/verrors"
)

func TestFrame_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("hello frame")

	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("got %q, want %q", got, payload)
	}
}

func TestFrame_CleanEOFAtStreamEnd(t *testing.T) {
	var buf bytes.Buffer
	if _, err := ReadFrame(&buf); err != io.EOF {
		t.Errorf("expected io.EOF on empty stream, got %v", err)
	}
}

func TestFrame_TruncatedPayloadIsFormatError(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, []byte("abcdef")); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	truncated := bytes.NewReader(buf.Bytes()[:6]) // length prefix + 2 of 6 payload bytes
	if _, err := ReadFrame(truncated); err == nil {
		t.Fatal("expected an error for truncated payload")
	} else if ve, ok := err.(*verrors.Error); !ok || ve.Cause != verrors.ErrTruncatedFrame {
		t.Errorf("expected wrapped ErrTruncatedFrame, got %v", err)
	}
}

func TestEmbeddingCodec_RoundTrip(t *testing.T) {
	e := EmbeddingWire{ID: "a", Vector: []float32{1, 2, 3}}
	payload, err := EncodeEmbedding(e)
	if err != nil {
		t.Fatalf("EncodeEmbedding: %v", err)
	}
	got, err := DecodeEmbedding(payload)
	if err != nil {
		t.Fatalf("DecodeEmbedding: %v", err)
	}
	if got.ID != e.ID || len(got.Vector) != len(e.Vector) {
		t.Errorf("got %+v, want %+v", got, e)
	}
}

func TestDetect_Stream(t *testing.T) {
	var buf bytes.Buffer
	WriteStreamHeader(&buf)
	r := bufio.NewReader(&buf)
	kind, err := Detect(r)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if kind != KindStream {
		t.Errorf("expected KindStream, got %v", kind)
	}
}

func TestDetect_QStream(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteQStreamHeader(&buf, []QuantTableWire{{Min: 0, Max: 1}}); err != nil {
		t.Fatalf("WriteQStreamHeader: %v", err)
	}
	r := bufio.NewReader(&buf)
	kind, err := Detect(r)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if kind != KindQStream {
		t.Errorf("expected KindQStream, got %v", kind)
	}
}

func TestDetect_BulkHasNoMagic(t *testing.T) {
	var buf bytes.Buffer
	ds := DatasetWire{Embeddings: []EmbeddingWire{{ID: "x", Vector: []float32{1}}}}
	if err := WriteBulk(&buf, ds); err != nil {
		t.Fatalf("WriteBulk: %v", err)
	}
	r := bufio.NewReader(&buf)
	kind, err := Detect(r)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if kind != KindBulk {
		t.Errorf("expected KindBulk, got %v", kind)
	}
}

func TestQStreamHeader_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	tables := []QuantTableWire{{Min: -1, Max: 1}, {Min: 0, Max: 255}}
	if err := WriteQStreamHeader(&buf, tables); err != nil {
		t.Fatalf("WriteQStreamHeader: %v", err)
	}

	got, err := ReadQStreamHeader(&buf)
	if err != nil {
		t.Fatalf("ReadQStreamHeader: %v", err)
	}
	if len(got) != len(tables) {
		t.Fatalf("expected %d tables, got %d", len(tables), len(got))
	}
	for i := range tables {
		if got[i] != tables[i] {
			t.Errorf("table %d: got %+v, want %+v", i, got[i], tables[i])
		}
	}
}

func TestQStreamHeader_CountDimMismatchIsError(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteQStreamHeader(&buf, []QuantTableWire{{Min: 0, Max: 1}, {Min: 0, Max: 2}}); err != nil {
		t.Fatalf("WriteQStreamHeader: %v", err)
	}

	raw := buf.Bytes()
	// Corrupt the dim field (bytes 20..23, after the 16-byte magic and
	// 4-byte table_count) so it disagrees with table_count.
	corrupted := make([]byte, len(raw))
	copy(corrupted, raw)
	corrupted[20] = 0xFF

	if _, err := ReadQStreamHeader(bytes.NewReader(corrupted)); err == nil {
		t.Fatal("expected an error for table_count/dim mismatch")
	} else if ve, ok := err.(*verrors.Error); !ok || ve.Cause != verrors.ErrTableCountMismatch {
		t.Errorf("expected wrapped ErrTableCountMismatch, got %v", err)
	}
}

func TestQRecord_RoundTrip(t *testing.T) {
	rec := QRecord{ID: "id1", QVec: []byte{1, 2, 3, 255}}
	payload, err := EncodeQRecord(rec)
	if err != nil {
		t.Fatalf("EncodeQRecord: %v", err)
	}
	got, err := DecodeQRecord(payload)
	if err != nil {
		t.Fatalf("DecodeQRecord: %v", err)
	}
	if got.ID != rec.ID || !bytes.Equal(got.QVec, rec.QVec) {
		t.Errorf("got %+v, want %+v", got, rec)
	}
}

func TestBulk_RoundTrip(t *testing.T) {
	ds := DatasetWire{Embeddings: []EmbeddingWire{
		{ID: "a", Vector: []float32{1, 2}},
		{ID: "b", Vector: []float32{3, 4}},
	}}

	var buf bytes.Buffer
	if err := WriteBulk(&buf, ds); err != nil {
		t.Fatalf("WriteBulk: %v", err)
	}

	got, err := ReadBulk(&buf)
	if err != nil {
		t.Fatalf("ReadBulk: %v", err)
	}
	if len(got.Embeddings) != len(ds.Embeddings) {
		t.Fatalf("expected %d embeddings, got %d", len(ds.Embeddings), len(got.Embeddings))
	}
}
