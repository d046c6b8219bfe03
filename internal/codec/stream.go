package codec

import (
	"bufio"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vectroplus/vectro/internal/verrors"
)

const (
	streamMagic  = "VECTRO+STREAM1\n"
	qstreamMagic = "VECTRO+QSTREAM1\n"
)

// Kind identifies which of the three on-disk container shapes a reader is
// looking at.
type Kind int

const (
	KindUnknown Kind = iota
	KindStream
	KindQStream
	KindBulk
)

// Detect peeks at the longest magic header without consuming r, and
// reports which container shape is present. A file lacking either magic is
// assumed to be BULK, which carries no header of its own.
func Detect(r *bufio.Reader) (Kind, error) {
	peekLen := len(qstreamMagic)
	head, err := r.Peek(peekLen)
	if err != nil && err != io.EOF {
		return KindUnknown, vectroErr("codec", "Detect", "failed to peek header", err)
	}

	if string(head) == qstreamMagic {
		return KindQStream, nil
	}
	if len(head) >= len(streamMagic) && string(head[:len(streamMagic)]) == streamMagic {
		return KindStream, nil
	}
	return KindBulk, nil
}

// WriteStreamHeader writes the STREAM magic line.
func WriteStreamHeader(w io.Writer) error {
	if _, err := io.WriteString(w, streamMagic); err != nil {
		return vectroErr("codec", "WriteStreamHeader", "failed to write magic", err)
	}
	return nil
}

// ReadStreamHeader consumes and validates the STREAM magic line.
func ReadStreamHeader(r io.Reader) error {
	return readMagic(r, streamMagic)
}

func readMagic(r io.Reader, want string) error {
	buf := make([]byte, len(want))
	if _, err := io.ReadFull(r, buf); err != nil {
		return vectroErr("codec", "readMagic", "failed to read magic", verrors.ErrBadMagic)
	}
	if string(buf) != want {
		return vectroErr("codec", "readMagic", "unrecognized magic header", verrors.ErrBadMagic)
	}
	return nil
}

// EmbeddingWire is the wire shape of an Embedding, kept local to codec so
// this package has no dependency on the vectro package's types (vectro
// depends on codec, not the reverse).
type EmbeddingWire struct {
	ID     string    `msgpack:"id"`
	Vector []float32 `msgpack:"vector"`
}

// DatasetWire is the wire shape of a whole Dataset, used by the BULK
// format.
type DatasetWire struct {
	Embeddings []EmbeddingWire `msgpack:"embeddings"`
}

// EncodeEmbedding serializes e as a msgpack payload, the body of one STREAM
// frame.
func EncodeEmbedding(e EmbeddingWire) ([]byte, error) {
	data, err := msgpack.Marshal(e)
	if err != nil {
		return nil, vectroErr("codec", "EncodeEmbedding", "msgpack encode failed", err)
	}
	return data, nil
}

// DecodeEmbedding deserializes one STREAM frame payload back into an
// EmbeddingWire.
func DecodeEmbedding(payload []byte) (EmbeddingWire, error) {
	var e EmbeddingWire
	if err := msgpack.Unmarshal(payload, &e); err != nil {
		return e, vectroErr("codec", "DecodeEmbedding", "msgpack decode failed", verrors.ErrTruncatedFrame)
	}
	return e, nil
}

// QRecord is a single quantized-stream record: an id paired with its
// per-dimension quantized byte vector.
type QRecord struct {
	ID   string `msgpack:"id"`
	QVec []byte `msgpack:"qvec"`
}

// EncodeQRecord serializes a QSTREAM frame payload.
func EncodeQRecord(rec QRecord) ([]byte, error) {
	data, err := msgpack.Marshal(rec)
	if err != nil {
		return nil, vectroErr("codec", "EncodeQRecord", "msgpack encode failed", err)
	}
	return data, nil
}

// DecodeQRecord deserializes a QSTREAM frame payload.
func DecodeQRecord(payload []byte) (QRecord, error) {
	var rec QRecord
	if err := msgpack.Unmarshal(payload, &rec); err != nil {
		return rec, vectroErr("codec", "DecodeQRecord", "msgpack decode failed", verrors.ErrTruncatedFrame)
	}
	return rec, nil
}

// QuantTableWire is the wire shape of one internal/quant.Table entry; kept
// separate from that package's type so codec has no dependency on quant's
// in-memory representation beyond these two floats.
type QuantTableWire struct {
	Min float32 `msgpack:"min"`
	Max float32 `msgpack:"max"`
}

// WriteQStreamHeader writes the QSTREAM magic, table_count, dim (always
// equal to table_count by construction) and the encoded tables.
func WriteQStreamHeader(w io.Writer, tables []QuantTableWire) error {
	if _, err := io.WriteString(w, qstreamMagic); err != nil {
		return vectroErr("codec", "WriteQStreamHeader", "failed to write magic", err)
	}

	tablesPayload, err := msgpack.Marshal(tables)
	if err != nil {
		return vectroErr("codec", "WriteQStreamHeader", "msgpack encode of tables failed", err)
	}

	count := uint32(len(tables))
	if err := writeU32(w, count); err != nil {
		return err
	}
	if err := writeU32(w, count); err != nil { // dim, always equal to table_count
		return err
	}
	if err := writeU32(w, uint32(len(tablesPayload))); err != nil {
		return err
	}
	if _, err := w.Write(tablesPayload); err != nil {
		return vectroErr("codec", "WriteQStreamHeader", "failed to write tables payload", err)
	}
	return nil
}

// ReadQStreamHeader consumes the QSTREAM magic and header, cross-checking
// table_count against dim per the format's documented invariant.
func ReadQStreamHeader(r io.Reader) ([]QuantTableWire, error) {
	if err := readMagic(r, qstreamMagic); err != nil {
		return nil, err
	}

	tableCount, err := readU32(r)
	if err != nil {
		return nil, err
	}
	dim, err := readU32(r)
	if err != nil {
		return nil, err
	}
	if tableCount != dim {
		return nil, vectroErr("codec", "ReadQStreamHeader", "table_count does not match dim", verrors.ErrTableCountMismatch)
	}

	tablesLen, err := readU32(r)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, tablesLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, vectroErr("codec", "ReadQStreamHeader", "truncated tables payload", verrors.ErrTruncatedFrame)
	}

	var tables []QuantTableWire
	if err := msgpack.Unmarshal(payload, &tables); err != nil {
		return nil, vectroErr("codec", "ReadQStreamHeader", "msgpack decode of tables failed", verrors.ErrTruncatedFrame)
	}
	if uint32(len(tables)) != tableCount {
		return nil, vectroErr("codec", "ReadQStreamHeader", "table_count does not match decoded table count", verrors.ErrTableCountMismatch)
	}

	return tables, nil
}

// WriteBulk serializes ds as the entire file contents: no magic, no
// framing, just the encoded Dataset.
func WriteBulk(w io.Writer, ds DatasetWire) error {
	if err := msgpack.NewEncoder(w).Encode(ds); err != nil {
		return vectroErr("codec", "WriteBulk", "msgpack encode failed", err)
	}
	return nil
}

// ReadBulk deserializes a BULK-format file in full.
func ReadBulk(r io.Reader) (DatasetWire, error) {
	var ds DatasetWire
	if err := msgpack.NewDecoder(r).Decode(&ds); err != nil {
		return ds, vectroErr("codec", "ReadBulk", "msgpack decode failed", err)
	}
	return ds, nil
}
