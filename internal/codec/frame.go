// Package codec implements the on-disk container formats: length-prefixed
// frame I/O shared by STREAM and QSTREAM, magic-header detection, and the
// msgpack payload encoding used for every structured record.
package codec

import (
	"encoding/binary"
	"io"

	"github.com/vectroplus/vectro/internal/verrors"
)

// WriteFrame writes a 4-byte little-endian length prefix followed by
// payload, mirroring the WAL framing the teacher uses for its own
// length-prefixed entries.
func WriteFrame(w io.Writer, payload []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(payload))); err != nil {
		return vectroErr("codec", "WriteFrame", "failed to write frame length", err)
	}
	if _, err := w.Write(payload); err != nil {
		return vectroErr("codec", "WriteFrame", "failed to write frame payload", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame. It returns io.EOF, unwrapped,
// when the stream ends cleanly before a new frame's length prefix (the
// normal end-of-stream condition); any other truncation — a length prefix
// that reads short, or a payload shorter than its declared length — is
// surfaced as a wrapped ErrTruncatedFrame.
func ReadFrame(r io.Reader) ([]byte, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, vectroErr("codec", "ReadFrame", "truncated frame length", verrors.ErrTruncatedFrame)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, vectroErr("codec", "ReadFrame", "truncated frame payload", verrors.ErrTruncatedFrame)
	}

	return payload, nil
}

func writeU32(w io.Writer, v uint32) error {
	if err := binary.Write(w, binary.LittleEndian, v); err != nil {
		return vectroErr("codec", "writeU32", "failed to write u32 field", err)
	}
	return nil
}

func readU32(r io.Reader) (uint32, error) {
	var v uint32
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, vectroErr("codec", "readU32", "truncated u32 field", verrors.ErrTruncatedFrame)
	}
	return v, nil
}

func vectroErr(component, operation, message string, cause error) *verrors.Error {
	return verrors.New(component, operation, message, cause)
}
