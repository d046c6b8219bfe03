package vectro

import "github.com/vectroplus/vectro/internal/verrors"

// Error, ErrorCode and the sentinel errors below are re-exported from
// internal/verrors so that internal/codec and internal/compress can raise
// them without importing this package (which itself depends on them for
// dataset and stream operations).
type Error = verrors.Error
type ErrorCode = verrors.ErrorCode

const (
	ErrCodeUnknown = verrors.ErrCodeUnknown
	ErrCodeIO      = verrors.ErrCodeIO
	ErrCodeFormat  = verrors.ErrCodeFormat
	ErrCodeConfig  = verrors.ErrCodeConfig
)

var (
	ErrBadMagic           = verrors.ErrBadMagic
	ErrTruncatedFrame     = verrors.ErrTruncatedFrame
	ErrTableCountMismatch = verrors.ErrTableCountMismatch
)
