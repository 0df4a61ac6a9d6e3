package format

import "errors"

var (
	// ErrSignatureMismatch reports that a record's two-byte (or four-byte)
	// signature did not match the expected value.
	ErrSignatureMismatch = errors.New("signature mismatch")

	// ErrTruncated reports that a declared length or count runs past the end
	// of the available bytes.
	ErrTruncated = errors.New("record truncated")

	// ErrSanityLimit reports a count or length beyond the decoder's limits.
	ErrSanityLimit = errors.New("sanity limit exceeded")

	// ErrMisaligned reports an HBIN that is not aligned to the required boundary.
	ErrMisaligned = errors.New("hive bin misaligned")
)
