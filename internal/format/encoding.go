package format

import (
	"encoding/binary"
	"fmt"

	"github.com/janstarke/nt-hive2/internal/buf"
)

// Checked readers for struct fields. They differ from the raw helpers in
// internal/buf by failing loudly instead of returning zero on short input,
// which is what record decoders want.

func ReadU16(b []byte, off int) (uint16, error) {
	if off < 0 || off+2 > len(b) {
		return 0, fmt.Errorf("u16 at 0x%x: %w", off, ErrTruncated)
	}
	return binary.LittleEndian.Uint16(b[off:]), nil
}

func ReadU32(b []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(b) {
		return 0, fmt.Errorf("u32 at 0x%x: %w", off, ErrTruncated)
	}
	return binary.LittleEndian.Uint32(b[off:]), nil
}

func ReadU64(b []byte, off int) (uint64, error) {
	if off < 0 || off+8 > len(b) {
		return 0, fmt.Errorf("u64 at 0x%x: %w", off, ErrTruncated)
	}
	return binary.LittleEndian.Uint64(b[off:]), nil
}

func ReadI32(b []byte, off int) (int32, error) {
	v, err := ReadU32(b, off)
	return int32(v), err
}

// Writers, used by tests and tools that synthesize hive structures.

func PutU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:], v)
}

func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:], v)
}

func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:], v)
}

func PutI32(b []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(b[off:], uint32(v))
}

// copyBytes returns a fresh copy of b[off:off+n] so decoded records never
// alias the backing file mapping.
func copyBytes(b []byte, off, n int) ([]byte, error) {
	s, ok := buf.Slice(b, off, n)
	if !ok {
		return nil, fmt.Errorf("%d bytes at 0x%x: %w", n, off, ErrTruncated)
	}
	out := make([]byte, n)
	copy(out, s)
	return out, nil
}
