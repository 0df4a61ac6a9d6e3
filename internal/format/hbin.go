package format

import (
	"bytes"
	"fmt"
)

// HBIN is the decoded sub-header of one hive bin. Offsets are relative to the
// start of the hive bins data (the first byte after the base block).
type HBIN struct {
	Offset     uint32
	OffsetEcho uint32 // the bin's stored copy of its own offset
	Size       uint32
}

// DataStart returns the offset of the first cell in the bin.
func (b HBIN) DataStart() uint32 {
	return b.Offset + HBINHeaderSize
}

// DataEnd returns the offset one past the last byte of the bin.
func (b HBIN) DataEnd() uint32 {
	return b.Offset + b.Size
}

// Contains reports whether the relative offset off falls within the bin's
// cell area.
func (b HBIN) Contains(off uint32) bool {
	return off >= b.DataStart() && off < b.DataEnd()
}

// ParseHBIN decodes the hive bin starting at off within data, where data is
// the hive bins region. The declared size must be a positive multiple of the
// bin alignment and must fit within data.
func ParseHBIN(data []byte, off uint32) (HBIN, error) {
	if uint64(off)+HBINHeaderSize > uint64(len(data)) {
		return HBIN{}, fmt.Errorf("hive bin at 0x%x: header: %w", off, ErrTruncated)
	}
	hdr := data[off:]
	if !bytes.Equal(hdr[HBINSignatureOffset:HBINSignatureOffset+HBINSignatureSize], HBINSignature) {
		return HBIN{}, fmt.Errorf("hive bin at 0x%x: %w", off, ErrSignatureMismatch)
	}
	b := HBIN{Offset: off}
	b.OffsetEcho, _ = ReadU32(hdr, HBINOffsetEchoField)
	b.Size, _ = ReadU32(hdr, HBINSizeOffset)

	if b.Size == 0 || b.Size%HBINAlignment != 0 {
		return HBIN{}, fmt.Errorf("hive bin at 0x%x: size 0x%x: %w", off, b.Size, ErrMisaligned)
	}
	if uint64(off)+uint64(b.Size) > uint64(len(data)) {
		return HBIN{}, fmt.Errorf("hive bin at 0x%x: size 0x%x: %w", off, b.Size, ErrTruncated)
	}
	return b, nil
}
