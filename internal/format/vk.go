package format

import (
	"bytes"
	"fmt"
)

// VKRecord is a decoded value node. DataLength carries the raw on-disk field
// including the inline bit; use Inline and DataSize for the decoded view.
type VKRecord struct {
	DataLength uint32
	DataOffset uint32
	Type       uint32
	Flags      uint16
	RawName    []byte

	// InlineData holds the value bytes when they are embedded in the
	// DataOffset field itself. Nil for external data.
	InlineData []byte
}

// Inline reports whether the value data is stored inside the record.
func (r *VKRecord) Inline() bool {
	return r.DataLength&VKDataInlineBit != 0
}

// DataSize returns the declared value data length in bytes.
func (r *VKRecord) DataSize() uint32 {
	return r.DataLength & VKDataLengthMask
}

// HasASCIIName reports whether RawName holds single-byte ANSI characters.
func (r *VKRecord) HasASCIIName() bool {
	return r.Flags&VKFlagASCIIName != 0
}

// DecodeVK parses a VK record from a cell payload. Inline data longer than
// the four bytes that can physically fit is rejected.
func DecodeVK(p []byte) (*VKRecord, error) {
	if len(p) < VKMinSize {
		return nil, fmt.Errorf("vk: %d bytes: %w", len(p), ErrTruncated)
	}
	if !bytes.Equal(p[VKSignatureOffset:VKSignatureOffset+SignatureSize], VKSignature) {
		return nil, fmt.Errorf("vk: %w", ErrSignatureMismatch)
	}

	r := &VKRecord{}
	r.DataLength, _ = ReadU32(p, VKDataLenOffset)
	r.DataOffset, _ = ReadU32(p, VKDataOffOffset)
	r.Type, _ = ReadU32(p, VKTypeOffset)
	r.Flags, _ = ReadU16(p, VKFlagsOffset)

	nameLen, _ := ReadU16(p, VKNameLenOffset)
	if int(nameLen) > MaxNameLen {
		return nil, fmt.Errorf("vk: name length %d: %w", nameLen, ErrSanityLimit)
	}
	name, err := copyBytes(p, VKNameOffset, int(nameLen))
	if err != nil {
		return nil, fmt.Errorf("vk: name: %w", ErrTruncated)
	}
	r.RawName = name

	size := r.DataSize()
	if size > MaxValueDataLen {
		return nil, fmt.Errorf("vk: data length %d: %w", size, ErrSanityLimit)
	}
	if r.Inline() {
		if size > OffsetFieldSize {
			return nil, fmt.Errorf("vk: inline data length %d: %w", size, ErrTruncated)
		}
		inline := make([]byte, size)
		copy(inline, p[VKDataOffOffset:VKDataOffOffset+int(size)])
		r.InlineData = inline
	}
	return r, nil
}
