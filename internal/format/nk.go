package format

import (
	"bytes"
	"fmt"
)

// NKRecord is a decoded key node. RawName is a copy of the on-disk name
// bytes; interpreting them (ANSI vs UTF-16LE, per Flags) is left to callers.
type NKRecord struct {
	Flags                    uint16
	LastWriteRaw             uint64
	AccessBits               uint32
	ParentOffset             uint32
	SubkeyCount              uint32
	VolatileSubkeyCount      uint32
	SubkeyListOffset         uint32
	VolatileSubkeyListOffset uint32
	ValueCount               uint32
	ValueListOffset          uint32
	SecurityOffset           uint32
	ClassNameOffset          uint32
	ClassNameLen             uint16
	RawName                  []byte
}

// HasCompressedName reports whether RawName holds single-byte ANSI characters
// rather than UTF-16LE code units.
func (r *NKRecord) HasCompressedName() bool {
	return r.Flags&NKFlagCompressedName != 0
}

// IsHiveEntry reports whether the node is the root key of its hive.
func (r *NKRecord) IsHiveEntry() bool {
	return r.Flags&NKFlagHiveEntry != 0
}

// DecodeNK parses an NK record from a cell payload.
func DecodeNK(p []byte) (*NKRecord, error) {
	if len(p) < NKMinSize {
		return nil, fmt.Errorf("nk: %d bytes: %w", len(p), ErrTruncated)
	}
	if !bytes.Equal(p[NKSignatureOffset:NKSignatureOffset+SignatureSize], NKSignature) {
		return nil, fmt.Errorf("nk: %w", ErrSignatureMismatch)
	}

	r := &NKRecord{}
	r.Flags, _ = ReadU16(p, NKFlagsOffset)
	r.LastWriteRaw, _ = ReadU64(p, NKLastWriteOffset)
	r.AccessBits, _ = ReadU32(p, NKAccessBitsOffset)
	r.ParentOffset, _ = ReadU32(p, NKParentOffset)
	r.SubkeyCount, _ = ReadU32(p, NKSubkeyCountOffset)
	r.VolatileSubkeyCount, _ = ReadU32(p, NKVolSubkeyCountOffset)
	r.SubkeyListOffset, _ = ReadU32(p, NKSubkeyListOffset)
	r.VolatileSubkeyListOffset, _ = ReadU32(p, NKVolSubkeyListOffset)
	r.ValueCount, _ = ReadU32(p, NKValueCountOffset)
	r.ValueListOffset, _ = ReadU32(p, NKValueListOffset)
	r.SecurityOffset, _ = ReadU32(p, NKSecurityOffset)
	r.ClassNameOffset, _ = ReadU32(p, NKClassNameOffset)
	r.ClassNameLen, _ = ReadU16(p, NKClassLenOffset)

	nameLen, _ := ReadU16(p, NKNameLenOffset)
	if int(nameLen) > MaxNameLen {
		return nil, fmt.Errorf("nk: name length %d: %w", nameLen, ErrSanityLimit)
	}
	name, err := copyBytes(p, NKNameOffset, int(nameLen))
	if err != nil {
		return nil, fmt.Errorf("nk: name: %w", ErrTruncated)
	}
	r.RawName = name

	if r.SubkeyCount > MaxSubkeyCount {
		return nil, fmt.Errorf("nk: subkey count %d: %w", r.SubkeyCount, ErrSanityLimit)
	}
	if r.ValueCount > MaxValueCount {
		return nil, fmt.Errorf("nk: value count %d: %w", r.ValueCount, ErrSanityLimit)
	}
	return r, nil
}
