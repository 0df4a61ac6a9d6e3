package format

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
)

// Header is the decoded REGF base block. Consistency problems (sequence
// divergence, checksum mismatch) are surfaced as fields rather than errors so
// callers can decide how strict to be; ParseHeader only fails on input that
// cannot be a hive at all.
type Header struct {
	PrimarySequence   uint32
	SecondarySequence uint32
	LastWriteRaw      uint64
	MajorVersion      uint32
	MinorVersion      uint32
	Type              uint32
	Format            uint32
	RootCellOffset    uint32 // relative to the end of the base block
	HiveBinsDataSize  uint32
	ClusteringFactor  uint32
	StoredChecksum    uint32
}

// ParseHeader decodes the REGF base block from the start of b. It requires at
// least HeaderSize bytes and a valid "regf" signature.
func ParseHeader(b []byte) (*Header, error) {
	if len(b) < HeaderSize {
		return nil, fmt.Errorf("base block: need %d bytes, have %d: %w",
			HeaderSize, len(b), ErrTruncated)
	}
	if !bytes.Equal(b[REGFSignatureOffset:REGFSignatureOffset+REGFSignatureSize], REGFSignature) {
		return nil, fmt.Errorf("base block: %w", ErrSignatureMismatch)
	}

	h := &Header{}
	h.PrimarySequence = binary.LittleEndian.Uint32(b[REGFPrimarySeqOffset:])
	h.SecondarySequence = binary.LittleEndian.Uint32(b[REGFSecondarySeqOffset:])
	h.LastWriteRaw = binary.LittleEndian.Uint64(b[REGFTimeStampOffset:])
	h.MajorVersion = binary.LittleEndian.Uint32(b[REGFMajorVersionOffset:])
	h.MinorVersion = binary.LittleEndian.Uint32(b[REGFMinorVersionOffset:])
	h.Type = binary.LittleEndian.Uint32(b[REGFTypeOffset:])
	h.Format = binary.LittleEndian.Uint32(b[REGFFormatOffset:])
	h.RootCellOffset = binary.LittleEndian.Uint32(b[REGFRootCellOffset:])
	h.HiveBinsDataSize = binary.LittleEndian.Uint32(b[REGFDataSizeOffset:])
	h.ClusteringFactor = binary.LittleEndian.Uint32(b[REGFClusterOffset:])
	h.StoredChecksum = binary.LittleEndian.Uint32(b[REGFCheckSumOffset:])
	return h, nil
}

// IsClean reports whether the hive was flushed consistently. Divergent
// sequence numbers mean a write was in flight when the hive was captured.
func (h *Header) IsClean() bool {
	return h.PrimarySequence == h.SecondarySequence
}

// LastWrite returns the hive's last write timestamp.
func (h *Header) LastWrite() time.Time {
	return FiletimeToTime(h.LastWriteRaw)
}

// Checksum computes the base block checksum: XOR of the first 127 dwords,
// with the two degenerate results remapped the way the kernel does.
func Checksum(b []byte) uint32 {
	var sum uint32
	for i := 0; i < REGFChecksumDwords; i++ {
		sum ^= binary.LittleEndian.Uint32(b[i*4:])
	}
	switch sum {
	case 0x00000000:
		return 0x00000001
	case 0xFFFFFFFF:
		return 0xFFFFFFFE
	default:
		return sum
	}
}
