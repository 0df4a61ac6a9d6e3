package format

import (
	"bytes"
	"fmt"
)

// SKRecord is a decoded security descriptor cell. Descriptor is a copy of
// the raw self-relative SECURITY_DESCRIPTOR bytes; this package does not
// interpret them.
type SKRecord struct {
	Flink          uint32
	Blink          uint32
	ReferenceCount uint32
	Descriptor     []byte
}

// DecodeSK parses an SK record from a cell payload.
func DecodeSK(p []byte) (*SKRecord, error) {
	if len(p) < SKMinSize {
		return nil, fmt.Errorf("sk: %d bytes: %w", len(p), ErrTruncated)
	}
	if !bytes.Equal(p[SKSignatureOffset:SKSignatureOffset+SignatureSize], SKSignature) {
		return nil, fmt.Errorf("sk: %w", ErrSignatureMismatch)
	}

	r := &SKRecord{}
	r.Flink, _ = ReadU32(p, SKFlinkOffset)
	r.Blink, _ = ReadU32(p, SKBlinkOffset)
	r.ReferenceCount, _ = ReadU32(p, SKReferenceCountOffset)

	descLen, _ := ReadU32(p, SKDescriptorLengthOffset)
	if descLen > MaxValueDataLen {
		return nil, fmt.Errorf("sk: descriptor length %d: %w", descLen, ErrSanityLimit)
	}
	desc, err := copyBytes(p, SKDescriptorOffset, int(descLen))
	if err != nil {
		return nil, fmt.Errorf("sk: descriptor: %w", ErrTruncated)
	}
	r.Descriptor = desc
	return r, nil
}
