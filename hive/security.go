package hive

import "github.com/janstarke/nt-hive2/internal/format"

// SecurityDescriptor is a decoded SK cell. Descriptor holds the raw
// self-relative SECURITY_DESCRIPTOR bytes; interpreting ACLs is out of scope
// here. SK cells form a doubly linked list and are shared between keys, with
// ReferenceCount tracking the sharing.
type SecurityDescriptor struct {
	Offset         uint32
	Flink          uint32
	Blink          uint32
	ReferenceCount uint32
	Descriptor     []byte
}

// SecurityAt decodes the security descriptor cell at the logical offset off.
func (h *Hive) SecurityAt(off uint32) (*SecurityDescriptor, error) {
	c, cerr := h.allocatedCellAt(off)
	if cerr != nil {
		return nil, cerr
	}
	rec, err := format.DecodeSK(c.Payload)
	if err != nil {
		return nil, wrapFormatErr(off, "security descriptor", err)
	}
	return &SecurityDescriptor{
		Offset:         off,
		Flink:          rec.Flink,
		Blink:          rec.Blink,
		ReferenceCount: rec.ReferenceCount,
		Descriptor:     rec.Descriptor,
	}, nil
}

// Security decodes the key's security descriptor, or nil when the key has no
// security reference.
func (k *KeyNode) Security() (*SecurityDescriptor, error) {
	if k.rec.SecurityOffset == InvalidOffset {
		return nil, nil
	}
	return k.h.SecurityAt(k.rec.SecurityOffset)
}
