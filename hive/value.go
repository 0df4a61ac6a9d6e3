package hive

import (
	"strings"

	"github.com/janstarke/nt-hive2/internal/buf"
	"github.com/janstarke/nt-hive2/internal/format"
)

// ValueNode is a decoded registry value. Data is materialized lazily by the
// accessor methods; the node itself only holds the decoded VK record.
type ValueNode struct {
	h    *Hive
	off  uint32
	rec  *format.VKRecord
	name string
}

// ValueAt decodes the value node at the logical offset off.
func (h *Hive) ValueAt(off uint32) (*ValueNode, error) {
	c, cerr := h.allocatedCellAt(off)
	if cerr != nil {
		return nil, cerr
	}
	rec, err := format.DecodeVK(c.Payload)
	if err != nil {
		return nil, wrapFormatErr(off, "value node", err)
	}
	return &ValueNode{
		h:    h,
		off:  off,
		rec:  rec,
		name: h.decodeName(rec.RawName, rec.HasASCIIName(), off),
	}, nil
}

// Name returns the value's decoded name. The key's default value has an
// empty name.
func (v *ValueNode) Name() string { return v.name }

// Offset returns the value's logical cell offset.
func (v *ValueNode) Offset() uint32 { return v.off }

// Type returns the value's registry type.
func (v *ValueNode) Type() RegType { return RegType(v.rec.Type) }

// DataSize returns the declared data length in bytes. The bytes actually
// recoverable can be fewer when the hive is damaged.
func (v *ValueNode) DataSize() uint32 { return v.rec.DataSize() }

// Data materializes the value's bytes. Storage is resolved automatically:
// inline, single cell, or big data. When the backing cells hold fewer bytes
// than declared, the recoverable prefix is returned and a size-mismatch
// warning is recorded.
func (v *ValueNode) Data() ([]byte, error) {
	size := v.rec.DataSize()
	if size == 0 {
		return []byte{}, nil
	}
	if v.rec.Inline() {
		out := make([]byte, len(v.rec.InlineData))
		copy(out, v.rec.InlineData)
		return out, nil
	}

	c, cerr := v.h.allocatedCellAt(v.rec.DataOffset)
	if cerr != nil {
		return nil, cerr
	}
	if format.IsDB(c.Payload) {
		return v.h.bigData(v.rec.DataOffset, c.Payload, size)
	}

	n := int(size)
	if n > len(c.Payload) {
		v.h.warnings.addf(WarnSizeMismatch, v.rec.DataOffset,
			"value declares %d bytes, data cell holds %d", size, len(c.Payload))
		n = len(c.Payload)
	}
	out := make([]byte, n)
	copy(out, c.Payload)
	return out, nil
}

// String decodes a REG_SZ, REG_EXPAND_SZ, or REG_LINK value. The customary
// trailing null terminator is stripped.
func (v *ValueNode) String() (string, error) {
	switch v.Type() {
	case RegSZ, RegExpandSZ, RegLink:
	default:
		return "", typeErr(v, "string")
	}
	data, err := v.Data()
	if err != nil {
		return "", err
	}
	s, clean := decodeUTF16LE(data)
	if !clean {
		v.h.warnings.addf(WarnInvalidEncoding, v.off, "invalid UTF-16LE string data")
	}
	return strings.TrimRight(s, "\x00"), nil
}

// MultiString decodes a REG_MULTI_SZ value into its component strings.
func (v *ValueNode) MultiString() ([]string, error) {
	if v.Type() != RegMultiSZ {
		return nil, typeErr(v, "multi-string")
	}
	data, err := v.Data()
	if err != nil {
		return nil, err
	}
	s, clean := decodeUTF16LE(data)
	if !clean {
		v.h.warnings.addf(WarnInvalidEncoding, v.off, "invalid UTF-16LE multi-string data")
	}
	// The list ends with an empty string (double null terminator).
	s = strings.TrimRight(s, "\x00")
	if s == "" {
		return nil, nil
	}
	return strings.Split(s, "\x00"), nil
}

// DWord decodes a REG_DWORD or REG_DWORD_BIG_ENDIAN value.
func (v *ValueNode) DWord() (uint32, error) {
	t := v.Type()
	if t != RegDWord && t != RegDWordBigEndian {
		return 0, typeErr(v, "dword")
	}
	data, err := v.Data()
	if err != nil {
		return 0, err
	}
	if len(data) < format.DWORDSize {
		return 0, formatErr(v.off, "dword value too short", nil)
	}
	if t == RegDWordBigEndian {
		return buf.U32BE(data), nil
	}
	return buf.U32LE(data), nil
}

// QWord decodes a REG_QWORD value.
func (v *ValueNode) QWord() (uint64, error) {
	if v.Type() != RegQWord {
		return 0, typeErr(v, "qword")
	}
	data, err := v.Data()
	if err != nil {
		return 0, err
	}
	if len(data) < format.QWORDSize {
		return 0, formatErr(v.off, "qword value too short", nil)
	}
	return buf.U64LE(data), nil
}

func typeErr(v *ValueNode, want string) *Error {
	return &Error{
		Kind: ErrKindType,
		Off:  v.off,
		Msg:  "value is " + v.Type().String() + ", not a " + want,
	}
}

// Values decodes the key's values in stored order. Tolerance applies the same
// way as for Subkeys.
func (k *KeyNode) Values() ([]*ValueNode, error) {
	offsets, err := k.valueOffsets()
	if err != nil {
		return nil, err
	}
	vals := make([]*ValueNode, 0, len(offsets))
	for _, off := range offsets {
		v, err := k.h.ValueAt(off)
		if err != nil {
			if k.h.opts.ListTolerance == ToleranceSkipEntry {
				continue
			}
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// LookupValue finds the value with the given name, compared
// case-insensitively. Use "" for the key's default value. Returns ErrNotFound
// when no value matches.
func (k *KeyNode) LookupValue(name string) (*ValueNode, error) {
	vals, err := k.Values()
	if err != nil {
		return nil, err
	}
	for _, v := range vals {
		if strings.EqualFold(v.name, name) {
			return v, nil
		}
	}
	return nil, &Error{Kind: ErrKindNotFound, Off: k.off, Msg: "no value " + name}
}

func (k *KeyNode) valueOffsets() ([]uint32, error) {
	if k.rec.ValueCount == 0 || k.rec.ValueListOffset == InvalidOffset {
		return nil, nil
	}
	c, cerr := k.h.allocatedCellAt(k.rec.ValueListOffset)
	if cerr != nil {
		return nil, cerr
	}
	offsets, err := format.DecodeValueList(c.Payload, k.rec.ValueCount)
	if err != nil {
		return nil, wrapFormatErr(k.rec.ValueListOffset, "value list", err)
	}
	return offsets, nil
}
