package hive

import (
	"strings"
	"time"

	"github.com/janstarke/nt-hive2/internal/format"
)

// KeyNode is a decoded registry key. It holds copies of everything it
// exposes, so it stays valid after the Hive is closed.
type KeyNode struct {
	h    *Hive
	off  uint32
	rec  *format.NKRecord
	name string
}

// KeyAt decodes the key node at the logical offset off.
func (h *Hive) KeyAt(off uint32) (*KeyNode, error) {
	c, cerr := h.allocatedCellAt(off)
	if cerr != nil {
		return nil, cerr
	}
	rec, err := format.DecodeNK(c.Payload)
	if err != nil {
		return nil, wrapFormatErr(off, "key node", err)
	}
	return &KeyNode{
		h:    h,
		off:  off,
		rec:  rec,
		name: h.decodeName(rec.RawName, rec.HasCompressedName(), off),
	}, nil
}

// Root decodes the hive's root key.
func (h *Hive) Root() (*KeyNode, error) {
	return h.KeyAt(h.RootOffset())
}

// Name returns the key's decoded name.
func (k *KeyNode) Name() string { return k.name }

// Offset returns the key's logical cell offset, which uniquely identifies it
// within the hive.
func (k *KeyNode) Offset() uint32 { return k.off }

// LastWrite returns the key's last write timestamp.
func (k *KeyNode) LastWrite() time.Time {
	return format.FiletimeToTime(k.rec.LastWriteRaw)
}

// Flags returns the raw key node flags.
func (k *KeyNode) Flags() uint16 { return k.rec.Flags }

// IsRoot reports whether the key carries the hive-entry flag.
func (k *KeyNode) IsRoot() bool { return k.rec.IsHiveEntry() }

// IsVolatile reports whether the key was marked volatile. Volatile subtrees
// are not stored on disk, so this flag on a stored key is unusual.
func (k *KeyNode) IsVolatile() bool { return k.rec.Flags&format.NKFlagVolatile != 0 }

// IsSymLink reports whether the key is a registry symbolic link.
func (k *KeyNode) IsSymLink() bool { return k.rec.Flags&format.NKFlagSymLink != 0 }

// SubkeyCount returns the stored subkey count. Enumeration may yield fewer
// keys when the subkey list is damaged.
func (k *KeyNode) SubkeyCount() uint32 { return k.rec.SubkeyCount }

// ValueCount returns the stored value count.
func (k *KeyNode) ValueCount() uint32 { return k.rec.ValueCount }

// ParentOffset returns the cell offset of the parent key. For the root key
// the offset does not point at a key cell and must not be followed.
func (k *KeyNode) ParentOffset() uint32 { return k.rec.ParentOffset }

// Parent decodes the parent key. Calling it on the root key is an error.
func (k *KeyNode) Parent() (*KeyNode, error) {
	if k.IsRoot() {
		return nil, &Error{Kind: ErrKindNotFound, Off: k.off, Msg: "root key has no parent"}
	}
	return k.h.KeyAt(k.rec.ParentOffset)
}

// ClassName decodes the key's class name, or "" when the key has none. Class
// names are stored as UTF-16LE in a separate cell.
func (k *KeyNode) ClassName() (string, error) {
	if k.rec.ClassNameOffset == InvalidOffset || k.rec.ClassNameLen == 0 {
		return "", nil
	}
	c, cerr := k.h.allocatedCellAt(k.rec.ClassNameOffset)
	if cerr != nil {
		return "", cerr
	}
	n := int(k.rec.ClassNameLen)
	if n > len(c.Payload) {
		k.h.warnings.addf(WarnClassTruncated, k.rec.ClassNameOffset,
			"class name of %d bytes in %d-byte cell", n, len(c.Payload))
		n = len(c.Payload)
	}
	s, clean := decodeUTF16LE(c.Payload[:n])
	if !clean {
		k.h.warnings.addf(WarnInvalidEncoding, k.rec.ClassNameOffset, "invalid UTF-16LE class name")
	}
	return s, nil
}

// LookupSubkey finds the direct subkey with the given name, compared
// case-insensitively the way the registry does. Returns ErrNotFound when no
// subkey matches.
func (k *KeyNode) LookupSubkey(name string) (*KeyNode, error) {
	offsets, err := k.SubkeyOffsets()
	if err != nil {
		return nil, err
	}
	for _, off := range offsets {
		sub, err := k.h.KeyAt(off)
		if err != nil {
			if k.h.opts.ListTolerance == ToleranceSkipEntry {
				continue
			}
			return nil, err
		}
		if strings.EqualFold(sub.name, name) {
			return sub, nil
		}
	}
	return nil, &Error{Kind: ErrKindNotFound, Off: k.off, Msg: "no subkey " + name}
}

// LookupPath descends from k along the backslash-separated path. Empty path
// segments are ignored.
func (k *KeyNode) LookupPath(path string) (*KeyNode, error) {
	cur := k
	for _, seg := range strings.Split(path, `\`) {
		if seg == "" {
			continue
		}
		next, err := cur.LookupSubkey(seg)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Subkeys decodes the key's direct subkeys in stored order. Under
// ToleranceSkipEntry, subkeys whose cells cannot be resolved or decoded are
// skipped; under ToleranceSkipList the first failure aborts.
func (k *KeyNode) Subkeys() ([]*KeyNode, error) {
	offsets, err := k.SubkeyOffsets()
	if err != nil {
		return nil, err
	}
	subs := make([]*KeyNode, 0, len(offsets))
	for _, off := range offsets {
		sub, err := k.h.KeyAt(off)
		if err != nil {
			if k.h.opts.ListTolerance == ToleranceSkipEntry {
				continue
			}
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
