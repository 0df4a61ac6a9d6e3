package hive

import "github.com/janstarke/nt-hive2/internal/format"

// SubkeyOffsets resolves the key's subkey list into a flat slice of key cell
// offsets in stored order. RI indexes are flattened by visiting each sublist
// in turn; a nested RI inside an RI is corruption.
func (k *KeyNode) SubkeyOffsets() ([]uint32, error) {
	if k.rec.SubkeyCount == 0 || k.rec.SubkeyListOffset == InvalidOffset {
		return nil, nil
	}
	list, err := k.h.subkeyListAt(k.rec.SubkeyListOffset)
	if err != nil {
		return nil, err
	}

	if list.Kind != format.ListRI {
		return list.Entries, nil
	}

	offsets := make([]uint32, 0, k.rec.SubkeyCount)
	for _, subOff := range list.Entries {
		sub, err := k.h.subkeyListAt(subOff)
		if err == nil && sub.Kind == format.ListRI {
			err = formatErr(subOff, "nested ri list", nil)
		}
		if err != nil {
			if k.h.opts.ListTolerance == ToleranceSkipEntry {
				continue
			}
			return nil, err
		}
		offsets = append(offsets, sub.Entries...)
	}
	return offsets, nil
}

func (h *Hive) subkeyListAt(off uint32) (*format.SubkeyList, error) {
	c, cerr := h.allocatedCellAt(off)
	if cerr != nil {
		return nil, cerr
	}
	list, err := format.DecodeSubkeyList(c.Payload)
	if err != nil {
		return nil, wrapFormatErr(off, "subkey list", err)
	}
	return list, nil
}
