package hive

import "github.com/janstarke/nt-hive2/internal/format"

// bigData assembles value data spread over DB segments. Each segment
// contributes up to DBChunkSize bytes; the last segment is cut to the
// remaining declared length. Unresolvable segments end assembly early with a
// size-mismatch warning and the bytes recovered so far.
func (h *Hive) bigData(dbOff uint32, dbPayload []byte, size uint32) ([]byte, error) {
	rec, err := format.DecodeDB(dbPayload)
	if err != nil {
		return nil, wrapFormatErr(dbOff, "big data", err)
	}

	blc, cerr := h.allocatedCellAt(rec.BlocklistOffset)
	if cerr != nil {
		return nil, cerr
	}
	blocks, err := format.DecodeBlocklist(blc.Payload, rec.NumBlocks)
	if err != nil {
		return nil, wrapFormatErr(rec.BlocklistOffset, "big data blocklist", err)
	}

	out := make([]byte, 0, size)
	remaining := int(size)
	for _, blockOff := range blocks {
		if remaining <= 0 {
			break
		}
		c, cerr := h.allocatedCellAt(blockOff)
		if cerr != nil {
			h.warnings.addf(WarnSizeMismatch, blockOff,
				"big data segment unreadable, recovered %d of %d bytes", len(out), size)
			return out, nil
		}
		n := len(c.Payload)
		if n > format.DBChunkSize {
			n = format.DBChunkSize
		}
		if n > remaining {
			n = remaining
		}
		out = append(out, c.Payload[:n]...)
		remaining -= n
	}

	if remaining > 0 {
		h.warnings.addf(WarnSizeMismatch, dbOff,
			"big data declares %d bytes, segments hold %d", size, len(out))
	}
	return out, nil
}
