package hive

import (
	"sort"

	"github.com/janstarke/nt-hive2/internal/format"
)

// scanBins walks the hive bins region sequentially from offset 0. Bins are
// laid out back to back; the scan stops at the declared data size, the end of
// the file, or the first bin that fails to parse.
func (h *Hive) scanBins() {
	limit := uint32(len(h.data))
	if h.header.HiveBinsDataSize < limit {
		limit = h.header.HiveBinsDataSize
	}

	var off uint32
	for off+format.HBINHeaderSize <= limit {
		bin, err := format.ParseHBIN(h.data, off)
		if err != nil {
			h.warnings.addf(WarnTruncatedHiveBins, off,
				"hive bin scan stopped: %v", err)
			return
		}
		if bin.OffsetEcho != off {
			h.warnings.addf(WarnBinOffsetMismatch, off,
				"bin stores offset 0x%x", bin.OffsetEcho)
		}
		if bin.DataEnd() > limit {
			h.warnings.addf(WarnTruncatedHiveBins, off,
				"bin of size 0x%x runs past declared data size 0x%x", bin.Size, limit)
			return
		}
		h.bins = append(h.bins, bin)
		off = bin.DataEnd()
	}

	if off < limit {
		h.warnings.addf(WarnTruncatedHiveBins, off,
			"hive bins data ends at 0x%x of declared 0x%x", off, limit)
	}
}

// binContaining returns the bin whose cell area covers the logical offset
// off, or false when no bin does. Bins are sorted by offset, so a binary
// search suffices.
func (h *Hive) binContaining(off uint32) (format.HBIN, bool) {
	i := sort.Search(len(h.bins), func(i int) bool {
		return h.bins[i].DataEnd() > off
	})
	if i == len(h.bins) || !h.bins[i].Contains(off) {
		return format.HBIN{}, false
	}
	return h.bins[i], true
}
