package hive

import (
	"github.com/janstarke/nt-hive2/internal/format"
	"github.com/janstarke/nt-hive2/internal/mmfile"
)

// Tolerance controls how subkey and value list corruption is handled during
// enumeration.
type Tolerance int

const (
	// ToleranceSkipEntry skips individual unresolvable entries and keeps
	// enumerating the rest of the list.
	ToleranceSkipEntry Tolerance = iota
	// ToleranceSkipList abandons a list on the first unresolvable entry.
	ToleranceSkipList
)

// DefaultMaxCellSize caps individual cell sizes. No legitimate cell comes
// close; the cap stops a corrupted size field from driving a huge slice.
const DefaultMaxCellSize = 64 << 20

// Options tune parsing behavior. The zero value is ready to use.
type Options struct {
	// MaxCellSize caps the size of any single cell. 0 means DefaultMaxCellSize.
	MaxCellSize uint32

	// ListTolerance selects entry-level or list-level skipping when a subkey
	// or value list references an unresolvable cell.
	ListTolerance Tolerance
}

func (o Options) maxCellSize() uint32 {
	if o.MaxCellSize == 0 {
		return DefaultMaxCellSize
	}
	return o.MaxCellSize
}

// Hive is a read-only parsed registry hive. All methods are safe for
// concurrent use once Open or OpenBytes has returned.
type Hive struct {
	header *format.Header
	data   []byte // hive bins region, logical offset 0 at data[0]
	bins   []format.HBIN
	opts   Options

	warnings warningLog
	closeFn  func() error
}

// Open memory-maps the hive file at path and validates its structure.
// Consistency findings that do not prevent parsing (checksum mismatch, dirty
// sequence numbers, truncated bins) are recorded as warnings, not errors.
func Open(path string, opts Options) (*Hive, error) {
	raw, closeFn, err := mmfile.Map(path)
	if err != nil {
		return nil, err
	}
	h, err := OpenBytes(raw, opts)
	if err != nil {
		closeFn()
		return nil, err
	}
	h.closeFn = closeFn
	return h, nil
}

// OpenBytes parses a hive image already held in memory. The Hive keeps a
// reference to raw; callers must not mutate it while the Hive is in use.
func OpenBytes(raw []byte, opts Options) (*Hive, error) {
	hdr, err := format.ParseHeader(raw)
	if err != nil {
		return nil, &Error{Kind: ErrKindFormat, Off: InvalidOffset, Msg: ErrNotHive.Msg, Err: err}
	}

	h := &Hive{
		header: hdr,
		data:   raw[format.HeaderSize:],
		opts:   opts,
	}

	if hdr.StoredChecksum != format.Checksum(raw) {
		h.warnings.addf(WarnChecksumMismatch, InvalidOffset,
			"stored 0x%08x, computed 0x%08x", hdr.StoredChecksum, format.Checksum(raw))
	}
	if !hdr.IsClean() {
		h.warnings.addf(WarnSequenceMismatch, InvalidOffset,
			"primary %d, secondary %d", hdr.PrimarySequence, hdr.SecondarySequence)
	}
	if uint64(hdr.HiveBinsDataSize) > uint64(len(h.data)) {
		h.warnings.addf(WarnTruncatedHiveBins, InvalidOffset,
			"declared 0x%x bytes of hive bins, file holds 0x%x", hdr.HiveBinsDataSize, len(h.data))
	}

	h.scanBins()
	return h, nil
}

// Close releases the file mapping. The Hive must not be used afterwards.
func (h *Hive) Close() error {
	if h.closeFn == nil {
		return nil
	}
	fn := h.closeFn
	h.closeFn = nil
	return fn()
}

// Header returns the decoded base block.
func (h *Hive) Header() *format.Header {
	return h.header
}

// RootOffset returns the logical offset of the root key cell.
func (h *Hive) RootOffset() uint32 {
	return h.header.RootCellOffset
}

// Warnings returns all advisory findings recorded so far, in discovery order.
// Findings accumulate lazily: traversing more of the hive can add more.
func (h *Hive) Warnings() []Warning {
	return h.warnings.snapshot()
}

// Bins returns the hive bins discovered at open, in file order.
func (h *Hive) Bins() []format.HBIN {
	return h.bins
}
