package hive

import (
	"errors"

	"github.com/janstarke/nt-hive2/internal/format"
)

// Cell is a resolved allocation within a hive bin. Payload is a copy of the
// cell's bytes after the size field; Tag is the two-byte record signature
// when the payload carries one.
type Cell struct {
	Offset    uint32
	Size      uint32
	Allocated bool
	Tag       string
	Payload   []byte
}

// CellAt resolves the logical offset off into a cell, applying the same
// validation as every internal lookup. Useful for carving and for inspecting
// cells the key tree does not reach.
func (h *Hive) CellAt(off uint32) (Cell, error) {
	raw, err := h.cellAt(off)
	if err != nil {
		return Cell{}, err
	}
	c := Cell{
		Offset:    raw.Offset,
		Size:      raw.Size,
		Allocated: raw.Allocated,
		Payload:   append([]byte(nil), raw.Payload...),
	}
	if len(raw.Payload) >= format.SignatureSize {
		c.Tag = string(raw.Payload[:format.SignatureSize])
	}
	return c, nil
}

// cellAt is the single chokepoint through which every logical offset is
// turned into cell bytes. It enforces the structural invariants: the offset
// must land in a bin's cell area, the declared size must stay within that bin,
// and the size must pass the configured cap.
func (h *Hive) cellAt(off uint32) (format.Cell, *Error) {
	if off == InvalidOffset {
		return format.Cell{}, rangeErr(off, "invalid cell offset")
	}
	bin, ok := h.binContaining(off)
	if !ok {
		return format.Cell{}, rangeErr(off, "offset outside any hive bin")
	}

	c, err := format.ParseCell(h.data, off, bin.DataEnd(), h.opts.maxCellSize())
	if err != nil {
		return format.Cell{}, formatErr(off, "bad cell", err)
	}
	return c, nil
}

// allocatedCellAt resolves off and additionally requires the cell to be
// allocated. Records reachable from the key tree always live in allocated
// cells; a reference into free space is corruption.
func (h *Hive) allocatedCellAt(off uint32) (format.Cell, *Error) {
	c, err := h.cellAt(off)
	if err != nil {
		return format.Cell{}, err
	}
	if !c.Allocated {
		return format.Cell{}, formatErr(off, "reference to free cell", nil)
	}
	return c, nil
}

// wrapFormatErr converts a decoder error into a typed error at off, keeping
// already-typed errors as they are.
func wrapFormatErr(off uint32, context string, err error) *Error {
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return formatErr(off, context, err)
}
