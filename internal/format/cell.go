package format

import "fmt"

// Cell is one allocation within a hive bin. Payload is a view into the
// backing data; record decoders copy what they keep.
type Cell struct {
	Offset    uint32 // relative offset of the size field
	Size      uint32 // total cell size including the size field
	Allocated bool
	Payload   []byte
}

// ParseCell decodes the cell at the relative offset off. binEnd is the
// relative offset one past the containing bin; a declared size running past
// it is treated as truncation because cells never span bins. maxSize caps the
// absolute cell size (0 means no cap).
func ParseCell(data []byte, off, binEnd, maxSize uint32) (Cell, error) {
	raw, err := ReadI32(data, int(off))
	if err != nil {
		return Cell{}, fmt.Errorf("cell at 0x%x: %w", off, ErrTruncated)
	}

	c := Cell{Offset: off, Allocated: raw < 0}
	if raw < 0 {
		raw = -raw
	}
	c.Size = uint32(raw)

	if c.Size < CellHeaderSize {
		return Cell{}, fmt.Errorf("cell at 0x%x: size %d too small: %w", off, c.Size, ErrTruncated)
	}
	if maxSize != 0 && c.Size > maxSize {
		return Cell{}, fmt.Errorf("cell at 0x%x: size %d: %w", off, c.Size, ErrSanityLimit)
	}
	end := uint64(off) + uint64(c.Size)
	if end > uint64(binEnd) || end > uint64(len(data)) {
		return Cell{}, fmt.Errorf("cell at 0x%x: size %d crosses bin boundary: %w", off, c.Size, ErrTruncated)
	}

	c.Payload = data[off+CellHeaderSize : off+c.Size]
	return c, nil
}
