package format

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/janstarke/nt-hive2/internal/buf"
)

// DBRecord is a decoded big-data header. The segment offsets live in a
// separate blocklist cell at BlocklistOffset.
type DBRecord struct {
	NumBlocks       uint16
	BlocklistOffset uint32
}

// IsDB reports whether the cell payload looks like a big-data record. Used to
// distinguish DB-backed value data from plain data cells, which have no
// signature of their own.
func IsDB(p []byte) bool {
	return len(p) >= DBMinSize && bytes.Equal(p[:SignatureSize], DBSignature)
}

// DecodeDB parses a DB record from a cell payload.
func DecodeDB(p []byte) (*DBRecord, error) {
	if len(p) < DBMinSize {
		return nil, fmt.Errorf("db: %d bytes: %w", len(p), ErrTruncated)
	}
	if !bytes.Equal(p[DBSignatureOffset:DBSignatureOffset+SignatureSize], DBSignature) {
		return nil, fmt.Errorf("db: %w", ErrSignatureMismatch)
	}

	r := &DBRecord{}
	r.NumBlocks, _ = ReadU16(p, DBNumBlocksOffset)
	r.BlocklistOffset, _ = ReadU32(p, DBBlocklistOffset)

	if r.NumBlocks < DBMinBlockCount {
		return nil, fmt.Errorf("db: %d blocks: %w", r.NumBlocks, ErrSanityLimit)
	}
	return r, nil
}

// DecodeBlocklist parses the DB blocklist cell: count packed segment offsets.
func DecodeBlocklist(p []byte, count uint16) ([]uint32, error) {
	if _, err := buf.CheckListBounds(len(p), 0, int(count), OffsetFieldSize); err != nil {
		return nil, fmt.Errorf("db blocklist (%d entries): %w", count, ErrTruncated)
	}
	offsets := make([]uint32, count)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(p[i*OffsetFieldSize:])
	}
	return offsets, nil
}
