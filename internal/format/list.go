package format

import (
	"encoding/binary"
	"fmt"

	"github.com/janstarke/nt-hive2/internal/buf"
)

// ListKind discriminates the subkey list variants.
type ListKind uint8

const (
	ListLF ListKind = iota // hashed, 8-byte entries
	ListLH                 // hashed (newer hash), 8-byte entries
	ListLI                 // linear, 4-byte entries
	ListRI                 // two-level index over other lists
)

func (k ListKind) String() string {
	switch k {
	case ListLF:
		return "lf"
	case ListLH:
		return "lh"
	case ListLI:
		return "li"
	case ListRI:
		return "ri"
	default:
		return fmt.Sprintf("ListKind(%d)", uint8(k))
	}
}

// SubkeyList is a decoded subkey list (or RI index) cell. Entries holds cell
// offsets in stored order: key offsets for lf/lh/li, sublist offsets for ri.
// Hashes carried by lf/lh entries are skipped; lookups here compare names.
type SubkeyList struct {
	Kind    ListKind
	Entries []uint32
}

// DecodeSubkeyList parses any of the four subkey list variants from a cell
// payload.
func DecodeSubkeyList(p []byte) (*SubkeyList, error) {
	if len(p) < ListHeaderSize {
		return nil, fmt.Errorf("subkey list: %d bytes: %w", len(p), ErrTruncated)
	}

	var kind ListKind
	var entrySize int
	switch {
	case p[0] == LFSignature[0] && p[1] == LFSignature[1]:
		kind, entrySize = ListLF, LFEntrySize
	case p[0] == LHSignature[0] && p[1] == LHSignature[1]:
		kind, entrySize = ListLH, LFEntrySize
	case p[0] == LISignature[0] && p[1] == LISignature[1]:
		kind, entrySize = ListLI, LIEntrySize
	case p[0] == RISignature[0] && p[1] == RISignature[1]:
		kind, entrySize = ListRI, LIEntrySize
	default:
		return nil, fmt.Errorf("subkey list: %q: %w", p[:SignatureSize], ErrSignatureMismatch)
	}

	count := int(binary.LittleEndian.Uint16(p[ListCountOffset:]))
	if count > MaxSubkeyCount {
		return nil, fmt.Errorf("subkey list: count %d: %w", count, ErrSanityLimit)
	}
	if _, err := buf.CheckListBounds(len(p), ListHeaderSize, count, entrySize); err != nil {
		return nil, fmt.Errorf("subkey list (%s, %d entries): %w", kind, count, ErrTruncated)
	}

	entries := make([]uint32, count)
	for i := 0; i < count; i++ {
		entries[i] = binary.LittleEndian.Uint32(p[ListHeaderSize+i*entrySize:])
	}
	return &SubkeyList{Kind: kind, Entries: entries}, nil
}

// DecodeValueList parses a value list cell: count packed cell offsets with no
// signature. The count comes from the owning key node.
func DecodeValueList(p []byte, count uint32) ([]uint32, error) {
	if count > MaxValueCount {
		return nil, fmt.Errorf("value list: count %d: %w", count, ErrSanityLimit)
	}
	if _, err := buf.CheckListBounds(len(p), 0, int(count), OffsetFieldSize); err != nil {
		return nil, fmt.Errorf("value list (%d entries): %w", count, ErrTruncated)
	}
	offsets := make([]uint32, count)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(p[i*OffsetFieldSize:])
	}
	return offsets, nil
}
