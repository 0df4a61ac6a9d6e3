package hive

import (
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/require"

	"github.com/janstarke/nt-hive2/internal/buf"
	"github.com/janstarke/nt-hive2/internal/format"
)

// hiveBuilder assembles synthetic hive images for tests: a base block plus
// one or more hive bins filled with cells through a bump allocator. Cells
// never cross bin boundaries, matching the on-disk invariant.
type hiveBuilder struct {
	t    *testing.T
	data []byte      // hive bins region
	bins [][2]uint32 // start, end of each bin
	cur  int
	next uint32
}

func newHiveBuilder(t *testing.T, binSizes ...uint32) *hiveBuilder {
	t.Helper()
	if len(binSizes) == 0 {
		binSizes = []uint32{format.HBINAlignment}
	}
	var total uint32
	for _, s := range binSizes {
		total += s
	}
	b := &hiveBuilder{t: t, data: make([]byte, total)}
	var off uint32
	for _, s := range binSizes {
		copy(b.data[off:], format.HBINSignature)
		format.PutU32(b.data, int(off)+format.HBINOffsetEchoField, off)
		format.PutU32(b.data, int(off)+format.HBINSizeOffset, s)
		b.bins = append(b.bins, [2]uint32{off, off + s})
		off += s
	}
	b.next = b.bins[0][0] + format.HBINHeaderSize
	return b
}

// alloc reserves an allocated cell with room for payload bytes and returns
// its logical offset.
func (b *hiveBuilder) alloc(payload int) uint32 {
	b.t.Helper()
	size := uint32(format.CellHeaderSize + payload)
	if rem := size % 8; rem != 0 {
		size += 8 - rem
	}
	for b.next+size > b.bins[b.cur][1] {
		b.cur++
		if b.cur >= len(b.bins) {
			b.t.Fatalf("fixture hive out of space (need %d more bytes)", size)
		}
		b.next = b.bins[b.cur][0] + format.HBINHeaderSize
	}
	off := b.next
	format.PutI32(b.data, int(off), -int32(size))
	b.next += size
	return off
}

// payload returns the mutable payload of the cell at off.
func (b *hiveBuilder) payload(off uint32) []byte {
	size := uint32(-buf.I32LE(b.data[off:]))
	return b.data[off+format.CellHeaderSize : off+size]
}

func (b *hiveBuilder) put(p []byte) uint32 {
	off := b.alloc(len(p))
	copy(b.payload(off), p)
	return off
}

func orInvalid(off uint32) uint32 {
	if off == 0 {
		return format.InvalidOffset
	}
	return off
}

type nkSpec struct {
	name        string
	rawName     []byte // overrides name when set
	flags       uint16
	utf16Name   bool
	parent      uint32
	subkeyCount uint32
	subkeyList  uint32
	valueCount  uint32
	valueList   uint32
	security    uint32
	classOff    uint32
	classLen    uint16
	lastWrite   uint64
}

func (b *hiveBuilder) nk(s nkSpec) uint32 {
	nameBytes := []byte(s.name)
	if s.rawName != nil {
		nameBytes = s.rawName
	}
	flags := s.flags
	if s.utf16Name {
		nameBytes = encodeUTF16LE(s.name)
	} else {
		flags |= format.NKFlagCompressedName
	}

	p := make([]byte, format.NKFixedHeaderSize+len(nameBytes))
	copy(p, format.NKSignature)
	format.PutU16(p, format.NKFlagsOffset, flags)
	format.PutU64(p, format.NKLastWriteOffset, s.lastWrite)
	format.PutU32(p, format.NKParentOffset, orInvalid(s.parent))
	format.PutU32(p, format.NKSubkeyCountOffset, s.subkeyCount)
	format.PutU32(p, format.NKSubkeyListOffset, orInvalid(s.subkeyList))
	format.PutU32(p, format.NKVolSubkeyListOffset, format.InvalidOffset)
	format.PutU32(p, format.NKValueCountOffset, s.valueCount)
	format.PutU32(p, format.NKValueListOffset, orInvalid(s.valueList))
	format.PutU32(p, format.NKSecurityOffset, orInvalid(s.security))
	format.PutU32(p, format.NKClassNameOffset, orInvalid(s.classOff))
	format.PutU16(p, format.NKClassLenOffset, s.classLen)
	format.PutU16(p, format.NKNameLenOffset, uint16(len(nameBytes)))
	copy(p[format.NKNameOffset:], nameBytes)
	return b.put(p)
}

type vkSpec struct {
	name    string
	typ     uint32
	dataLen uint32 // raw field, including the inline bit when wanted
	dataOff uint32
}

func (b *hiveBuilder) vk(s vkSpec) uint32 {
	p := make([]byte, format.VKFixedHeaderSize+len(s.name))
	copy(p, format.VKSignature)
	format.PutU16(p, format.VKNameLenOffset, uint16(len(s.name)))
	format.PutU32(p, format.VKDataLenOffset, s.dataLen)
	format.PutU32(p, format.VKDataOffOffset, s.dataOff)
	format.PutU32(p, format.VKTypeOffset, s.typ)
	format.PutU16(p, format.VKFlagsOffset, format.VKFlagASCIIName)
	copy(p[format.VKNameOffset:], s.name)
	return b.put(p)
}

func (b *hiveBuilder) subkeyList(sig []byte, offsets ...uint32) uint32 {
	entrySize := format.LIEntrySize
	if sig[1] == 'f' || sig[1] == 'h' {
		entrySize = format.LFEntrySize
	}
	p := make([]byte, format.ListHeaderSize+len(offsets)*entrySize)
	copy(p, sig)
	format.PutU16(p, format.ListCountOffset, uint16(len(offsets)))
	for i, off := range offsets {
		format.PutU32(p, format.ListHeaderSize+i*entrySize, off)
	}
	return b.put(p)
}

func (b *hiveBuilder) valueList(offsets ...uint32) uint32 {
	p := make([]byte, len(offsets)*format.OffsetFieldSize)
	for i, off := range offsets {
		format.PutU32(p, i*format.OffsetFieldSize, off)
	}
	return b.put(p)
}

func (b *hiveBuilder) dataCell(data []byte) uint32 {
	return b.put(data)
}

func (b *hiveBuilder) sk(desc []byte, refs uint32) uint32 {
	p := make([]byte, format.SKMinSize+len(desc))
	copy(p, format.SKSignature)
	format.PutU32(p, format.SKFlinkOffset, format.InvalidOffset)
	format.PutU32(p, format.SKBlinkOffset, format.InvalidOffset)
	format.PutU32(p, format.SKReferenceCountOffset, refs)
	format.PutU32(p, format.SKDescriptorLengthOffset, uint32(len(desc)))
	copy(p[format.SKDescriptorOffset:], desc)
	return b.put(p)
}

// db writes a big-data record plus its blocklist referencing the given
// segment cells.
func (b *hiveBuilder) db(segments ...uint32) uint32 {
	blocklist := b.valueList(segments...)
	p := make([]byte, format.DBMinSize)
	copy(p, format.DBSignature)
	format.PutU16(p, format.DBNumBlocksOffset, uint16(len(segments)))
	format.PutU32(p, format.DBBlocklistOffset, blocklist)
	return b.put(p)
}

// setU32 patches a field inside an already written cell payload. Used to
// close reference loops the bump allocator cannot express (parent pointers,
// deliberate cycles).
func (b *hiveBuilder) setU32(cellOff uint32, fieldOff int, v uint32) {
	format.PutU32(b.payload(cellOff), fieldOff, v)
}

// image assembles the full hive file bytes with a consistent base block.
func (b *hiveBuilder) image(root uint32) []byte {
	img := make([]byte, format.HeaderSize+len(b.data))
	copy(img, format.REGFSignature)
	format.PutU32(img, format.REGFPrimarySeqOffset, 1)
	format.PutU32(img, format.REGFSecondarySeqOffset, 1)
	format.PutU32(img, format.REGFMajorVersionOffset, 1)
	format.PutU32(img, format.REGFMinorVersionOffset, 5)
	format.PutU32(img, format.REGFRootCellOffset, root)
	format.PutU32(img, format.REGFDataSizeOffset, uint32(len(b.data)))
	copy(img[format.HeaderSize:], b.data)
	format.PutU32(img, format.REGFCheckSumOffset, format.Checksum(img))
	return img
}

func (b *hiveBuilder) open(root uint32) *Hive {
	return b.openWith(root, Options{})
}

func (b *hiveBuilder) openWith(root uint32, opts Options) *Hive {
	b.t.Helper()
	h, err := OpenBytes(b.image(root), opts)
	require.NoError(b.t, err)
	return h
}

func encodeUTF16LE(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, len(units)*2)
	for i, u := range units {
		out[i*2] = byte(u)
		out[i*2+1] = byte(u >> 8)
	}
	return out
}

// leafKey writes a childless, valueless key.
func (b *hiveBuilder) leafKey(name string) uint32 {
	return b.nk(nkSpec{name: name})
}

// keyWithChildren writes child keys, an lf list over them, and the parent key.
func (b *hiveBuilder) keyWithChildren(name string, childNames ...string) (parent uint32, children []uint32) {
	children = make([]uint32, len(childNames))
	for i, n := range childNames {
		children[i] = b.leafKey(n)
	}
	list := b.subkeyList(format.LFSignature, children...)
	parent = b.nk(nkSpec{
		name:        name,
		flags:       format.NKFlagHiveEntry,
		subkeyCount: uint32(len(children)),
		subkeyList:  list,
	})
	return parent, children
}
