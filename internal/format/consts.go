// Package format houses low-level decoders for the Windows Registry hive file
// format. The goal is to keep the parsing focused, allocation-light, and
// independent from the public API so higher-level packages can orchestrate
// the data in a more ergonomic form.
//
// Every decoder here works on untrusted bytes: all field reads are bounds
// checked and counts are validated against sanity limits before any slice
// arithmetic happens.
package format

var (
	// REGFSignature is the four-byte signature at the start of every hive file.
	REGFSignature = []byte{'r', 'e', 'g', 'f'}

	// HBINSignature is the four-byte signature at the beginning of each hive bin.
	HBINSignature = []byte{'h', 'b', 'i', 'n'}

	// NKSignature identifies an NK (key node) cell payload.
	NKSignature = []byte{'n', 'k'}

	// VKSignature identifies a VK (value node) cell payload.
	VKSignature = []byte{'v', 'k'}

	// LFSignature, LHSignature, and LISignature identify subkey list variants.
	// LF/LH include hashed names, while LI is a linear list without hashes.
	LFSignature = []byte{'l', 'f'}
	LHSignature = []byte{'l', 'h'}
	LISignature = []byte{'l', 'i'}

	// RISignature identifies an RI (root index) subkey list used when a key
	// has many subkeys. RI lists contain offsets to other LI/LF/LH lists.
	RISignature = []byte{'r', 'i'}

	// SKSignature identifies a security descriptor (SK) cell.
	SKSignature = []byte{'s', 'k'}

	// DBSignature identifies a big-data (DB) record for large registry values.
	DBSignature = []byte{'d', 'b'}
)

const (
	// HeaderSize is the size of the REGF base block in bytes. All logical cell
	// offsets in a hive are relative to the end of this block.
	HeaderSize = 4096

	// HBINHeaderSize is the size of the HBIN sub-header in bytes.
	HBINHeaderSize = 0x20

	// HBINAlignment is the required alignment (and size granularity) of hive bins.
	HBINAlignment = 0x1000

	// CellHeaderSize is the number of bytes used by the signed size field
	// preceding every allocation (free or in-use) within an HBIN.
	CellHeaderSize = 4

	// SignatureSize is the standard size of record signatures (nk, vk, sk, ...).
	SignatureSize = 2

	// OffsetFieldSize is the size of cell offset fields (uint32).
	OffsetFieldSize = 4

	// InvalidOffset marks unused/invalid offset fields.
	InvalidOffset = 0xFFFFFFFF

	// DWORDSize and QWORDSize are the payload sizes of the fixed-width value types.
	DWORDSize = 4
	QWORDSize = 8
)

// REGF header field offsets. Little-endian throughout.
const (
	REGFSignatureOffset    = 0x000
	REGFSignatureSize      = 4
	REGFPrimarySeqOffset   = 0x004
	REGFSecondarySeqOffset = 0x008
	REGFTimeStampOffset    = 0x00C // FILETIME, 8 bytes
	REGFMajorVersionOffset = 0x014
	REGFMinorVersionOffset = 0x018
	REGFTypeOffset         = 0x01C // 0 = primary, 1 = alternate
	REGFFormatOffset       = 0x020
	REGFRootCellOffset     = 0x024 // relative to end of base block
	REGFDataSizeOffset     = 0x028 // sum of all HBIN sizes
	REGFClusterOffset      = 0x02C
	REGFFileNameOffset     = 0x030
	REGFFileNameSize       = 64
	REGFCheckSumOffset     = 0x1FC
)

// The header checksum covers the first 508 bytes (0x000..0x1FB) as 127
// little-endian dwords.
const (
	REGFChecksumRegionLen = 508
	REGFChecksumDwords    = 127
)

// HBIN sub-header field offsets.
const (
	HBINSignatureOffset = 0x00
	HBINSignatureSize   = 4
	HBINOffsetEchoField = 0x04 // echo of the bin's own offset, unreliable in the wild
	HBINSizeOffset      = 0x08
)

// NK field offsets within the record payload (payload starts at "nk").
const (
	NKSignatureOffset      = 0x00
	NKFlagsOffset          = 0x02 // uint16
	NKLastWriteOffset      = 0x04 // FILETIME, 8 bytes
	NKAccessBitsOffset     = 0x0C // "Spare" on older hives
	NKParentOffset         = 0x10
	NKSubkeyCountOffset    = 0x14
	NKVolSubkeyCountOffset = 0x18
	NKSubkeyListOffset     = 0x1C
	NKVolSubkeyListOffset  = 0x20
	NKValueCountOffset     = 0x24
	NKValueListOffset      = 0x28
	NKSecurityOffset       = 0x2C
	NKClassNameOffset      = 0x30
	NKMaxNameLenOffset     = 0x34
	NKMaxClassLenOffset    = 0x38
	NKMaxValueNameOffset   = 0x3C
	NKMaxValueDataOffset   = 0x40
	NKWorkVarOffset        = 0x44
	NKNameLenOffset        = 0x48 // uint16, bytes
	NKClassLenOffset       = 0x4A // uint16, bytes
	NKNameOffset           = 0x4C // start of inline name

	NKFixedHeaderSize = NKNameOffset
	NKMinSize         = NKFixedHeaderSize
)

// NK flags. The set mirrors the kernel's KEY_* node flags.
const (
	NKFlagVolatile       = 0x0001 // not stored on disk
	NKFlagHiveExit       = 0x0002 // mount point of another hive
	NKFlagHiveEntry      = 0x0004 // root key of this hive
	NKFlagNoDelete       = 0x0008
	NKFlagSymLink        = 0x0010
	NKFlagCompressedName = 0x0020 // name stored as single-byte ANSI, not UTF-16LE
	NKFlagPredefHandle   = 0x0040
	NKFlagVirtMirrored   = 0x0080
	NKFlagVirtTarget     = 0x0100
	NKFlagVirtualStore   = 0x0200
)

// VK field offsets within the record payload (payload starts at "vk").
const (
	VKSignatureOffset = 0x00
	VKNameLenOffset   = 0x02 // uint16
	VKDataLenOffset   = 0x04 // uint32, high bit = inline marker
	VKDataOffOffset   = 0x08 // data cell offset, or the inline bytes themselves
	VKTypeOffset      = 0x0C
	VKFlagsOffset     = 0x10 // uint16
	VKSpareOffset     = 0x12
	VKNameOffset      = 0x14

	VKFixedHeaderSize = VKNameOffset
	VKMinSize         = VKFixedHeaderSize

	// VKFlagASCIIName marks the name as stored in Windows-1252 bytes.
	VKFlagASCIIName = 0x0001

	// VKDataInlineBit flags data stored directly in the DataOffset field.
	VKDataInlineBit = 0x80000000

	// VKDataLengthMask extracts the actual data length from the length field.
	VKDataLengthMask = 0x7FFFFFFF
)

// Subkey list layout. All four variants share the same 4-byte header.
const (
	ListHeaderSize  = 4 // signature (2) + count (2)
	ListCountOffset = 2

	// LIEntrySize is one uint32 cell offset (li and ri entries).
	LIEntrySize = 4

	// LFEntrySize is {offset uint32, hash-or-hint uint32} (lf and lh entries).
	LFEntrySize = 8
)

// SK field offsets within the record payload (_CM_KEY_SECURITY).
const (
	SKSignatureOffset        = 0x00
	SKReservedOffset         = 0x02
	SKFlinkOffset            = 0x04
	SKBlinkOffset            = 0x08
	SKReferenceCountOffset   = 0x0C
	SKDescriptorLengthOffset = 0x10
	SKDescriptorOffset       = 0x14

	SKMinSize = SKDescriptorOffset
)

// DB (big data) record layout.
const (
	DBSignatureOffset = 0x00
	DBNumBlocksOffset = 0x02 // uint16
	DBBlocklistOffset = 0x04 // offset of the separate blocklist cell
	DBReservedOffset  = 0x08

	DBMinSize = 0x0C

	// DBChunkSize is the usable byte count of one big-data segment: a 16 KiB
	// block minus the trailing 4 bytes that belong to the next cell header.
	DBChunkSize = 16344

	// DBMinBlockCount: values that fit in 0 or 1 blocks must use inline or
	// single-cell storage, so a valid DB record references at least 2 blocks.
	DBMinBlockCount = 2
)

// Windows registry value type codes.
const (
	RegNone                     uint32 = 0
	RegSZ                       uint32 = 1
	RegExpandSZ                 uint32 = 2
	RegBinary                   uint32 = 3
	RegDWord                    uint32 = 4
	RegDWordBigEndian           uint32 = 5
	RegLink                     uint32 = 6
	RegMultiSZ                  uint32 = 7
	RegResourceList             uint32 = 8
	RegFullResourceDescriptor   uint32 = 9
	RegResourceRequirementsList uint32 = 10
	RegQWord                    uint32 = 11
)

// Sanity limits applied while decoding untrusted counts and lengths. They are
// far above anything a real hive produces but small enough to stop a crafted
// count from driving a huge allocation.
const (
	MaxNameLen      = 64 * 1024
	MaxClassLen     = 64 * 1024
	MaxSubkeyCount  = 16 * 1024 * 1024
	MaxValueCount   = 16 * 1024 * 1024
	MaxValueDataLen = 1 << 30
)
