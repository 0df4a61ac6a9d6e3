package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func makeNK(t *testing.T, name string, flags uint16) []byte {
	t.Helper()
	p := make([]byte, NKFixedHeaderSize+len(name))
	copy(p, NKSignature)
	PutU16(p, NKFlagsOffset, flags)
	PutU64(p, NKLastWriteOffset, 0x01D70000DEADBEEF)
	PutU32(p, NKParentOffset, 0x120)
	PutU32(p, NKSubkeyCountOffset, 3)
	PutU32(p, NKSubkeyListOffset, 0x200)
	PutU32(p, NKVolSubkeyListOffset, InvalidOffset)
	PutU32(p, NKValueCountOffset, 2)
	PutU32(p, NKValueListOffset, 0x300)
	PutU32(p, NKSecurityOffset, 0x400)
	PutU32(p, NKClassNameOffset, InvalidOffset)
	PutU16(p, NKNameLenOffset, uint16(len(name)))
	copy(p[NKNameOffset:], name)
	return p
}

func TestDecodeNK(t *testing.T) {
	p := makeNK(t, "Software", NKFlagCompressedName)

	r, err := DecodeNK(p)
	require.NoError(t, err)
	require.Equal(t, []byte("Software"), r.RawName)
	require.True(t, r.HasCompressedName())
	require.False(t, r.IsHiveEntry())
	require.Equal(t, uint32(0x120), r.ParentOffset)
	require.Equal(t, uint32(3), r.SubkeyCount)
	require.Equal(t, uint32(0x200), r.SubkeyListOffset)
	require.Equal(t, uint32(2), r.ValueCount)
	require.Equal(t, uint32(0x300), r.ValueListOffset)
	require.Equal(t, uint32(0x400), r.SecurityOffset)
	require.Equal(t, uint32(InvalidOffset), r.ClassNameOffset)
	require.Equal(t, uint64(0x01D70000DEADBEEF), r.LastWriteRaw)
}

func TestDecodeNKRootFlag(t *testing.T) {
	p := makeNK(t, "ROOT", NKFlagCompressedName|NKFlagHiveEntry|NKFlagNoDelete)

	r, err := DecodeNK(p)
	require.NoError(t, err)
	require.True(t, r.IsHiveEntry())
}

func TestDecodeNKNameCopied(t *testing.T) {
	p := makeNK(t, "Run", NKFlagCompressedName)

	r, err := DecodeNK(p)
	require.NoError(t, err)

	// Mutating the source buffer must not affect the decoded record.
	p[NKNameOffset] = 'X'
	require.Equal(t, []byte("Run"), r.RawName)
}

func TestDecodeNKBadSignature(t *testing.T) {
	p := makeNK(t, "k", 0)
	copy(p, "vk")

	_, err := DecodeNK(p)
	require.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestDecodeNKNameRunsPastCell(t *testing.T) {
	p := makeNK(t, "LongName", NKFlagCompressedName)
	PutU16(p, NKNameLenOffset, 200)

	_, err := DecodeNK(p)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestDecodeNKSubkeyCountSanity(t *testing.T) {
	p := makeNK(t, "k", NKFlagCompressedName)
	PutU32(p, NKSubkeyCountOffset, MaxSubkeyCount+1)

	_, err := DecodeNK(p)
	require.ErrorIs(t, err, ErrSanityLimit)
}
