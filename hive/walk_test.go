package hive

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/janstarke/nt-hive2/internal/format"
)

// treeHive builds:
//
//	ROOT
//	├── A
//	│   ├── A1
//	│   └── A2
//	└── B
func treeHive(t *testing.T) (*hiveBuilder, uint32) {
	t.Helper()
	b := newHiveBuilder(t)
	a1 := b.leafKey("A1")
	a2 := b.leafKey("A2")
	aList := b.subkeyList(format.LFSignature, a1, a2)
	a := b.nk(nkSpec{name: "A", subkeyCount: 2, subkeyList: aList})
	bKey := b.leafKey("B")
	rootList := b.subkeyList(format.LFSignature, a, bKey)
	root := b.nk(nkSpec{name: "ROOT", flags: format.NKFlagHiveEntry, subkeyCount: 2, subkeyList: rootList})
	return b, root
}

func TestWalkPreorder(t *testing.T) {
	b, root := treeHive(t)
	h := b.open(root)

	var names []string
	var depths []int
	err := h.Walk(func(s Step) bool {
		require.NoError(t, s.Err)
		names = append(names, s.Key.Name())
		depths = append(depths, s.Depth)
		return true
	})
	require.NoError(t, err)
	require.Equal(t, []string{"ROOT", "A", "A1", "A2", "B"}, names)
	require.Equal(t, []int{0, 1, 2, 2, 1}, depths)
}

func TestWalkMaxDepth(t *testing.T) {
	b, root := treeHive(t)
	h := b.open(root)

	var names []string
	err := h.WalkFrom(WalkOptions{MaxDepth: 1}, func(s Step) bool {
		names = append(names, s.Key.Name())
		return true
	})
	require.NoError(t, err)
	require.Equal(t, []string{"ROOT", "A", "B"}, names)
}

func TestWalkFromSubtree(t *testing.T) {
	b := newHiveBuilder(t)
	a1 := b.leafKey("A1")
	aList := b.subkeyList(format.LFSignature, a1)
	a := b.nk(nkSpec{name: "A", subkeyCount: 1, subkeyList: aList})
	rootList := b.subkeyList(format.LFSignature, a)
	root := b.nk(nkSpec{name: "ROOT", flags: format.NKFlagHiveEntry, subkeyCount: 1, subkeyList: rootList})
	h := b.open(root)

	var names []string
	err := h.WalkFrom(WalkOptions{Start: a}, func(s Step) bool {
		names = append(names, s.Key.Name())
		return true
	})
	require.NoError(t, err)
	require.Equal(t, []string{"A", "A1"}, names)
}

func TestWalkStopsWhenCallbackReturnsFalse(t *testing.T) {
	b, root := treeHive(t)
	h := b.open(root)

	var count int
	err := h.Walk(func(s Step) bool {
		count++
		return count < 2
	})
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestWalkCycleTerminates(t *testing.T) {
	b := newHiveBuilder(t)
	child := b.leafKey("Child")
	list := b.subkeyList(format.LFSignature, child)
	root := b.nk(nkSpec{name: "ROOT", flags: format.NKFlagHiveEntry, subkeyCount: 1, subkeyList: list})
	// Point the child's subkey list back at the root: a cycle.
	childList := b.subkeyList(format.LFSignature, root)
	b.setU32(child, format.NKSubkeyCountOffset, 1)
	b.setU32(child, format.NKSubkeyListOffset, childList)

	h := b.open(root)

	var names []string
	var cycles int
	err := h.Walk(func(s Step) bool {
		if s.Err != nil {
			require.ErrorIs(t, s.Err, ErrCycle)
			cycles++
			return true
		}
		names = append(names, s.Key.Name())
		return true
	})
	require.NoError(t, err)
	require.Equal(t, []string{"ROOT", "Child"}, names)
	require.Equal(t, 1, cycles)
}

func TestWalkSelfReferencingKey(t *testing.T) {
	b := newHiveBuilder(t)
	key := b.nk(nkSpec{name: "ROOT", flags: format.NKFlagHiveEntry})
	list := b.subkeyList(format.LFSignature, key)
	b.setU32(key, format.NKSubkeyCountOffset, 1)
	b.setU32(key, format.NKSubkeyListOffset, list)

	h := b.open(key)

	var visits, cycles int
	err := h.Walk(func(s Step) bool {
		if s.Err != nil {
			cycles++
		} else {
			visits++
		}
		return true
	})
	require.NoError(t, err)
	require.Equal(t, 1, visits)
	require.Equal(t, 1, cycles)
}

func TestWalkSharedSubtreeIsNotACycle(t *testing.T) {
	// Two branches referencing the same child key: visited once per branch.
	b := newHiveBuilder(t)
	shared := b.leafKey("Shared")
	l1 := b.subkeyList(format.LFSignature, shared)
	l2 := b.subkeyList(format.LFSignature, shared)
	a := b.nk(nkSpec{name: "A", subkeyCount: 1, subkeyList: l1})
	c := b.nk(nkSpec{name: "C", subkeyCount: 1, subkeyList: l2})
	rootList := b.subkeyList(format.LFSignature, a, c)
	root := b.nk(nkSpec{name: "ROOT", flags: format.NKFlagHiveEntry, subkeyCount: 2, subkeyList: rootList})

	h := b.open(root)

	var names []string
	err := h.Walk(func(s Step) bool {
		require.NoError(t, s.Err)
		names = append(names, s.Key.Name())
		return true
	})
	require.NoError(t, err)
	require.Equal(t, []string{"ROOT", "A", "Shared", "C", "Shared"}, names)
}

func TestWalkDamagedBranchIsLocal(t *testing.T) {
	b := newHiveBuilder(t)
	good := b.leafKey("Good")
	list := b.subkeyList(format.LFSignature, 0xEEEE0, good)
	root := b.nk(nkSpec{name: "ROOT", flags: format.NKFlagHiveEntry, subkeyCount: 2, subkeyList: list})

	h := b.open(root)

	var names []string
	var failed []uint32
	err := h.Walk(func(s Step) bool {
		if s.Err != nil {
			require.Nil(t, s.Key)
			failed = append(failed, s.Offset)
			return true
		}
		names = append(names, s.Key.Name())
		return true
	})
	require.NoError(t, err)
	// The broken entry is reported, the sibling is still visited.
	require.Equal(t, []string{"ROOT", "Good"}, names)
	require.Equal(t, []uint32{0xEEEE0}, failed)
}

func TestWalkNotAKeyCell(t *testing.T) {
	b := newHiveBuilder(t)
	junk := b.dataCell([]byte("not a key"))
	list := b.subkeyList(format.LFSignature, junk)
	root := b.nk(nkSpec{name: "ROOT", flags: format.NKFlagHiveEntry, subkeyCount: 1, subkeyList: list})

	h := b.open(root)

	var stepErrs []error
	err := h.Walk(func(s Step) bool {
		if s.Err != nil {
			stepErrs = append(stepErrs, s.Err)
		}
		return true
	})
	require.NoError(t, err)
	require.Len(t, stepErrs, 1)
	require.ErrorIs(t, stepErrs[0], ErrCorrupt)

	var typed *Error
	require.True(t, errors.As(stepErrs[0], &typed))
	require.Equal(t, junk, typed.Off)
}

func TestWalkerPullInterface(t *testing.T) {
	b, root := treeHive(t)
	h := b.open(root)

	w := h.NewWalker(WalkOptions{})
	var names []string
	for {
		step, ok := w.Next()
		if !ok {
			break
		}
		require.NoError(t, step.Err)
		names = append(names, step.Key.Name())
	}
	require.Equal(t, []string{"ROOT", "A", "A1", "A2", "B"}, names)

	// Exhausted walkers stay exhausted.
	_, ok := w.Next()
	require.False(t, ok)
}

func TestWalkerBrokenSubkeyListMakesKeyALeaf(t *testing.T) {
	b := newHiveBuilder(t)
	sibling := b.leafKey("Sibling")
	// Subkey list offset points at a non-list cell.
	junk := b.dataCell([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	broken := b.nk(nkSpec{name: "Broken", subkeyCount: 1, subkeyList: junk})
	rootList := b.subkeyList(format.LFSignature, broken, sibling)
	root := b.nk(nkSpec{name: "ROOT", flags: format.NKFlagHiveEntry, subkeyCount: 2, subkeyList: rootList})

	h := b.open(root)

	var names []string
	var listErrs int
	require.NoError(t, h.Walk(func(s Step) bool {
		if s.Err != nil {
			require.Equal(t, broken, s.Offset)
			listErrs++
			return true
		}
		names = append(names, s.Key.Name())
		return true
	}))
	require.Equal(t, []string{"ROOT", "Broken", "Sibling"}, names)
	require.Equal(t, 1, listErrs)
}

func TestWalkRepeatedRunsYieldSameResult(t *testing.T) {
	b, root := treeHive(t)
	h := b.open(root)

	run := func() []string {
		var names []string
		require.NoError(t, h.Walk(func(s Step) bool {
			if s.Err == nil {
				names = append(names, s.Key.Name())
			}
			return true
		}))
		return names
	}
	first := run()
	require.Equal(t, first, run())
	require.Equal(t, first, run())
}
