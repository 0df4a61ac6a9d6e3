package hive

// Step is one event of a tree walk. Key is nil when the step reports an
// error; in that case Err describes why the cell at Offset could not be
// visited and the walk continues with the rest of the tree.
type Step struct {
	Offset uint32
	Depth  int
	Key    *KeyNode
	Err    error
}

// WalkFunc receives each step of a walk. Returning false stops the walk.
type WalkFunc func(Step) bool

// WalkOptions tune a walk. The zero value walks the whole tree from the root.
type WalkOptions struct {
	// Start is the offset of the key to start from. 0 means the root key.
	Start uint32
	// MaxDepth limits descent; the start key is depth 0. 0 means unlimited.
	MaxDepth int
}

type walkState uint8

const (
	walkEnter walkState = iota
	walkLeave
)

type walkFrame struct {
	off   uint32
	depth int
	state walkState
}

// Walker traverses the key tree depth-first in stored order, decoding keys
// lazily as it reaches them. It pulls one Step at a time, so callers can
// stop, resume, or interleave work without callbacks.
//
// A key whose offset already appears on the current root-to-key path is a
// cycle: the walker reports it as an error step and does not descend, so
// corrupted links cannot loop the traversal. The same key reached through
// different branches (without a cycle) is visited each time.
type Walker struct {
	h       *Hive
	opts    WalkOptions
	stack   []walkFrame
	onPath  map[uint32]struct{}
	pending []Step // error steps queued behind the step being returned
}

// NewWalker prepares a walk over h. Nothing is decoded until Next is called.
func (h *Hive) NewWalker(opts WalkOptions) *Walker {
	start := opts.Start
	if start == 0 {
		start = h.RootOffset()
	}
	return &Walker{
		h:      h,
		opts:   opts,
		stack:  []walkFrame{{off: start, depth: 0, state: walkEnter}},
		onPath: make(map[uint32]struct{}),
	}
}

// Next returns the next step of the walk. ok is false when the tree is
// exhausted.
func (w *Walker) Next() (step Step, ok bool) {
	if len(w.pending) > 0 {
		s := w.pending[0]
		w.pending = w.pending[1:]
		return s, true
	}
	for len(w.stack) > 0 {
		frame := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]

		if frame.state == walkLeave {
			delete(w.onPath, frame.off)
			continue
		}

		if _, seen := w.onPath[frame.off]; seen {
			return Step{Offset: frame.off, Depth: frame.depth, Err: &Error{
				Kind: ErrKindCycle, Off: frame.off, Msg: ErrCycle.Msg,
			}}, true
		}

		key, err := w.h.KeyAt(frame.off)
		if err != nil {
			return Step{Offset: frame.off, Depth: frame.depth, Err: err}, true
		}

		if w.opts.MaxDepth == 0 || frame.depth < w.opts.MaxDepth {
			w.descend(frame, key)
		}
		return Step{Offset: frame.off, Depth: frame.depth, Key: key}, true
	}
	return Step{}, false
}

// descend queues the key's children. A broken subkey list is queued as a
// single error frame so the failure surfaces as its own step while the key
// itself stays a leaf.
func (w *Walker) descend(frame walkFrame, key *KeyNode) {
	children, err := key.SubkeyOffsets()
	if err != nil {
		w.pending = append(w.pending, Step{Offset: frame.off, Depth: frame.depth, Err: err})
		return
	}
	if len(children) == 0 {
		return
	}

	w.onPath[frame.off] = struct{}{}
	w.stack = append(w.stack, walkFrame{off: frame.off, state: walkLeave})
	// Push children reversed so they pop in stored order.
	for i := len(children) - 1; i >= 0; i-- {
		w.stack = append(w.stack, walkFrame{off: children[i], depth: frame.depth + 1, state: walkEnter})
	}
}

// Walk runs a full traversal from the root, calling fn for every key and for
// every structural failure encountered. See Walker for the semantics.
func (h *Hive) Walk(fn WalkFunc) error {
	return h.WalkFrom(WalkOptions{}, fn)
}

// WalkFrom is Walk with explicit options.
func (h *Hive) WalkFrom(opts WalkOptions, fn WalkFunc) error {
	w := h.NewWalker(opts)
	for {
		step, ok := w.Next()
		if !ok {
			return nil
		}
		if !fn(step) {
			return nil
		}
	}
}
