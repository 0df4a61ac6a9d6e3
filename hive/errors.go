package hive

import "fmt"

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindFormat     ErrKind = iota // malformed headers/signatures (e.g. bad "regf")
	ErrKindCorrupt                   // structural corruption (bad sizes/offsets/tags)
	ErrKindOutOfRange                // a cell offset points outside the hive bins data
	ErrKindCycle                     // offset reachable from itself along a parent chain
	ErrKindNotFound                  // missing key/value/path
	ErrKindType                      // requested decode doesn't match the value's RegType
)

// Error is a typed error with an optional cell offset and underlying cause.
// Off is the logical offset the error refers to, or InvalidOffset when the
// error is not tied to a single cell.
type Error struct {
	Kind ErrKind
	Off  uint32
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if e.Off != InvalidOffset {
		msg = fmt.Sprintf("%s (cell 0x%x)", msg, e.Off)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes sentinel matching work through errors.Is: two *Errors match when
// their kinds match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels. Returned errors wrap or match these; compare with errors.Is.
var (
	// ErrNotHive indicates the file lacks a valid "regf" base block.
	ErrNotHive = &Error{Kind: ErrKindFormat, Off: InvalidOffset, Msg: "not a registry hive"}
	// ErrCorrupt indicates structural corruption local to a record or list.
	ErrCorrupt = &Error{Kind: ErrKindCorrupt, Off: InvalidOffset, Msg: "corrupt hive structure"}
	// ErrOutOfRange indicates a cell offset outside the hive bins data.
	ErrOutOfRange = &Error{Kind: ErrKindOutOfRange, Off: InvalidOffset, Msg: "cell offset out of range"}
	// ErrCycle indicates a key offset that is its own ancestor.
	ErrCycle = &Error{Kind: ErrKindCycle, Off: InvalidOffset, Msg: "cycle in key tree"}
	// ErrNotFound indicates a missing key, value, or path.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Off: InvalidOffset, Msg: "not found"}
	// ErrTypeMismatch indicates the requested decode doesn't match the value type.
	ErrTypeMismatch = &Error{Kind: ErrKindType, Off: InvalidOffset, Msg: "registry value has different type"}
)

func formatErr(off uint32, msg string, cause error) *Error {
	return &Error{Kind: ErrKindCorrupt, Off: off, Msg: msg, Err: cause}
}

func rangeErr(off uint32, msg string) *Error {
	return &Error{Kind: ErrKindOutOfRange, Off: off, Msg: msg}
}
