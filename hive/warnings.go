package hive

import (
	"fmt"
	"sync"
)

// WarningCode identifies a class of advisory finding. Warnings never stop
// parsing; they record inconsistencies a forensic examiner may care about.
type WarningCode int

const (
	// WarnChecksumMismatch: the base block checksum does not match its content.
	WarnChecksumMismatch WarningCode = iota
	// WarnSequenceMismatch: primary and secondary sequence numbers differ,
	// meaning the hive was captured mid-write.
	WarnSequenceMismatch
	// WarnTruncatedHiveBins: the hive bins data ends before the size the base
	// block declares.
	WarnTruncatedHiveBins
	// WarnBinOffsetMismatch: a bin's stored copy of its own offset disagrees
	// with where the bin actually sits.
	WarnBinOffsetMismatch
	// WarnInvalidEncoding: a name contained byte sequences invalid for its
	// declared encoding and was decoded with replacement characters.
	WarnInvalidEncoding
	// WarnSizeMismatch: assembled big-data was shorter than the value's
	// declared data length.
	WarnSizeMismatch
	// WarnClassTruncated: a class name cell was smaller than the declared
	// class name length.
	WarnClassTruncated
)

func (c WarningCode) String() string {
	switch c {
	case WarnChecksumMismatch:
		return "checksum-mismatch"
	case WarnSequenceMismatch:
		return "sequence-mismatch"
	case WarnTruncatedHiveBins:
		return "truncated-hive-bins"
	case WarnBinOffsetMismatch:
		return "bin-offset-mismatch"
	case WarnInvalidEncoding:
		return "invalid-encoding"
	case WarnSizeMismatch:
		return "size-mismatch"
	case WarnClassTruncated:
		return "class-truncated"
	default:
		return fmt.Sprintf("warning(%d)", int(c))
	}
}

// Warning is one advisory finding. Off is the logical offset it refers to, or
// InvalidOffset for hive-level findings.
type Warning struct {
	Code WarningCode
	Off  uint32
	Msg  string
}

func (w Warning) String() string {
	if w.Off == InvalidOffset {
		return fmt.Sprintf("[%s] %s", w.Code, w.Msg)
	}
	return fmt.Sprintf("[%s] cell 0x%x: %s", w.Code, w.Off, w.Msg)
}

// warningLog collects warnings, deduplicated by (code, offset) so repeated
// traversals of the same structure report each finding once.
type warningLog struct {
	mu   sync.Mutex
	seen map[warningKey]struct{}
	list []Warning
}

type warningKey struct {
	code WarningCode
	off  uint32
}

func (l *warningLog) add(code WarningCode, off uint32, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := warningKey{code, off}
	if _, dup := l.seen[k]; dup {
		return
	}
	if l.seen == nil {
		l.seen = make(map[warningKey]struct{})
	}
	l.seen[k] = struct{}{}
	l.list = append(l.list, Warning{Code: code, Off: off, Msg: msg})
}

func (l *warningLog) addf(code WarningCode, off uint32, format string, args ...any) {
	l.add(code, off, fmt.Sprintf(format, args...))
}

func (l *warningLog) snapshot() []Warning {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Warning, len(l.list))
	copy(out, l.list)
	return out
}
