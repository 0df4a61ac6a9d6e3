package hive

import (
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeName turns raw on-disk name bytes into a string. Compressed names are
// Windows-1252, everything else is UTF-16LE. Undecodable input is replaced
// with U+FFFD and recorded as a warning against the owning cell.
func (h *Hive) decodeName(raw []byte, compressed bool, off uint32) string {
	if compressed {
		if isASCII(raw) {
			return string(raw)
		}
		s, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			// Windows-1252 decodes every byte; errors here mean the decoder
			// itself failed, which we treat as undecodable input.
			h.warnings.addf(WarnInvalidEncoding, off, "undecodable ANSI name")
			return string(utf8RuneErrorRepeat(len(raw)))
		}
		return string(s)
	}

	s, clean := decodeUTF16LE(raw)
	if !clean {
		h.warnings.addf(WarnInvalidEncoding, off, "invalid UTF-16LE name")
	}
	return s
}

// isASCII reports whether every byte is printable 7-bit ASCII territory, the
// common case for registry names, allowing the charmap decoder to be skipped.
func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// decodeUTF16LE decodes little-endian UTF-16 bytes. An odd trailing byte or
// an unpaired surrogate yields U+FFFD and clean=false.
func decodeUTF16LE(b []byte) (s string, clean bool) {
	clean = true
	n := len(b)
	if n%2 != 0 {
		clean = false
		n--
	}

	units := make([]uint16, 0, n/2)
	for i := 0; i+1 < n; i += 2 {
		units = append(units, uint16(b[i])|uint16(b[i+1])<<8)
	}

	runes := utf16.Decode(units)
	for _, r := range runes {
		if r == utf8.RuneError {
			clean = false
			break
		}
	}
	if !clean && len(b)%2 != 0 {
		runes = append(runes, utf8.RuneError)
	}
	return string(runes), clean
}

func utf8RuneErrorRepeat(n int) []rune {
	out := make([]rune, n)
	for i := range out {
		out[i] = utf8.RuneError
	}
	return out
}
