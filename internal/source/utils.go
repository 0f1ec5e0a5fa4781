package source

import (
	"path/filepath"
	"slices"
)

// normalizeCRLF replaces every \r\n with \n, leaving lone \r untouched.
// Returns the (possibly new) slice and whether any replacement happened.
func normalizeCRLF(content []byte) ([]byte, bool) {
	// Fast path: no \r at all.
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// Empty index means the whole file is one line.
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// Binary search: largest lineIdx[i] strictly before off.
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	// hi is the index of the newline ending the previous line, or -1 when
	// off is still on the first line.
	if hi < 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	startOff := lineIdx[hi] + 1
	return LineCol{Line: uint32(hi) + 2, Col: off - startOff + 1}
}

func normalizePath(p string) string {
	// Single form for cross-platform diffs.
	return filepath.ToSlash(filepath.Clean(p))
}
