package docpath

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrEscapesBase indicates a requested path whose resolution would land
// outside the base directory.
var ErrEscapesBase = errors.New("path escapes base directory")

// Resolve maps an untrusted, slash-delimited relative path onto a trusted
// base directory and returns a path that is always base itself or a
// descendant of it; anything else fails with ErrEscapesBase.
//
// Resolution is purely lexical: "." segments are dropped, ".." segments pop
// previously appended segments, and a ".." that would climb above base is an
// escape. The filesystem is never consulted; symlinks under base that point
// elsewhere are outside this function's contract.
func Resolve(base, requested string) (string, error) {
	segments := make([]string, 0, strings.Count(requested, "/")+1)
	for _, seg := range strings.Split(requested, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(segments) == 0 {
				return "", ErrEscapesBase
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, seg)
		}
	}

	resolved := filepath.Join(base, filepath.Join(segments...))
	if !within(base, resolved) {
		return "", ErrEscapesBase
	}
	return resolved, nil
}

// within reports whether candidate equals base or sits below it, compared
// on a separator boundary so that /docs does not claim /docs-evil.
func within(base, candidate string) bool {
	base = filepath.Clean(base)
	candidate = filepath.Clean(candidate)
	if candidate == base {
		return true
	}
	return strings.HasPrefix(candidate, base+string(filepath.Separator))
}
