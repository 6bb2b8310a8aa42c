// Package pathutil implements the lexical path normalization mdbfs's
// backends use to turn an FS-host path into a decodable form.
package pathutil

import "strings"

const Separator = "/"

// Normalize collapses consecutive separators and resolves "." and ".."
// segments textually, without touching the filesystem. Trailing separators
// are removed except on the root. A ".." that would escape the root is
// rejected rather than clamped.
func Normalize(p string) (string, error) {
	absolute := strings.HasPrefix(p, Separator)

	parts := strings.Split(p, Separator)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(out) == 0 {
				if absolute {
					return "", errEscapesRoot
				}
				out = append(out, part)
				continue
			}
			if out[len(out)-1] == ".." {
				out = append(out, part)
				continue
			}
			out = out[:len(out)-1]
		default:
			out = append(out, part)
		}
	}

	joined := strings.Join(out, Separator)
	if absolute {
		return Separator + joined, nil
	}
	if joined == "" {
		return ".", nil
	}
	return joined, nil
}

// IsAbsolute reports whether the normalized form of p begins with the path
// separator.
func IsAbsolute(p string) bool {
	norm, err := Normalize(p)
	if err != nil {
		return false
	}
	return strings.HasPrefix(norm, Separator)
}

// Segments splits a normalized absolute path into its non-empty components.
// The root path normalizes to zero segments.
func Segments(normalized string) []string {
	trimmed := strings.TrimPrefix(normalized, Separator)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, Separator)
}

var errEscapesRoot = pathError("path escapes root")

type pathError string

func (e pathError) Error() string { return string(e) }
