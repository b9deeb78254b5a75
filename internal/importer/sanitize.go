// internal/importer/sanitize.go
package importer

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	// MaxNameLength is the longest path segment, in bytes, most filesystems accept.
	MaxNameLength = 255

	// Placeholder replaces names that sanitize to nothing.
	Placeholder = "untitled"
)

// illegalChars are characters not allowed in filenames on at least one common filesystem.
var illegalChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// multiSpace matches runs of whitespace.
var multiSpace = regexp.MustCompile(`\s+`)

// multiDot matches multiple consecutive dots.
var multiDot = regexp.MustCompile(`\.{2,}`)

// Sanitize turns arbitrary metadata into a single safe path segment.
// It never returns an empty string and never returns a segment containing a separator.
func Sanitize(name string) string {
	name = norm.NFC.String(name)

	// Whitespace controls become spaces, other controls (including NUL) are dropped
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			if unicode.IsSpace(r) {
				return ' '
			}
			return -1
		}
		return r
	}, name)

	name = illegalChars.ReplaceAllString(name, "_")
	name = multiDot.ReplaceAllString(name, ".")
	name = multiSpace.ReplaceAllString(name, " ")
	name = strings.Trim(name, " .")
	name = truncate(name, MaxNameLength)

	if name == "" {
		return Placeholder
	}
	return name
}

// truncate shortens name to at most max bytes on a rune boundary, keeping a
// short trailing extension intact.
func truncate(name string, max int) string {
	if len(name) <= max {
		return name
	}

	ext := filepath.Ext(name)
	if len(ext) > 16 || len(ext) >= max {
		ext = ""
	}
	base := name[:len(name)-len(ext)]
	limit := max - len(ext)
	for limit > 0 && !utf8.RuneStart(base[limit]) {
		limit--
	}
	return strings.TrimRight(base[:limit], " .") + ext
}

// ValidatePath ensures the path is within the expected root directory.
// Returns ErrPathTraversal if the path would escape the root.
func ValidatePath(path, expectedRoot string) error {
	cleanPath := filepath.Clean(path)
	cleanRoot := filepath.Clean(expectedRoot)

	if cleanPath == cleanRoot {
		return nil
	}
	if !strings.HasSuffix(cleanRoot, string(filepath.Separator)) {
		cleanRoot += string(filepath.Separator)
	}
	if !strings.HasPrefix(cleanPath, cleanRoot) {
		return ErrPathTraversal
	}
	return nil
}
