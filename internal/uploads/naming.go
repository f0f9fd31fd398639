package uploads

import (
	"path"
	"regexp"
	"strings"
	"sync/atomic"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	keyPrefix     = "uploads/"
	fallbackName  = "upload.pdf"
	maxNameLength = 200
)

var whitespace = regexp.MustCompile(`\s+`)

// Sanitize reduces an untrusted client filename to a single safe path element.
// Directory components and traversal sequences are dropped, whitespace runs
// become underscores, and control characters are removed.
func Sanitize(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)

	name = whitespace.ReplaceAllString(name, "_")

	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)

	for strings.Contains(name, "..") {
		name = strings.ReplaceAll(name, "..", ".")
	}
	name = strings.TrimLeft(name, ".")

	// Keep the tail so the extension survives, cut on a rune boundary.
	if len(name) > maxNameLength {
		cut := len(name) - maxNameLength
		for cut < len(name) && !utf8.RuneStart(name[cut]) {
			cut++
		}
		name = name[cut:]
	}
	if name == "" || name == "/" {
		return fallbackName
	}
	return name
}

// stamper issues strictly increasing millisecond stamps so stored names
// never collide within a process, even for identical filenames uploaded
// in the same millisecond.
type stamper struct {
	last atomic.Int64
}

func (s *stamper) next() int64 {
	for {
		prev := s.last.Load()
		now := time.Now().UnixMilli()
		if now <= prev {
			now = prev + 1
		}
		if s.last.CompareAndSwap(prev, now) {
			return now
		}
	}
}
