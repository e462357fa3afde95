package jsondelta

import (
	"strconv"
	"strings"
)

// pathBuf accumulates the current JSON Pointer during one recursive
// descent. Every format and patch call owns its own instance; nothing
// in the package retains one across calls, which is what makes a
// single formatter value safe to share between goroutines.
type pathBuf struct {
	segs []string
}

func (p *pathBuf) pushKey(k string) {
	p.segs = append(p.segs, escapePointerSegment(k))
}

func (p *pathBuf) pushIndex(i int) {
	p.segs = append(p.segs, strconv.Itoa(i))
}

func (p *pathBuf) pop() {
	p.segs = p.segs[:len(p.segs)-1]
}

// String renders the pointer on demand. The root is the empty string,
// per RFC 6901.
func (p *pathBuf) String() string {
	if len(p.segs) == 0 {
		return ""
	}
	return "/" + strings.Join(p.segs, "/")
}

// escapePointerSegment applies RFC 6901 escaping. The "~" replacement
// must run before the "/" one.
func escapePointerSegment(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}
