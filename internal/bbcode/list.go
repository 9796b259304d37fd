package bbcode

import (
	"regexp"
	"strings"
)

// List constructs resolve in two phases because [*] markers have no close
// tag: the next marker or the list's end bounds each item. Phase 1 (the
// list rules) swaps every marker inside a captured list body for the
// reserved sentinel token and emits the list wrapper. Phase 2 (the item
// resolver, the very next table entry) wraps each sentinel-delimited span
// as an item, recursively transforming the span's content. Whatever
// sentinels survive pathological input are stripped by the Transform
// safety net, so none can reach the caller.

var itemMarkerRe = regexp.MustCompile(`\[\*\]`)

// renderList returns the phase-1 transform for one list flavor.
func (e *Engine) renderList(open, close string) func(m []string) string {
	return func(m []string) string {
		return open + e.markItems(m[1]) + close
	}
}

// markItems converts item markers to sentinels and normalizes the result:
// runs of consecutive sentinels (blank marker-only lines) collapse to a
// single boundary, and a trailing sentinel (which would open an empty last
// item) is dropped.
func (e *Engine) markItems(body string) string {
	s := itemMarkerRe.ReplaceAllString(body, e.sentinel)
	s = e.sentinelRunRe.ReplaceAllString(s, e.sentinel)
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, e.sentinel)
	return strings.TrimSpace(s)
}

// resolveItemSpans is the phase-2 sweep. It owns its own scan loop instead
// of a plain substitution: the terminator of one span (the next sentinel or
// the list's close tag) is also the start of the next span, so scanning
// resumes at the terminator rather than after it. One sweep therefore
// resolves every item of a list regardless of length.
func (e *Engine) resolveItemSpans(s string) string {
	if !strings.Contains(s, e.sentinel) {
		return s
	}

	var b strings.Builder
	pos := 0
	for {
		idx := e.itemRe.FindStringSubmatchIndex(s[pos:])
		if idx == nil {
			break
		}
		b.WriteString(s[pos : pos+idx[0]])
		span := s[pos+idx[2] : pos+idx[3]]
		b.WriteString("<li>" + e.render(strings.TrimSpace(span)) + "</li>")
		// Resume at the terminator: a sentinel there starts the next item,
		// a close tag is copied through by the tail write.
		pos += idx[4]
	}
	b.WriteString(s[pos:])
	return b.String()
}
