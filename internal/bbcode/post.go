package bbcode

import (
	"regexp"
	"strings"
)

// The post-processor runs exactly once, after structural convergence:
// mention linking first (newlines still count as word boundaries), then
// newline-to-<br> conversion with block-aware suppression.

// mentionRe matches a bare @name at a word boundary. The name class and
// length bound are fixed; longer or odd names simply stay plain text.
var mentionRe = regexp.MustCompile(`(^|[\s.,;:!?()])@([A-Za-z0-9_]{2,30})\b`)

// linkMentions wraps @name tokens in a styled span. The walk skips over
// element tags (so attribute values are never touched) and over anchor
// contents (a URL path fragment like /@name must not become a mention).
func (e *Engine) linkMentions(s string) string {
	if !strings.Contains(s, "@") {
		return s
	}

	repl := `$1<span class="mention" style="` + e.mentionStyle + `">@$2</span>`

	var b strings.Builder
	anchorDepth := 0
	i := 0
	for i < len(s) {
		if s[i] == '<' {
			j := strings.IndexByte(s[i:], '>')
			if j < 0 {
				b.WriteString(s[i:])
				break
			}
			tag := s[i : i+j+1]
			lower := strings.ToLower(tag)
			switch {
			case strings.HasPrefix(lower, "<a ") || lower == "<a>":
				anchorDepth++
			case lower == "</a>":
				if anchorDepth > 0 {
					anchorDepth--
				}
			}
			b.WriteString(tag)
			i += j + 1
			continue
		}

		j := strings.IndexByte(s[i:], '<')
		var seg string
		if j < 0 {
			seg = s[i:]
			i = len(s)
		} else {
			seg = s[i : i+j]
			i += j
		}
		if anchorDepth == 0 {
			seg = mentionRe.ReplaceAllString(seg, repl)
		}
		b.WriteString(seg)
	}
	return b.String()
}

// blockNames is exactly the set of block-level elements this engine emits;
// the suppression passes below must stay in sync with the rule table.
const blockNames = `pre|div|ul|ol|li|blockquote|table|tr|td|hr`

var (
	brBeforeBlockRe = regexp.MustCompile(`<br>(<(?:` + blockNames + `)\b[^>]*>)`)
	brAfterBlockRe  = regexp.MustCompile(`(</(?:` + blockNames + `)>|<hr>)<br>`)

	// One pattern per element: a break that is the sole content of a block
	// pair collapses, and RE2 has no backreferences to do this generically.
	emptyBlockBrRes = func() []*regexp.Regexp {
		names := []string{"pre", "div", "ul", "ol", "li", "blockquote", "table", "tr", "td"}
		res := make([]*regexp.Regexp, len(names))
		for i, n := range names {
			res[i] = regexp.MustCompile(`(<` + n + `\b[^>]*>)<br>(</` + n + `>)`)
		}
		return res
	}()
)

// convertLineBreaks turns every remaining newline into an explicit <br>,
// then suppresses breaks that are structurally redundant: immediately
// before a block open, immediately after a block close, and a break that is
// a block pair's only content. Parked literal regions count as blocks on
// both sides.
func (e *Engine) convertLineBreaks(s string) string {
	s = strings.ReplaceAll(s, "\n", "<br>")

	for _, re := range emptyBlockBrRes {
		s = re.ReplaceAllString(s, "$1$2")
	}
	s = brBeforeBlockRe.ReplaceAllString(s, "$1")
	s = brAfterBlockRe.ReplaceAllString(s, "$1")
	s = e.brBeforeLitRe.ReplaceAllString(s, "$1")
	s = e.brAfterLitRe.ReplaceAllString(s, "$1")
	return s
}
