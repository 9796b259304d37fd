package bbcode

import (
	"regexp"
	"strconv"
	"strings"
)

// Literal regions are resolved before any rule runs: their contents must be
// displayed verbatim, never interpreted as nested markup. Each region is
// rendered immediately and parked behind a reserved placeholder token; the
// placeholder is opaque to every rule and to the post-processor's newline
// conversion, and is swapped back for the rendered HTML as the very last
// pipeline step.

const codeBlockOpen = `<pre style="font-family:monospace;background-color:#f5f5f5;` +
	`border:1px solid #ddd;border-radius:3px;padding:6px;overflow-x:auto">`

const preBlockOpen = `<pre style="white-space:pre">`

var (
	codeRegionRe = regexp.MustCompile(`(?is)\[code\](.*?)\[/code\]`)
	preRegionRe  = regexp.MustCompile(`(?is)\[pre\](.*?)\[/pre\]`)
)

// extractLiterals replaces every [code] and [pre] region with a placeholder
// token and returns the rendered HTML for each region, in placeholder index
// order. Input arrives already escaped; region contents are not escaped
// again. Outer whitespace is trimmed, interior whitespace kept as authored.
func (e *Engine) extractLiterals(s string) (string, []string) {
	var rendered []string

	park := func(wrapOpen string) func(m []string) string {
		return func(m []string) string {
			body := strings.TrimSpace(m[1])
			rendered = append(rendered, wrapOpen+body+"</pre>")
			return e.litToken(len(rendered) - 1)
		}
	}

	s = replaceAll(codeRegionRe, s, park(codeBlockOpen))
	s = replaceAll(preRegionRe, s, park(preBlockOpen))
	return s, rendered
}

// restoreLiterals swaps placeholder tokens back for their rendered regions.
func (e *Engine) restoreLiterals(s string, rendered []string) string {
	if len(rendered) == 0 {
		return s
	}
	// Restore highest index first: a [pre] region parked after a [code]
	// region may carry the code region's token inside its rendered body.
	for i := len(rendered) - 1; i >= 0; i-- {
		s = strings.Replace(s, e.litToken(i), rendered[i], 1)
	}
	// Any placeholder left over points at a region that was duplicated or
	// mangled by pathological input; strip rather than leak the token.
	return e.litTokenRe.ReplaceAllString(s, "")
}

func (e *Engine) litToken(i int) string {
	return e.litPrefix + strconv.Itoa(i) + "\x00"
}
