package bbcode

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// htmlEscaper rewrites the five HTML-significant characters to character
// references. A single Replacer pass cannot double-escape: replaced text is
// never rescanned.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// controlCharRe matches C0 control characters except \t and \n, plus DEL.
// Stripping these also guarantees the NUL-delimited reserved tokens used by
// the list resolver and literal extractor cannot collide with input.
var controlCharRe = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")

// normalize canonicalizes input before any rule sees it: NFC so that
// combining sequences compare stably, newlines unified to \n, and control
// characters dropped.
func normalize(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return controlCharRe.ReplaceAllString(s, "")
}

// escapeHTML escapes user-sourced text for embedding as markup text or
// attribute values. Applied exactly once, at pipeline entry; recursive rule
// invocations operate on already-escaped text and must not call this again.
func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
