package bbcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeRegion_IsolatesMarkup(t *testing.T) {
	out := Transform("[code][b]x[/b][/code]")

	assert.NotContains(t, out, "<strong>", "markup inside code must stay literal")
	assert.Contains(t, out, "[b]x[/b]")
	assert.Contains(t, out, "<pre")
	assert.Contains(t, out, "font-family:monospace")
}

func TestCodeRegion_EscapesContent(t *testing.T) {
	out := Transform("[code]if a < b && c > d {}[/code]")

	assert.Contains(t, out, "a &lt; b &amp;&amp; c &gt; d")
	assert.NotContains(t, out, "< b")
}

func TestCodeRegion_TrimsOuterWhitespace(t *testing.T) {
	out := Transform("[code]\n  x := 1\n[/code]")

	require.Contains(t, out, ">x := 1</pre>")
}

func TestCodeRegion_AdjacentBlocksDoNotMerge(t *testing.T) {
	out := Transform("[code]a[/code]mid[code]b[/code]")

	assert.Equal(t, 2, strings.Count(out, "<pre"), "non-greedy capture must keep blocks separate")
	assert.Contains(t, out, "mid")
	assert.NotContains(t, out, "a[/code]mid[code]b")
}

func TestPreRegion_PreservesInteriorWhitespace(t *testing.T) {
	out := Transform("[pre]  line1\n    line2  [/pre]")

	assert.Contains(t, out, "line1\n    line2")
	assert.Contains(t, out, `<pre style="white-space:pre">`)
}

func TestPreRegion_NoLineBreakElementsInside(t *testing.T) {
	out := Transform("[pre]a\nb[/pre]")

	assert.NotContains(t, out, "<br>", "newlines inside preformatted regions stay literal")
}

func TestLiteralRegion_UnterminatedStaysLiteral(t *testing.T) {
	out := Transform("[code]never closed")

	assert.NotContains(t, out, "<pre")
	assert.Contains(t, out, "[code]never closed")
}

func TestLiteralRegion_NoPlaceholderLeaks(t *testing.T) {
	inputs := []string{
		"[code]x[/code]",
		"[pre]y[/pre]",
		"[quote][code]z[/code][/quote]",
		"plain",
	}
	for _, in := range inputs {
		assert.NotContains(t, Transform(in), "\x00", "input %q leaked a reserved token", in)
	}
}

func TestLiteralRegion_SuppressesAdjacentBreaks(t *testing.T) {
	out := Transform("before\n[code]x[/code]\nafter")

	assert.NotContains(t, out, "<br><pre")
	assert.NotContains(t, out, "</pre><br>")
	assert.Contains(t, out, "before")
	assert.Contains(t, out, "after")
}
