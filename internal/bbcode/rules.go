package bbcode

import (
	"regexp"
	"strconv"
	"strings"
)

// rule is one entry of the ordered tag-transform table. pattern recognizes
// a complete tag occurrence; transform maps the captured match to output,
// re-entering the pipeline on bodies that may hold nested markup. A rule
// with a custom apply func owns its whole substitution sweep (the list-item
// resolver needs that to chain adjacent sentinel spans).
type rule struct {
	name      string
	pattern   *regexp.Regexp
	transform func(m []string) string
	apply     func(s string) string
}

// Paired-tag bodies are captured non-greedily to the nearest close tag of
// the same kind. Same-name nesting therefore mis-pairs when sibling blocks
// are adjacent; that approximation is accepted, matching tags do not nest
// as a capture hazard in practice. A tag whose close counterpart never
// appears simply does not match and survives as literal text.
var (
	spoilerRe = regexp.MustCompile(`(?is)\[spoiler(?:=([^\]]*))?\](.*?)\[/spoiler\]`)
	imgRe     = regexp.MustCompile(`(?is)\[img([^\]]*)\](.*?)\[/img\]`)
	urlArgRe  = regexp.MustCompile(`(?is)\[url=([^\]]+?)\](.*?)\[/url\]`)
	urlBareRe = regexp.MustCompile(`(?is)\[url\](.*?)\[/url\]`)
	ytRe      = regexp.MustCompile(`(?i)\[yt\]\s*([A-Za-z0-9_-]{11})\s*\[/yt\]`)
	listRe    = regexp.MustCompile(`(?is)\[list\](.*?)\[/list\]`)
	olistRe   = regexp.MustCompile(`(?is)\[olist\](.*?)\[/olist\]`)
	quoteArgRe = regexp.MustCompile(
		`(?is)\[quote=(?:&quot;([^\]]*?)&quot;|([^\]]*?))(?:;(\d+))?\](.*?)\[/quote\]`)
	quoteRe   = regexp.MustCompile(`(?is)\[quote\](.*?)\[/quote\]`)
	tableRe   = regexp.MustCompile(`(?is)\[table\](.*?)\[/table\]`)
	rowRe     = regexp.MustCompile(`(?is)\[tr\](.*?)\[/tr\]`)
	cellRe    = regexp.MustCompile(`(?is)\[td\](.*?)\[/td\]`)
	sizeRe    = regexp.MustCompile(`(?is)\[size=(\d+)\](.*?)\[/size\]`)
	colorRe   = regexp.MustCompile(`(?is)\[color=([^\]]+?)\](.*?)\[/color\]`)
	fontRe    = regexp.MustCompile(`(?is)\[font=([^\]]+?)\](.*?)\[/font\]`)
	hrRe      = regexp.MustCompile(`(?i)\[hr\]`)
)

// simpleWraps are paired tags that map straight to an element or styled
// span with no parameters.
var simpleWraps = []struct {
	tag, open, close string
}{
	{"b", "<strong>", "</strong>"},
	{"i", "<em>", "</em>"},
	{"u", `<span style="text-decoration:underline">`, "</span>"},
	{"s", "<s>", "</s>"},
	{"sub", "<sub>", "</sub>"},
	{"sup", "<sup>", "</sup>"},
}

var alignWraps = []string{"center", "right", "justify"}

// buildRules assembles the table in declaration order. Order matters where
// one rule produces tokens a later rule consumes: the list rules emit item
// sentinels, the item resolver right after them wraps the spans.
func (e *Engine) buildRules() []rule {
	rules := []rule{
		{name: "spoiler", pattern: spoilerRe, transform: e.renderSpoiler},
		{name: "img", pattern: imgRe, transform: e.renderImage},
		{name: "url", pattern: urlArgRe, transform: e.renderLink},
		{name: "url-bare", pattern: urlBareRe, transform: e.renderBareLink},
		{name: "yt", pattern: ytRe, transform: renderVideo},
		{name: "list", pattern: listRe, transform: e.renderList("<ul>", "</ul>")},
		{name: "olist", pattern: olistRe, transform: e.renderList("<ol>", "</ol>")},
		{name: "list-item", apply: e.resolveItemSpans},
		{name: "quote-author", pattern: quoteArgRe, transform: e.renderAttributedQuote},
		{name: "quote", pattern: quoteRe, transform: e.wrap("<blockquote>", "</blockquote>")},
		{name: "table", pattern: tableRe, transform: e.wrap("<table>", "</table>")},
		{name: "tr", pattern: rowRe, transform: e.wrap("<tr>", "</tr>")},
		{name: "td", pattern: cellRe, transform: e.wrap("<td>", "</td>")},
	}

	for _, w := range simpleWraps {
		re := regexp.MustCompile(`(?is)\[` + w.tag + `\](.*?)\[/` + w.tag + `\]`)
		rules = append(rules, rule{name: w.tag, pattern: re, transform: e.wrap(w.open, w.close)})
	}

	rules = append(rules,
		rule{name: "size", pattern: sizeRe, transform: e.renderSize},
		rule{name: "color", pattern: colorRe, transform: e.renderColor},
		rule{name: "font", pattern: fontRe, transform: e.renderFont},
	)

	for _, a := range alignWraps {
		re := regexp.MustCompile(`(?is)\[` + a + `\](.*?)\[/` + a + `\]`)
		open := `<div style="text-align:` + a + `">`
		rules = append(rules, rule{name: a, pattern: re, transform: e.wrap(open, "</div>")})
	}

	rules = append(rules, rule{
		name:      "hr",
		pattern:   hrRe,
		transform: func([]string) string { return "<hr>" },
	})

	return rules
}

// wrap returns a transform embedding the recursively parsed body between
// fixed open/close markup.
func (e *Engine) wrap(open, close string) func(m []string) string {
	return func(m []string) string {
		return open + e.render(m[1]) + close
	}
}

func (e *Engine) renderSpoiler(m []string) string {
	title := strings.TrimSpace(m[1])
	if title == "" {
		title = "Spoiler"
	}
	return `<div class="spoiler"><button type="button" class="spoiler-toggle">` + title +
		`</button><div class="spoiler-body" hidden>` + e.render(m[2]) + `</div></div>`
}

var (
	dimShortRe   = regexp.MustCompile(`^=(\d+)x(\d+)$`)
	imgParamRe   = regexp.MustCompile(`(\w+)\s*=\s*(&quot;.*?&quot;|[^\s\]]+)`)
	digitsRe     = regexp.MustCompile(`^\d+$`)
	bareSchemeRe = regexp.MustCompile(`(?i)^[a-z][a-z0-9+.-]*:(?://)?$`)
)

// renderImage validates the source and builds an inline style from the
// dimension and alignment parameters. Accepts the combined =WxH short form
// or key=value parameters (width, height, align, alt, title; values may be
// quoted). An empty or bare-scheme source yields the fixed placeholder
// text instead of an element.
func (e *Engine) renderImage(m []string) string {
	src := strings.TrimSpace(m[2])
	if src == "" || bareSchemeRe.MatchString(src) {
		return e.imagePlaceholder
	}

	var styles []string
	var alt, title string

	params := strings.TrimSpace(m[1])
	if d := dimShortRe.FindStringSubmatch(params); d != nil {
		styles = append(styles, "width:"+d[1]+"px", "height:"+d[2]+"px")
	} else {
		for _, kv := range imgParamRe.FindAllStringSubmatch(params, -1) {
			val := strings.TrimSuffix(strings.TrimPrefix(kv[2], "&quot;"), "&quot;")
			switch strings.ToLower(kv[1]) {
			case "width":
				if digitsRe.MatchString(val) {
					styles = append(styles, "width:"+val+"px")
				}
			case "height":
				if digitsRe.MatchString(val) {
					styles = append(styles, "height:"+val+"px")
				}
			case "align":
				if val == "left" || val == "right" {
					styles = append(styles, "float:"+val)
				}
			case "alt":
				alt = val
			case "title":
				title = val
			}
		}
	}

	var b strings.Builder
	b.WriteString(`<img src="` + src + `" alt="` + alt + `"`)
	if title != "" {
		b.WriteString(` title="` + title + `"`)
	}
	if len(styles) > 0 {
		b.WriteString(` style="` + strings.Join(styles, ";") + `"`)
	}
	b.WriteString(">")
	return b.String()
}

var knownSchemeRe = regexp.MustCompile(`(?i)^(?:https?|ftp|mailto):`)

// resolveTarget prepends a default http:// scheme unless the target already
// carries a recognized scheme or starts with a path, fragment, or relative
// marker. Targets land in an attribute and are never re-parsed as markup.
func resolveTarget(t string) string {
	t = strings.TrimSpace(t)
	if knownSchemeRe.MatchString(t) ||
		strings.HasPrefix(t, "/") ||
		strings.HasPrefix(t, "#") ||
		strings.HasPrefix(t, ".") {
		return t
	}
	return "http://" + t
}

func (e *Engine) renderLink(m []string) string {
	return `<a href="` + resolveTarget(m[1]) + `" rel="nofollow">` + e.render(m[2]) + `</a>`
}

// renderBareLink handles [url]target[/url]: the link text equals the body.
func (e *Engine) renderBareLink(m []string) string {
	target := strings.TrimSpace(m[1])
	return `<a href="` + resolveTarget(target) + `" rel="nofollow">` + target + `</a>`
}

// renderVideo emits a fixed-aspect embedded player. The pattern already
// rejects anything but an 11-character video id, so ids that do not match
// simply stay literal text.
func renderVideo(m []string) string {
	return `<div class="video-embed" style="position:relative;padding-bottom:56.25%;height:0">` +
		`<iframe src="https://www.youtube.com/embed/` + m[1] + `" ` +
		`style="position:absolute;top:0;left:0;width:100%;height:100%;border:0" ` +
		`allowfullscreen></iframe></div>`
}

func (e *Engine) renderAttributedQuote(m []string) string {
	author := m[1]
	if author == "" {
		author = m[2]
	}
	author = strings.TrimSpace(author)

	var b strings.Builder
	b.WriteString("<blockquote>")
	if author != "" {
		b.WriteString(`<div class="quote-author"`)
		if m[3] != "" {
			b.WriteString(` data-post="` + m[3] + `"`)
		}
		b.WriteString(">" + author + " wrote:</div>")
	}
	b.WriteString(e.render(m[4]))
	b.WriteString("</blockquote>")
	return b.String()
}

const (
	minSizePercent = 50
	maxSizePercent = 300
)

// renderSize clamps the percentage to [50,300]; out-of-range values are
// silently clamped, not rejected.
func (e *Engine) renderSize(m []string) string {
	pct, err := strconv.Atoi(m[1])
	if err != nil {
		// \d+ overflowing int; treat as above range.
		pct = maxSizePercent
	}
	if pct < minSizePercent {
		pct = minSizePercent
	}
	if pct > maxSizePercent {
		pct = maxSizePercent
	}
	return `<span style="font-size:` + strconv.Itoa(pct) + `%">` + e.render(m[2]) + "</span>"
}

// renderColor passes the token through uninterpreted. It is already
// attribute-escaped; an invalid CSS value is the renderer's concern.
func (e *Engine) renderColor(m []string) string {
	token := strings.TrimSpace(m[1])
	return `<span style="color:` + token + `">` + e.render(m[2]) + "</span>"
}

var quoteEntityReplacer = strings.NewReplacer("&quot;", "", "&#39;", "")

// renderFont neutralizes embedded quote characters before the family list
// lands in an inline style.
func (e *Engine) renderFont(m []string) string {
	family := strings.TrimSpace(quoteEntityReplacer.Replace(m[1]))
	return `<span style="font-family:` + family + `">` + e.render(m[2]) + "</span>"
}
