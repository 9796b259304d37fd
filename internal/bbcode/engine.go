package bbcode

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Version identifies the transform semantics. Bump when output for any
// input changes, so cached renders can be invalidated.
const Version = "1.0.0"

// DefaultMaxPasses is the default convergence pass ceiling. Chosen to
// exceed any realistic nesting depth while bounding worst-case cost.
const DefaultMaxPasses = 15

const defaultImagePlaceholder = "[invalid image]"

const defaultMentionStyle = "color:#2a6496;font-weight:600"

// Engine transforms BBCode markup to HTML. Construct with New; the zero
// value is not usable. An Engine holds only compiled patterns and
// configuration, so a single instance may be shared across goroutines.
type Engine struct {
	maxPasses        int
	imagePlaceholder string
	mentionStyle     string

	// Reserved token namespace. NUL-delimited and salted with a per-engine
	// UUID; normalize strips NUL from input, so collisions are impossible.
	sentinel  string
	litPrefix string

	rules         []rule
	itemRe        *regexp.Regexp
	sentinelRunRe *regexp.Regexp
	litTokenRe    *regexp.Regexp
	brBeforeLitRe *regexp.Regexp
	brAfterLitRe  *regexp.Regexp
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithMaxPasses sets the convergence pass ceiling. Values below 1 are
// ignored. Use a small ceiling only in tests; shallow ceilings leave deeply
// nested markup partially resolved (by design, never an error).
func WithMaxPasses(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxPasses = n
		}
	}
}

// WithImagePlaceholder sets the literal text emitted in place of an [img]
// tag whose source is empty or a bare scheme.
func WithImagePlaceholder(s string) Option {
	return func(e *Engine) {
		e.imagePlaceholder = s
	}
}

// WithMentionStyle sets the inline style declaration applied to @mention
// spans by the post-processor.
func WithMentionStyle(s string) Option {
	return func(e *Engine) {
		e.mentionStyle = s
	}
}

// New creates an Engine with the given options applied over defaults.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxPasses:        DefaultMaxPasses,
		imagePlaceholder: defaultImagePlaceholder,
		mentionStyle:     defaultMentionStyle,
	}
	for _, opt := range opts {
		opt(e)
	}

	id := uuid.NewString()
	e.sentinel = "\x00" + id + ";item\x00"
	e.litPrefix = "\x00" + id + ";lit:"

	e.compile()
	return e
}

// compile builds the rule table and the sentinel-dependent patterns.
// Called once from New; the Engine is immutable afterwards.
func (e *Engine) compile() {
	qs := regexp.QuoteMeta(e.sentinel)
	e.itemRe = regexp.MustCompile(qs + `([\s\S]*?)(` + qs + `|</ul>|</ol>)`)
	e.sentinelRunRe = regexp.MustCompile(`(?:` + qs + `\s*){2,}`)

	lit := regexp.QuoteMeta(e.litPrefix) + `\d+` + regexp.QuoteMeta("\x00")
	e.litTokenRe = regexp.MustCompile(lit)
	e.brBeforeLitRe = regexp.MustCompile(`<br>(` + lit + `)`)
	e.brAfterLitRe = regexp.MustCompile(`(` + lit + `)<br>`)

	e.rules = e.buildRules()
}

var defaultEngine = New()

// Transform converts BBCode markup to HTML using a shared default Engine.
func Transform(input string) string {
	return defaultEngine.Transform(input)
}

// Transform converts BBCode markup to HTML.
//
// The contract is total: any string in, exactly one string out, no error
// path. Unmatched tags survive as literal escaped text; out-of-range
// parameters are clamped; invalid media sources become a placeholder.
// The output trusts this engine's escaping and must not be re-sanitized.
func (e *Engine) Transform(input string) string {
	s := normalize(input)
	s = escapeHTML(s)

	s, literals := e.extractLiterals(s)
	s = e.converge(s)

	// Safety net: no sentinel may ever reach the caller.
	s = strings.ReplaceAll(s, e.sentinel, "")

	s = e.linkMentions(s)
	s = e.convertLineBreaks(s)
	return e.restoreLiterals(s, literals)
}

// render re-enters the rule pipeline on nested content. The input here is
// already escaped and already had its literal regions parked, so only rule
// application is repeated.
func (e *Engine) render(s string) string {
	return e.converge(s)
}

// converge applies the full rule table until a fixed point or the pass
// ceiling. Reaching the ceiling is not an error; the best-effort string is
// returned as-is.
func (e *Engine) converge(s string) string {
	for pass := 0; pass < e.maxPasses; pass++ {
		next := e.applyRules(s)
		if next == s {
			return s
		}
		s = next
	}
	return s
}

// applyRules runs one convergence pass: every rule, in declaration order.
func (e *Engine) applyRules(s string) string {
	for _, r := range e.rules {
		if r.apply != nil {
			s = r.apply(s)
			continue
		}
		s = replaceAll(r.pattern, s, r.transform)
	}
	return s
}

// replaceAll substitutes every match of re in s with fn(groups), where
// groups[0] is the whole match. Unlike ReplaceAllStringFunc it hands the
// callback submatches, and replaced text is never rescanned.
func replaceAll(re *regexp.Regexp, s string, fn func(m []string) string) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}
	var b strings.Builder
	last := 0
	for _, idx := range matches {
		b.WriteString(s[last:idx[0]])
		groups := make([]string, len(idx)/2)
		for i := range groups {
			if idx[2*i] >= 0 {
				groups[i] = s[idx[2*i]:idx[2*i+1]]
			}
		}
		b.WriteString(fn(groups))
		last = idx[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
