// Package sanitize reduces untrusted text to plain, displayable task text.
//
// The pipeline is an ordered, best-effort rule list rather than a full
// HTML parser; the rule list itself is the contract. Later steps assume
// earlier ones ran (escaping before tag stripping would defeat tag
// removal), and the whole pipeline is idempotent: sanitizing sanitized
// text yields the same text.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// Dangerous block elements are removed together with their content.
	blockRe = regexp.MustCompile(`(?is)<(?:script|style|iframe|object|embed)\b[^>]*>.*?</\s*(?:script|style|iframe|object|embed)\s*>`)

	// Self-closing dangerous tags.
	voidRe = regexp.MustCompile(`(?i)<(?:link|meta)\b[^>]*>`)

	// Inline event-handler attributes and dangerous URI schemes.
	eventRe  = regexp.MustCompile(`(?i)\bon\w+\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]+)`)
	schemeRe = regexp.MustCompile(`(?i)(?:javascript|data|vbscript)\s*:`)

	// Any remaining angle-bracket token; stripped only when the tag name
	// is a recognized HTML element, so stray text like "<c>" survives to
	// be escaped instead of silently vanishing.
	tagRe = regexp.MustCompile(`(?i)</?([a-zA-Z][a-zA-Z0-9]*)\b[^>]*>`)

	// Escaping "&" first double-escapes entities produced by a previous
	// run; folding them back keeps the pipeline idempotent.
	doubleEntityRe = regexp.MustCompile(`&amp;(amp|lt|gt|quot|#39);`)

	spaceRe = regexp.MustCompile(`\s+`)
)

// htmlTags lists the element names step 5 strips. Anything else between
// angle brackets is treated as ordinary text.
var htmlTags = map[string]struct{}{}

func init() {
	names := []string{
		"a", "abbr", "area", "article", "aside", "audio", "b", "base",
		"big", "blockquote", "body", "br", "button", "canvas", "caption",
		"center", "code", "col", "colgroup", "dd", "del", "details",
		"div", "dl", "dt", "em", "embed", "fieldset", "figcaption",
		"figure", "font", "footer", "form", "h1", "h2", "h3", "h4", "h5",
		"h6", "head", "header", "hr", "html", "i", "iframe", "img",
		"input", "ins", "label", "legend", "li", "link", "main", "mark",
		"marquee", "meta", "nav", "noscript", "object", "ol", "optgroup",
		"option", "p", "param", "pre", "progress", "q", "s", "script",
		"section", "select", "small", "source", "span", "strike",
		"strong", "style", "sub", "summary", "sup", "svg", "table",
		"tbody", "td", "textarea", "tfoot", "th", "thead", "title", "tr",
		"tt", "u", "ul", "var", "video", "wbr",
	}
	for _, n := range names {
		htmlTags[n] = struct{}{}
	}
}

// Text sanitizes raw input. The pipeline reruns until the output is
// stable: stripping one token can splice the surrounding text into a
// new one ("on<b>click=" -> "onclick="), and a single pass would hand
// that to whoever reads the result. Each rerun only ever removes, so
// the loop terminates.
func Text(s string) string {
	out := pass(s)
	for out != s {
		s = out
		out = pass(s)
	}
	return out
}

// pass runs the eight pipeline steps once. The step order must not
// change; see the package comment.
func pass(s string) string {
	// 0. drop non-printable control characters before any pattern
	// matching: removing one later could splice a dangerous token
	// ("on\x7fclick=" -> "onclick=") that only a second pass would
	// catch. Whitespace controls stay for step 7 to collapse.
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\v', '\f', '\r':
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)

	// 1. trim
	s = strings.TrimSpace(s)

	// 2. dangerous blocks, content included
	s = blockRe.ReplaceAllString(s, "")

	// 3. self-closing dangerous tags
	s = voidRe.ReplaceAllString(s, "")

	// 4. event handlers and dangerous schemes
	s = eventRe.ReplaceAllString(s, "")
	s = schemeRe.ReplaceAllString(s, "")

	// 5. remaining markup tags, text content kept
	s = tagRe.ReplaceAllStringFunc(s, func(tag string) string {
		m := tagRe.FindStringSubmatch(tag)
		if m == nil {
			return tag
		}
		if _, known := htmlTags[strings.ToLower(m[1])]; known {
			return ""
		}
		return tag
	})

	// 6. escape the five specials; "&" first, then fold double escapes
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = doubleEntityRe.ReplaceAllString(s, "&$1;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "'", "&#39;")

	// 7. collapse whitespace runs
	s = strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))

	// 8. drop any remaining non-printable control characters (step 0
	// already removed the non-whitespace ones and step 7 collapsed the
	// rest, so this is a backstop); renormalize spacing afterwards
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
