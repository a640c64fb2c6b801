// Package quotations extracts the newly written part of an email
// message body, stripping quoted replies, forwarded-message headers
// and trailing quotation blocks.
//
// Each line of the body is classified into a five-symbol marker
// alphabet, and an ordered set of heuristics over the resulting marker
// sequence decides which contiguous line range, if any, is quoted
// material. The heuristics deliberately err on the side of keeping
// text: when the evidence is ambiguous (a lone '>' line, an inline
// reply between quoted passages) the body comes back unmodified.
package quotations

import (
	"regexp"
	"strings"
)

var lineBreakRegexp = regexp.MustCompile(`\r?\n`)

// Extract returns the new content of msgBody. contentType selects the
// handling: "text/plain" bodies (the default, used when contentType is
// empty) are stripped of quotations, anything else is returned
// unmodified.
func Extract(msgBody, contentType string) string {
	return defaultExtractor.Extract(msgBody, contentType)
}

// ExtractFromPlain strips quotations from a plain-text body using the
// default pattern catalog.
func ExtractFromPlain(msgBody string) string {
	return defaultExtractor.ExtractFromPlain(msgBody)
}

// ExtractFromHTML returns HTML bodies unmodified. It exists so the
// content-type dispatch has an explicit seam for an HTML pipeline.
func ExtractFromHTML(msgBody string) string {
	return defaultExtractor.ExtractFromHTML(msgBody)
}

var defaultExtractor = &Extractor{catalog: defaultCatalog}

// Extractor strips quotations using a specific pattern catalog.
// Extractors hold no per-message state and are safe for concurrent
// use.
type Extractor struct {
	catalog *Catalog
}

// New returns an Extractor that recognizes the patterns of catalog.
func New(catalog *Catalog) *Extractor {
	return &Extractor{catalog: catalog}
}

// Extract dispatches on contentType the way the package-level Extract
// does.
func (e *Extractor) Extract(msgBody, contentType string) string {
	switch contentType {
	case "", "text/plain":
		return e.ExtractFromPlain(msgBody)
	}
	return e.ExtractFromHTML(msgBody)
}

// ExtractFromHTML returns msgBody unmodified.
func (e *Extractor) ExtractFromHTML(msgBody string) string {
	return msgBody
}

// ExtractFromPlain strips quotations from a plain-text body.
func (e *Extractor) ExtractFromPlain(msgBody string) string {
	delimiter := detectDelimiter(msgBody)
	msgBody = e.preprocess(msgBody, delimiter)

	lines := lineBreakRegexp.Split(msgBody, -1)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	markers := e.catalog.markLines(lines)
	lines, _ = e.catalog.processMarkedLines(lines, markers)

	return e.postprocess(strings.Join(lines, delimiter))
}

// detectDelimiter returns the line delimiter msgBody uses, "\n" when
// the body has no line breaks.
func detectDelimiter(msgBody string) string {
	if d := lineBreakRegexp.FindString(msgBody); d != "" {
		return d
	}
	return "\n"
}

// preprocess rewrites the body so the line classifier cannot be
// fooled: bracketed links are wrapped in inert sentinels (the closing
// '>' of a link wrapped onto a new line would otherwise read as a
// quote prefix), and an "On <date>, <person> wrote:" phrase that
// follows other text on its line is pushed onto a line of its own.
// Only plain-text bodies reach this point.
func (e *Extractor) preprocess(msgBody, delimiter string) string {
	msgBody = e.wrapLinks(msgBody)
	return e.breakInlineSplitter(msgBody, delimiter)
}

// wrapLinks replaces each <http://...> occurrence with the sentinel
// form @@http://...@@, except when the link's line already starts with
// a quote prefix, which keeps legitimately quoted links intact.
func (e *Extractor) wrapLinks(msgBody string) string {
	matches := e.catalog.link.FindAllStringSubmatchIndex(msgBody, -1)
	if matches == nil {
		return msgBody
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		lineStart := strings.LastIndex(msgBody[:m[0]], "\n") + 1
		if msgBody[lineStart] == '>' {
			continue
		}
		b.WriteString(msgBody[last:m[0]])
		b.WriteString("@@")
		b.WriteString(msgBody[m[2]:m[3]])
		b.WriteString("@@")
		last = m[1]
	}
	b.WriteString(msgBody[last:])
	return b.String()
}

// breakInlineSplitter inserts the delimiter before every splitter
// phrase that is preceded by other text on the same line, so the
// phrase becomes classifiable as its own line. Phrases that already
// start a line are left alone.
func (e *Extractor) breakInlineSplitter(msgBody, delimiter string) string {
	matches := e.catalog.inlineSplitter.FindAllStringIndex(msgBody, -1)
	if matches == nil {
		return msgBody
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		if m[0] == 0 || msgBody[m[0]-1] == '\n' {
			continue
		}
		b.WriteString(msgBody[last:m[0]])
		b.WriteString(delimiter)
		last = m[0]
	}
	b.WriteString(msgBody[last:])
	return b.String()
}

// postprocess restores sentinel-wrapped links to their bracketed form
// and trims surrounding whitespace.
func (e *Extractor) postprocess(msgBody string) string {
	msgBody = e.catalog.normalizedLink.ReplaceAllString(msgBody, "<$1>")
	return strings.TrimSpace(msgBody)
}
