package quotations

import (
	"regexp"
	"strings"
)

// cut records what quotation detection removed: a single half-open
// line range [start, end), or nothing. Surviving lines are always the
// prefix before start plus the suffix from end; detection never
// removes two disjoint ranges and never reorders lines.
type cut struct {
	stripped   bool
	start, end int
}

var (
	// three or more quote-marker lines, possibly separated by empties
	quoteRunRegexp = regexp.MustCompile(`(me*){3}`)
	// nothing but text above a forward header
	leadingForwardRegexp = regexp.MustCompile(`^[te]*f`)
	// reply above, splitter(s) leading into an unprefixed quote
	trailingQuoteRegexp = regexp.MustCompile(`(se*)+((t|f)+e*)+`)
)

// processMarkedLines runs the detection heuristics, in order, against
// the marker sequence and returns the surviving lines. The heuristics
// are not independently sound: each one assumes the ones before it did
// not match, so the order is load-bearing.
func (c *Catalog) processMarkedLines(lines []string, markers string) ([]string, cut) {
	// A stray '>' line in an otherwise unquoted message is not
	// evidence of quotation. Without a splitter or a run of three or
	// more quote lines, demote quote markers to plain text.
	if !strings.Contains(markers, string(rune(MarkerSplitter))) && !quoteRunRegexp.MatchString(markers) {
		markers = demoteQuoteMarkers(markers)
	}

	// A forward header with only text above it means the sender
	// forwarded the message on purpose; keep all of it.
	if leadingForwardRegexp.MatchString(markers) {
		return lines, cut{}
	}

	// Text sandwiched between quote lines is an inline reply and must
	// be preserved. A long wrapped link breaks a quote run the same
	// way, so an occurrence explained by a link does not count.
	for _, start := range inlineReplyStarts(markers) {
		if c.parenLink.MatchString(lines[start-1]) ||
			matchAt(c.parenLink, strings.TrimSpace(lines[start])) {
			continue
		}
		return lines, cut{}
	}

	// Reply above, full quote below: once a splitter group leads into
	// unprefixed text, everything from that first splitter to the end
	// of the message is the quote. Cutting to the end keeps the result
	// a fixed point even when several splitter blocks are stacked.
	if loc := trailingQuoteRegexp.FindStringIndex(markers); loc != nil {
		return lines[:loc[0]], cut{stripped: true, start: loc[0], end: len(lines)}
	}

	// Otherwise look for a bounded quotation block and drop only the
	// captured range, keeping any text after it.
	for _, re := range []*regexp.Regexp{c.quotation, c.emptyQuotation} {
		m := re.FindStringSubmatchIndex(markers)
		if m == nil || m[2] < 0 {
			continue
		}
		start, end := m[2], m[3]
		kept := make([]string, 0, len(lines)-(end-start))
		kept = append(kept, lines[:start]...)
		kept = append(kept, lines[end:]...)
		return kept, cut{stripped: true, start: start, end: end}
	}

	return lines, cut{}
}

// inlineReplyStarts finds every position directly after a quote-marker
// line where one or more text runs (empties allowed around them) lead
// to another quote-marker line. Occurrences may overlap: in "mtmtm"
// both text lines are found.
func inlineReplyStarts(markers string) []int {
	var starts []int
	for i := 0; i < len(markers); i++ {
		if markers[i] != byte(MarkerQuote) {
			continue
		}
		j := i + 1
		for j < len(markers) && markers[j] == byte(MarkerEmpty) {
			j++
		}
		runs := 0
		for j < len(markers) && markers[j] == byte(MarkerText) {
			for j < len(markers) && markers[j] == byte(MarkerText) {
				j++
			}
			runs++
			for j < len(markers) && markers[j] == byte(MarkerEmpty) {
				j++
			}
		}
		if runs > 0 && j < len(markers) && markers[j] == byte(MarkerQuote) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func demoteQuoteMarkers(markers string) string {
	b := []byte(markers)
	for i, m := range b {
		if m == byte(MarkerQuote) {
			b[i] = byte(MarkerText)
		}
	}
	return string(b)
}
