package quotations

import "strings"

const (
	// maxLines caps how many lines of a message are classified and
	// examined; anything beyond it is dropped before detection.
	maxLines = 1000
	// splitterMaxLines caps how many consecutive lines a single
	// splitter template may span.
	splitterMaxLines = 4
)

// markLines assigns one marker per line in a single forward pass.
// When a splitter template matches, every line it covers is marked
// Splitter and the scan skips past them so they are not reclassified.
// Classification never fails: an unrecognized line is Text.
func (c *Catalog) markLines(lines []string) string {
	markers := make([]byte, len(lines))
	for i := 0; i < len(lines); i++ {
		switch {
		case strings.TrimSpace(lines[i]) == "":
			markers[i] = byte(MarkerEmpty)
		case matchAt(c.quotePrefix, lines[i]):
			markers[i] = byte(MarkerQuote)
		case matchAt(c.forwardHeader, lines[i]):
			markers[i] = byte(MarkerForward)
		default:
			if n := c.splitterLines(lines[i:]); n > 0 {
				for j := 0; j < n; j++ {
					markers[i+j] = byte(MarkerSplitter)
				}
				i += n - 1
			} else {
				markers[i] = byte(MarkerText)
			}
		}
	}
	return string(markers)
}

// splitterLines matches the splitter templates against a window of up
// to splitterMaxLines lines and returns how many leading lines of tail
// the first matching template consumes, or 0 when none match.
// Templates are tried in catalog order.
func (c *Catalog) splitterLines(tail []string) int {
	if len(tail) > splitterMaxLines {
		tail = tail[:splitterMaxLines]
	}
	window := strings.Join(tail, "\n")
	for _, re := range c.splitters {
		loc := re.FindStringIndex(window)
		if loc == nil || loc[0] != 0 {
			continue
		}
		return strings.Count(window[:loc[1]], "\n") + 1
	}
	return 0
}
