package quotations

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Marker classifies a single line of a message body. Markers are
// assigned by priority: an empty line is always Empty, a non-empty
// line starting with a quote prefix is always Quote, and so on down to
// Text, the catch-all. A marker is a single byte so that the marker
// sequence of a whole message is an ordinary string and quotation
// detection can be expressed as pattern matches over it.
type Marker byte

const (
	MarkerEmpty    Marker = 'e'
	MarkerQuote    Marker = 'm'
	MarkerForward  Marker = 'f'
	MarkerSplitter Marker = 's'
	MarkerText     Marker = 't'
)

// catalogFile mirrors the YAML catalog document.
type catalogFile struct {
	QuotePrefix       string `yaml:"quote_prefix"`
	ForwardHeader     string `yaml:"forward_header"`
	Link              string `yaml:"link"`
	NormalizedLink    string `yaml:"normalized_link"`
	ParentheticalLink string `yaml:"parenthetical_link"`
	Splitters         []struct {
		Name    string `yaml:"name"`
		Pattern string `yaml:"pattern"`
	} `yaml:"splitters"`
	InlineSplitter string `yaml:"inline_splitter"`
	Quotation      string `yaml:"quotation"`
	EmptyQuotation string `yaml:"empty_quotation"`
}

// Catalog is a compiled pattern library. The zero value is not usable;
// obtain one from ParseCatalog. The package-level Extract functions
// use a default catalog embedded at build time, which recognizes the
// splitter phrases of the common English-language clients plus a
// handful of European-language "wrote:" attributions.
type Catalog struct {
	quotePrefix    *regexp.Regexp
	forwardHeader  *regexp.Regexp
	link           *regexp.Regexp
	normalizedLink *regexp.Regexp
	parenLink      *regexp.Regexp
	splitters      []*regexp.Regexp
	inlineSplitter *regexp.Regexp
	quotation      *regexp.Regexp
	emptyQuotation *regexp.Regexp
}

//go:embed patterns.yml
var defaultPatterns []byte

var defaultCatalog = func() *Catalog {
	c, err := ParseCatalog(defaultPatterns)
	if err != nil {
		panic(fmt.Sprintf("quotations: embedded catalog is invalid: %v", err))
	}
	return c
}()

// ParseCatalog parses a YAML pattern catalog and compiles its
// patterns. See patterns.yml for the document layout and the defaults.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	var firstErr error
	compile := func(name, expr string) *regexp.Regexp {
		// An absent field would otherwise compile into a
		// match-everything pattern and silently misclassify every
		// line.
		if expr == "" {
			if firstErr == nil {
				firstErr = fmt.Errorf("parse catalog: %s: pattern is empty", name)
			}
			return nil
		}
		re, err := regexp.Compile(expr)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("parse catalog: %s: %w", name, err)
		}
		return re
	}

	c := &Catalog{
		quotePrefix:    compile("quote_prefix", f.QuotePrefix),
		forwardHeader:  compile("forward_header", f.ForwardHeader),
		link:           compile("link", f.Link),
		normalizedLink: compile("normalized_link", f.NormalizedLink),
		parenLink:      compile("parenthetical_link", f.ParentheticalLink),
		quotation:      compile("quotation", f.Quotation),
		emptyQuotation: compile("empty_quotation", f.EmptyQuotation),
	}
	for _, s := range f.Splitters {
		re := compile("splitter "+s.Name, s.Pattern)
		c.splitters = append(c.splitters, re)
		if s.Name == f.InlineSplitter {
			c.inlineSplitter = re
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if c.inlineSplitter == nil {
		return nil, fmt.Errorf("parse catalog: inline_splitter %q names no splitter", f.InlineSplitter)
	}
	return c, nil
}

// matchAt reports whether re matches s starting at its first byte,
// i.e. Python's re.match as opposed to re.search.
func matchAt(re *regexp.Regexp, s string) bool {
	loc := re.FindStringIndex(s)
	return loc != nil && loc[0] == 0
}
