package quotations

import (
	"strings"
	"testing"
)

const customCatalog = `
quote_prefix: '^>+'
forward_header: '(?i)^-+[ ]*Forwarded message[ ]*-+$'
link: '<(https?://[^>]*)>'
normalized_link: '@@(https?://[^>@]*)@@'
parenthetical_link: '\(https?://'
splitters:
  - name: reply_divider
    pattern: '=+ Reply above this line =+'
inline_splitter: reply_divider
quotation: '((s|(me*){2,}).*me*)[te]*$'
empty_quotation: '((se*)+|(me*){2,})e*'
`

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(customCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog: %s", err)
	}

	body := "Sounds good.\n\n==== Reply above this line ====\nOriginal ticket text\n"
	if got := New(c).ExtractFromPlain(body); got != "Sounds good." {
		t.Errorf("ExtractFromPlain = %q, want %q", got, "Sounds good.")
	}
}

func TestParseCatalogBadPattern(t *testing.T) {
	data := strings.Replace(customCatalog, "'^>+'", "'['", 1)

	_, err := ParseCatalog([]byte(data))
	if err == nil {
		t.Fatal("ParseCatalog accepted an invalid pattern")
	}
	if !strings.Contains(err.Error(), "quote_prefix") {
		t.Errorf("error %q does not name the offending pattern", err)
	}
}

func TestParseCatalogMissingPattern(t *testing.T) {
	data := strings.Replace(customCatalog, "quote_prefix: '^>+'\n", "", 1)

	_, err := ParseCatalog([]byte(data))
	if err == nil {
		t.Fatal("ParseCatalog accepted a catalog without quote_prefix")
	}
	if !strings.Contains(err.Error(), "quote_prefix") {
		t.Errorf("error %q does not name the missing pattern", err)
	}
}

func TestParseCatalogUnknownInlineSplitter(t *testing.T) {
	data := strings.Replace(customCatalog, "inline_splitter: reply_divider", "inline_splitter: nope", 1)

	if _, err := ParseCatalog([]byte(data)); err == nil {
		t.Fatal("ParseCatalog accepted an inline_splitter that names no splitter")
	}
}

func TestParseCatalogNotYAML(t *testing.T) {
	if _, err := ParseCatalog([]byte("\t:")); err == nil {
		t.Fatal("ParseCatalog accepted malformed YAML")
	}
}
