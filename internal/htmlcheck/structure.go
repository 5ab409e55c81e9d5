package htmlcheck

import (
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Issue is one structural problem in an HTML document.
type Issue struct {
	Rule   string
	Detail string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Rule, i.Detail)
}

// ValidateFile checks an HTML file for structural errors: a missing or
// wrong doctype, duplicate id values, and duplicate attributes on one
// element. The site carries legacy markup, so anything beyond these
// hard errors (unclosed elements, deprecated tags, inline styles) is
// deliberately not flagged.
func (c *Checker) ValidateFile(path string) ([]Issue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var issues []Issue

	if !hasHTMLDoctype(doc) {
		issues = append(issues, Issue{
			Rule:   "doctype-html",
			Detail: "document does not start with <!DOCTYPE html>",
		})
	}

	seen := map[string]int{}
	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		id := s.AttrOr("id", "")
		if id == "" {
			return
		}
		seen[id]++
		if seen[id] == 2 {
			issues = append(issues, Issue{
				Rule:   "no-dup-id",
				Detail: fmt.Sprintf("id %q is used more than once", id),
			})
		}
	})

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			for _, key := range duplicateAttrKeys(n) {
				issues = append(issues, Issue{
					Rule:   "no-dup-attr",
					Detail: fmt.Sprintf("<%s> has duplicate %q attribute", n.Data, key),
				})
			}
		}
	})

	return issues, nil
}

// hasHTMLDoctype reports whether the parsed document carries an "html"
// doctype ahead of the root element.
func hasHTMLDoctype(doc *goquery.Document) bool {
	for _, root := range doc.Nodes {
		for n := root.FirstChild; n != nil; n = n.NextSibling {
			switch n.Type {
			case html.DoctypeNode:
				return strings.EqualFold(n.Data, "html")
			case html.ElementNode:
				return false
			}
		}
	}
	return false
}

// duplicateAttrKeys returns each attribute key that appears more than
// once on the node. The parser keeps repeated attributes in order, so a
// second occurrence is visible here even though Attr() would only ever
// return the first.
func duplicateAttrKeys(n *html.Node) []string {
	if len(n.Attr) < 2 {
		return nil
	}
	counts := map[string]int{}
	var keys []string
	for _, a := range n.Attr {
		k := strings.ToLower(a.Key)
		counts[k]++
		if counts[k] == 2 {
			keys = append(keys, k)
		}
	}
	return keys
}
