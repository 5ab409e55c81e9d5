// Package htmlcheck validates that asset and link references in the
// site's HTML point at files that exist in the project tree.
package htmlcheck

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Problem is one broken reference.
type Problem struct {
	Tag  string
	Attr string
	Ref  string
}

func (p Problem) String() string {
	return fmt.Sprintf("<%s %s=%q>: file not found", p.Tag, p.Attr, p.Ref)
}

// Checker verifies references against a project root directory.
type Checker struct {
	Root string
}

// CheckFile parses an HTML file and returns every reference whose target
// does not exist. External URLs, anchors, data URIs, and mailto/tel
// links are skipped.
func (c *Checker) CheckFile(path string) ([]Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var problems []Problem
	check := func(tag, attr, ref string) {
		if ref == "" || isExternal(ref) {
			return
		}
		if !c.exists(ref) {
			problems = append(problems, Problem{Tag: tag, Attr: attr, Ref: ref})
		}
	}

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		check("img", "src", s.AttrOr("src", ""))
		for _, ref := range parseSrcset(s.AttrOr("srcset", "")) {
			check("img", "srcset", ref)
		}
	})
	doc.Find("source").Each(func(_ int, s *goquery.Selection) {
		for _, ref := range parseSrcset(s.AttrOr("srcset", "")) {
			check("source", "srcset", ref)
		}
	})
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		check("a", "href", s.AttrOr("href", ""))
	})
	doc.Find("link").Each(func(_ int, s *goquery.Selection) {
		check("link", "href", s.AttrOr("href", ""))
	})
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		check("script", "src", s.AttrOr("src", ""))
	})

	return problems, nil
}

// parseSrcset extracts paths from a srcset value:
// "a.jpg 800w, b.jpg 1200w" → ["a.jpg", "b.jpg"].
func parseSrcset(srcset string) []string {
	if srcset == "" {
		return nil
	}
	var refs []string
	for _, entry := range strings.Split(srcset, ",") {
		fields := strings.Fields(strings.TrimSpace(entry))
		if len(fields) > 0 {
			refs = append(refs, fields[0])
		}
	}
	return refs
}

func isExternal(ref string) bool {
	return strings.HasPrefix(ref, "http://") ||
		strings.HasPrefix(ref, "https://") ||
		strings.HasPrefix(ref, "//") ||
		strings.HasPrefix(ref, "#") ||
		strings.HasPrefix(ref, "data:") ||
		strings.HasPrefix(ref, "mailto:") ||
		strings.HasPrefix(ref, "tel:")
}

func (c *Checker) exists(ref string) bool {
	// Strip query string and fragment before touching the filesystem.
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if ref == "" {
		return true
	}
	ref = strings.TrimPrefix(ref, "/")
	_, err := os.Stat(filepath.Join(c.Root, filepath.FromSlash(ref)))
	return err == nil
}
