// Package sitemap generates the site's sitemap index and Google image
// sitemap from the optimized image tree.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/cassiecay/portfolio-ops/internal/pkg/logger"
)

// categoryCaptions maps the filename prefix convention
// (cassiecay-F1-full.jpg, cassiecay-NB2-full.jpg, cassiecay-senior1.jpg)
// to a descriptive caption fragment.
var categoryCaptions = map[string]string{
	"F":      "Family portrait",
	"B":      "Bridal portrait",
	"C":      "Corporate portrait",
	"E":      "Event",
	"S":      "Senior portrait",
	"W":      "Wedding",
	"NB":     "Newborn",
	"M":      "Milestone",
	"SENIOR": "Senior portrait",
}

var (
	prefixTwoLetter = regexp.MustCompile(`(?i)^cassiecay-([A-Z]{2})\d`)
	prefixSenior    = regexp.MustCompile(`(?i)^cassiecay-senior\d`)
	prefixOneLetter = regexp.MustCompile(`(?i)^cassiecay-([A-Z])\d`)
)

// Generator writes sitemap.xml and image-sitemap.xml into the dist dir.
type Generator struct {
	SiteURL      string
	ImageDir     string // directory of full-size JPEGs, e.g. images-optimized/jpeg/full
	DistDir      string
	GeoLocation  string
	BusinessName string
	BusinessArea string
}

type urlSet struct {
	XMLName    xml.Name     `xml:"urlset"`
	Xmlns      string       `xml:"xmlns,attr"`
	XmlnsImage string       `xml:"xmlns:image,attr"`
	URLs       []urlEntry   `xml:"url"`
}

type urlEntry struct {
	Loc     string       `xml:"loc"`
	LastMod string       `xml:"lastmod,omitempty"`
	Images  []imageEntry `xml:"image:image,omitempty"`
}

type imageEntry struct {
	Loc         string `xml:"image:loc"`
	Caption     string `xml:"image:caption,omitempty"`
	GeoLocation string `xml:"image:geo_location,omitempty"`
}

type sitemapIndex struct {
	XMLName  xml.Name       `xml:"sitemapindex"`
	Xmlns    string         `xml:"xmlns,attr"`
	Sitemaps []sitemapEntry `xml:"sitemap"`
}

type sitemapEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

const xmlnsSitemap = "http://www.sitemaps.org/schemas/sitemap/0.9"
const xmlnsImage = "http://www.google.com/schemas/sitemap-image/1.1"

// Caption builds the image caption for a portfolio filename.
func (g *Generator) Caption(filename string) string {
	category := "Portrait"
	if m := prefixTwoLetter.FindStringSubmatch(filename); m != nil {
		if c, ok := categoryCaptions[strings.ToUpper(m[1])]; ok {
			category = c
		}
	} else if prefixSenior.MatchString(filename) {
		category = categoryCaptions["SENIOR"]
	} else if m := prefixOneLetter.FindStringSubmatch(filename); m != nil {
		if c, ok := categoryCaptions[strings.ToUpper(m[1])]; ok {
			category = c
		}
	}
	return fmt.Sprintf("%s photography by %s in %s", category, g.BusinessName, g.BusinessArea)
}

// Generate writes image-sitemap.xml listing every full-size image under
// the home page URL, plus a sitemap.xml index referencing it.
func (g *Generator) Generate() error {
	entries, err := os.ReadDir(g.ImageDir)
	if err != nil {
		return fmt.Errorf("reading image dir: %w", err)
	}

	var images []imageEntry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".jpg" && ext != ".jpeg" {
			continue
		}
		images = append(images, imageEntry{
			Loc:         fmt.Sprintf("%s/%s/%s", strings.TrimRight(g.SiteURL, "/"), filepath.ToSlash(g.ImageDir), name),
			Caption:     g.Caption(name),
			GeoLocation: g.GeoLocation,
		})
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Loc < images[j].Loc })

	now := time.Now().UTC().Format("2006-01-02")
	set := urlSet{
		Xmlns:      xmlnsSitemap,
		XmlnsImage: xmlnsImage,
		URLs: []urlEntry{{
			Loc:     strings.TrimRight(g.SiteURL, "/") + "/",
			LastMod: now,
			Images:  images,
		}},
	}

	if err := os.MkdirAll(g.DistDir, 0o755); err != nil {
		return fmt.Errorf("creating dist dir: %w", err)
	}

	if err := writeXML(filepath.Join(g.DistDir, "image-sitemap.xml"), set); err != nil {
		return err
	}

	index := sitemapIndex{
		Xmlns: xmlnsSitemap,
		Sitemaps: []sitemapEntry{{
			Loc:     strings.TrimRight(g.SiteURL, "/") + "/image-sitemap.xml",
			LastMod: now,
		}},
	}
	if err := writeXML(filepath.Join(g.DistDir, "sitemap.xml"), index); err != nil {
		return err
	}

	logger.Info("sitemaps generated", "images", fmt.Sprintf("%d", len(images)), "dir", g.DistDir)
	return nil
}

func writeXML(path string, v any) error {
	data, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	out := append([]byte(xml.Header), data...)
	out = append(out, '\n')
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
