// Package images generates responsive width variants of the portfolio
// photographs for the static site.
package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decode support

	"github.com/cassiecay/portfolio-ops/internal/pkg/logger"
)

// Variant is one output size. Width 0 keeps the original dimensions
// (used by the lightbox).
type Variant struct {
	Name  string
	Width int
}

// DefaultVariants is the width matrix the site's srcset markup expects.
var DefaultVariants = []Variant{
	{Name: "full", Width: 0},
	{Name: "1800w", Width: 1800},
	{Name: "1200w", Width: 1200},
	{Name: "800w", Width: 800},
}

// Options configures an optimization run.
type Options struct {
	SourceDir   string
	OutputDir   string
	JPEGQuality int
	Concurrency int
	Variants    []Variant
}

// Stats summarizes a run.
type Stats struct {
	mu        sync.Mutex
	Processed int
	Skipped   int
	BytesIn   int64
	BytesOut  int64
	Errors    []error
}

func (s *Stats) addError(err error) {
	s.mu.Lock()
	s.Errors = append(s.Errors, err)
	s.mu.Unlock()
}

func (s *Stats) add(processed, skipped int, in, out int64) {
	s.mu.Lock()
	s.Processed += processed
	s.Skipped += skipped
	s.BytesIn += in
	s.BytesOut += out
	s.mu.Unlock()
}

// Optimizer walks a source directory and emits the variant matrix.
type Optimizer struct {
	opts Options
}

// New creates an optimizer. Zero option fields get conservative defaults
// suitable for photography (quality over size).
func New(opts Options) *Optimizer {
	if opts.JPEGQuality == 0 {
		opts.JPEGQuality = 90
	}
	if opts.Concurrency == 0 {
		opts.Concurrency = 4
	}
	if len(opts.Variants) == 0 {
		opts.Variants = DefaultVariants
	}
	return &Optimizer{opts: opts}
}

var sourceExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Run processes every image under SourceDir. Files whose outputs already
// exist are skipped (existence only, not mtime: git checkout resets
// mtimes, which made mtime comparisons unreliable in CI). Work fans out
// across a bounded number of goroutines.
func (o *Optimizer) Run(ctx context.Context) (*Stats, error) {
	var paths []string
	err := filepath.WalkDir(o.opts.SourceDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if sourceExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", o.opts.SourceDir, err)
	}

	stats := &Stats{}
	sem := make(chan struct{}, o.opts.Concurrency)
	var wg sync.WaitGroup
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(p string) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := o.processImage(p, stats); err != nil {
				stats.addError(fmt.Errorf("%s: %w", p, err))
				logger.Error("image optimization failed", "path", p, "error", err.Error())
			}
		}(path)
	}
	wg.Wait()

	logger.Info("image optimization complete",
		"processed", fmt.Sprintf("%d", stats.Processed),
		"skipped", fmt.Sprintf("%d", stats.Skipped),
		"errors", fmt.Sprintf("%d", len(stats.Errors)))
	return stats, nil
}

// processImage emits every missing variant for one source file.
func (o *Optimizer) processImage(path string, stats *Stats) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}

	// PNGs with transparency keep their format; everything else becomes
	// JPEG at photography-grade quality.
	format, ext := "jpeg", ".jpg"
	if !isOpaque(img) {
		format, ext = "png", ".png"
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for _, v := range o.opts.Variants {
		outPath := filepath.Join(o.opts.OutputDir, format, v.Name, base+ext)

		if _, err := os.Stat(outPath); err == nil {
			stats.add(0, 1, 0, 0)
			continue
		}

		encoded, err := o.encodeVariant(img, v.Width, format)
		if err != nil {
			return fmt.Errorf("variant %s: %w", v.Name, err)
		}

		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
		if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		stats.add(1, 0, int64(len(data)), int64(len(encoded)))
	}
	return nil
}

// encodeVariant scales to maxWidth (0 or wider-than-source keeps
// original dimensions) and encodes.
func (o *Optimizer) encodeVariant(img image.Image, maxWidth int, format string) ([]byte, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	out := img
	if maxWidth > 0 && width > maxWidth {
		newHeight := int(float64(height) * float64(maxWidth) / float64(width))
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newHeight))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, out); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: o.opts.JPEGQuality}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return true
}
