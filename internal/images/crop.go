package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"

	"golang.org/x/image/draw"
)

// CoverCrop scales an image so the target square is fully covered, crops
// the overflow around the center, and writes a JPEG. Used for the
// service icons on the site, which are laid out as fixed squares.
func CoverCrop(inputPath, outputPath string, size, quality int) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decoding %s: %w", inputPath, err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return fmt.Errorf("decoding %s: empty image", inputPath)
	}

	// Scale the short side to the target, then take the centered square
	// of the long side.
	var scaledW, scaledH int
	if width < height {
		scaledW = size
		scaledH = int(float64(height) * float64(size) / float64(width))
	} else {
		scaledH = size
		scaledW = int(float64(width) * float64(size) / float64(height))
	}

	scaled := image.NewRGBA(image.Rect(0, 0, scaledW, scaledH))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Over, nil)

	offsetX := (scaledW - size) / 2
	offsetY := (scaledH - size) / 2
	square := scaled.SubImage(image.Rect(offsetX, offsetY, offsetX+size, offsetY+size))

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, square, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("encoding crop: %w", err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	return nil
}
