package images

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJPEG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func writeTransparentPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	img.Set(0, 0, color.NRGBA{R: 255, A: 128})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func decodeFile(t *testing.T, path string) image.Image {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestRunProducesVariantMatrix(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeJPEG(t, filepath.Join(src, "cassiecay-F1.jpg"), 2400, 1600)

	o := New(Options{SourceDir: src, OutputDir: out, Concurrency: 2})
	stats, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stats.Errors)
	assert.Equal(t, 4, stats.Processed)

	for _, tc := range []struct {
		variant   string
		wantWidth int
	}{
		{"full", 2400},
		{"1800w", 1800},
		{"1200w", 1200},
		{"800w", 800},
	} {
		path := filepath.Join(out, "jpeg", tc.variant, "cassiecay-F1.jpg")
		img := decodeFile(t, path)
		assert.Equal(t, tc.wantWidth, img.Bounds().Dx(), tc.variant)
	}

	// Aspect ratio is preserved.
	img := decodeFile(t, filepath.Join(out, "jpeg", "800w", "cassiecay-F1.jpg"))
	assert.Equal(t, 533, img.Bounds().Dy())
}

func TestRunSkipsExistingOutputs(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeJPEG(t, filepath.Join(src, "photo.jpg"), 1000, 800)

	o := New(Options{SourceDir: src, OutputDir: out})
	first, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, first.Processed)

	second, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Processed)
	assert.Equal(t, 4, second.Skipped)
}

func TestRunKeepsPNGForTransparency(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeTransparentPNG(t, filepath.Join(src, "logo.png"))

	o := New(Options{SourceDir: src, OutputDir: out})
	stats, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stats.Errors)

	_, err = os.Stat(filepath.Join(out, "png", "full", "logo.png"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "jpeg", "full", "logo.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunNeverUpscales(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeJPEG(t, filepath.Join(src, "small.jpg"), 600, 400)

	o := New(Options{SourceDir: src, OutputDir: out})
	_, err := o.Run(context.Background())
	require.NoError(t, err)

	img := decodeFile(t, filepath.Join(out, "jpeg", "1800w", "small.jpg"))
	assert.Equal(t, 600, img.Bounds().Dx())
}

func TestRunRecordsDecodeErrors(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "broken.jpg"), []byte("not an image"), 0o644))

	o := New(Options{SourceDir: src, OutputDir: out})
	stats, err := o.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, stats.Errors, 1)
	assert.Contains(t, stats.Errors[0].Error(), "decoding")
}

func TestRunMissingSourceDir(t *testing.T) {
	o := New(Options{SourceDir: filepath.Join(t.TempDir(), "nope"), OutputDir: t.TempDir()})
	_, err := o.Run(context.Background())
	assert.Error(t, err)
}
