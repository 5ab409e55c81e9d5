package images

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoverCropLandscape(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "wide.jpg")
	out := filepath.Join(dir, "icon.jpg")
	writeJPEG(t, in, 1200, 600)

	require.NoError(t, CoverCrop(in, out, 500, 90))

	img := decodeFile(t, out)
	assert.Equal(t, 500, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())
}

func TestCoverCropPortrait(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tall.jpg")
	out := filepath.Join(dir, "icon.jpg")
	writeJPEG(t, in, 600, 1400)

	require.NoError(t, CoverCrop(in, out, 500, 90))

	img := decodeFile(t, out)
	assert.Equal(t, 500, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())
}

func TestCoverCropBadInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "broken.jpg")
	require.NoError(t, os.WriteFile(in, []byte("not an image"), 0o644))

	err := CoverCrop(in, filepath.Join(dir, "out.jpg"), 500, 90)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding")
}
