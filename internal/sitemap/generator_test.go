package sitemap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches to dir for the duration of the test, restoring the
// original working directory afterward. (t.Chdir requires Go 1.24.)
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func testGenerator() *Generator {
	return &Generator{
		SiteURL:      "https://cassiecayphotography.com",
		ImageDir:     filepath.Join("images-optimized", "jpeg", "full"),
		DistDir:      "dist",
		GeoLocation:  "Boise, Idaho",
		BusinessName: "Cassie Cay Photography",
		BusinessArea: "Boise, Idaho",
	}
}

func TestCaption(t *testing.T) {
	g := testGenerator()

	tests := []struct {
		filename string
		want     string
	}{
		{"cassiecay-F1-full.jpg", "Family portrait"},
		{"cassiecay-NB2-full.jpg", "Newborn"},
		{"cassiecay-W3.jpg", "Wedding"},
		{"cassiecay-senior1.jpg", "Senior portrait"},
		{"cassiecay-b4.jpg", "Bridal portrait"},
		{"cassiecay-M12-full.jpg", "Milestone"},
		{"something-else.jpg", "Portrait"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t,
				tt.want+" photography by Cassie Cay Photography in Boise, Idaho",
				g.Caption(tt.filename))
		})
	}
}

func TestGenerate(t *testing.T) {
	chdir(t, t.TempDir())
	g := testGenerator()

	require.NoError(t, os.MkdirAll(g.ImageDir, 0o755))
	for _, name := range []string{"cassiecay-F1-full.jpg", "cassiecay-NB1-full.jpg", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(g.ImageDir, name), []byte("x"), 0o644))
	}

	require.NoError(t, g.Generate())

	imageXML, err := os.ReadFile(filepath.Join("dist", "image-sitemap.xml"))
	require.NoError(t, err)
	s := string(imageXML)

	assert.Contains(t, s, `xmlns:image="http://www.google.com/schemas/sitemap-image/1.1"`)
	assert.Contains(t, s, "<loc>https://cassiecayphotography.com/</loc>")
	assert.Contains(t, s, "https://cassiecayphotography.com/images-optimized/jpeg/full/cassiecay-F1-full.jpg")
	assert.Contains(t, s, "<image:caption>Family portrait photography by Cassie Cay Photography in Boise, Idaho</image:caption>")
	assert.Contains(t, s, "<image:geo_location>Boise, Idaho</image:geo_location>")
	// Non-image files stay out of the sitemap.
	assert.NotContains(t, s, "notes.txt")

	indexXML, err := os.ReadFile(filepath.Join("dist", "sitemap.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(indexXML),
		"<loc>https://cassiecayphotography.com/image-sitemap.xml</loc>")
}

func TestGenerateMissingImageDir(t *testing.T) {
	chdir(t, t.TempDir())
	g := testGenerator()

	err := g.Generate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading image dir")
}
