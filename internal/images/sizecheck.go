package images

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cassiecay/portfolio-ops/internal/pkg/logger"
)

// Size thresholds for the two image trees. Originals may legitimately be
// large; optimized output past half a megabyte means the pipeline missed
// a file or a source needs re-exporting.
const (
	OptimizedSizeLimit = 500 * 1024
	OriginalSizeLimit  = 2 * 1024 * 1024
)

// Oversized is one file exceeding its tree's threshold.
type Oversized struct {
	Path  string
	Size  int64
	Limit int64
}

func (o Oversized) String() string {
	return fmt.Sprintf("%s is %s (exceeds %s)", o.Path, FormatSize(o.Size), FormatSize(o.Limit))
}

var checkedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".gif": true, ".webp": true, ".avif": true, ".svg": true,
}

// CheckSizes walks a directory tree and reports every image file larger
// than limit. A missing directory is not an error; the report is simply
// empty. This is a warning tool, so unreadable files are skipped.
func CheckSizes(dir string, limit int64) ([]Oversized, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logger.Info("size check skipped", "dir", dir)
		return nil, nil
	}

	var report []Oversized
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if !checkedExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Size() > limit {
			report = append(report, Oversized{Path: path, Size: info.Size(), Limit: limit})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return report, nil
}

// FormatSize renders a byte count the way the reports print it.
func FormatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%dB", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.2fMB", float64(n)/(1024*1024))
	}
}
