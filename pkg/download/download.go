package download

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sink delivers an exported file to the user. The browser download of the
// original screen becomes a platform-provided side effect behind this
// interface.
type Sink interface {
	Download(content, filename string) error
}

// DirSink writes downloads into a local directory, creating it on demand.
type DirSink struct {
	dir string
}

// NewDirSink builds a Sink rooted at dir.
func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir}
}

// Download writes content to <dir>/<filename>.
func (d *DirSink) Download(content, filename string) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	path := filepath.Join(d.dir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write download %s: %w", filename, err)
	}

	return nil
}
