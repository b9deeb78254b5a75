// Package importer files extracted media into the download tree: it
// sanitizes metadata into path segments, picks the destination and moves the
// file into place with shared-storage permissions.
package importer

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/vmunix/mediagrab/internal/media"
)

// Importer moves extracted files under a single root directory.
type Importer struct {
	root string
	log  *slog.Logger
}

// New creates an importer rooted at root.
func New(root string, log *slog.Logger) *Importer {
	if log == nil {
		log = slog.Default()
	}
	return &Importer{root: root, log: log.With("component", "importer")}
}

// Root returns the download root.
func (i *Importer) Root() string {
	return i.root
}

// Import moves src to its destination for the given media type and metadata
// and returns the final path. A file already at the destination is replaced.
func (i *Importer) Import(src string, t media.Type, meta media.Metadata) (string, error) {
	if meta.Ext == "" {
		meta.Ext = filepath.Ext(src)
	}
	dest := Destination(i.root, t, meta)
	if err := ValidatePath(dest, i.root); err != nil {
		return "", err
	}
	if err := EnsureDir(i.root, filepath.Dir(dest)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMoveFailed, err)
	}
	if err := MoveFile(src, dest); err != nil {
		return "", err
	}

	i.log.Info("file imported", "source", src, "dest", dest, "media_type", t.String())
	return dest, nil
}
