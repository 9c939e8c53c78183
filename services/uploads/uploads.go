// Package uploads stores record pictures on local disk. Images are
// decoded, bounded to a sane size and re-encoded before they land, so
// arbitrary uploaded bytes never pass through unverified.
package uploads

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/rssbrudrapur/sewabase/core"
	"github.com/rssbrudrapur/sewabase/core/sewadar"
)

const maxDimension = 500

type DiskStore struct {
	root string // filesystem directory
	ref  string // path prefix stored on records
}

var _ sewadar.ImageStore = (*DiskStore)(nil) // interface compliance check

func NewDiskStore(conf *core.Config) (*DiskStore, error) {
	root := filepath.Join(conf.WorkDir, conf.Server.UploadsDir)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "uploads.NewDiskStore")
	}
	return &DiskStore{root: root, ref: conf.Server.UploadsDir}, nil
}

// Save decodes, bounds and writes the picture, returning the reference
// to store on the record.
func (s *DiskStore) Save(img sewadar.Image) (string, error) {
	decoded, err := imaging.Decode(img.Content, imaging.AutoOrientation(true))
	if err != nil {
		return "", core.NewValidationError(err, core.FieldError{Field: "pic", Error: "not a valid image"})
	}

	bounds := decoded.Bounds()
	if bounds.Dx() > maxDimension || bounds.Dy() > maxDimension {
		decoded = imaging.Fit(decoded, maxDimension, maxDimension, imaging.Lanczos)
	}

	name := uuid.NewString() + normalizeExt(img.Filename)
	if err = imaging.Save(decoded, filepath.Join(s.root, name)); err != nil {
		return "", errors.Wrap(err, "uploads.Save")
	}
	return s.ref + "/" + name, nil
}

// Dir is the directory holding the image files, for static serving.
func (s *DiskStore) Dir() string {
	return s.root
}

// Root is the directory stored references (e.g. "image/demo.png")
// resolve under, for PDF embedding.
func (s *DiskStore) Root() string {
	return filepath.Dir(s.root)
}

func normalizeExt(filename string) string {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff":
		return ext
	default:
		return ".jpg"
	}
}
