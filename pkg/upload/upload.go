// Package upload stages multipart files on local disk before they are
// forwarded to object storage.
package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

var (
	DocumentTypes = []string{"application/pdf", "image/jpeg", "image/png"}
	ImageTypes    = []string{"image/jpeg", "image/png"}
)

// File is a staged upload. Size is capped at the limit passed to Save plus
// one byte, which is enough to tell an oversized file apart.
type File struct {
	Path string
	Name string
	Size int64
}

// Save copies r into a new temp file under dir (os.TempDir when empty)
func Save(r io.Reader, name, dir string, limit int64) (*File, error) {
	tmp, err := os.CreateTemp(dir, "upload-*"+filepath.Ext(name))
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer tmp.Close()

	size, err := io.Copy(tmp, io.LimitReader(r, limit+1))
	if err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("write temp file: %w", err)
	}

	return &File{Path: tmp.Name(), Name: name, Size: size}, nil
}

// Remove deletes the staged copy; a missing file is not an error
func (f *File) Remove() error {
	if f == nil || f.Path == "" {
		return nil
	}
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// HasType reports whether the sniffed content matches one of allowed
func (f *File) HasType(allowed []string) (bool, error) {
	m, err := mimetype.DetectFile(f.Path)
	if err != nil {
		return false, err
	}
	for _, t := range allowed {
		if m.Is(t) {
			return true, nil
		}
	}
	return false, nil
}
