/**
 * @description
 * Local image storage for auction and profile uploads.
 * Files are written under the configured upload dir and served by the
 * static handler at /uploads.
 *
 * @notes
 * - Filenames are sanitized and prefixed with a UTC timestamp so uploads
 *   never collide or escape the upload directory.
 */

package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// AllowedImage reports whether the filename carries an accepted image extension.
func AllowedImage(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// SanitizeFilename strips path components and whitespace from a client-supplied name.
func SanitizeFilename(filename string) string {
	name := filepath.Base(filename)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return -1
	}, name)
	if name == "" || name == "." {
		name = "upload"
	}
	return name
}

// Save writes the uploaded file into dir and returns the stored filename.
func Save(file *multipart.FileHeader, dir string) (string, error) {
	if !AllowedImage(file.Filename) {
		return "", fmt.Errorf("file type not allowed: %s", filepath.Ext(file.Filename))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%d_%s", time.Now().UTC().UnixNano(), SanitizeFilename(file.Filename))

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}

	return filename, nil
}

// Remove deletes a stored file, ignoring files that are already gone.
func Remove(dir, filename string) error {
	err := os.Remove(filepath.Join(dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
