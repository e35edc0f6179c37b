package converter

import (
	"path/filepath"
	"strings"
)

// DefaultOutputPath replaces the extension of inputFile with ext, keeping
// its directory and base name. Leading dots of the base name are not
// treated as an extension separator.
func DefaultOutputPath(inputFile, ext string) string {
	return trimExt(inputFile) + ext
}

func trimExt(path string) string {
	base := filepath.Base(path)
	name := strings.TrimLeft(base, ".")
	ext := filepath.Ext(name)
	if ext == "" {
		return path
	}
	return strings.TrimSuffix(path, ext)
}
