package duckdb

import (
	"errors"
	"io/fs"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for an archived source file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file. A file that does
// not exist yields a fingerprint carrying only the path.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return FileFingerprint{Path: path}, nil
	}
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Import describes one archived table.
type Import struct {
	FileFingerprint
	Markers int
	Samples int
}
