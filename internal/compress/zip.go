package compress

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"time"
)

// writeZip stores content as a single deflated entry.
func writeZip(w io.Writer, name string, content []byte) error {
	zw := zip.NewWriter(w)
	f, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("zip header: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("zip write: %w", err)
	}
	return zw.Close()
}

// unzipCSV extracts the first CSV entry. ZIP needs random access, so the
// whole archive is already in memory; the entry is inflated up to limit.
func unzipCSV(data []byte, limit int64) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !isCSV(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		defer rc.Close()

		content, err := readLimited(rc, limit)
		if err != nil {
			return nil, fmt.Errorf("inflate %s: %w", f.Name, err)
		}
		return content, nil
	}
	return nil, fmt.Errorf("zip: %w", ErrNoCSV)
}
