package compress

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"
)

// writeTar stores content as a single regular file.
func writeTar(w io.Writer, name string, content []byte) error {
	tw := tar.NewWriter(w)
	header := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(content)),
		ModTime:  time.Now(),
	}
	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("tar header: %w", err)
	}
	if _, err := tw.Write(content); err != nil {
		return fmt.Errorf("tar write: %w", err)
	}
	return tw.Close()
}

// untarCSV returns the body of the first regular CSV file.
func untarCSV(data []byte, limit int64) ([]byte, error) {
	tr := tar.NewReader(bytes.NewReader(data))
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("tar: %w", ErrNoCSV)
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if header.Typeflag != tar.TypeReg || !isCSV(header.Name) {
			continue
		}

		content, err := readLimited(tr, limit)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", header.Name, err)
		}
		return content, nil
	}
}
