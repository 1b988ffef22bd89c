// Package compress moves catalog items in and out of single-file ZIP and TAR
// archives holding a CSV export.
package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/drstein77/inventory/internal/models"
)

// Archive formats accepted by the export and import endpoints.
const (
	Zip = "zip"
	Tar = "tar"
)

// DefaultMaxArchiveSize bounds both the uploaded archive and the CSV
// extracted from it.
const DefaultMaxArchiveSize int64 = 32 << 20

var (
	ErrUnsupportedArchive = errors.New("unsupported archive type")
	ErrArchiveTooLarge    = errors.New("archive too large")
	ErrNoCSV              = errors.New("no CSV file in archive")
)

// ContentType returns the MIME type for an archive kind.
func ContentType(kind string) string {
	if kind == Tar {
		return "application/x-tar"
	}
	return "application/zip"
}

// WriteItems writes items as CSV into fileName inside a kind archive.
func WriteItems(kind string, w io.Writer, fileName string, items []models.Item) error {
	var content bytes.Buffer
	if err := WriteCSV(&content, items); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	switch kind {
	case Zip:
		return writeZip(w, fileName, content.Bytes())
	case Tar:
		return writeTar(w, fileName, content.Bytes())
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedArchive, kind)
	}
}

// ReadItems parses the first CSV file of a kind archive read from r. Neither
// the archive nor the extracted CSV may exceed limit bytes; a limit of zero
// or less means DefaultMaxArchiveSize.
func ReadItems(kind string, r io.Reader, limit int64) ([]models.Item, error) {
	if kind != Zip && kind != Tar {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedArchive, kind)
	}
	if limit <= 0 {
		limit = DefaultMaxArchiveSize
	}

	data, err := readLimited(r, limit)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	var content []byte
	if kind == Zip {
		content, err = unzipCSV(data, limit)
	} else {
		content, err = untarCSV(data, limit)
	}
	if err != nil {
		return nil, err
	}
	return ParseCSV(bytes.NewReader(content))
}

// readLimited reads r to the end, failing once more than limit bytes arrive.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrArchiveTooLarge, limit)
	}
	return data, nil
}

func isCSV(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".csv")
}
