// Package extract loads stored documents into plain text for analysis.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Sentinel errors for extraction failures.
var (
	// ErrUnsupportedFormat is returned for document types we cannot parse.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrUnreadable is returned when the stored document cannot be read or parsed.
	ErrUnreadable = errors.New("document unreadable")
)

// ExtractText returns the textual content of a TXT or PDF file at path.
// The returned text is treated as immutable by everything downstream.
func ExtractText(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		return string(data), nil
	case ".pdf":
		return extractPDF(path)
	default:
		return "", fmt.Errorf("%w: extension %q, only PDF and TXT are allowed", ErrUnsupportedFormat, ext)
	}
}

// extractPDF pulls the plain text of every page using github.com/ledongthuc/pdf.
func extractPDF(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: parsing pdf: %v", ErrUnreadable, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: reading pdf text: %v", ErrUnreadable, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("%w: reading pdf text: %v", ErrUnreadable, err)
	}
	return buf.String(), nil
}
