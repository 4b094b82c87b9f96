package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	pdf "github.com/ledongthuc/pdf"
)

// MaxUploadBytes caps uploaded documents at 10 MiB.
const MaxUploadBytes = 10 << 20

var (
	// ErrTooLarge is returned for uploads over MaxUploadBytes.
	ErrTooLarge = errors.New("upload exceeds size limit")
	// ErrEmptyText is returned when extraction yields no usable text.
	ErrEmptyText = errors.New("no extractable text")
)

// Text extracts plain text from an uploaded document. Content is sniffed by
// magic bytes first, so a mislabeled file still extracts correctly; plain
// text (.txt/.md) passes through as-is.
func Text(name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyText
	}
	if int64(len(data)) > MaxUploadBytes {
		return "", ErrTooLarge
	}

	if isPDF(data) {
		return fromPDF(data)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if isProbablyText(data) || ext == ".txt" || ext == ".md" {
		text := collapseWhitespace(string(data))
		if text == "" {
			return "", ErrEmptyText
		}
		return text, nil
	}

	return "", fmt.Errorf("unsupported document type: %s", name)
}

func isPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

func fromPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	text := collapseWhitespace(string(b))
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

// isProbablyText reports whether data looks like UTF-8 text with no NUL bytes.
func isProbablyText(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	return !bytes.ContainsRune(data, 0)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
