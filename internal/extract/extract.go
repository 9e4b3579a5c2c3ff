package extract

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"origincheck/internal/textproc"
)

// ErrNoExtractableText is returned when a file parses but yields no usable text.
var ErrNoExtractableText = errors.New("no extractable text")

// ErrUnsupportedFormat is returned for file types the engine cannot read.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Text pulls plain text out of an uploaded file based on its extension.
// Supported: .pdf, .txt, .md.
func Text(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return pdfText(data)
	case ".txt", ".md":
		text := textproc.Sanitize(string(data))
		if strings.TrimSpace(text) == "" {
			return "", fmt.Errorf("%s: %w", filename, ErrNoExtractableText)
		}
		return text, nil
	default:
		return "", fmt.Errorf("%s: %w", filename, ErrUnsupportedFormat)
	}
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(content)
		sb.WriteByte('\n')
	}
	text := textproc.Sanitize(sb.String())
	if strings.TrimSpace(text) == "" {
		return "", ErrNoExtractableText
	}
	return text, nil
}
