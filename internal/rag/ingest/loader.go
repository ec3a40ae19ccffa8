package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"

	"github.com/avasani/visarag/internal/domain"
	"github.com/avasani/visarag/pkg/logging"
)

// ErrLoad covers every way a source document can fail to yield text:
// missing file, unsupported type, corrupt content, empty extraction.
var ErrLoad = errors.New("document load failed")

// LoadDocument extracts raw text from a PDF, txt, docx or rtf file. PDF
// pages are joined with newlines; pages with no extractable text are
// skipped. An entirely empty document is an error, not an empty Document.
func LoadDocument(path string) (domain.Document, error) {
	var (
		content string
		err     error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		content, err = extractPDF(path)
	case ".txt", ".docx", ".rtf", ".odt":
		content, err = extractWithCat(path)
	default:
		return domain.Document{}, fmt.Errorf("%w: unsupported file type %q", ErrLoad, filepath.Ext(path))
	}
	if err != nil {
		return domain.Document{}, err
	}

	if strings.TrimSpace(content) == "" {
		return domain.Document{}, fmt.Errorf("%w: no extractable text in %s", ErrLoad, path)
	}

	return domain.Document{
		Source:     path,
		Content:    content,
		IngestedAt: time.Now(),
	}, nil
}

func extractPDF(path string) (string, error) {
	logger := logging.NewLogger("pdf_extract")

	f, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %v", ErrLoad, err)
	}

	var builder strings.Builder
	numPages := f.NumPage()
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("skipping unextractable page", "page", i, "error", err)
			continue
		}
		if text == "" {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

func extractWithCat(path string) (string, error) {
	text, err := cat.File(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLoad, err)
	}
	return text, nil
}
