package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentFormat is the closed set of file formats the extractor understands.
type DocumentFormat string

const (
	FormatPDF         DocumentFormat = "pdf"
	FormatDOCX        DocumentFormat = "docx"
	FormatMarkdown    DocumentFormat = "markdown"
	FormatUnsupported DocumentFormat = ""
)

func (f DocumentFormat) IsValid() bool {
	switch f {
	case FormatPDF, FormatDOCX, FormatMarkdown:
		return true
	}
	return false
}

// DetectFormat maps a filename extension (case-insensitive) to a format.
// Unknown extensions return FormatUnsupported; the caller decides how to
// surface that, no error is raised here.
func DetectFormat(filename string) DocumentFormat {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return FormatUnsupported
	}
	switch strings.ToLower(filename[idx:]) {
	case ".pdf":
		return FormatPDF
	case ".docx", ".doc":
		return FormatDOCX
	case ".md", ".markdown":
		return FormatMarkdown
	}
	return FormatUnsupported
}

type Document struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	Title     string         `json:"title"`
	Filename  string         `json:"filename"`
	FilePath  string         `json:"file_path"`
	Format    DocumentFormat `json:"format"`
	Content   *string        `json:"content,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// ContentLength is the length of the extracted text, 0 until extraction ran.
func (d *Document) ContentLength() int {
	if d.Content == nil {
		return 0
	}
	return len(*d.Content)
}
