package services

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"

	"studydesk-backend/internal/models"
)

// ExtractService turns a stored document file into plain text. It reads the
// file and nothing else; callers persist the result.
type ExtractService struct{}

func NewExtractService() *ExtractService {
	return &ExtractService{}
}

func (s *ExtractService) Extract(path string, format models.DocumentFormat) (string, error) {
	switch format {
	case models.FormatPDF:
		return s.extractPDF(path)
	case models.FormatDOCX:
		return s.extractDOCX(path)
	case models.FormatMarkdown:
		return s.extractMarkdown(path)
	default:
		return "", ErrUnsupportedFormat
	}
}

// extractPDF tries a row-ordered extraction first, which keeps multi-column
// layouts readable, and falls back to the plain per-page strategy when that
// fails. Only when both strategies fail does the caller see an error.
func (s *ExtractService) extractPDF(path string) (string, error) {
	text, err := pdfTextByRows(path)
	if err != nil || text == "" {
		var fallbackErr error
		text, fallbackErr = pdfTextPlain(path)
		if fallbackErr != nil {
			return "", &ExtractionError{Format: models.FormatPDF, Err: fallbackErr}
		}
	}

	if text == "" {
		return "", &ExtractionError{Format: models.FormatPDF, Err: fmt.Errorf("no extractable text found")}
	}

	return text, nil
}

func pdfTextByRows(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	totalPage := reader.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return "", err
		}
		for _, row := range rows {
			b.WriteString(joinRowWords(row.Content))
			b.WriteString("\n")
		}
	}

	return normalizeExtractedText(b.String()), nil
}

// joinRowWords joins a row's text runs with single spaces. Runs are
// word-granular in many PDFs, so plain concatenation would jam adjacent
// words together; empty and whitespace-only runs are dropped so no double
// spacing appears either.
func joinRowWords(words []pdf.Text) string {
	parts := make([]string, 0, len(words))
	for _, word := range words {
		if w := strings.TrimSpace(word.S); w != "" {
			parts = append(parts, w)
		}
	}
	return strings.Join(parts, " ")
}

func pdfTextPlain(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	totalPage := reader.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	return normalizeExtractedText(b.String()), nil
}

func (s *ExtractService) extractDOCX(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", &ExtractionError{Format: models.FormatDOCX, Err: err}
	}
	defer r.Close()

	var documentXML []byte
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", &ExtractionError{Format: models.FormatDOCX, Err: err}
			}
			documentXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return "", &ExtractionError{Format: models.FormatDOCX, Err: err}
			}
			break
		}
	}

	if len(documentXML) == 0 {
		return "", &ExtractionError{Format: models.FormatDOCX, Err: fmt.Errorf("document.xml not found")}
	}

	text := normalizeExtractedText(stripDOCXML(documentXML))
	if text == "" {
		return "", &ExtractionError{Format: models.FormatDOCX, Err: fmt.Errorf("no extractable text found")}
	}

	return text, nil
}

// extractMarkdown renders the source through goldmark and strips the
// resulting HTML tags, leaving plain text.
func (s *ExtractService) extractMarkdown(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", &ExtractionError{Format: models.FormatMarkdown, Err: err}
	}
	if !utf8.Valid(src) {
		return "", &ExtractionError{Format: models.FormatMarkdown, Err: fmt.Errorf("file is not valid UTF-8")}
	}

	var rendered bytes.Buffer
	if err := goldmark.Convert(src, &rendered); err != nil {
		return "", &ExtractionError{Format: models.FormatMarkdown, Err: err}
	}

	text := rendered.String()
	text = strings.ReplaceAll(text, "</p>", "\n")
	text = strings.ReplaceAll(text, "</li>", "\n")
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = html.UnescapeString(text)

	text = normalizeExtractedText(text)
	if text == "" {
		return "", &ExtractionError{Format: models.FormatMarkdown, Err: fmt.Errorf("no extractable text found")}
	}

	return text, nil
}

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func stripDOCXML(src []byte) string {
	s := string(src)

	// DOCX paragraphs and line breaks
	s = strings.ReplaceAll(s, "</w:p>", "\n")
	s = strings.ReplaceAll(s, "<w:br/>", "\n")
	s = strings.ReplaceAll(s, "<w:br />", "\n")
	s = strings.ReplaceAll(s, "<w:tab/>", "\t")

	s = htmlTagPattern.ReplaceAllString(s, "")

	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
	return replacer.Replace(s)
}

func normalizeExtractedText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	buf := bytes.Buffer{}

	emptyCount := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			emptyCount++
			if emptyCount > 1 {
				continue
			}
			buf.WriteString("\n")
			continue
		}
		emptyCount = 0
		buf.WriteString(trimmed)
		buf.WriteString("\n")
	}

	return strings.TrimSpace(buf.String())
}
