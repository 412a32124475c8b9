package services

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"

	"studydesk-backend/internal/models"
)

func TestExtract_UnsupportedFormat(t *testing.T) {
	s := NewExtractService()

	_, err := s.Extract("/nonexistent/file.xyz", models.FormatUnsupported)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtractMarkdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	src := "# Photosynthesis\n\nPlants convert **light** into energy.\n\n- chlorophyll\n- sunlight &amp; water\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewExtractService()
	text, err := s.Extract(path, models.FormatMarkdown)
	if err != nil {
		t.Fatalf("Expected markdown extraction to succeed, got %v", err)
	}

	if strings.Contains(text, "<") || strings.Contains(text, "**") {
		t.Errorf("Expected markup stripped, got %q", text)
	}
	for _, want := range []string{"Photosynthesis", "Plants convert light into energy.", "chlorophyll", "sunlight & water"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in extracted text, got %q", want, text)
		}
	}
}

func TestExtractMarkdown_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.md")
	if err := os.WriteFile(path, []byte("   \n\n  "), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewExtractService()
	_, err := s.Extract(path, models.FormatMarkdown)

	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("Expected ExtractionError for empty file, got %v", err)
	}
	if extractionErr.Format != models.FormatMarkdown {
		t.Errorf("Expected markdown format in error, got %s", extractionErr.Format)
	}
}

func writeDOCX(t *testing.T, path, documentXML string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestExtractDOCX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lecture.docx")
	writeDOCX(t, path, `<?xml version="1.0"?>
<w:document><w:body>
<w:p><w:r><w:t>Mitochondria are the powerhouse</w:t></w:r></w:p>
<w:p><w:r><w:t>of the cell &amp; more</w:t></w:r></w:p>
</w:body></w:document>`)

	s := NewExtractService()
	text, err := s.Extract(path, models.FormatDOCX)
	if err != nil {
		t.Fatalf("Expected DOCX extraction to succeed, got %v", err)
	}

	if !strings.Contains(text, "Mitochondria are the powerhouse") {
		t.Errorf("Expected paragraph text, got %q", text)
	}
	if !strings.Contains(text, "of the cell & more") {
		t.Errorf("Expected entity decoded, got %q", text)
	}
	if strings.Contains(text, "<w:") {
		t.Errorf("Expected XML tags stripped, got %q", text)
	}
}

func TestExtractDOCX_NotAZip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.docx")
	if err := os.WriteFile(path, []byte("this is not a zip archive"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewExtractService()
	_, err := s.Extract(path, models.FormatDOCX)

	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("Expected ExtractionError, got %v", err)
	}
}

func TestExtractDOCX_MissingDocumentXML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hollow.docx")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, _ := zw.Create("word/styles.xml")
	w.Write([]byte("<w:styles/>"))
	zw.Close()
	f.Close()

	s := NewExtractService()
	_, err = s.Extract(path, models.FormatDOCX)

	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("Expected ExtractionError, got %v", err)
	}
}

func TestJoinRowWords(t *testing.T) {
	tests := []struct {
		name  string
		words []pdf.Text
		want  string
	}{
		{
			"word-granular runs get separated",
			[]pdf.Text{{S: "Cell"}, {S: "division"}, {S: "occurs"}},
			"Cell division occurs",
		},
		{
			"whitespace runs are dropped",
			[]pdf.Text{{S: "Cell "}, {S: " "}, {S: ""}, {S: "division"}},
			"Cell division",
		},
		{
			"empty row",
			nil,
			"",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := joinRowWords(tc.words); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizeExtractedText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims line whitespace", "  hello  \n  world  ", "hello\nworld"},
		{"collapses blank runs", "a\n\n\n\nb", "a\n\nb"},
		{"windows line endings", "a\r\nb\rc", "a\nb\nc"},
		{"empty input", "   \n\n ", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeExtractedText(tc.in); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}
