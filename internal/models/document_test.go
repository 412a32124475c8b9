package models

import "testing"

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     DocumentFormat
	}{
		{"lecture.pdf", FormatPDF},
		{"Lecture.PDF", FormatPDF},
		{"notes.docx", FormatDOCX},
		{"notes.doc", FormatDOCX},
		{"readme.md", FormatMarkdown},
		{"readme.markdown", FormatMarkdown},
		{"archive.tar.md", FormatMarkdown},
		{"image.png", FormatUnsupported},
		{"noextension", FormatUnsupported},
		{"", FormatUnsupported},
		{".pdf", FormatPDF},
	}

	for _, tc := range tests {
		t.Run(tc.filename, func(t *testing.T) {
			if got := DetectFormat(tc.filename); got != tc.want {
				t.Errorf("DetectFormat(%q) = %q, want %q", tc.filename, got, tc.want)
			}
		})
	}
}

func TestDocumentFormat_IsValid(t *testing.T) {
	for _, f := range []DocumentFormat{FormatPDF, FormatDOCX, FormatMarkdown} {
		if !f.IsValid() {
			t.Errorf("Expected %q to be valid", f)
		}
	}
	if FormatUnsupported.IsValid() {
		t.Error("Expected unsupported format to be invalid")
	}
	if DocumentFormat("txt").IsValid() {
		t.Error("Expected unknown format to be invalid")
	}
}

func TestDocument_ContentLength(t *testing.T) {
	d := &Document{}
	if d.ContentLength() != 0 {
		t.Errorf("Expected 0 for nil content, got %d", d.ContentLength())
	}

	content := "hello"
	d.Content = &content
	if d.ContentLength() != 5 {
		t.Errorf("Expected 5, got %d", d.ContentLength())
	}
}
