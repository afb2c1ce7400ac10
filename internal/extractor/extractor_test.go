package extractor

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestExtract_TXT(t *testing.T) {
	text := "Hello world. This is a test document about cats."
	blocks, err := Extract([]byte(text), ".txt")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].Content != text {
		t.Errorf("block content = %q, want %q", blocks[0].Content, text)
	}
	if blocks[0].Source != "text_file" {
		t.Errorf("block source = %q, want text_file", blocks[0].Source)
	}
}

func TestExtract_TXT_UppercaseExtension(t *testing.T) {
	if _, err := Extract([]byte("some text"), ".TXT"); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
}

func TestExtract_TXT_Latin1(t *testing.T) {
	// "café" in Latin-1: 0xE9 is not valid UTF-8
	data := []byte{'c', 'a', 'f', 0xE9}
	blocks, err := Extract(data, ".txt")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if blocks[0].Content != "café" {
		t.Errorf("decoded content = %q, want café", blocks[0].Content)
	}
}

func TestExtract_EmptyContent(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty file", nil},
		{"whitespace only", []byte("   \n\t  ")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.data, ".txt")
			if !errors.Is(err, ErrEmptyContent) {
				t.Fatalf("Extract() error = %v, want ErrEmptyContent", err)
			}
		})
	}
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	for _, ext := range []string{".xlsx", ".png", "", ".md"} {
		if _, err := Extract([]byte("data"), ext); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Extract(%q) error = %v, want ErrUnsupportedFormat", ext, err)
		}
	}
}

func TestExtract_DOCUnsupported(t *testing.T) {
	_, err := Extract([]byte("data"), ".doc")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Extract() error = %v, want ErrUnsupportedFormat", err)
	}
	if !strings.Contains(err.Error(), "DOCX") {
		t.Errorf("error %q should point at DOCX conversion", err)
	}
}

func TestExtract_PDF_InvalidBytes(t *testing.T) {
	if _, err := Extract([]byte("definitely not a pdf"), ".pdf"); err == nil {
		t.Fatal("Extract() expected error for invalid PDF bytes")
	}
}

func TestExtract_DOCX(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p><w:p><w:r><w:t xml:space="preserve">Second with &amp; entity.</w:t></w:r></w:p>`)
	blocks, err := Extract(data, ".docx")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	want := "First paragraph.\nSecond with & entity."
	if blocks[0].Content != want {
		t.Errorf("block content = %q, want %q", blocks[0].Content, want)
	}
	if blocks[0].Source != "document_file" {
		t.Errorf("block source = %q, want document_file", blocks[0].Source)
	}
}

func TestExtract_DOCX_Empty(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t> </w:t></w:r></w:p>`)
	if _, err := Extract(data, ".docx"); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("Extract() error = %v, want ErrEmptyContent", err)
	}
}

func TestExtract_DOCX_InvalidBytes(t *testing.T) {
	if _, err := Extract([]byte("not a zip archive"), ".docx"); err == nil {
		t.Fatal("Extract() expected error for invalid DOCX bytes")
	}
}

func TestParagraphTexts_MultipleRuns(t *testing.T) {
	xml := `<w:p><w:r><w:t>Hello </w:t></w:r><w:r><w:t>world</w:t></w:r></w:p>`
	paras := paragraphTexts(xml)
	if len(paras) != 1 || paras[0] != "Hello world" {
		t.Errorf("paragraphTexts() = %v, want [Hello world]", paras)
	}
}

// buildDocx assembles a minimal .docx archive around the given body XML.
func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body +
			`</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}
	for name, content := range files {
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}
	return buf.Bytes()
}
