package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"

	"document-qa/internal/models"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyContent      = errors.New("no text content found in document")
	ErrDecodeFailure     = errors.New("could not decode text file with any supported encoding")
)

const (
	txtSource  = "text_file"
	docxSource = "document_file"
)

// Extract converts raw file bytes into ordered text blocks. ext is the
// filename extension including the dot. Both binary parsers read from
// memory, so no transient files are written.
func Extract(data []byte, ext string) ([]models.TextBlock, error) {
	var (
		blocks []models.TextBlock
		err    error
	)
	switch strings.ToLower(ext) {
	case ".pdf":
		blocks, err = extractPDF(data)
	case ".txt":
		blocks, err = extractTXT(data)
	case ".docx":
		blocks, err = extractDOCX(data)
	case ".doc":
		return nil, fmt.Errorf("%w: DOC files are not supported yet, please convert to DOCX", ErrUnsupportedFormat)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	if !hasText(blocks) {
		return nil, ErrEmptyContent
	}
	log.Debug().Int("blocks", len(blocks)).Str("ext", ext).Msg("Extracted document text")
	return blocks, nil
}

// extractPDF produces one block per page, source tagged with the 1-based
// page number.
func extractPDF(data []byte) ([]models.TextBlock, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to load PDF: %w", err)
	}

	var blocks []models.TextBlock
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read PDF page %d: %w", i, err)
		}
		blocks = append(blocks, models.TextBlock{Content: pageText, Source: strconv.Itoa(i)})
	}
	return blocks, nil
}

// extractTXT decodes the bytes into a single block, trying UTF-8, Latin-1,
// then CP1252 in that order.
func extractTXT(data []byte) ([]models.TextBlock, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}
	return []models.TextBlock{{Content: text, Source: txtSource}}, nil
}

func decodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	for _, cm := range []*charmap.Charmap{charmap.ISO8859_1, charmap.Windows1252} {
		decoded, err := cm.NewDecoder().Bytes(data)
		if err == nil {
			return string(decoded), nil
		}
	}
	return "", ErrDecodeFailure
}

// extractDOCX concatenates paragraph texts with newline separators into a
// single block.
func extractDOCX(data []byte) ([]models.TextBlock, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to load DOCX: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	paragraphs := paragraphTexts(content)
	return []models.TextBlock{{Content: strings.Join(paragraphs, "\n"), Source: docxSource}}, nil
}

var xmlEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
)

// paragraphTexts pulls the <w:t> runs out of the document XML, one string
// per <w:p> paragraph.
func paragraphTexts(xmlContent string) []string {
	paras := strings.Split(xmlContent, "</w:p>")
	texts := make([]string, 0, len(paras))
	for _, para := range paras {
		var text strings.Builder
		parts := strings.Split(para, "<w:t")
		for i, part := range parts {
			if i == 0 {
				continue
			}
			// the tag may carry attributes, e.g. xml:space="preserve"
			closeIdx := strings.Index(part, ">")
			if closeIdx < 0 {
				continue
			}
			rest := part[closeIdx+1:]
			endIdx := strings.Index(rest, "</w:t>")
			if endIdx >= 0 {
				text.WriteString(xmlEntities.Replace(rest[:endIdx]))
			}
		}
		texts = append(texts, text.String())
	}
	// drop the trailing split remainder after the last paragraph
	if n := len(texts); n > 0 && texts[n-1] == "" {
		texts = texts[:n-1]
	}
	return texts
}

func hasText(blocks []models.TextBlock) bool {
	for _, block := range blocks {
		if strings.TrimSpace(block.Content) != "" {
			return true
		}
	}
	return false
}
