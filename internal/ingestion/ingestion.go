// Package ingestion converts source CV documents into plain text suitable for
// field extraction. Plain text and markdown pass through a cleaning pass, HTML
// and PDF and DOCX sources get their text extracted first, and XML sources are
// returned verbatim so the caller can hand them to the document importer.
package ingestion

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	pdf "github.com/ledongthuc/pdf"
)

// Format identifies the source document format, detected from the file
// extension.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
	FormatDocx     Format = "docx"
	FormatXML      Format = "xml"
)

// Document is the result of ingesting a source file.
type Document struct {
	// Text is the cleaned plain text. For FormatXML it is the raw document
	// unchanged.
	Text     string
	Format   Format
	Metadata *Metadata
}

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt", ".text":
		return FormatText, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDocx, nil
	case ".xml":
		return FormatXML, nil
	default:
		return "", &UnsupportedFormatError{Ext: ext}
	}
}

// FromFile reads a source document and converts it to plain text.
func FromFile(path string) (*Document, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Message: "failed to read file", Cause: err}
	}
	return FromBytes(data, format, path)
}

// FromBytes converts raw document content to plain text. The source name is
// only recorded in the metadata and may be empty.
func FromBytes(data []byte, format Format, source string) (*Document, error) {
	var text string
	var err error

	switch format {
	case FormatText, FormatMarkdown:
		text = CleanText(string(data))
	case FormatHTML:
		text, err = extractTextFromHTML(data)
	case FormatPDF:
		text, err = extractTextFromPDF(data)
	case FormatDocx:
		text, err = extractTextFromDocx(data)
	case FormatXML:
		text = string(data)
	default:
		return nil, &UnsupportedFormatError{Ext: string(format)}
	}
	if err != nil {
		return nil, err
	}

	return &Document{
		Text:     text,
		Format:   format,
		Metadata: NewMetadata(text, format, source),
	}, nil
}

// extractTextFromHTML strips chrome elements and returns the visible text of
// the document body, one block element per line.
func extractTextFromHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", &ParseError{Message: "failed to parse HTML", Cause: err}
	}

	doc.Find("nav, footer, header, script, style, noscript, aside").Remove()

	var sb strings.Builder
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, td, blockquote, pre").Each(func(_ int, s *goquery.Selection) {
		// Nested blocks are visited in their own right.
		if s.Children().Is("p, li, blockquote") {
			return
		}
		line := strings.TrimSpace(s.Text())
		if line != "" {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	})

	text := sb.String()
	if text == "" {
		text = doc.Find("body").Text()
	}
	return CleanText(text), nil
}

func extractTextFromPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ParseError{Message: "failed to open PDF", Cause: err}
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", &ParseError{Message: "failed to extract PDF text", Cause: err}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", &ParseError{Message: "failed to read PDF text", Cause: err}
	}
	return CleanText(buf.String()), nil
}

var docxTagPattern = regexp.MustCompile(`<[^>]+>`)

// extractTextFromDocx pulls the main document part out of the DOCX archive
// and strips its markup. Paragraph ends become newlines.
func extractTextFromDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ParseError{Message: "failed to open DOCX archive", Cause: err}
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", &ParseError{Message: "failed to open document part", Cause: err}
			}
			docXML, err = io.ReadAll(rc)
			_ = rc.Close()
			if err != nil {
				return "", &ParseError{Message: "failed to read document part", Cause: err}
			}
			break
		}
	}
	if len(docXML) == 0 {
		return "", &ParseError{Message: "no word/document.xml in DOCX archive"}
	}

	xml := string(docXML)
	xml = strings.ReplaceAll(xml, "</w:p>", "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	return CleanText(docxTagPattern.ReplaceAllString(xml, " ")), nil
}
