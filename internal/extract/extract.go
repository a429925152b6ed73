// Package extract turns uploaded resume documents into plain text.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// DefaultMaxBytes is the upload limit used when Extractor.MaxBytes is unset.
const DefaultMaxBytes int64 = 5 << 20

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
	mimeZip  = "application/zip"
)

var (
	ErrTooLarge        = errors.New("file exceeds size limit")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyText       = errors.New("no text could be extracted")
)

// Extractor extracts text from PDF, DOCX and plain-text payloads.
type Extractor struct {
	MaxBytes int64
}

// FromBytes extracts text with the default size limit.
func FromBytes(ctx context.Context, data []byte, fileName, contentType string) (string, error) {
	return Extractor{}.FromBytes(ctx, data, fileName, contentType)
}

func (e Extractor) limit() int64 {
	if e.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return e.MaxBytes
}

// FromReader reads at most MaxBytes+1 bytes from r and extracts text.
func (e Extractor) FromReader(ctx context.Context, r io.Reader, fileName, contentType string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, e.limit()+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", fileName, err)
	}
	return e.FromBytes(ctx, data, fileName, contentType)
}

// FromBytes dispatches on the file extension, falling back to contentType.
// The returned text is trimmed and never empty.
func (e Extractor) FromBytes(ctx context.Context, data []byte, fileName, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if int64(len(data)) > e.limit() {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(data), e.limit())
	}

	kind := DetectType(fileName, contentType, data)
	var (
		text string
		err  error
	)
	switch kind {
	case mimePDF:
		text, err = extractPDF(data)
	case mimeDOCX:
		text, err = extractDOCX(data)
	case mimeText:
		text = strings.ToValidUTF8(string(data), "")
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, kind)
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", kind, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

// DetectType resolves the document MIME type from the file name, the
// declared content type and, for zip payloads, the archive layout.
func DetectType(fileName, contentType string, data []byte) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return mimePDF
	case ".docx":
		return mimeDOCX
	case ".txt", ".text", ".md":
		return mimeText
	}

	clean := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch {
	case clean == mimeZip || clean == "application/octet-stream":
		if mapOOXMLFromZip(data) == mimeDOCX {
			return mimeDOCX
		}
		if bytes.HasPrefix(data, []byte("%PDF-")) {
			return mimePDF
		}
	case strings.HasPrefix(clean, "text/"):
		return mimeText
	}
	if clean == "" {
		return "unknown"
	}
	return clean
}

func extractPDF(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed xref tables
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(pageText)
	}
	return b.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()

	return stripDocxXML(doc.Editable().GetContent()), nil
}

// stripDocxXML keeps character data and ends paragraphs and breaks with a newline.
// Malformed XML yields the text decoded before the error.
func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		case xml.StartElement:
			if t.Name.Local == "tab" {
				buf.WriteString("\t")
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func mapOOXMLFromZip(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return mimeDOCX
		}
	}
	return ""
}
