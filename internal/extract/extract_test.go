package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Senior Go Engineer</w:t></w:r><w:r><w:tab/><w:t>Remote</w:t></w:r></w:p>` +
	`</w:body></w:document>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func testDocx(t *testing.T) []byte {
	return buildZip(t, map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": relsXML,
	})
}

func TestFromBytesDocx(t *testing.T) {
	text, err := FromBytes(context.Background(), testDocx(t), "resume.docx", "")
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	want := "Jane Doe\nSenior Go Engineer\tRemote"
	if text != want {
		t.Fatalf("got %q, want %q", text, want)
	}
}

func TestFromBytesDocxFromZipMime(t *testing.T) {
	if _, err := FromBytes(context.Background(), testDocx(t), "upload", "application/zip"); err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
}

func TestFromBytesPlainZipRejected(t *testing.T) {
	data := buildZip(t, map[string]string{"notes.txt": "hello"})
	_, err := FromBytes(context.Background(), data, "notes.zip", "application/zip")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if !strings.Contains(err.Error(), "application/zip") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFromBytesText(t *testing.T) {
	text, err := FromBytes(context.Background(), []byte("  Python developer\n"), "resume.txt", "")
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if text != "Python developer" {
		t.Fatalf("unexpected text %q", text)
	}

	text, err = FromBytes(context.Background(), []byte("plain body"), "resume", "text/plain; charset=utf-8")
	if err != nil || text != "plain body" {
		t.Fatalf("expected text via content type, got %q, %v", text, err)
	}
}

func TestFromBytesEmptyText(t *testing.T) {
	_, err := FromBytes(context.Background(), []byte(" \n\t "), "resume.txt", "")
	if !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestFromBytesTooLarge(t *testing.T) {
	e := Extractor{MaxBytes: 8}
	_, err := e.FromBytes(context.Background(), []byte("0123456789"), "resume.txt", "")
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestFromReaderStopsAtLimit(t *testing.T) {
	e := Extractor{MaxBytes: 4}
	_, err := e.FromReader(context.Background(), strings.NewReader(strings.Repeat("a", 1024)), "resume.txt", "")
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestFromBytesUnsupported(t *testing.T) {
	_, err := FromBytes(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "photo.png", "image/png")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestFromBytesMalformedPDF(t *testing.T) {
	_, err := FromBytes(context.Background(), []byte("%PDF-1.4 not really"), "resume.pdf", "")
	if err == nil {
		t.Fatalf("expected error for malformed pdf")
	}
}

func TestFromBytesCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := FromBytes(ctx, []byte("text"), "resume.txt", ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDetectType(t *testing.T) {
	cases := []struct {
		name, file, ctype string
		data              []byte
		want              string
	}{
		{"pdf extension", "CV.PDF", "", nil, mimePDF},
		{"docx extension", "cv.docx", "application/octet-stream", nil, mimeDOCX},
		{"markdown", "cv.md", "", nil, mimeText},
		{"pdf magic", "upload", "application/octet-stream", []byte("%PDF-1.7"), mimePDF},
		{"text mime", "upload", "text/markdown", nil, mimeText},
		{"unknown", "upload", "", nil, "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectType(tc.file, tc.ctype, tc.data); got != tc.want {
				t.Fatalf("DetectType = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStripDocxXMLMalformedKeepsDecodedText(t *testing.T) {
	cases := map[string]string{
		`<w:p><w:r><w:t>Go engineer</w:t></w:r></w:p><w:p><w:t>Kafka</w:t>`: "Go engineer\nKafka",
		`<w:p><w:t>Led a team</w:t></w:p><w:p><w:t>broken</w:x></w:p>`:     "Led a team\nbroken",
		`<w:document><w:body`: "",
	}
	for raw, want := range cases {
		got := stripDocxXML(raw)
		if got != want {
			t.Errorf("stripDocxXML(%q) = %q, want %q", raw, got, want)
		}
		if strings.Contains(got, "<") {
			t.Errorf("stripDocxXML(%q) leaked markup: %q", raw, got)
		}
	}
}
