// Package export writes generated posts to word processing documents.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

const rels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const (
	documentHead = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r>`
	documentTail = `</w:r></w:p></w:body></w:document>`
)

// FileName is the name of a post exported at t.
func FileName(t time.Time) string {
	return "medium_post_" + t.Format("20060102") + ".docx"
}

// NumberedFileName is the name of a post about the n-th article, for runs exporting several posts.
func NumberedFileName(t time.Time, n int) string {
	return fmt.Sprintf("medium_post_%s_%d.docx", t.Format("20060102"), n)
}

// WriteDocx writes text as a document with a single paragraph, line breaks kept.
func WriteDocx(w io.Writer, text string) error {
	doc, err := documentXML(text)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	parts := []struct{ name, body string }{
		{name: "[Content_Types].xml", body: contentTypes},
		{name: "_rels/.rels", body: rels},
		{name: "word/document.xml", body: doc},
	}

	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := io.WriteString(f, p.body); err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}

// Save writes the document into dir under name and returns its path.
// Nothing is left in dir when writing fails.
func Save(dir, name, text string) (string, error) {
	return save(dir, name, text, WriteDocx)
}

func save(dir, name, text string, write func(io.Writer, string) error) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("make dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	if err := write(f, text); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

func documentXML(text string) (string, error) {
	buf := &bytes.Buffer{}
	buf.WriteString(documentHead)

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		if i > 0 {
			buf.WriteString("<w:br/>")
		}
		buf.WriteString(`<w:t xml:space="preserve">`)
		if err := xml.EscapeText(buf, []byte(line)); err != nil {
			return "", fmt.Errorf("escape text: %w", err)
		}
		buf.WriteString("</w:t>")
	}

	buf.WriteString(documentTail)
	return buf.String(), nil
}
