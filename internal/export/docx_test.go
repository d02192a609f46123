package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	now := time.Date(2024, 3, 5, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "medium_post_20240305.docx", FileName(now))
	assert.Equal(t, "medium_post_20240305_2.docx", NumberedFileName(now, 2))
}

func readParts(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	res := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		res[f.Name] = string(b)
	}
	return res
}

// paragraphs returns the text of each paragraph, breaks rendered as newlines.
func paragraphs(t *testing.T, doc string) []string {
	t.Helper()
	var res []string
	var cur *strings.Builder
	dec := xml.NewDecoder(strings.NewReader(doc))
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "p":
				cur = &strings.Builder{}
			case "br":
				cur.WriteString("\n")
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "p":
				res = append(res, cur.String())
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				cur.Write(el)
			}
		}
	}
	return res
}

func TestWriteDocx(t *testing.T) {
	text := "# Title\n\n**Bold** & <b>tags</b>\r\nlast line  "

	buf := &bytes.Buffer{}
	require.NoError(t, WriteDocx(buf, text))

	parts := readParts(t, buf.Bytes())
	require.Contains(t, parts, "[Content_Types].xml")
	require.Contains(t, parts, "_rels/.rels")
	require.Contains(t, parts, "word/document.xml")
	assert.Contains(t, parts["_rels/.rels"], `Target="word/document.xml"`)

	assert.Equal(t, []string{"# Title\n\n**Bold** & <b>tags</b>\nlast line  "}, paragraphs(t, parts["word/document.xml"]))
}

func TestWriteDocx_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteDocx(buf, ""))
	assert.Equal(t, []string{""}, paragraphs(t, readParts(t, buf.Bytes())["word/document.xml"]))
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "posts")
	now := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)

	path, err := Save(dir, FileName(now), "hello")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "medium_post_20250102.docx"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, paragraphs(t, readParts(t, data)["word/document.xml"]))
}

func TestSave_RemovesPartialFile(t *testing.T) {
	dir := t.TempDir()

	_, err := save(dir, "post.docx", "hello", func(w io.Writer, _ string) error {
		_, _ = w.Write([]byte("PK partial"))
		return errors.New("disk full")
	})
	require.EqualError(t, err, "disk full")

	_, err = os.Stat(filepath.Join(dir, "post.docx"))
	assert.True(t, os.IsNotExist(err), "partial file removed")
}
