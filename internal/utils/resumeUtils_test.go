package utils

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractResumeTextDOCX(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t>Python</w:t></w:r><w:r><w:tab/><w:t xml:space="preserve">&amp; Django</w:t></w:r></w:p>
</w:body>
</w:document>`

	text, err := ExtractResumeText("CV.DOCX", buildDOCX(t, doc))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nPython\t& Django", text)
}

func TestExtractResumeTextDOCXWithoutDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = ExtractResumeText("cv.docx", buf.Bytes())
	assert.Error(t, err)
}

func TestExtractResumeTextEmptyDOCX(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p/></w:body></w:document>`

	_, err := ExtractResumeText("cv.docx", buildDOCX(t, doc))
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestExtractResumeTextRejectsOtherFormats(t *testing.T) {
	_, err := ExtractResumeText("cv.txt", []byte("plain text"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractResumeTextInvalidPDF(t *testing.T) {
	_, err := ExtractResumeText("cv.pdf", []byte("not a pdf"))
	assert.Error(t, err)
}
