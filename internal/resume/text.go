// Package resume turns uploaded resume files into structured ResumeData.
package resume

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported content types
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

// MimeForFilename maps a file extension to a supported content type, or "".
func MimeForFilename(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".txt":
		return MimeText
	default:
		return ""
	}
}

// ExtractText returns the plain text of a resume. kind is a content type or a
// filename.
func ExtractText(kind string, data []byte) (string, error) {
	mime := kind
	if m := MimeForFilename(kind); m != "" {
		mime = m
	}
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}

	switch mime {
	case MimeText:
		return string(data), nil
	case MimePDF:
		return extractPDFText(bytes.NewReader(data), int64(len(data)))
	case MimeDOCX:
		return extractDocxText(bytes.NewReader(data), int64(len(data)))
	default:
		return "", fmt.Errorf("unsupported file type: %s", kind)
	}
}

func extractPDFText(r io.ReaderAt, size int64) (text string, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("failed to read pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func extractDocxText(r io.ReaderAt, size int64) (string, error) {
	doc, err := docx.ReadDocxFromMemory(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}
