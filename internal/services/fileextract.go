package services

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

const (
	MIMEText = "text/plain"
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEPPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var extensionTypes = map[string]string{
	".txt":  MIMEText,
	".md":   MIMEText,
	".pdf":  MIMEPDF,
	".docx": MIMEDOCX,
	".pptx": MIMEPPTX,
	".xlsx": MIMEXLSX,
}

// SupportedTypes lists the content types ExtractText understands.
func SupportedTypes() []string {
	return []string{MIMEText, MIMEPDF, MIMEDOCX, MIMEPPTX, MIMEXLSX}
}

// ResolveContentType normalises a declared content type. Empty or generic
// binary types fall back to the filename extension.
func ResolveContentType(contentType, filename string) string {
	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = parsed
	}
	if mediaType == "" || mediaType == "application/octet-stream" {
		if t, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]; ok {
			return t
		}
	}
	return mediaType
}

// ExtractText turns an uploaded document into plain text.
func ExtractText(data []byte, contentType, filename string) (string, error) {
	switch mediaType := ResolveContentType(contentType, filename); mediaType {
	case MIMEText:
		return string(data), nil
	case MIMEPDF:
		return extractPDF(data)
	case MIMEDOCX:
		return extractDOCX(data)
	case MIMEPPTX:
		return extractPPTX(data)
	case MIMEXLSX:
		return extractXLSX(data)
	default:
		if mediaType == "" {
			mediaType = "unknown"
		}
		return "", newError(ErrUnsupportedFormat, fmt.Sprintf("Unsupported file type: %s", mediaType), nil)
	}
}

func extractPDF(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", newError(ErrEmptyContent, "The PDF file is empty", nil)
	}

	// ledongthuc/pdf panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = newError(ErrParseFailure, "Failed to parse PDF", fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", newError(ErrParseFailure, "Failed to parse PDF", err)
	}

	var pages []string
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", newError(ErrParseFailure, fmt.Sprintf("Failed to read PDF page %d", pageIndex), err)
		}
		if fragments := strings.Fields(content); len(fragments) > 0 {
			pages = append(pages, strings.Join(fragments, " "))
		}
	}

	if len(pages) == 0 {
		return "", newError(ErrEmptyContent, "No extractable text found in PDF (it may be scanned or image-only)", nil)
	}
	return strings.Join(pages, "\n"), nil
}

func extractDOCX(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", newError(ErrParseFailure, "Failed to open DOCX document", err)
	}

	documentXML, err := readZipEntry(r, "word/document.xml")
	if err != nil {
		return "", newError(ErrParseFailure, "Failed to read DOCX document", err)
	}
	if documentXML == nil {
		return "", newError(ErrParseFailure, "DOCX document body not found", nil)
	}

	text := normalizeExtractedText(stripDOCXML(documentXML))
	if text == "" {
		return "", newError(ErrEmptyContent, "No extractable text found in DOCX", nil)
	}
	return text, nil
}

var (
	slidePartPattern = regexp.MustCompile(`^ppt/slides/slide\d+\.xml$`)
	textRunPattern   = regexp.MustCompile(`(?s)<a:t(?:\s[^>]*)?>(.*?)</a:t>`)
)

func extractPPTX(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", newError(ErrParseFailure, "Failed to open PPTX presentation", err)
	}

	var runs []string
	for _, f := range r.File {
		if !slidePartPattern.MatchString(f.Name) {
			continue
		}
		slideXML, err := readZipFile(f)
		if err != nil {
			return "", newError(ErrParseFailure, fmt.Sprintf("Failed to read slide %s", f.Name), err)
		}
		for _, m := range textRunPattern.FindAllSubmatch(slideXML, -1) {
			if run := strings.TrimSpace(xmlEntities.Replace(string(m[1]))); run != "" {
				runs = append(runs, run)
			}
		}
	}

	if len(runs) == 0 {
		return "", newError(ErrEmptyContent, "No extractable text found in PPTX", nil)
	}
	return strings.Join(runs, " "), nil
}

func extractXLSX(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", newError(ErrParseFailure, "Failed to open XLSX workbook", err)
	}
	defer f.Close()

	var b strings.Builder
	cells := 0
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", newError(ErrParseFailure, fmt.Sprintf("Failed to read sheet %q", sheet), err)
		}

		fmt.Fprintf(&b, "Sheet: %s\n", sheet)
		for _, row := range rows {
			if len(row) > 0 && strings.TrimSpace(row[0]) == "" {
				row = row[1:]
			}
			if len(row) == 0 {
				continue
			}
			cells += len(row)
			b.WriteString(strings.Join(row, " | "))
			b.WriteString("\n")
		}
	}

	if cells == 0 {
		return "", newError(ErrEmptyContent, "No extractable text found in XLSX", nil)
	}
	return strings.TrimSpace(b.String()), nil
}

func readZipEntry(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			return readZipFile(f)
		}
	}
	return nil, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

var xmlEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
)

func stripDOCXML(src []byte) string {
	s := string(src)

	// DOCX paragraphs and line breaks
	s = strings.ReplaceAll(s, "</w:p>", "\n")
	s = strings.ReplaceAll(s, "<w:br/>", "\n")
	s = strings.ReplaceAll(s, "<w:br />", "\n")
	s = strings.ReplaceAll(s, "<w:tab/>", "\t")

	s = xmlTagPattern.ReplaceAllString(s, "")
	return xmlEntities.Replace(s)
}

func normalizeExtractedText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	buf := bytes.Buffer{}

	emptyCount := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			emptyCount++
			if emptyCount > 1 {
				continue
			}
			buf.WriteString("\n")
			continue
		}
		emptyCount = 0
		buf.WriteString(trimmed)
		buf.WriteString("\n")
	}

	return strings.TrimSpace(buf.String())
}
