package rag

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	readability "github.com/go-shiori/go-readability"
	"github.com/ledongthuc/pdf"
)

// FixtureFunc resolves canned document text by file name. It exists so demo
// and test fixtures stay injectable instead of being baked into extraction.
type FixtureFunc func(name string) (string, bool)

// Extractor converts document bytes into plain text based on declared or
// inferred file type. The zero value is a working extractor with no fixtures.
type Extractor struct {
	Fixtures FixtureFunc
}

var _ TextExtractor = Extractor{}

const (
	errPlaceholderPrefix         = "[Error extracting content:"
	unsupportedPlaceholderPrefix = "[Content extraction not supported for"
)

// IsPlaceholder reports whether an extracted text is an error or
// unsupported-format placeholder rather than real content.
func IsPlaceholder(text string) bool {
	return strings.HasPrefix(text, errPlaceholderPrefix) ||
		strings.HasPrefix(text, unsupportedPlaceholderPrefix)
}

// Extract returns the plain text of src. It never fails: parser errors and
// panics become an error placeholder, unknown formats an unsupported
// placeholder. One bad document must not abort context assembly for the rest.
func (e Extractor) Extract(src Source) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = fmt.Sprintf("%s %v]", errPlaceholderPrefix, r)
		}
	}()

	if e.Fixtures != nil {
		if canned, ok := e.Fixtures(src.Name); ok {
			return canned
		}
	}

	ext := fileExt(src)
	switch ext {
	case ".pdf", ".docx", ".xlsx", ".html", ".htm", ".txt", ".csv", ".json", ".md":
	default:
		return fmt.Sprintf("%s %s files]", unsupportedPlaceholderPrefix, ext)
	}

	if src.Raw == nil {
		return fmt.Sprintf("%s no content available]", errPlaceholderPrefix)
	}
	data, err := src.Raw()
	if err != nil {
		return fmt.Sprintf("%s %v]", errPlaceholderPrefix, err)
	}

	switch ext {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDOCX(data)
	case ".xlsx":
		text, err = extractXLSX(data)
	case ".html", ".htm":
		text, err = extractHTML(data, src.Name)
	default:
		text, err = decodeText(data), nil
	}
	if err != nil {
		return fmt.Sprintf("%s %v]", errPlaceholderPrefix, err)
	}
	return text
}

func fileExt(src Source) string {
	if t := strings.TrimSpace(strings.ToLower(src.Type)); t != "" {
		if !strings.HasPrefix(t, ".") {
			t = "." + t
		}
		return t
	}
	return strings.ToLower(filepath.Ext(src.Name))
}

// decodeText decodes bytes as UTF-8, falling back to a byte-per-rune
// decoding when the content is not valid UTF-8.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	rs := make([]rune, len(data))
	for i, b := range data {
		rs[i] = rune(b)
	}
	return string(rs)
}

func extractPDF(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty pdf content")
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return string(b), nil
}

// extractDOCX pulls the run text out of word/document.xml, keeping paragraph
// breaks so the chunker can split on them.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("docx container: %w", err)
	}
	f := findZipFile(zr, "word/document.xml")
	if f == nil {
		return "", fmt.Errorf("docx missing word/document.xml")
	}
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)
	var out strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				out.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				out.Write(t)
			}
		}
	}
	s := strings.TrimSpace(out.String())
	if s == "" {
		return "", fmt.Errorf("no text in docx")
	}
	return s, nil
}

// extractXLSX walks the shared-string table and every worksheet, emitting one
// line per row with tab-separated cell values.
func extractXLSX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("xlsx container: %w", err)
	}

	var shared []string
	if f := findZipFile(zr, "xl/sharedStrings.xml"); f != nil {
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		shared = collectXMLText(rc, "t")
		rc.Close()
	}

	var out strings.Builder
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, "xl/worksheets/") || !strings.HasSuffix(f.Name, ".xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		writeSheetText(&out, rc, shared)
		rc.Close()
	}
	s := strings.TrimSpace(out.String())
	if s == "" {
		return "", fmt.Errorf("no text in xlsx")
	}
	return s, nil
}

func writeSheetText(out *strings.Builder, r io.Reader, shared []string) {
	dec := xml.NewDecoder(r)
	cellType := ""
	inValue := false
	var value strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "c":
				cellType = ""
				for _, a := range t.Attr {
					if a.Name.Local == "t" {
						cellType = a.Value
					}
				}
			case "v", "is":
				inValue = true
				value.Reset()
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "v", "is":
				inValue = false
				v := value.String()
				if cellType == "s" {
					if idx, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && idx >= 0 && idx < len(shared) {
						v = shared[idx]
					}
				}
				if v != "" {
					out.WriteString(v)
					out.WriteString("\t")
				}
			case "row":
				out.WriteString("\n")
			}
		case xml.CharData:
			if inValue {
				value.Write(t)
			}
		}
	}
}

func extractHTML(data []byte, name string) (string, error) {
	u, _ := url.Parse("file:///" + name)
	article, err := readability.FromReader(bytes.NewReader(data), u)
	if err == nil {
		if s := strings.TrimSpace(article.TextContent); s != "" {
			return s, nil
		}
	}
	// Readability rejects fragments without article structure; fall back to
	// stripping tags.
	s := tagPattern.ReplaceAllString(string(data), " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("no text in html")
	}
	return s, nil
}

var tagPattern = regexp.MustCompile(`(?s)<[^>]*>`)

func findZipFile(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func collectXMLText(r io.Reader, local string) []string {
	dec := xml.NewDecoder(r)
	var out []string
	inTag := false
	var cur strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == local {
				inTag = true
				cur.Reset()
			}
		case xml.EndElement:
			if t.Name.Local == local {
				inTag = false
				out = append(out, cur.String())
			}
		case xml.CharData:
			if inTag {
				cur.Write(t)
			}
		}
	}
	return out
}
