package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
)

// docxDocumentXMLPath is the default path to the main document body inside a .docx zip.
const docxDocumentXMLPath = "word/document.xml"

// contentTypesPath is the path to [Content_Types].xml in OOXML packages.
const contentTypesPath = "[Content_Types].xml"

// docxMainContentType is the content type for the main document in DOCX files.
const docxMainContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"

// oleMagic is the compound file binary format signature that opens legacy .doc files.
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// wtTag matches <w:t>text</w:t> or <w:t xml:space="preserve">text</w:t> (and any other attributes).
var wtTag = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

// partNameRe extracts PartName from Override elements in [Content_Types].xml.
var partNameRe = regexp.MustCompile(`<Override[^>]+PartName="([^"]+)"[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"`)

// partNameRe2 handles the case where ContentType appears before PartName.
var partNameRe2 = regexp.MustCompile(`<Override[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"[^>]+PartName="([^"]+)"`)

// WordAdapter handles Microsoft Word documents, both OOXML (.docx) and the
// legacy OLE compound binary format (.doc). Dispatch is by container
// signature rather than extension, so a .doc that is really a renamed
// .docx still extracts.
type WordAdapter struct{}

// NewWordAdapter returns a new WordAdapter.
func NewWordAdapter() *WordAdapter {
	return &WordAdapter{}
}

// Name returns the adapter name.
func (*WordAdapter) Name() string { return "word" }

// Extensions returns the extensions this adapter handles.
func (*WordAdapter) Extensions() []string { return []string{".doc", ".docx"} }

// Extract returns the document body text joined with single spaces.
func (*WordAdapter) Extract(_ context.Context, content []byte) (string, error) {
	if zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content))); err == nil {
		return extractOOXML(zr)
	}
	if bytes.HasPrefix(content, oleMagic) {
		return extractBinaryDoc(content)
	}
	return "", fmt.Errorf("not a Word document: neither an OOXML package nor an OLE compound file")
}

// findMainDocumentPath finds the main document path from [Content_Types].xml.
// Returns the path without leading slash, or empty string if not found.
func findMainDocumentPath(zr *zip.Reader) string {
	for _, f := range zr.File {
		if f.Name != contentTypesPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return ""
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			_ = rc.Close()
			return ""
		}
		_ = rc.Close()

		content := buf.String()
		// Try both attribute orders
		if matches := partNameRe.FindStringSubmatch(content); len(matches) > 1 {
			return strings.TrimPrefix(matches[1], "/")
		}
		if matches := partNameRe2.FindStringSubmatch(content); len(matches) > 1 {
			return strings.TrimPrefix(matches[1], "/")
		}
		return ""
	}
	return ""
}

// extractOOXML extracts text from a .docx package. DOCX is a ZIP containing
// word/document.xml (OOXML). We extract all <w:t>...</w:t> text nodes so
// content survives regardless of paragraph/run attributes. We do not use
// lu4p/cat because its regex only matches <w:p>(.*)</w:p> without attributes,
// so real-world docs (e.g. <w:p w:rsidR="...">) yield empty.
func extractOOXML(zr *zip.Reader) (string, error) {
	// Find main document path from [Content_Types].xml, fall back to default
	docPath := findMainDocumentPath(zr)
	if docPath == "" {
		docPath = docxDocumentXMLPath
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != docPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", f.Name, err)
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			_ = rc.Close()
			return "", fmt.Errorf("read %s: %w", f.Name, err)
		}
		_ = rc.Close()
		docXML = buf.Bytes()
		break
	}
	if docXML == nil {
		return "", fmt.Errorf("%s not found", docPath)
	}
	// Extract all <w:t>...</w:t> inner text and join with spaces.
	parts := wtTag.FindAllStringSubmatch(string(docXML), -1)
	if len(parts) == 0 {
		return "", nil
	}
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.TrimSpace(p[1]))
	}
	return strings.TrimSpace(b.String()), nil
}

// extractBinaryDoc extracts text from a legacy Word 97-2003 binary file.
// The text range is taken from the File Information Block (fcMin..fcMac in
// the WordDocument stream) and decoded as UTF-16LE or Windows-1252 depending
// on the byte pattern. Fast-saved files store text in scattered pieces, so
// this recovers the contiguous range only.
func extractBinaryDoc(content []byte) (string, error) {
	doc, err := mscfb.New(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("open compound file: %w", err)
	}
	var stream []byte
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name != "WordDocument" {
			continue
		}
		stream, err = io.ReadAll(entry)
		if err != nil {
			return "", fmt.Errorf("read WordDocument stream: %w", err)
		}
		break
	}
	if stream == nil {
		return "", fmt.Errorf("WordDocument stream not found")
	}
	if len(stream) < 0x20 {
		return "", fmt.Errorf("WordDocument stream truncated (%d bytes)", len(stream))
	}
	if ident := binary.LittleEndian.Uint16(stream[0:2]); ident != 0xA5EC {
		return "", fmt.Errorf("unrecognized FIB signature 0x%04X", ident)
	}
	fcMin := int(binary.LittleEndian.Uint32(stream[0x18:0x1C]))
	fcMac := int(binary.LittleEndian.Uint32(stream[0x1C:0x20]))
	if fcMac > len(stream) {
		fcMac = len(stream)
	}
	if fcMin < 0 || fcMin >= fcMac {
		return "", fmt.Errorf("empty or malformed text range %d..%d", fcMin, fcMac)
	}
	raw := stream[fcMin:fcMac]

	var decoded []byte
	if looksUTF16LE(raw) {
		decoded, err = xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM).NewDecoder().Bytes(raw)
	} else {
		decoded, err = charmap.Windows1252.NewDecoder().Bytes(raw)
	}
	if err != nil {
		return "", fmt.Errorf("decode text range: %w", err)
	}
	return scrubDocText(string(decoded)), nil
}

// looksUTF16LE reports whether the byte slice is plausibly UTF-16LE text.
// Latin-script UTF-16LE has a zero high byte for almost every code unit.
func looksUTF16LE(b []byte) bool {
	if len(b) < 2 {
		return false
	}
	sample := b
	if len(sample) > 1024 {
		sample = sample[:1024]
	}
	zeros := 0
	pairs := 0
	for i := 1; i < len(sample); i += 2 {
		pairs++
		if sample[i] == 0 {
			zeros++
		}
	}
	return pairs > 0 && zeros*10 >= pairs*3
}

// scrubDocText replaces Word control characters (paragraph marks, cell
// marks, field separators) and anything unprintable with whitespace, then
// collapses runs of whitespace to single spaces.
func scrubDocText(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}
