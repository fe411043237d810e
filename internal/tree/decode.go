package tree

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// charsetReader handles non-UTF-8 encoding declarations in XML prologs.
// eSocial exports commonly declare ISO-8859-1 or Windows-1252.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return input, nil
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
}

// ParseBytes decodes raw file content into a Tree with encoding recovery:
// BOMs are honored (UTF-8 stripped, UTF-16 decoded), and content that fails
// to parse as UTF-8 is retried as ISO-8859-1. The retry mirrors how eSocial
// files produced by legacy payroll systems are mislabeled.
func ParseBytes(b []byte) (Tree, error) {
	switch {
	case bytes.HasPrefix(b, bomUTF8):
		return Parse(bytes.NewReader(b[len(bomUTF8):]))
	case bytes.HasPrefix(b, bomUTF16LE):
		return parseUTF16(b, unicode.LittleEndian)
	case bytes.HasPrefix(b, bomUTF16BE):
		return parseUTF16(b, unicode.BigEndian)
	}

	t, err := Parse(bytes.NewReader(b))
	if err == nil {
		return t, nil
	}

	dec := charmap.ISO8859_1.NewDecoder()
	r := transform.NewReader(bytes.NewReader(stripEncodingDecl(b)), dec)
	t2, err2 := Parse(r)
	if err2 != nil {
		return nil, err
	}
	return t2, nil
}

func parseUTF16(b []byte, endian unicode.Endianness) (Tree, error) {
	dec := unicode.UTF16(endian, unicode.UseBOM).NewDecoder()
	return Parse(transform.NewReader(bytes.NewReader(b), dec))
}

// stripEncodingDecl removes the encoding attribute from the XML declaration
// so the re-decoded content is not decoded twice by charsetReader.
func stripEncodingDecl(b []byte) []byte {
	if !bytes.HasPrefix(b, []byte("<?xml")) {
		return b
	}
	end := bytes.Index(b, []byte("?>"))
	if end < 0 {
		return b
	}
	decl := b[:end]
	i := bytes.Index(decl, []byte("encoding"))
	if i < 0 {
		return b
	}
	// Drop from "encoding" to the closing quote of its value.
	rest := decl[i+len("encoding"):]
	q := bytes.IndexAny(rest, `"'`)
	if q < 0 {
		return b
	}
	quote := rest[q]
	close := bytes.IndexByte(rest[q+1:], quote)
	if close < 0 {
		return b
	}
	out := make([]byte, 0, len(b))
	out = append(out, decl[:i]...)
	out = append(out, rest[q+1+close+1:]...)
	out = append(out, b[end:]...)
	return out
}
