// Package encoding normalises uploaded text files to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffLen = 4096

// Charset names reported by Detect.
const (
	UTF8        = "UTF-8"
	UTF16LE     = "UTF-16LE"
	UTF16BE     = "UTF-16BE"
	Windows1252 = "windows-1252"
	ISO88599    = "ISO-8859-9"
	ISO885915   = "ISO-8859-15"
)

var boms = []struct {
	prefix  []byte
	charset string
}{
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8},
	{[]byte{0xFF, 0xFE}, UTF16LE},
	{[]byte{0xFE, 0xFF}, UTF16BE},
}

var decoders = map[string]xenc.Encoding{
	UTF16LE:      unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	UTF16BE:      unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	Windows1252:  charmap.Windows1252,
	"ISO-8859-1": charmap.Windows1252,
	ISO88599:     charmap.ISO8859_9,
	ISO885915:    charmap.ISO8859_15,
}

// Detect guesses the charset of a sample: byte order marks first, then UTF-8
// validity, then chardet. Anything unrecognised is treated as windows-1252,
// which is what spreadsheet tools on Windows export by default.
func Detect(sample []byte) string {
	for _, b := range boms {
		if bytes.HasPrefix(sample, b.prefix) {
			return b.charset
		}
	}

	if utf8.Valid(sample) {
		return UTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err == nil {
		if result.Charset == UTF8 {
			return UTF8
		}

		if _, ok := decoders[result.Charset]; ok {
			return result.Charset
		}
	}

	return Windows1252
}

// NewUTF8Reader returns a reader that yields r's content as UTF-8, with any
// UTF-8 byte order mark removed.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	sample, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if len(sample) == sniffLen {
		sample = trimPartialRune(sample)
	}

	charset := Detect(sample)
	if charset == UTF8 {
		if bytes.HasPrefix(sample, boms[0].prefix) {
			_, _ = br.Discard(len(boms[0].prefix))
		}

		return br, nil
	}

	return transform.NewReader(br, decoders[charset].NewDecoder()), nil
}

// trimPartialRune drops a multi-byte rune cut off at the end of a sample.
func trimPartialRune(sample []byte) []byte {
	for i := len(sample) - 1; i >= 0 && i >= len(sample)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(sample[i]) {
			continue
		}

		if !utf8.FullRune(sample[i:]) {
			return sample[:i]
		}

		break
	}

	return sample
}
