package converter

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/ginjaninja78/delimited-converter/internal/types"
)

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

// decode converts raw file bytes to a string using the named encoding.
//
// UTF-8 (the default) is validated strictly: invalid byte sequences fail with
// an EncodingError instead of being replaced. A UTF-8 BOM is dropped, and a
// UTF-16 BOM switches decoding to UTF-16.
//
// Other names are resolved through the WHATWG encoding index, e.g.
// "windows-1252", "iso-8859-1", "shift_jis", "utf-16le". Input those
// decoders can only map to U+FFFD fails with an EncodingError as well.
func decode(data []byte, name string) (string, error) {
	if isUTF8(name) {
		switch {
		case bytes.HasPrefix(data, utf16LEBOM):
			return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), data[len(utf16LEBOM):], "UTF-16LE")
		case bytes.HasPrefix(data, utf16BEBOM):
			return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), data[len(utf16BEBOM):], "UTF-16BE")
		}

		data = bytes.TrimPrefix(data, utf8BOM)
		if offset := invalidUTF8Offset(data); offset >= 0 {
			return "", types.NewError(types.KindEncoding, "", "invalid UTF-8 at byte offset %d", offset)
		}
		return string(data), nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", types.NewError(types.KindEncoding, "", "unknown encoding %q", name)
	}
	return decodeWith(enc, data, name)
}

// decodeWith decodes data with enc. x/text decoders substitute U+FFFD for
// invalid input; when the result holds U+FFFD it must encode back to data,
// otherwise the input was not valid in enc.
func decodeWith(enc encoding.Encoding, data []byte, label string) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", types.WrapError(types.KindEncoding, "", err)
	}

	if bytes.ContainsRune(out, utf8.RuneError) {
		back, err := enc.NewEncoder().Bytes(out)
		if err != nil || !bytes.Equal(back, data) {
			return "", types.NewError(types.KindEncoding, "", "invalid %s byte sequence", label)
		}
	}
	return string(out), nil
}

func isUTF8(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}

// invalidUTF8Offset returns the byte offset of the first invalid sequence,
// or -1 if data is valid UTF-8.
func invalidUTF8Offset(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
