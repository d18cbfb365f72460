package source

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names the text encoding a file is decoded from.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingUTF16       Encoding = "utf-16"
	EncodingUTF16LE     Encoding = "utf-16le"
	EncodingUTF16BE     Encoding = "utf-16be"
	EncodingLatin1      Encoding = "latin1"
	EncodingWindows1252 Encoding = "windows-1252"
)

// ParseEncoding maps a user supplied name (case-insensitive, common aliases
// accepted) to an Encoding. The empty string means UTF-8.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "utf-16", "utf16":
		return EncodingUTF16, nil
	case "utf-16le", "utf16le":
		return EncodingUTF16LE, nil
	case "utf-16be", "utf16be":
		return EncodingUTF16BE, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return EncodingLatin1, nil
	case "windows-1252", "cp1252":
		return EncodingWindows1252, nil
	default:
		return "", fmt.Errorf("unsupported encoding %q (expected utf-8|utf-16|utf-16le|utf-16be|latin1|windows-1252)", name)
	}
}

// DecodeError reports content that is not valid text in the assumed encoding.
type DecodeError struct {
	Path     string
	Encoding Encoding
	Offset   int // byte offset of the first undecodable input byte
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: cannot decode %s at byte %d: %v", e.Path, e.Encoding, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// decode converts raw bytes in enc to UTF-8. For UTF-8 input the bytes are only
// validated; the returned offset points at the first invalid byte on failure.
func decode(raw []byte, enc Encoding) ([]byte, int, error) {
	if enc == "" || enc == EncodingUTF8 {
		_, n, err := transform.Bytes(encoding.UTF8Validator, raw)
		if err != nil {
			return nil, n, err
		}
		return raw, 0, nil
	}

	dec, err := decoderFor(enc)
	if err != nil {
		return nil, 0, err
	}
	out, n, err := transform.Bytes(dec, raw)
	if err != nil {
		return nil, n, err
	}
	return out, 0, nil
}

func decoderFor(enc Encoding) (*encoding.Decoder, error) {
	switch enc {
	case EncodingUTF16:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder(), nil
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder(), nil
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder(), nil
	case EncodingLatin1:
		return charmap.ISO8859_1.NewDecoder(), nil
	case EncodingWindows1252:
		return charmap.Windows1252.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", string(enc))
	}
}
