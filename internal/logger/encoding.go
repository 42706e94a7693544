package logger

import (
	"encoding/binary"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Encoding はシンクに書き出すテキスト単位の幅を表す
type Encoding int

const (
	EncodingUTF8 Encoding = iota
	// EncodingWide はプラットフォームの wchar_t 幅（Windows は UTF-16、それ以外は UTF-32）
	EncodingWide
	EncodingUTF16
	EncodingUTF32
)

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "utf8"
	case EncodingWide:
		return "wide"
	case EncodingUTF16:
		return "utf16"
	case EncodingUTF32:
		return "utf32"
	default:
		return "unknown"
	}
}

// ParseEncoding はエンコーディング名をパースする
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf8", "utf-8", "narrow":
		return EncodingUTF8, nil
	case "wide", "wchar":
		return EncodingWide, nil
	case "utf16", "utf-16":
		return EncodingUTF16, nil
	case "utf32", "utf-32":
		return EncodingUTF32, nil
	default:
		return EncodingUTF8, errors.Errorf("unknown encoding: %q", s)
	}
}

// UnitSize は1テキスト単位のバイト数を返す
func (e Encoding) UnitSize() int {
	switch e.resolve() {
	case EncodingUTF16:
		return 2
	case EncodingUTF32:
		return 4
	default:
		return 1
	}
}

func (e Encoding) resolve() Encoding {
	if e != EncodingWide {
		return e
	}
	if runtime.GOOS == "windows" {
		return EncodingUTF16
	}
	return EncodingUTF32
}

// newEncoder はネイティブバイトオーダー・BOMなしのエンコーダを返す。UTF-8 は nil
func (e Encoding) newEncoder() *encoding.Encoder {
	little := binary.NativeEndian.Uint16([]byte{1, 0}) == 1

	switch e.resolve() {
	case EncodingUTF16:
		order := unicode.BigEndian
		if little {
			order = unicode.LittleEndian
		}
		return unicode.UTF16(order, unicode.IgnoreBOM).NewEncoder()
	case EncodingUTF32:
		order := utf32.BigEndian
		if little {
			order = utf32.LittleEndian
		}
		return utf32.UTF32(order, utf32.IgnoreBOM).NewEncoder()
	default:
		return nil
	}
}
