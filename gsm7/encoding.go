package gsm7

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Encoding converts between UTF-8 and unpacked GSM 7-bit septets, one septet per byte.
// Use Pack and Unpack to convert between septets and the octets of a PDU.
var Encoding encoding.Encoding = gsm7Encoding{}

type gsm7Encoding struct{}

func (gsm7Encoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: &septetDecoder{}}
}

func (gsm7Encoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: &septetEncoder{}}
}

func (gsm7Encoding) String() string {
	return "GSM 7-bit default alphabet"
}

type septetDecoder struct {
	transform.NopResetter
}

func (d *septetDecoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		s := src[nSrc] & septetMask
		consumed := 1
		var r rune
		switch {
		case s != Escape:
			r = Rune(s)
		case nSrc+1 < len(src):
			r = ExtensionRune(src[nSrc+1])
			consumed = 2
		case !atEOF:
			return nDst, nSrc, transform.ErrShortSrc
		default:
			r = ' '
		}

		if nDst+utf8.RuneLen(r) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc += consumed
	}
	return nDst, nSrc, nil
}

type septetEncoder struct {
	transform.NopResetter
}

func (e *septetEncoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && size <= 1 && !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}

		n := septetLen(r)
		if n == 0 || (r == utf8.RuneError && size == 1) {
			return nDst, nSrc, ErrInvalidCharacter
		}
		if nDst+n > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		septets, _ := appendSeptets(dst[nDst:nDst], r)
		nDst += len(septets)
		nSrc += size
	}
	return nDst, nSrc, nil
}
