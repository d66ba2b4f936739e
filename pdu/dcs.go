package pdu

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"github.com/ftl/gsm-sms/gsm7"
)

// Alphabet of the user data, as selected by the data coding scheme.
type Alphabet int

// All alphabets
const (
	SevenBit Alphabet = iota
	EightBit
	UCS2
	Unsupported
)

func (a Alphabet) String() string {
	switch a {
	case SevenBit:
		return "GSM 7 bit"
	case EightBit:
		return "8 bit"
	case UCS2:
		return "UCS2"
	default:
		return "unsupported"
	}
}

// DCS returns the data coding scheme octet for this alphabet, without message class.
func (a Alphabet) DCS() byte {
	switch a {
	case EightBit:
		return 0x04
	case UCS2:
		return 0x08
	default:
		return 0x00
	}
}

// TextCodecs contains the text encodings for the alphabets that carry text.
var TextCodecs = map[Alphabet]encoding.Encoding{
	SevenBit: gsm7.Encoding,
	UCS2:     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
}

// ClassifyDCS according to [ALPHA] 4
func ClassifyDCS(dcs byte) Alphabet {
	group := dcs >> 4
	switch {
	case group <= 0x07: // general data coding
		if dcs&0x20 != 0 {
			return Unsupported // compressed
		}
		return alphabetBits(dcs)
	case group == 0x0C, group == 0x0D: // message waiting indication, discard or store
		return SevenBit
	case group == 0x0E: // message waiting indication, store UCS2
		return UCS2
	case group == 0x0F: // data coding/message class
		if dcs&0x04 != 0 {
			return EightBit
		}
		return SevenBit
	default:
		return Unsupported
	}
}

func alphabetBits(dcs byte) Alphabet {
	switch (dcs >> 2) & 0x03 {
	case 0x00:
		return SevenBit
	case 0x01:
		return EightBit
	case 0x02:
		return UCS2
	default:
		return Unsupported
	}
}
