package gsm7

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidCharacter indicates a character that cannot be represented with the GSM 7-bit default alphabet.
var ErrInvalidCharacter = errors.New("character not in GSM 7-bit alphabet")

// Escape switches to the extension table for the following septet, see [ALPHA] 6.2.1.1
const Escape byte = 0x1B

// defaultAlphabet according to [ALPHA] 6.2.1, the escape position holds a non-breaking space
var defaultAlphabet = [128]rune{
	'@', '£', '$', '¥', 'è', 'é', 'ù', 'ì', 'ò', 'Ç', '\n', 'Ø', 'ø', '\r', 'Å', 'å',
	'Δ', '_', 'Φ', 'Γ', 'Λ', 'Ω', 'Π', 'Ψ', 'Σ', 'Θ', 'Ξ', '\u00a0', 'Æ', 'æ', 'ß', 'É',
	' ', '!', '"', '#', '¤', '%', '&', '\'', '(', ')', '*', '+', ',', '-', '.', '/',
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', ':', ';', '<', '=', '>', '?',
	'¡', 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O',
	'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z', 'Ä', 'Ö', 'Ñ', 'Ü', '§',
	'¿', 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm', 'n', 'o',
	'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z', 'ä', 'ö', 'ñ', 'ü', 'à',
}

// extensionTable according to [ALPHA] 6.2.1.1, zero means the slot is not defined
var extensionTable = [128]rune{
	0x0A: '\f',
	0x14: '^',
	0x28: '{',
	0x29: '}',
	0x2F: '\\',
	0x3C: '[',
	0x3D: '~',
	0x3E: ']',
	0x40: '|',
	0x65: '€',
}

var (
	defaultSeptets   = reverse(defaultAlphabet, Escape)
	extensionSeptets = reverse(extensionTable, 0xFF)
)

func reverse(table [128]rune, skip byte) map[rune]byte {
	result := make(map[rune]byte, len(table))
	for i, r := range table {
		if r == 0 || byte(i) == skip {
			continue
		}
		result[r] = byte(i)
	}
	return result
}

// Rune returns the character of the given septet in the default alphabet.
func Rune(septet byte) rune {
	return defaultAlphabet[septet&septetMask]
}

// ExtensionRune returns the character of the given septet in the extension table. Undefined slots
// fall back to the default alphabet as required by [ALPHA] 6.2.1.1.
func ExtensionRune(septet byte) rune {
	r := extensionTable[septet&septetMask]
	if r == 0 {
		return Rune(septet)
	}
	return r
}

// DecodeSeptets maps the given unpacked septets to a string. Every escape pair yields only one
// character, so the result has one character less than septets for each escape pair.
func DecodeSeptets(septets []byte) string {
	var result strings.Builder
	result.Grow(len(septets))

	for i := 0; i < len(septets); i++ {
		s := septets[i] & septetMask
		if s != Escape {
			result.WriteRune(Rune(s))
			continue
		}
		if i+1 == len(septets) { // dangling escape
			result.WriteRune(' ')
			continue
		}
		i++
		result.WriteRune(ExtensionRune(septets[i]))
	}

	return result.String()
}

// EncodeString maps the given string to unpacked septets. Characters from the extension table are
// encoded as escape pairs.
func EncodeString(s string) ([]byte, error) {
	result := make([]byte, 0, len(s))
	for i, r := range s {
		var ok bool
		result, ok = appendSeptets(result, r)
		if !ok {
			return nil, fmt.Errorf("%q at offset %d: %w", r, i, ErrInvalidCharacter)
		}
	}
	return result, nil
}

func appendSeptets(septets []byte, r rune) ([]byte, bool) {
	if s, ok := defaultSeptets[r]; ok {
		return append(septets, s), true
	}
	if s, ok := extensionSeptets[r]; ok {
		return append(septets, Escape, s), true
	}
	return septets, false
}

// septetLen returns the number of septets needed for the given character, 0 if it cannot be encoded.
func septetLen(r rune) int {
	if _, ok := defaultSeptets[r]; ok {
		return 1
	}
	if _, ok := extensionSeptets[r]; ok {
		return 2
	}
	return 0
}

// Encodable indicates if the given string can be encoded with the GSM 7-bit default alphabet and its extension table.
func Encodable(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if septetLen(r) == 0 {
			return false
		}
	}
	return true
}

// SeptetCount returns the number of septets needed to encode the given string, counting escape pairs as two.
// Characters that cannot be encoded are not counted.
func SeptetCount(s string) int {
	result := 0
	for _, r := range s {
		result += septetLen(r)
	}
	return result
}
