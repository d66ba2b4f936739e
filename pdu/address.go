package pdu

import (
	"fmt"
	"strings"

	"github.com/ftl/gsm-sms/gsm7"
)

// TypeOfAddress according to [TL] 9.1.2.5
type TypeOfAddress byte

// The commonly used TypeOfAddress values
const (
	Unknown       TypeOfAddress = 0x81
	International TypeOfAddress = 0x91
	National      TypeOfAddress = 0xA1
	Alphanumeric  TypeOfAddress = 0xD0
)

// TypeOfNumber returns bits 6..4 of the type of address.
func (t TypeOfAddress) TypeOfNumber() byte {
	return (byte(t) >> 4) & 0x07
}

// IsInternational indicates an international number, to be dialled with a leading +.
func (t TypeOfAddress) IsInternational() bool {
	return t.TypeOfNumber() == 0x01
}

// IsAlphanumeric indicates an address that contains packed 7-bit text instead of digits.
func (t TypeOfAddress) IsAlphanumeric() bool {
	return t.TypeOfNumber() == 0x05
}

// MaxPhoneNumberDigits is the maximum number of digits in an address field ([TL] 9.1.2.5).
const MaxPhoneNumberDigits = 20

const (
	maxAddressOctets = 2 + MaxPhoneNumberDigits/2
	fillerNibble     = 0x0F
)

// semiOctetDigits maps the semi-octet values 0x0-0xE to characters according to [TL] 9.1.2.3
const semiOctetDigits = "0123456789*#abc"

// EncodePhoneNumber encodes the digits of the given phone number as semi-octets, lower nibble first. An odd
// number of digits is padded with 0xF. A leading + is ignored.
func EncodePhoneNumber(number string) ([]byte, error) {
	digits := strings.TrimPrefix(number, "+")
	result := make([]byte, (len(digits)+1)/2)
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("%q at position %d of %q: %w", c, i, number, ErrInvalidDigit)
		}
		d := c - '0'
		if i%2 == 0 {
			result[i/2] = fillerNibble<<4 | d
		} else {
			result[i/2] = result[i/2]&0x0F | d<<4
		}
	}
	return result, nil
}

// DecodePhoneNumber decodes the given number of digits from the semi-octets. The filler of an odd
// number of digits is never part of the result.
func DecodePhoneNumber(octets []byte, digits int) (string, error) {
	if (digits+1)/2 > len(octets) {
		return "", fmt.Errorf("%d digits need %d octets, got %d: %w", digits, (digits+1)/2, len(octets), ErrTruncatedInput)
	}

	var result strings.Builder
	result.Grow(digits)
	for i := 0; i < digits; i++ {
		nibble := octets[i/2]
		if i%2 == 0 {
			nibble &= 0x0F
		} else {
			nibble >>= 4
		}
		if int(nibble) >= len(semiOctetDigits) {
			return "", fmt.Errorf("semi-octet 0x%x at position %d: %w", nibble, i, ErrInvalidDigit)
		}
		result.WriteByte(semiOctetDigits[nibble])
	}
	return result.String(), nil
}

// decodeAddress decodes the value of an address field, length is the address length field (number of semi-octets).
func decodeAddress(length int, toa TypeOfAddress, octets []byte) (string, error) {
	if toa.IsAlphanumeric() {
		septets := gsm7.Unpack(octets, length*4/7)
		return gsm7.DecodeSeptets(septets), nil
	}
	return DecodePhoneNumber(octets, length)
}

// appendAddress appends an address field with length (number of semi-octets), type of address and value.
func appendAddress(buf *octetBuffer, field string, address string, toa TypeOfAddress) error {
	var length int
	var value []byte
	if toa.IsAlphanumeric() {
		septets, err := gsm7.EncodeString(address)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		value = gsm7.Pack(septets)
		length = (len(septets)*7 + 3) / 4
	} else {
		var err error
		value, err = EncodePhoneNumber(address)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		length = len(strings.TrimPrefix(address, "+"))
	}
	if length == 0 {
		return fmt.Errorf("%s is empty: %w", field, ErrInvalidDigit)
	}
	if len(value) > maxAddressOctets-2 {
		return fmt.Errorf("%s needs %d octets, but at most %d are allowed: %w", field, len(value), maxAddressOctets-2, ErrBufferTooSmall)
	}

	if err := buf.append(field, byte(length), byte(toa)); err != nil {
		return err
	}
	return buf.append(field, value...)
}

// appendServiceCenter appends the SMSC block, whose length counts the type of address and the digit octets.
// An empty number selects the SMSC stored in the modem.
func appendServiceCenter(buf *octetBuffer, number string) error {
	if number == "" {
		return buf.append("service center length", 0x00)
	}
	digits, err := EncodePhoneNumber(number)
	if err != nil {
		return fmt.Errorf("service center: %w", err)
	}
	if len(digits) > maxAddressOctets-2 {
		return fmt.Errorf("service center needs %d octets, but at most %d are allowed: %w", len(digits), maxAddressOctets-2, ErrBufferTooSmall)
	}
	if err := buf.append("service center", byte(len(digits)+1), byte(International)); err != nil {
		return err
	}
	return buf.append("service center", digits...)
}

// decodeServiceCenter decodes the digits of the SMSC block, the last semi-octet may be a filler.
func decodeServiceCenter(octets []byte) (string, error) {
	digits := 2 * len(octets)
	if digits > 0 && octets[len(octets)-1]>>4 == fillerNibble {
		digits--
	}
	return DecodePhoneNumber(octets, digits)
}
