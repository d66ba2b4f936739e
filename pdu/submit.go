package pdu

import (
	"fmt"

	"github.com/ftl/gsm-sms/gsm7"
)

const (
	// MaxLength is the default capacity for an encoded PDU, including the SMSC block.
	MaxLength = 176
	// MaxUserDataOctets is the maximum length of TP-UD in octets.
	MaxUserDataOctets = 140
	// MaxSeptets is the maximum number of septets in a single PDU.
	MaxSeptets = MaxUserDataOctets * 8 / 7
)

const (
	submitFirstOctet     = 0x11 // SMS-SUBMIT, relative validity period
	udhiFlag             = 0x40
	relativeValidity     = 0xB0 // 10 days
	defaultProtocolID    = 0x00
	autoMessageReference = 0x00
)

// Submit is an outgoing SMS-SUBMIT according to [TL] 9.2.2.2
type Submit struct {
	// ServiceCenter is optional, without it the modem uses its configured SMSC.
	ServiceCenter  string
	Destination    string
	Text           string
	Alphabet       Alphabet
	UserDataHeader UserDataHeader
}

// Encode the given text as SMS-SUBMIT with GSM 7 bit default alphabet.
func Encode(serviceCenter, destination, text string) ([]byte, error) {
	return Submit{ServiceCenter: serviceCenter, Destination: destination, Text: text}.Encode()
}

// EncodeTo encodes the given text as SMS-SUBMIT into dst. Nothing is written to dst if the PDU does not fit.
func EncodeTo(dst []byte, serviceCenter, destination, text string) (int, error) {
	return Submit{ServiceCenter: serviceCenter, Destination: destination, Text: text}.EncodeTo(dst)
}

// SelectAlphabet returns the GSM 7 bit alphabet if possible, UCS2 otherwise.
func SelectAlphabet(text string) Alphabet {
	if gsm7.Encodable(text) {
		return SevenBit
	}
	return UCS2
}

// TPDULength returns the length of the PDU without the SMSC block, as required by AT+CMGS.
func TPDULength(pdu []byte) int {
	if len(pdu) == 0 {
		return 0
	}
	return len(pdu) - 1 - int(pdu[0])
}

func (s Submit) Encode() ([]byte, error) {
	buf := newOctetBuffer(MaxLength)
	if err := s.encode(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo encodes this message into dst. The length of dst is its capacity. The result is the number of
// octets written, nothing is written if an error occurs.
func (s Submit) EncodeTo(dst []byte) (int, error) {
	buf := newOctetBuffer(len(dst))
	if err := s.encode(buf); err != nil {
		return 0, err
	}
	return copy(dst, buf.Bytes()), nil
}

func (s Submit) encode(buf *octetBuffer) error {
	if err := appendServiceCenter(buf, s.ServiceCenter); err != nil {
		return err
	}

	firstOctet := byte(submitFirstOctet)
	if s.UserDataHeader.Length() > 0 {
		firstOctet |= udhiFlag
	}
	if err := buf.append("message type", firstOctet, autoMessageReference); err != nil {
		return err
	}
	if err := appendAddress(buf, "destination", s.Destination, International); err != nil {
		return err
	}
	if err := buf.append("protocol identifier", defaultProtocolID, s.Alphabet.DCS(), relativeValidity); err != nil {
		return err
	}
	return appendUserData(buf, s.Alphabet, s.UserDataHeader, s.Text)
}

// appendUserData appends TP-UDL and TP-UD. With GSM 7 bit, the header is followed by fill bits up to the
// next septet boundary and TP-UDL counts septets, otherwise TP-UDL counts octets.
func appendUserData(buf *octetBuffer, alphabet Alphabet, header UserDataHeader, text string) error {
	headerBytes := header.Bytes()
	switch alphabet {
	case SevenBit:
		septets, err := TextCodecs[SevenBit].NewEncoder().Bytes([]byte(text))
		if err != nil {
			return fmt.Errorf("text: %w", err)
		}
		offset := header.septetOffset()
		length := offset + len(septets)
		if length > MaxSeptets {
			return fmt.Errorf("%d septets, but at most %d fit into one message: %w", length, MaxSeptets, ErrTextTooLong)
		}
		padded := make([]byte, offset, length)
		padded = append(padded, septets...)
		userData := gsm7.Pack(padded)
		copy(userData, headerBytes)

		if err := buf.append("user data length", byte(length)); err != nil {
			return err
		}
		return buf.append("user data", userData...)
	case UCS2:
		encoded, err := TextCodecs[UCS2].NewEncoder().Bytes([]byte(text))
		if err != nil {
			return fmt.Errorf("text: %w", err)
		}
		length := len(headerBytes) + len(encoded)
		if length > MaxUserDataOctets {
			return fmt.Errorf("%d octets, but at most %d fit into one message: %w", length, MaxUserDataOctets, ErrTextTooLong)
		}

		if err := buf.append("user data length", byte(length)); err != nil {
			return err
		}
		if err := buf.append("user data header", headerBytes...); err != nil {
			return err
		}
		return buf.append("user data", encoded...)
	case EightBit, Unsupported:
		return fmt.Errorf("cannot encode text as %s: %w", alphabet, ErrUnsupportedCoding)
	default:
		return fmt.Errorf("unknown alphabet %d: %w", alphabet, ErrUnsupportedCoding)
	}
}
