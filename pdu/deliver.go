package pdu

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ftl/gsm-sms/gsm7"
)

// MessageType according to [TL] 9.2.3.1, for messages received by the mobile station.
type MessageType byte

// All message types
const (
	DeliverType      MessageType = 0x00
	SubmitReportType MessageType = 0x01
	StatusReportType MessageType = 0x02
)

func (t MessageType) String() string {
	switch t {
	case DeliverType:
		return "SMS-DELIVER"
	case SubmitReportType:
		return "SMS-SUBMIT-REPORT"
	case StatusReportType:
		return "SMS-STATUS-REPORT"
	default:
		return fmt.Sprintf("reserved message type %d", byte(t))
	}
}

const (
	messageTypeMask   = 0x03
	deliverFirstOctet = 0x04 // SMS-DELIVER, no more messages to send
)

// Message is a decoded SMS-DELIVER according to [TL] 9.2.2.1
type Message struct {
	ServiceCenter     string
	ServiceCenterType TypeOfAddress
	Sender            string
	SenderType        TypeOfAddress
	ProtocolID        byte
	DCS               byte
	Alphabet          Alphabet
	Timestamp         time.Time
	UserDataHeader    UserDataHeader

	// Reference, TotalParts and PartNumber are zero if the message is not part of a concatenated message.
	Reference  uint16
	TotalParts byte
	PartNumber byte

	// UserDataLength is TP-UDL, in septets for GSM 7 bit, in octets otherwise.
	UserDataLength int
	Text           string
	// UserData is the raw TP-UD, including the user data header.
	UserData []byte
}

// Multipart indicates if this message is one part of a concatenated message.
func (m Message) Multipart() bool {
	return m.TotalParts > 1
}

// Decode an SMS-DELIVER PDU, including the SMSC block. If the data coding scheme does not describe text,
// the message is returned with the raw user data together with an error that wraps ErrUnsupportedCoding.
func Decode(octets []byte) (Message, error) {
	var result Message
	r := &octetReader{bytes: octets}

	scLength, err := r.nextByte("service center length")
	if err != nil {
		return Message{}, err
	}
	if scLength > 0 {
		toa, err := r.nextByte("service center type")
		if err != nil {
			return Message{}, err
		}
		digits, err := r.next("service center", int(scLength)-1)
		if err != nil {
			return Message{}, err
		}
		result.ServiceCenterType = TypeOfAddress(toa)
		result.ServiceCenter, err = decodeServiceCenter(digits)
		if err != nil {
			return Message{}, fmt.Errorf("service center: %w", err)
		}
	}

	firstOctet, err := r.nextByte("message type")
	if err != nil {
		return Message{}, err
	}
	messageType := MessageType(firstOctet & messageTypeMask)
	if messageType != DeliverType {
		return Message{}, fmt.Errorf("%s: %w", messageType, ErrUnsupportedMessageType)
	}

	senderLength, err := r.nextByte("sender length")
	if err != nil {
		return Message{}, err
	}
	senderType, err := r.nextByte("sender type")
	if err != nil {
		return Message{}, err
	}
	result.SenderType = TypeOfAddress(senderType)
	senderOctets, err := r.next("sender", (int(senderLength)+1)/2)
	if err != nil {
		return Message{}, err
	}
	result.Sender, err = decodeAddress(int(senderLength), result.SenderType, senderOctets)
	if err != nil {
		return Message{}, fmt.Errorf("sender: %w", err)
	}

	result.ProtocolID, err = r.nextByte("protocol identifier")
	if err != nil {
		return Message{}, err
	}
	result.DCS, err = r.nextByte("data coding scheme")
	if err != nil {
		return Message{}, err
	}
	result.Alphabet = ClassifyDCS(result.DCS)

	timestamp, err := r.next("timestamp", TimestampLength)
	if err != nil {
		return Message{}, err
	}
	result.Timestamp, err = DecodeTimestamp(timestamp)
	if err != nil {
		return Message{}, err
	}

	udl, err := r.nextByte("user data length")
	if err != nil {
		return Message{}, err
	}
	result.UserDataLength = int(udl)
	userDataOctets := int(udl)
	switch result.Alphabet {
	case SevenBit:
		userDataOctets = gsm7.PackedLen(int(udl))
	case Unsupported:
		// the unit of TP-UDL is unknown, take what is there
		userDataOctets = min(userDataOctets, len(octets)-r.offset)
	}
	userData, err := r.next("user data", userDataOctets)
	if err != nil {
		return Message{}, err
	}
	result.UserData = bytes.Clone(userData)

	if firstOctet&udhiFlag != 0 {
		err = result.parseUserDataHeader(userData)
		if err != nil {
			return Message{}, err
		}
	}

	switch result.Alphabet {
	case SevenBit:
		err = result.decodeSevenBit(userData)
	case UCS2:
		err = result.decodeUCS2(userData)
	case EightBit, Unsupported:
		return result, fmt.Errorf("data coding scheme 0x%02x (%s): %w", result.DCS, result.Alphabet, ErrUnsupportedCoding)
	}
	if err != nil {
		return Message{}, err
	}
	return result, nil
}

func (m *Message) parseUserDataHeader(userData []byte) error {
	if len(userData) == 0 || int(userData[0])+1 > len(userData) {
		return fmt.Errorf("user data header exceeds %d octets of user data: %w", len(userData), ErrLengthMismatch)
	}
	header, err := ParseUserDataHeader(userData)
	if err != nil {
		return err
	}
	m.UserDataHeader = header
	if reference, total, part, ok := header.Concatenation(); ok {
		m.Reference = reference
		m.TotalParts = total
		m.PartNumber = part
	}
	return nil
}

func (m *Message) decodeSevenBit(userData []byte) error {
	septets := gsm7.Unpack(userData, m.UserDataLength)
	if len(septets) != m.UserDataLength {
		return fmt.Errorf("%d septets unpacked, but %d declared: %w", len(septets), m.UserDataLength, ErrLengthMismatch)
	}
	offset := m.UserDataHeader.septetOffset()
	if offset > len(septets) {
		return fmt.Errorf("user data header occupies %d septets, but only %d declared: %w", offset, len(septets), ErrLengthMismatch)
	}
	text, err := TextCodecs[SevenBit].NewDecoder().Bytes(septets[offset:])
	if err != nil {
		return fmt.Errorf("7 bit text: %w", err)
	}
	m.Text = string(text)
	return nil
}

func (m *Message) decodeUCS2(userData []byte) error {
	payload := userData[m.UserDataHeader.Length():]
	if len(payload)%2 != 0 {
		return fmt.Errorf("UCS2 text with odd length %d: %w", len(payload), ErrLengthMismatch)
	}
	text, err := TextCodecs[UCS2].NewDecoder().Bytes(payload)
	if err != nil {
		return fmt.Errorf("UCS2 text: %w", err)
	}
	m.Text = string(text)
	return nil
}

// Deliver is an SMS-DELIVER to be encoded, e.g. to simulate incoming messages.
type Deliver struct {
	ServiceCenter string
	Sender        string
	// SenderType defaults to International.
	SenderType     TypeOfAddress
	ProtocolID     byte
	Timestamp      time.Time
	Alphabet       Alphabet
	UserDataHeader UserDataHeader
	Text           string
}

// EncodeDeliver encodes the given SMS-DELIVER, including the SMSC block.
func EncodeDeliver(d Deliver) ([]byte, error) {
	return d.Encode()
}

func (d Deliver) Encode() ([]byte, error) {
	buf := newOctetBuffer(MaxLength)
	if err := appendServiceCenter(buf, d.ServiceCenter); err != nil {
		return nil, err
	}

	firstOctet := byte(deliverFirstOctet)
	if d.UserDataHeader.Length() > 0 {
		firstOctet |= udhiFlag
	}
	if err := buf.append("message type", firstOctet); err != nil {
		return nil, err
	}
	senderType := d.SenderType
	if senderType == 0 {
		senderType = International
	}
	if err := appendAddress(buf, "sender", d.Sender, senderType); err != nil {
		return nil, err
	}
	if err := buf.append("protocol identifier", d.ProtocolID, d.Alphabet.DCS()); err != nil {
		return nil, err
	}
	if err := buf.append("timestamp", EncodeTimestamp(d.Timestamp)...); err != nil {
		return nil, err
	}
	if err := appendUserData(buf, d.Alphabet, d.UserDataHeader, d.Text); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
