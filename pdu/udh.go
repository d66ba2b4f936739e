package pdu

import (
	"encoding/binary"
	"fmt"
)

// InformationElementID according to [TL] 9.2.3.24
type InformationElementID byte

// The information elements for concatenated short messages
const (
	ConcatenatedShortMessage      InformationElementID = 0x00
	ConcatenatedShortMessage16Bit InformationElementID = 0x08
)

// InformationElement is one (IEI, IEDL, IED) triple of the user data header.
type InformationElement struct {
	ID   InformationElementID
	Data []byte
}

// UserDataHeader according to [TL] 9.2.3.24
type UserDataHeader struct {
	Elements []InformationElement
}

// NewConcatenationHeader returns a user data header with one concatenation element. References above 255
// use the element with a 16-bit reference.
func NewConcatenationHeader(reference uint16, total, part byte) UserDataHeader {
	if reference < 0x100 {
		return UserDataHeader{Elements: []InformationElement{
			{ID: ConcatenatedShortMessage, Data: []byte{byte(reference), total, part}},
		}}
	}
	data := make([]byte, 4)
	binary.BigEndian.PutUint16(data, reference)
	data[2] = total
	data[3] = part
	return UserDataHeader{Elements: []InformationElement{
		{ID: ConcatenatedShortMessage16Bit, Data: data},
	}}
}

// ParseUserDataHeader parses the user data header at the start of the given user data. The first octet is the UDHL.
func ParseUserDataHeader(octets []byte) (UserDataHeader, error) {
	if len(octets) < 1 {
		return UserDataHeader{}, fmt.Errorf("user data header too short: %d: %w", len(octets), ErrTruncatedInput)
	}
	length := int(octets[0])
	if length+1 > len(octets) {
		return UserDataHeader{}, fmt.Errorf("user data header length %d exceeds user data of %d octets: %w", length, len(octets)-1, ErrTruncatedInput)
	}

	result := UserDataHeader{Elements: make([]InformationElement, 0, 1)}
	header := octets[1 : length+1]
	for i := 0; i < len(header); {
		if i+2 > len(header) {
			return UserDataHeader{}, fmt.Errorf("information element at offset %d too short: %w", i, ErrTruncatedInput)
		}
		id := InformationElementID(header[i])
		dataLength := int(header[i+1])
		start := i + 2
		end := start + dataLength
		if end > len(header) {
			return UserDataHeader{}, fmt.Errorf("information element 0x%02x at offset %d exceeds the header: %w", id, i, ErrTruncatedInput)
		}
		if err := checkElementLength(id, dataLength); err != nil {
			return UserDataHeader{}, err
		}

		data := make([]byte, dataLength)
		copy(data, header[start:end])
		result.Elements = append(result.Elements, InformationElement{ID: id, Data: data})
		i = end
	}

	return result, nil
}

func checkElementLength(id InformationElementID, length int) error {
	var expected int
	switch id {
	case ConcatenatedShortMessage:
		expected = 3
	case ConcatenatedShortMessage16Bit:
		expected = 4
	default:
		return nil
	}
	if length != expected {
		return fmt.Errorf("information element 0x%02x has %d octets, expected %d: %w", id, length, expected, ErrLengthMismatch)
	}
	return nil
}

// Length of the encoded header in octets, including the UDHL octet. An empty header has length 0.
func (h UserDataHeader) Length() int {
	if h.Elements == nil {
		return 0
	}
	result := 1
	for _, element := range h.Elements {
		result += 2 + len(element.Data)
	}
	return result
}

// Bytes returns the encoded header, including the UDHL octet.
func (h UserDataHeader) Bytes() []byte {
	length := h.Length()
	if length == 0 {
		return nil
	}
	result := make([]byte, 0, length)
	result = append(result, byte(length-1))
	for _, element := range h.Elements {
		result = append(result, byte(element.ID), byte(len(element.Data)))
		result = append(result, element.Data...)
	}
	return result
}

// Concatenation returns the values of the first concatenation element.
func (h UserDataHeader) Concatenation() (reference uint16, total byte, part byte, ok bool) {
	for _, element := range h.Elements {
		switch {
		case element.ID == ConcatenatedShortMessage && len(element.Data) == 3:
			return uint16(element.Data[0]), element.Data[1], element.Data[2], true
		case element.ID == ConcatenatedShortMessage16Bit && len(element.Data) == 4:
			return binary.BigEndian.Uint16(element.Data), element.Data[2], element.Data[3], true
		}
	}
	return 0, 0, 0, false
}

// septetOffset returns the number of septets occupied by the header and the fill bits, [TL] 9.2.3.24.
func (h UserDataHeader) septetOffset() int {
	return (h.Length()*8 + 6) / 7
}
