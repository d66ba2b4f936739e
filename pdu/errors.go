package pdu

import (
	"errors"

	"github.com/ftl/gsm-sms/gsm7"
)

var (
	// ErrBufferTooSmall indicates that the encoded PDU does not fit into the available buffer.
	ErrBufferTooSmall = gsm7.ErrBufferTooSmall
	// ErrInvalidCharacter indicates a character that cannot be represented with the selected alphabet.
	ErrInvalidCharacter = gsm7.ErrInvalidCharacter
	// ErrInvalidDigit indicates a phone number or timestamp digit outside of 0-9.
	ErrInvalidDigit = errors.New("invalid digit")
	// ErrTruncatedInput indicates that a field exceeds the end of the PDU.
	ErrTruncatedInput = errors.New("truncated input")
	// ErrLengthMismatch indicates that a declared length does not match the actual content.
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrUnsupportedCoding indicates a data coding scheme whose payload cannot be decoded into text.
	ErrUnsupportedCoding = errors.New("unsupported data coding scheme")
	// ErrTextTooLong indicates a text that does not fit into a single PDU.
	ErrTextTooLong = errors.New("text too long")
	// ErrUnsupportedMessageType indicates a TPDU that is not an SMS-DELIVER.
	ErrUnsupportedMessageType = errors.New("unsupported message type")
)
