package gsm

import (
	"context"
	"encoding/hex"
	"regexp"
	"strings"
)

const (
	// CRLF line ending for AT commands
	CRLF = "\x0d\x0a"
	// CtrlZ terminates a PDU sent after the > prompt
	CtrlZ = "\x1a"
)

// Requester sends one AT request to the modem and returns the response lines without the final result code.
type Requester interface {
	Request(context.Context, string) ([]string, error)
}

// RequesterFunc wraps a function into a Requester.
type RequesterFunc func(context.Context, string) ([]string, error)

func (f RequesterFunc) Request(ctx context.Context, request string) ([]string, error) {
	return f(ctx, request)
}

var hexSanitizer = regexp.MustCompile(`\s+`)

// HexToBinary converts the hex representation of a PDU as used in AT commands into a slice of bytes
func HexToBinary(s string) ([]byte, error) {
	sanitized := hexSanitizer.ReplaceAllString(s, "")
	return hex.DecodeString(sanitized)
}

// BinaryToHex converts a slice of bytes into the upper case hex representation used in AT commands
func BinaryToHex(pdu []byte) string {
	return strings.ToUpper(hex.EncodeToString(pdu))
}
