package sms

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ftl/gsm-sms/gsm"
	"github.com/ftl/gsm-sms/pdu"
)

// MessageStatus according to [AT] 3.1, in PDU mode
type MessageStatus int

// All message states
const (
	ReceivedUnread MessageStatus = iota
	ReceivedRead
	StoredUnsent
	StoredSent
	AllMessages
)

func (s MessageStatus) String() string {
	switch s {
	case ReceivedUnread:
		return "REC UNREAD"
	case ReceivedRead:
		return "REC READ"
	case StoredUnsent:
		return "STO UNSENT"
	case StoredSent:
		return "STO SENT"
	case AllMessages:
		return "ALL"
	default:
		return fmt.Sprintf("UNKNOWN %d", int(s))
	}
}

// MaxStorageIndex is the highest index that is visited when deleting all messages.
const MaxStorageIndex = 50

// SendMessage according to [AT] 3.5.1. The length parameter is the length of the TPDU.
func SendMessage(p []byte) string {
	return fmt.Sprintf("AT+CMGS=%d"+gsm.CRLF+"%s"+gsm.CtrlZ, pdu.TPDULength(p), gsm.BinaryToHex(p))
}

var sendMessageResponse = regexp.MustCompile(`^\+CMGS: *(\d+)`)

// RequestSendMessage sends the given PDU and returns the message reference assigned by the network.
func RequestSendMessage(ctx context.Context, requester gsm.Requester, p []byte) (int, error) {
	responses, err := requester.Request(ctx, SendMessage(p))
	if err != nil {
		return 0, err
	}
	for _, response := range responses {
		parts := sendMessageResponse.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(response)))
		if len(parts) != 2 {
			continue
		}
		return strconv.Atoi(parts[1])
	}
	return 0, fmt.Errorf("no message reference received")
}

// ListMessages according to [AT] 3.4.2
func ListMessages(status MessageStatus) string {
	return fmt.Sprintf("AT+CMGL=%d", status)
}

// RequestMessages lists all stored messages with the given status.
func RequestMessages(ctx context.Context, requester gsm.Requester, status MessageStatus) ([]StoredMessage, error) {
	responses, err := requester.Request(ctx, ListMessages(status))
	if err != nil {
		return nil, err
	}
	return ParseMessageList(responses)
}

// ReadMessage according to [AT] 3.4.3
func ReadMessage(index int) string {
	return fmt.Sprintf("AT+CMGR=%d", index)
}

// RequestMessage reads the stored message with the given index.
func RequestMessage(ctx context.Context, requester gsm.Requester, index int) (StoredMessage, error) {
	responses, err := requester.Request(ctx, ReadMessage(index))
	if err != nil {
		return StoredMessage{}, err
	}
	return ParseMessage(index, responses)
}

// DeleteMessage according to [AT] 3.5.4
func DeleteMessage(index int) string {
	return fmt.Sprintf("AT+CMGD=%d", index)
}

// RequestDeleteMessage deletes the stored message with the given index.
func RequestDeleteMessage(ctx context.Context, requester gsm.Requester, index int) error {
	_, err := requester.Request(ctx, DeleteMessage(index))
	return err
}
