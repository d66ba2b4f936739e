package sms

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/ftl/gsm-sms/gsm"
	"github.com/ftl/gsm-sms/pdu"
)

// StoredMessage is a message in the modem's storage, as listed by AT+CMGL or read by AT+CMGR.
type StoredMessage struct {
	Index  int
	Status MessageStatus
	// Length is the TPDU length announced by the modem.
	Length int
	PDU    []byte
}

// Decode the PDU of this stored message.
func (m StoredMessage) Decode() (pdu.Message, error) {
	return pdu.Decode(m.PDU)
}

var (
	messageListHeader = regexp.MustCompile(`^\+CMGL: *(\d+), *(\d+), *(?:"[^"]*"|[^,]*)?, *(\d+)$`)
	messageHeader     = regexp.MustCompile(`^\+CMGR: *(\d+), *(?:"[^"]*"|[^,]*)?, *(\d+)$`)
	newMessageHeader  = regexp.MustCompile(`^\+CMTI: *"([^"]*)", *(\d+)$`)
)

// ParseMessageList parses the response of AT+CMGL according to [AT] 3.4.2. Each message consists of
// a +CMGL: header line and a line with the hex encoded PDU.
func ParseMessageList(lines []string) ([]StoredMessage, error) {
	result := make([]StoredMessage, 0, len(lines)/2)
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(strings.ToUpper(line), "+CMGL:") {
			continue
		}
		parts := messageListHeader.FindStringSubmatch(line)
		if len(parts) != 4 {
			log.Printf("unparsable CMGL response: %s", line)
			continue
		}
		if i+1 >= len(lines) {
			return nil, fmt.Errorf("missing PDU for message %s", parts[1])
		}
		i++

		index, _ := strconv.Atoi(parts[1])
		status, _ := strconv.Atoi(parts[2])
		length, _ := strconv.Atoi(parts[3])
		message, err := newStoredMessage(index, MessageStatus(status), length, lines[i])
		if err != nil {
			return nil, err
		}
		result = append(result, message)
	}
	return result, nil
}

// ParseMessage parses the response of AT+CMGR according to [AT] 3.4.3.
func ParseMessage(index int, lines []string) (StoredMessage, error) {
	if len(lines) < 2 {
		return StoredMessage{}, fmt.Errorf("no message received")
	}
	header := strings.TrimSpace(lines[0])
	parts := messageHeader.FindStringSubmatch(header)
	if len(parts) != 3 {
		return StoredMessage{}, fmt.Errorf("unexpected response: %s", header)
	}

	status, _ := strconv.Atoi(parts[1])
	length, _ := strconv.Atoi(parts[2])
	return newStoredMessage(index, MessageStatus(status), length, lines[1])
}

func newStoredMessage(index int, status MessageStatus, length int, pduHex string) (StoredMessage, error) {
	pduBytes, err := gsm.HexToBinary(pduHex)
	if err != nil {
		return StoredMessage{}, fmt.Errorf("cannot decode hex PDU data of message %d: %w", index, err)
	}
	if pdu.TPDULength(pduBytes) != length {
		log.Printf("got different count of pdu bytes for message %d, expected %d, but got %d", index, length, pdu.TPDULength(pduBytes))
	}

	return StoredMessage{
		Index:  index,
		Status: status,
		Length: length,
		PDU:    pduBytes,
	}, nil
}

// ParseNewMessageIndication parses the unsolicited result code +CMTI according to [AT] 3.4.1 and
// returns the storage and the index of the new message.
func ParseNewMessageIndication(line string) (string, int, error) {
	parts := newMessageHeader.FindStringSubmatch(strings.TrimSpace(line))
	if len(parts) != 3 {
		return "", 0, fmt.Errorf("unexpected indication: %s", line)
	}
	index, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, err
	}
	return parts[1], index, nil
}
