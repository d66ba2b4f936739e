package sms

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/ftl/gsm-sms/pdu"
)

// Message is a complete short message, possibly reassembled from several concatenated parts.
type Message struct {
	Sender    string
	Reference uint16
	Timestamp time.Time
	// Indices of the stored parts, e.g. to delete them after the message was processed.
	Indices []int
	parts   []part
}

func NewMessage(sender string, reference uint16, timestamp time.Time, parts int) Message {
	return Message{
		Sender:    sender,
		Reference: reference,
		Timestamp: timestamp,
		parts:     make([]part, parts),
	}
}

func (m Message) Complete() bool {
	for _, part := range m.parts {
		if !part.Valid {
			return false
		}
	}
	return true
}

// Text returns the text of all received parts. Each run of missing parts is marked with "...".
func (m Message) Text() string {
	var result strings.Builder
	gap := false
	for _, part := range m.parts {
		if part.Valid {
			result.WriteString(part.Text)
			gap = false
			continue
		}
		if !gap {
			result.WriteString("...")
		}
		gap = true
	}
	return result.String()
}

func (m Message) String() string {
	return fmt.Sprintf("Message %d from %s at %s:\n%s",
		m.Reference, m.Sender, m.Timestamp.Format(time.RFC3339), m.Text())
}

// SetPart sets the text of the part with the given number, starting at 1.
func (m *Message) SetPart(i int, text string) {
	i -= 1
	if i < 0 || i >= len(m.parts) {
		return
	}

	m.parts[i].Text = text
	m.parts[i].Valid = true
}

type part struct {
	Valid bool
	Text  string
}

type MessageCallback func(Message)

type messageKey struct {
	sender    string
	reference uint16
}

// Stack reassembles concatenated messages. Single part messages are passed on immediately.
type Stack struct {
	messageCallback MessageCallback
	pendingMessages map[messageKey]Message
}

func NewStack() *Stack {
	return &Stack{
		pendingMessages: make(map[messageKey]Message),
	}
}

func (s *Stack) WithMessageCallback(callback MessageCallback) *Stack {
	s.messageCallback = callback
	return s
}

// Put a decoded message, the index is its position in the modem's storage.
func (s *Stack) Put(index int, received pdu.Message) error {
	if !received.Multipart() {
		message := NewMessage(received.Sender, received.Reference, received.Timestamp, 1)
		message.SetPart(1, received.Text)
		message.Indices = []int{index}
		s.deliver(message)
		return nil
	}

	key := messageKey{sender: received.Sender, reference: received.Reference}
	message, ok := s.pendingMessages[key]
	if !ok {
		message = NewMessage(received.Sender, received.Reference, received.Timestamp, int(received.TotalParts))
	} else if len(message.parts) != int(received.TotalParts) {
		return fmt.Errorf("part does not match message %d from %s: %d != %d", message.Reference, message.Sender, len(message.parts), received.TotalParts)
	}
	if received.PartNumber == 1 {
		message.Timestamp = received.Timestamp
	}
	// a part received again replaces the previous text
	message.SetPart(int(received.PartNumber), received.Text)
	if !slices.Contains(message.Indices, index) {
		message.Indices = append(message.Indices, index)
	}

	if message.Complete() {
		delete(s.pendingMessages, key)
		s.deliver(message)
	} else {
		s.pendingMessages[key] = message
	}

	return nil
}

// Flush passes on all incomplete messages, ordered by timestamp, and clears the stack. Missing parts
// are marked in the text.
func (s *Stack) Flush() {
	pending := make([]Message, 0, len(s.pendingMessages))
	for _, message := range s.pendingMessages {
		pending = append(pending, message)
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].Timestamp.Before(pending[j].Timestamp)
	})
	s.pendingMessages = make(map[messageKey]Message)

	for _, message := range pending {
		s.deliver(message)
	}
}

// Pending returns the number of incomplete messages.
func (s *Stack) Pending() int {
	return len(s.pendingMessages)
}

func (s *Stack) deliver(message Message) {
	sort.Ints(message.Indices)
	if s.messageCallback != nil {
		s.messageCallback(message)
	}
}
