package ctrl

import (
	"fmt"
	"strings"
)

// MessageFormatByName returns the MessageFormat with the given name
func MessageFormatByName(name string) (MessageFormat, error) {
	sanitized := strings.ToUpper(strings.TrimSpace(name))
	result, ok := MessageFormatsByName[sanitized]
	if !ok {
		return 0, fmt.Errorf("invalid message format %s", name)
	}
	return result, nil
}

// MessageFormat represents the input and output format of messages according to [AT] 3.2.3
type MessageFormat byte

func (f MessageFormat) String() string {
	for k, v := range MessageFormatsByName {
		if v == f {
			return k
		}
	}
	return "UNKNOWN"
}

// All supported message formats
const (
	PDU MessageFormat = iota
	Text
)

// MessageFormatsByName maps all supported message formats by their string representation
var MessageFormatsByName = map[string]MessageFormat{
	"PDU":  PDU,
	"TEXT": Text,
}

// SignalQuality according to [AT] 8.5
type SignalQuality struct {
	RSSI int
	BER  int
}

const unknownSignalQuality = 99

// DBm returns the received signal strength in dBm. It is not valid if the modem does not know
// the signal strength.
func (q SignalQuality) DBm() (int, bool) {
	if q.RSSI < 0 || q.RSSI > 31 {
		return 0, false
	}
	return -113 + 2*q.RSSI, true
}

// BitErrorRate returns the bit error rate class 0-7. It is not valid if the modem does not know
// the bit error rate.
func (q SignalQuality) BitErrorRate() (int, bool) {
	if q.BER < 0 || q.BER == unknownSignalQuality || q.BER > 7 {
		return 0, false
	}
	return q.BER, true
}

func (q SignalQuality) String() string {
	dBm, ok := q.DBm()
	if !ok {
		return fmt.Sprintf("rssi=%d (unknown) ber=%d", q.RSSI, q.BER)
	}
	return fmt.Sprintf("rssi=%d (%d dBm) ber=%d", q.RSSI, dBm, q.BER)
}
