package ctrl

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ftl/gsm-sms/gsm"
)

const (
	// EchoOff disables the command echo according to [V25] 6.2.4
	EchoOff = "ATE0"
	// NumericErrors enables +CME ERROR: <n> result codes according to [AT] 9.1
	NumericErrors = "AT+CMEE=1"
)

// SetMessageFormat according to [AT] 3.2.3
func SetMessageFormat(format MessageFormat) string {
	return fmt.Sprintf("AT+CMGF=%d", format)
}

var requestMessageFormatResponse = regexp.MustCompile(`^\+CMGF: (\d+)$`)

// RequestMessageFormat reads the current message format according to [AT] 3.2.3
func RequestMessageFormat(ctx context.Context, requester gsm.Requester) (MessageFormat, error) {
	responses, err := requester.Request(ctx, "AT+CMGF?")
	if err != nil {
		return 0, err
	}
	if len(responses) < 1 {
		return 0, fmt.Errorf("no response received")
	}
	response := strings.ToUpper(strings.TrimSpace(responses[0]))
	parts := requestMessageFormatResponse.FindStringSubmatch(response)

	if len(parts) != 2 {
		return 0, fmt.Errorf("unexpected response: %s", responses[0])
	}

	result, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}

	return MessageFormat(result), nil
}

var requestSignalQualityResponse = regexp.MustCompile(`^\+CSQ: *(\d+), *(\d+)$`)

// RequestSignalQuality according to [AT] 8.5
func RequestSignalQuality(ctx context.Context, requester gsm.Requester) (SignalQuality, error) {
	responses, err := requester.Request(ctx, "AT+CSQ")
	if err != nil {
		return SignalQuality{}, err
	}
	if len(responses) < 1 {
		return SignalQuality{}, fmt.Errorf("no response received")
	}
	response := strings.ToUpper(strings.TrimSpace(responses[0]))
	parts := requestSignalQualityResponse.FindStringSubmatch(response)

	if len(parts) != 3 {
		return SignalQuality{}, fmt.Errorf("unexpected response: %s", responses[0])
	}

	rssi, err := strconv.Atoi(parts[1])
	if err != nil {
		return SignalQuality{}, err
	}
	ber, err := strconv.Atoi(parts[2])
	if err != nil {
		return SignalQuality{}, err
	}

	return SignalQuality{RSSI: rssi, BER: ber}, nil
}

var requestServiceCenterResponse = regexp.MustCompile(`^\+CSCA: *"([^"]*)"(?:, *(\d+))?$`)

// RequestServiceCenter reads the SMSC address stored in the modem according to [AT] 3.3.1
func RequestServiceCenter(ctx context.Context, requester gsm.Requester) (string, error) {
	responses, err := requester.Request(ctx, "AT+CSCA?")
	if err != nil {
		return "", err
	}
	if len(responses) < 1 {
		return "", fmt.Errorf("no response received")
	}
	response := strings.TrimSpace(responses[0])
	parts := requestServiceCenterResponse.FindStringSubmatch(response)

	if len(parts) != 3 {
		return "", fmt.Errorf("unexpected response: %s", responses[0])
	}

	return parts[1], nil
}
