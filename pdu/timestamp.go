package pdu

import (
	"fmt"
	"time"
)

// TimestampLength is the length of TP-SCTS in octets.
const TimestampLength = 7

const (
	timeZoneSign = 0x08
	quarterHour  = 15 * 60
)

var timestampFieldNames = [6]string{"year", "month", "day", "hour", "minute", "second"}

// valid ranges of the timestamp fields, the day is checked against the month after decoding
var timestampFieldRanges = [6][2]int{{0, 99}, {1, 12}, {1, 31}, {0, 23}, {0, 59}, {0, 59}}

// DecodeTimestamp decodes the service center time stamp according to [TL] 9.2.3.11. The time zone is given in
// quarters of an hour, the result is normalized to UTC.
func DecodeTimestamp(octets []byte) (time.Time, error) {
	if len(octets) < TimestampLength {
		return time.Time{}, fmt.Errorf("timestamp too short: %d: %w", len(octets), ErrTruncatedInput)
	}

	var fields [6]int
	for i := range fields {
		value, err := swappedBCD(octets[i])
		if err != nil {
			return time.Time{}, fmt.Errorf("timestamp field %d: %w", i, err)
		}
		if value < timestampFieldRanges[i][0] || value > timestampFieldRanges[i][1] {
			return time.Time{}, fmt.Errorf("timestamp %s out of range: %d: %w", timestampFieldNames[i], value, ErrInvalidDigit)
		}
		fields[i] = value
	}

	rawZone := octets[6]
	quarters, err := swappedBCD(rawZone &^ timeZoneSign)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp time zone: %w", err)
	}
	offset := quarters * quarterHour
	if rawZone&timeZoneSign != 0 {
		offset = -offset
	}

	local := time.Date(2000+fields[0], time.Month(fields[1]), fields[2], fields[3], fields[4], fields[5], 0, time.FixedZone("", offset))
	if local.Day() != fields[2] {
		return time.Time{}, fmt.Errorf("timestamp day %d not in month %d: %w", fields[2], fields[1], ErrInvalidDigit)
	}
	return local.UTC(), nil
}

// EncodeTimestamp encodes the given time as service center time stamp, using the time zone of the given time.
func EncodeTimestamp(t time.Time) []byte {
	_, offset := t.Zone()
	quarters := offset / quarterHour
	var sign byte
	if quarters < 0 {
		sign = timeZoneSign
		quarters = -quarters
	}

	return []byte{
		toSwappedBCD(t.Year() % 100),
		toSwappedBCD(int(t.Month())),
		toSwappedBCD(t.Day()),
		toSwappedBCD(t.Hour()),
		toSwappedBCD(t.Minute()),
		toSwappedBCD(t.Second()),
		toSwappedBCD(quarters) | sign,
	}
}

// swappedBCD interprets an octet with the tens digit in the low nibble, e.g. 0x21 is 12.
func swappedBCD(b byte) (int, error) {
	low := b & 0x0F
	high := b >> 4
	if low > 9 || high > 9 {
		return 0, fmt.Errorf("0x%02x is not BCD: %w", b, ErrInvalidDigit)
	}
	return int(low)*10 + int(high), nil
}

func toSwappedBCD(value int) byte {
	return byte(value%10)<<4 | byte(value/10%10)
}
