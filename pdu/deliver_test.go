package pdu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftl/gsm-sms/gsm"
)

var testTimestamp = time.Date(2023, time.January, 15, 8, 30, 0, 0, time.UTC)

func mustHexToBinary(t *testing.T, s string) []byte {
	t.Helper()
	result, err := gsm.HexToBinary(s)
	require.NoError(t, err)
	return result
}

func TestDecode(t *testing.T) {
	tt := []struct {
		desc     string
		pdu      string
		expected Message
	}{
		{
			desc: "single part",
			pdu:  "07916407281553F8040B916407281553F80000321051010300800AE8329BFD4697D9EC37",
			expected: Message{
				ServiceCenter:     "46708251358",
				ServiceCenterType: International,
				Sender:            "46708251358",
				SenderType:        International,
				Alphabet:          SevenBit,
				Timestamp:         testTimestamp,
				UserDataLength:    10,
				Text:              "hellohello",
				UserData:          []byte{0xE8, 0x32, 0x9B, 0xFD, 0x46, 0x97, 0xD9, 0xEC, 0x37},
			},
		},
		{
			desc: "multipart",
			pdu:  "07916407281553F8440B916407281553F80000321051010300800F050003070302E061391D44BFBF01",
			expected: Message{
				ServiceCenter:     "46708251358",
				ServiceCenterType: International,
				Sender:            "46708251358",
				SenderType:        International,
				Alphabet:          SevenBit,
				Timestamp:         testTimestamp,
				UserDataHeader: UserDataHeader{Elements: []InformationElement{
					{ID: ConcatenatedShortMessage, Data: []byte{0x07, 0x03, 0x02}},
				}},
				Reference:      7,
				TotalParts:     3,
				PartNumber:     2,
				UserDataLength: 15,
				Text:           "part two",
				UserData:       []byte{0x05, 0x00, 0x03, 0x07, 0x03, 0x02, 0xE0, 0x61, 0x39, 0x1D, 0x44, 0xBF, 0xBF, 0x01},
			},
		},
		{
			desc: "UCS2",
			pdu:  "00040D91945111325476F80008321051010300800C041F04400438043204350442",
			expected: Message{
				Sender:         "4915112345678",
				SenderType:     International,
				DCS:            0x08,
				Alphabet:       UCS2,
				Timestamp:      testTimestamp,
				UserDataLength: 12,
				Text:           "Привет",
				UserData:       []byte{0x04, 0x1F, 0x04, 0x40, 0x04, 0x38, 0x04, 0x32, 0x04, 0x35, 0x04, 0x42},
			},
		},
		{
			desc: "alphanumeric sender",
			pdu:  "00040ED0D637396C7EBBCB00003210510103008002E834",
			expected: Message{
				Sender:         "Vodafone",
				SenderType:     Alphanumeric,
				Alphabet:       SevenBit,
				Timestamp:      testTimestamp,
				UserDataLength: 2,
				Text:           "hi",
				UserData:       []byte{0xE8, 0x34},
			},
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual, err := Decode(mustHexToBinary(t, tc.pdu))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
			assert.Equal(t, tc.expected.TotalParts > 1, actual.Multipart())
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	tt := []struct {
		desc string
		pdu  string
		err  error
	}{
		{
			desc: "empty",
			pdu:  "",
			err:  ErrTruncatedInput,
		},
		{
			desc: "truncated service center",
			pdu:  "07916407",
			err:  ErrTruncatedInput,
		},
		{
			desc: "truncated sender",
			pdu:  "00040B9164072815",
			err:  ErrTruncatedInput,
		},
		{
			desc: "truncated timestamp",
			pdu:  "00040B916407281553F800003210510103",
			err:  ErrTruncatedInput,
		},
		{
			desc: "user data length exceeds the PDU",
			pdu:  "07916407281553F8040B916407281553F800003210510103008020E8329BFD4697D9EC37",
			err:  ErrTruncatedInput,
		},
		{
			desc: "user data header exceeds the user data",
			pdu:  "07916407281553F8440B916407281553F8000032105101030080050500030703",
			err:  ErrLengthMismatch,
		},
		{
			desc: "UCS2 with odd length",
			pdu:  "00040D91945111325476F80008321051010300800B041F044004380432043504",
			err:  ErrLengthMismatch,
		},
		{
			desc: "invalid timestamp",
			pdu:  "00040B916407281553F80000F21051010300800AE8329BFD4697D9EC37",
			err:  ErrInvalidDigit,
		},
		{
			desc: "invalid sender digit",
			pdu:  "00040491F1F300003210510103008002E834",
			err:  ErrInvalidDigit,
		},
		{
			desc: "SMS-SUBMIT",
			pdu:  "0011000B916407281553F80000B00AE8329BFD4697D9EC37",
			err:  ErrUnsupportedMessageType,
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := Decode(mustHexToBinary(t, tc.pdu))
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestDecode_UnsupportedCoding(t *testing.T) {
	tt := []struct {
		desc     string
		pdu      string
		dcs      byte
		alphabet Alphabet
		userData []byte
	}{
		{
			desc:     "8 bit",
			pdu:      "00040D91945111325476F800043210510103008003010203",
			dcs:      0x04,
			alphabet: EightBit,
			userData: []byte{0x01, 0x02, 0x03},
		},
		{
			desc:     "compressed, length beyond the PDU",
			pdu:      "00040D91945111325476F800243210510103008010010203",
			dcs:      0x24,
			alphabet: Unsupported,
			userData: []byte{0x01, 0x02, 0x03},
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual, err := Decode(mustHexToBinary(t, tc.pdu))
			assert.ErrorIs(t, err, ErrUnsupportedCoding)
			assert.Equal(t, "4915112345678", actual.Sender)
			assert.Equal(t, testTimestamp, actual.Timestamp)
			assert.Equal(t, tc.dcs, actual.DCS)
			assert.Equal(t, tc.alphabet, actual.Alphabet)
			assert.Equal(t, tc.userData, actual.UserData)
			assert.Empty(t, actual.Text)
		})
	}
}

func TestDecode_DoesNotRetainInput(t *testing.T) {
	octets := mustHexToBinary(t, "07916407281553F8040B916407281553F80000321051010300800AE8329BFD4697D9EC37")
	actual, err := Decode(octets)
	require.NoError(t, err)

	for i := range octets {
		octets[i] = 0
	}
	assert.Equal(t, byte(0xE8), actual.UserData[0])
	assert.Equal(t, "hellohello", actual.Text)
}

func TestEncodeDeliver(t *testing.T) {
	tt := []struct {
		desc     string
		deliver  Deliver
		expected string
	}{
		{
			desc: "single part",
			deliver: Deliver{
				ServiceCenter: "46708251358",
				Sender:        "46708251358",
				Timestamp:     time.Date(2023, time.January, 15, 10, 30, 0, 0, time.FixedZone("", 2*60*60)),
				Text:          "hellohello",
			},
			expected: "07916407281553F8040B916407281553F80000321051010300800AE8329BFD4697D9EC37",
		},
		{
			desc: "multipart",
			deliver: Deliver{
				ServiceCenter:  "46708251358",
				Sender:         "46708251358",
				Timestamp:      time.Date(2023, time.January, 15, 10, 30, 0, 0, time.FixedZone("", 2*60*60)),
				UserDataHeader: NewConcatenationHeader(7, 3, 2),
				Text:           "part two",
			},
			expected: "07916407281553F8440B916407281553F80000321051010300800F050003070302E061391D44BFBF01",
		},
		{
			desc: "alphanumeric sender",
			deliver: Deliver{
				Sender:     "Vodafone",
				SenderType: Alphanumeric,
				Timestamp:  time.Date(2023, time.January, 15, 10, 30, 0, 0, time.FixedZone("", 2*60*60)),
				Text:       "hi",
			},
			expected: "00040ED0D637396C7EBBCB00003210510103008002E834",
		},
		{
			desc: "UCS2",
			deliver: Deliver{
				Sender:    "4915112345678",
				Timestamp: time.Date(2023, time.January, 15, 10, 30, 0, 0, time.FixedZone("", 2*60*60)),
				Alphabet:  UCS2,
				Text:      "Привет",
			},
			expected: "00040D91945111325476F80008321051010300800C041F04400438043204350442",
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual, err := EncodeDeliver(tc.deliver)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, gsm.BinaryToHex(actual))
		})
	}
}

func TestDeliverRoundtrip(t *testing.T) {
	texts := []string{"", "a", "1234567", "12345678", "[{~€}]^|\\ with escapes", "Ünïcödé ÄÖÜ §"}
	for _, text := range texts {
		for _, header := range []UserDataHeader{{}, NewConcatenationHeader(42, 2, 1), NewConcatenationHeader(4711, 2, 2)} {
			deliver := Deliver{
				Sender:         "+4915112345678",
				Timestamp:      testTimestamp,
				Alphabet:       SelectAlphabet(text),
				UserDataHeader: header,
				Text:           text,
			}
			encoded, err := deliver.Encode()
			require.NoError(t, err)

			actual, err := Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, text, actual.Text)
			assert.Equal(t, "4915112345678", actual.Sender)
			assert.Equal(t, testTimestamp, actual.Timestamp)

			reference, total, part, _ := header.Concatenation()
			assert.Equal(t, reference, actual.Reference)
			assert.Equal(t, total, actual.TotalParts)
			assert.Equal(t, part, actual.PartNumber)
		}
	}
}
