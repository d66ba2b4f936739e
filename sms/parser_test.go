package sms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessageList(t *testing.T) {
	tt := []struct {
		desc     string
		lines    []string
		expected []StoredMessage
		invalid  bool
	}{
		{
			desc:     "empty",
			expected: []StoredMessage{},
		},
		{
			desc: "two messages",
			lines: []string{
				"+CMGL: 1,1,,28",
				"07916407281553F8040B916407281553F80000321051010300800AE8329BFD4697D9EC37",
				"+CMGL: 4,0,\"Bob\",32",
				"00040D91945111325476F80008321051010300800C041F04400438043204350442",
			},
			expected: []StoredMessage{
				{
					Index:  1,
					Status: ReceivedRead,
					Length: 28,
					PDU:    []byte{0x07, 0x91, 0x64, 0x07, 0x28, 0x15, 0x53, 0xF8, 0x04, 0x0B, 0x91, 0x64, 0x07, 0x28, 0x15, 0x53, 0xF8, 0x00, 0x00, 0x32, 0x10, 0x51, 0x01, 0x03, 0x00, 0x80, 0x0A, 0xE8, 0x32, 0x9B, 0xFD, 0x46, 0x97, 0xD9, 0xEC, 0x37},
				},
				{
					Index:  4,
					Status: ReceivedUnread,
					Length: 32,
					PDU:    []byte{0x00, 0x04, 0x0D, 0x91, 0x94, 0x51, 0x11, 0x32, 0x54, 0x76, 0xF8, 0x00, 0x08, 0x32, 0x10, 0x51, 0x01, 0x03, 0x00, 0x80, 0x0C, 0x04, 0x1F, 0x04, 0x40, 0x04, 0x38, 0x04, 0x32, 0x04, 0x35, 0x04, 0x42},
				},
			},
		},
		{
			desc: "unparsable header is skipped",
			lines: []string{
				"+CMGL: x",
				"+CMGL: 2,1,,28",
				"07916407281553F8040B916407281553F80000321051010300800AE8329BFD4697D9EC37",
			},
			expected: []StoredMessage{
				{
					Index:  2,
					Status: ReceivedRead,
					Length: 28,
					PDU:    []byte{0x07, 0x91, 0x64, 0x07, 0x28, 0x15, 0x53, 0xF8, 0x04, 0x0B, 0x91, 0x64, 0x07, 0x28, 0x15, 0x53, 0xF8, 0x00, 0x00, 0x32, 0x10, 0x51, 0x01, 0x03, 0x00, 0x80, 0x0A, 0xE8, 0x32, 0x9B, 0xFD, 0x46, 0x97, 0xD9, 0xEC, 0x37},
				},
			},
		},
		{
			desc:    "missing PDU",
			lines:   []string{"+CMGL: 1,1,,28"},
			invalid: true,
		},
		{
			desc:    "invalid hex",
			lines:   []string{"+CMGL: 1,1,,28", "07916407281553F8040G"},
			invalid: true,
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual, err := ParseMessageList(tc.lines)
			if tc.invalid {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, actual)
			}
		})
	}
}

func TestParseMessage(t *testing.T) {
	tt := []struct {
		desc    string
		lines   []string
		status  MessageStatus
		length  int
		invalid bool
	}{
		{
			desc:   "without alpha",
			lines:  []string{"+CMGR: 1,,28", "07916407281553F8040B916407281553F80000321051010300800AE8329BFD4697D9EC37"},
			status: ReceivedRead,
			length: 28,
		},
		{
			desc:   "with alpha",
			lines:  []string{"+CMGR: 0,\"Alice\",28", "07916407281553F8040B916407281553F80000321051010300800AE8329BFD4697D9EC37"},
			status: ReceivedUnread,
			length: 28,
		},
		{
			desc:    "no PDU",
			lines:   []string{"+CMGR: 1,,28"},
			invalid: true,
		},
		{
			desc:    "wrong header",
			lines:   []string{"+CMGL: 1,1,,28", "0791"},
			invalid: true,
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual, err := ParseMessage(9, tc.lines)
			if tc.invalid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 9, actual.Index)
			assert.Equal(t, tc.status, actual.Status)
			assert.Equal(t, tc.length, actual.Length)

			message, err := actual.Decode()
			require.NoError(t, err)
			assert.Equal(t, "hellohello", message.Text)
		})
	}
}

func TestParseNewMessageIndication(t *testing.T) {
	storage, index, err := ParseNewMessageIndication(`+CMTI: "SM",3`)
	require.NoError(t, err)
	assert.Equal(t, "SM", storage)
	assert.Equal(t, 3, index)

	_, _, err = ParseNewMessageIndication(`+CMTI: SM`)
	assert.Error(t, err)
}
