package pdu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftl/gsm-sms/gsm"
)

func TestEncode(t *testing.T) {
	tt := []struct {
		desc          string
		serviceCenter string
		destination   string
		text          string
		expected      string
		err           error
	}{
		{
			desc:        "auto service center",
			destination: "46708251358",
			text:        "hellohello",
			expected:    "0011000B916407281553F80000B00AE8329BFD4697D9EC37",
		},
		{
			desc:          "with service center",
			serviceCenter: "+46708251358",
			destination:   "+46708251358",
			text:          "hellohello",
			expected:      "07916407281553F811000B916407281553F80000B00AE8329BFD4697D9EC37",
		},
		{
			desc:        "empty text",
			destination: "1234",
			text:        "",
			expected:    "001100049121430000B000",
		},
		{
			desc:        "invalid destination",
			destination: "0800-HELLO",
			text:        "hello",
			err:         ErrInvalidDigit,
		},
		{
			desc:          "invalid service center",
			serviceCenter: "+49x",
			destination:   "1234",
			text:          "hello",
			err:           ErrInvalidDigit,
		},
		{
			desc:        "161 characters",
			destination: "1234",
			text:        strings.Repeat("a", 161),
			err:         ErrTextTooLong,
		},
		{
			desc:        "not in the alphabet",
			destination: "1234",
			text:        "привет",
			err:         ErrInvalidCharacter,
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual, err := Encode(tc.serviceCenter, tc.destination, tc.text)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				assert.Nil(t, actual)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, gsm.BinaryToHex(actual))
			}
		})
	}
}

func TestEncode_160Characters(t *testing.T) {
	actual, err := Encode("", "1234", strings.Repeat("a", 160))
	require.NoError(t, err)
	assert.Equal(t, byte(160), actual[10])
	assert.Len(t, actual, 11+140)
}

func TestEncode_EscapeCountsTwoSeptets(t *testing.T) {
	_, err := Encode("", "1234", strings.Repeat("€", 80))
	assert.NoError(t, err)

	_, err = Encode("", "1234", strings.Repeat("€", 80)+"a")
	assert.ErrorIs(t, err, ErrTextTooLong)
}

func TestEncodeTo(t *testing.T) {
	dst := make([]byte, MaxLength)
	n, err := EncodeTo(dst, "", "46708251358", "hellohello")
	require.NoError(t, err)
	assert.Equal(t, "0011000B916407281553F80000B00AE8329BFD4697D9EC37", gsm.BinaryToHex(dst[:n]))
}

func TestEncodeTo_WritesNothingOnFailure(t *testing.T) {
	tt := []struct {
		desc     string
		capacity int
		text     string
		err      error
	}{
		{
			desc:     "text too long",
			capacity: MaxLength,
			text:     strings.Repeat("a", 161),
			err:      ErrTextTooLong,
		},
		{
			desc:     "buffer too small for the user data",
			capacity: 20,
			text:     "hellohello",
			err:      ErrBufferTooSmall,
		},
		{
			desc:     "buffer too small for the header",
			capacity: 3,
			text:     "hellohello",
			err:      ErrBufferTooSmall,
		},
		{
			desc:     "no buffer",
			capacity: 0,
			text:     "hellohello",
			err:      ErrBufferTooSmall,
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			dst := make([]byte, tc.capacity)
			for i := range dst {
				dst[i] = 0x55
			}

			n, err := EncodeTo(dst, "", "46708251358", tc.text)

			assert.ErrorIs(t, err, tc.err)
			assert.Equal(t, 0, n)
			for i, b := range dst {
				assert.Equal(t, byte(0x55), b, "octet %d was written", i)
			}
		})
	}
}

func TestEncodeTo_ExactCapacity(t *testing.T) {
	dst := make([]byte, 24)
	n, err := EncodeTo(dst, "", "46708251358", "hellohello")
	require.NoError(t, err)
	assert.Equal(t, 24, n)
}

func TestSubmit_UCS2(t *testing.T) {
	submit := Submit{
		Destination: "4915112345678",
		Text:        "Привет",
		Alphabet:    UCS2,
	}

	actual, err := submit.Encode()
	require.NoError(t, err)
	assert.Equal(t, "0011000D91945111325476F80008B00C041F04400438043204350442", gsm.BinaryToHex(actual))
}

func TestSubmit_UCS2TooLong(t *testing.T) {
	_, err := Submit{Destination: "1234", Text: strings.Repeat("ж", 71), Alphabet: UCS2}.Encode()
	assert.ErrorIs(t, err, ErrTextTooLong)

	_, err = Submit{Destination: "1234", Text: strings.Repeat("ж", 70), Alphabet: UCS2}.Encode()
	assert.NoError(t, err)
}

func TestSubmit_Multipart(t *testing.T) {
	submit := Submit{
		Destination:    "46708251358",
		Text:           "part two",
		UserDataHeader: NewConcatenationHeader(7, 3, 2),
	}

	actual, err := submit.Encode()
	require.NoError(t, err)
	assert.Equal(t, "0051000B916407281553F80000B00F050003070302E061391D44BFBF01", gsm.BinaryToHex(actual))
}

func TestSubmit_EightBitIsNotText(t *testing.T) {
	_, err := Submit{Destination: "1234", Text: "hello", Alphabet: EightBit}.Encode()
	assert.ErrorIs(t, err, ErrUnsupportedCoding)
}

func TestSelectAlphabet(t *testing.T) {
	assert.Equal(t, SevenBit, SelectAlphabet("hello {world} €"))
	assert.Equal(t, UCS2, SelectAlphabet("привет"))
}

func TestTPDULength(t *testing.T) {
	tt := []struct {
		desc     string
		pdu      string
		expected int
	}{
		{
			desc:     "auto service center",
			pdu:      "0011000B916407281553F80000B00AE8329BFD4697D9EC37",
			expected: 23,
		},
		{
			desc:     "with service center",
			pdu:      "07916407281553F811000B916407281553F80000B00AE8329BFD4697D9EC37",
			expected: 23,
		},
		{
			desc:     "empty",
			pdu:      "",
			expected: 0,
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			pdu, err := gsm.HexToBinary(tc.pdu)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, TPDULength(pdu))
		})
	}
}
