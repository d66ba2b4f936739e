package pdu

import "fmt"

// octetBuffer grows up to a fixed capacity. Every append checks the remaining capacity first.
type octetBuffer struct {
	bytes    []byte
	capacity int
}

func newOctetBuffer(capacity int) *octetBuffer {
	return &octetBuffer{
		bytes:    make([]byte, 0, capacity),
		capacity: capacity,
	}
}

func (b *octetBuffer) Len() int {
	return len(b.bytes)
}

func (b *octetBuffer) Remaining() int {
	return b.capacity - len(b.bytes)
}

func (b *octetBuffer) Bytes() []byte {
	return b.bytes
}

func (b *octetBuffer) append(field string, octets ...byte) error {
	if len(octets) > b.Remaining() {
		return fmt.Errorf("%s needs %d octets, but only %d remaining: %w", field, len(octets), b.Remaining(), ErrBufferTooSmall)
	}
	b.bytes = append(b.bytes, octets...)
	return nil
}

// octetReader reads fields from a PDU and checks every field against the end of the PDU.
type octetReader struct {
	bytes  []byte
	offset int
}

func (r *octetReader) next(field string, n int) ([]byte, error) {
	if n < 0 || r.offset+n > len(r.bytes) {
		return nil, fmt.Errorf("%s at offset %d needs %d octets, but only %d left: %w", field, r.offset, n, len(r.bytes)-r.offset, ErrTruncatedInput)
	}
	result := r.bytes[r.offset : r.offset+n]
	r.offset += n
	return result, nil
}

func (r *octetReader) nextByte(field string) (byte, error) {
	b, err := r.next(field, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}
