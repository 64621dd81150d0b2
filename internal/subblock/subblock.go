// Package subblock frames and unframes the length-prefixed byte chunks
// GIF wraps every extension payload and every LZW bitstream in: 1-255
// payload bytes per block, terminated by a single zero-length block.
package subblock

// Frame splits data into chunks of at most 255 bytes, each preceded by
// its length byte, and appends the zero-length terminator.
func Frame(data []byte) []byte {
	out := make([]byte, 0, len(data)+len(data)/255+2)
	for len(data) > 0 {
		n := len(data)
		if n > 255 {
			n = 255
		}
		out = append(out, byte(n))
		out = append(out, data[:n]...)
		data = data[n:]
	}
	out = append(out, 0)
	return out
}

// Reader reads sub-blocks one at a time from an underlying byte slice.
type Reader struct {
	data []byte
	pos  int
}

// NewReader returns a Reader positioned at the start of a sub-block chain.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Next reads the next sub-block's payload. It returns ok=false once the
// zero-length terminator has been consumed.
func (r *Reader) Next() (payload []byte, ok bool, err error) {
	if r.pos >= len(r.data) {
		return nil, false, errUnexpectedEOF
	}
	n := int(r.data[r.pos])
	r.pos++
	if n == 0 {
		return nil, false, nil
	}
	if r.pos+n > len(r.data) {
		return nil, false, errUnexpectedEOF
	}
	payload = r.data[r.pos : r.pos+n]
	r.pos += n
	return payload, true, nil
}

// Skip discards every remaining sub-block starting at pos without copying
// its payload, returning the offset in data just past the terminator.
func Skip(data []byte, pos int) (int, error) {
	for {
		if pos >= len(data) {
			return pos, errUnexpectedEOF
		}
		n := int(data[pos])
		pos++
		if n == 0 {
			return pos, nil
		}
		if pos+n > len(data) {
			return pos, errUnexpectedEOF
		}
		pos += n
	}
}

// ReadAll reads and concatenates every sub-block's payload, consuming the
// terminator. It reports the offset in data just past the terminator as
// next.
func ReadAll(data []byte, pos int) (payload []byte, next int, err error) {
	for {
		if pos >= len(data) {
			return payload, pos, errUnexpectedEOF
		}
		n := int(data[pos])
		pos++
		if n == 0 {
			return payload, pos, nil
		}
		if pos+n > len(data) {
			return payload, pos, errUnexpectedEOF
		}
		payload = append(payload, data[pos:pos+n]...)
		pos += n
	}
}
