package lzw

import (
	"fmt"

	"giflib/internal/bitio"
)

// Decompress inverts Compress: it reconstructs the dictionary from the
// code stream and returns the original index bytes.
func Decompress(data []byte, initialCodeSize int) ([]byte, error) {
	if initialCodeSize < 1 || initialCodeSize > 8 {
		return nil, fmt.Errorf("lzw: invalid initial code size %d", initialCodeSize)
	}
	if initialCodeSize == 1 {
		initialCodeSize = 2
	}

	clearCode := 1 << initialCodeSize
	endCode := clearCode + 1

	r := bitio.NewReader(data)
	dict := newDecodeDict(initialCodeSize)
	width := initialCodeSize + 1

	var out []byte
	var previous []byte
	previousCode := -1

	for {
		code, ok := r.ReadCode(width)
		if !ok {
			return nil, fmt.Errorf("lzw: unexpected end of stream")
		}

		if code == clearCode {
			dict = newDecodeDict(initialCodeSize)
			width = initialCodeSize + 1
			previous = nil
			previousCode = -1
			continue
		}
		if code == endCode {
			return out, nil
		}

		var s []byte
		switch {
		case code < dict.next:
			s = dict.resolve(code)
		case code == dict.next && previousCode != -1:
			// KwKwK: the code names the entry the decoder is about to add.
			s = append(append([]byte(nil), previous...), previous[0])
		default:
			return nil, fmt.Errorf("lzw: invalid LZW code %d (dict size %d, width %d)", code, dict.next, width)
		}

		out = append(out, s...)

		if previousCode != -1 && dict.next < maxDictSize {
			dict.insert(previousCode, s[0])
			if dict.next > (1<<width)-1 && width < maxCodeBits {
				width++
			}
		}
		previous = s
		previousCode = code
	}
}

// decodeDict stores dictionary entries as (previous code, appended byte)
// pairs and reconstructs full strings on demand, avoiding the memory
// overhead of caching every entry's expanded bytes.
type decodeDict struct {
	prev []int
	last []byte
	next int
}

func newDecodeDict(initialCodeSize int) *decodeDict {
	n := 1 << initialCodeSize
	d := &decodeDict{
		prev: make([]int, n, maxDictSize),
		last: make([]byte, n, maxDictSize),
	}
	for i := 0; i < n; i++ {
		d.prev[i] = -1
		d.last[i] = byte(i)
	}
	// Reserve slots n (clearCode) and n+1 (endCode) as unused placeholders
	// so that a later append lands at the correct code index.
	d.prev = append(d.prev, -1, -1)
	d.last = append(d.last, 0, 0)
	d.next = n + 2
	return d
}

// resolve reconstructs the full byte string named by code by walking the
// prev chain back to a root single-byte entry.
func (d *decodeDict) resolve(code int) []byte {
	var rev []byte
	for code != -1 {
		rev = append(rev, d.last[code])
		code = d.prev[code]
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// insert adds a new entry at the next code, defined as the string named
// by prevCode with b appended.
func (d *decodeDict) insert(prevCode int, b byte) {
	if d.next >= maxDictSize {
		return
	}
	d.prev = append(d.prev, prevCode)
	d.last = append(d.last, b)
	d.next++
}
