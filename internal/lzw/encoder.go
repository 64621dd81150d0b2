// Package lzw implements the variable-width LZW coder GIF uses to
// compress its indexed pixel data: clear/end codes, bit-width growth in
// lockstep between encoder and decoder, and dictionary reset on overflow.
package lzw

import (
	"fmt"

	"giflib/internal/bitio"
)

const maxCodeBits = 12
const maxDictSize = 1 << maxCodeBits // 4096

// Compress encodes indices (each a palette index) using GIF's LZW
// convention with the given initial code size in [2, 8]. GIF requires a
// minimum initial size of 2, so a caller-supplied 1 is bumped to 2.
func Compress(indices []byte, initialCodeSize int) ([]byte, error) {
	if initialCodeSize < 1 || initialCodeSize > 8 {
		return nil, fmt.Errorf("lzw: invalid initial code size %d", initialCodeSize)
	}
	if initialCodeSize == 1 {
		initialCodeSize = 2
	}

	clearCode := 1 << initialCodeSize
	endCode := clearCode + 1

	w := bitio.NewWriter()
	dict := newEncodeDict(initialCodeSize)
	width := initialCodeSize + 1

	// The decoder can only learn of a new dictionary entry once it has read
	// the code that follows the one that provoked the insert (it needs that
	// next code's first byte to know what the entry actually is). So its
	// bit-width growth always lands one code later than a naive "grow right
	// after inserting" encoder would produce. pendingWidth/armed defer the
	// encoder's own growth by exactly one emitted code to stay in lockstep:
	// a threshold crossing arms on the following emit (still at the old
	// width) and only takes effect on the emit after that.
	pendingWidth := 0
	armed := false

	emit := func(code int) error {
		if armed {
			width = pendingWidth
			armed = false
			pendingWidth = 0
		} else if pendingWidth != 0 {
			armed = true
		}
		return w.WriteCode(code, width)
	}

	noteInsert := func() {
		if pendingWidth != 0 || armed {
			return
		}
		if dict.next > (1<<width)-1 && width < maxCodeBits {
			pendingWidth = width + 1
		}
	}

	if err := emit(clearCode); err != nil {
		return nil, err
	}

	if len(indices) == 0 {
		if err := emit(endCode); err != nil {
			return nil, err
		}
		return w.Flush(), nil
	}

	current := []byte{indices[0]}
	for _, b := range indices[1:] {
		extended := append(append([]byte(nil), current...), b)
		if _, ok := dict.lookup(extended); ok {
			current = extended
			continue
		}

		code, ok := dict.lookup(current)
		if !ok {
			return nil, fmt.Errorf("lzw: encoder lost track of %v", current)
		}
		if err := emit(code); err != nil {
			return nil, err
		}

		if dict.next <= maxDictSize-1 {
			dict.insert(extended)
			noteInsert()
		} else {
			if err := emit(clearCode); err != nil {
				return nil, err
			}
			dict = newEncodeDict(initialCodeSize)
			width = initialCodeSize + 1
			pendingWidth = 0
			armed = false
		}
		current = []byte{b}
	}

	code, ok := dict.lookup(current)
	if !ok {
		return nil, fmt.Errorf("lzw: encoder lost track of final run %v", current)
	}
	if err := emit(code); err != nil {
		return nil, err
	}
	if err := emit(endCode); err != nil {
		return nil, err
	}
	return w.Flush(), nil
}

// encodeDict maps byte-string dictionary entries to their assigned code,
// mirroring spec.md's next-assignable-code bookkeeping (§4.3).
type encodeDict struct {
	table map[string]int
	next  int
}

func newEncodeDict(initialCodeSize int) *encodeDict {
	d := &encodeDict{table: make(map[string]int, 512)}
	n := 1 << initialCodeSize
	for i := 0; i < n; i++ {
		d.table[string([]byte{byte(i)})] = i
	}
	// clearCode = n, endCode = n+1; next assignable code starts after both.
	d.next = n + 2
	return d
}

func (d *encodeDict) lookup(s []byte) (int, bool) {
	code, ok := d.table[string(s)]
	return code, ok
}

func (d *encodeDict) insert(s []byte) {
	if d.next >= maxDictSize {
		return
	}
	d.table[string(s)] = d.next
	d.next++
}
