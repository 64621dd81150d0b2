package subblock

import (
	"bytes"
	"testing"
)

func TestFrameAndReadAll(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "short", data: []byte("hello")},
		{name: "exactly 255", data: bytes.Repeat([]byte{0x42}, 255)},
		{name: "spans two blocks", data: bytes.Repeat([]byte{0x7}, 300)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			framed := Frame(tt.data)
			payload, next, err := ReadAll(framed, 0)
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if next != len(framed) {
				t.Errorf("next = %d, want %d", next, len(framed))
			}
			if !bytes.Equal(payload, tt.data) {
				t.Errorf("payload round trip mismatch: got %d bytes, want %d", len(payload), len(tt.data))
			}
		})
	}
}

func TestFrameSplitsAt255(t *testing.T) {
	framed := Frame(bytes.Repeat([]byte{1}, 300))
	if framed[0] != 255 {
		t.Fatalf("first block length = %d, want 255", framed[0])
	}
	if framed[256] != 45 {
		t.Fatalf("second block length = %d, want 45", framed[256])
	}
}

func TestReaderNext(t *testing.T) {
	framed := Frame([]byte("ab"))
	r := NewReader(framed)
	payload, ok, err := r.Next()
	if err != nil || !ok {
		t.Fatalf("Next: %v, ok=%v", err, ok)
	}
	if string(payload) != "ab" {
		t.Errorf("payload = %q, want %q", payload, "ab")
	}
	_, ok, err = r.Next()
	if err != nil || ok {
		t.Fatalf("expected terminator, got ok=%v err=%v", ok, err)
	}
}

func TestSkip(t *testing.T) {
	framed := Frame([]byte("some payload bytes"))
	next, err := Skip(framed, 0)
	if err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if next != len(framed) {
		t.Errorf("next = %d, want %d", next, len(framed))
	}
}

func TestReadAllTruncated(t *testing.T) {
	_, _, err := ReadAll([]byte{5, 1, 2}, 0)
	if err == nil {
		t.Error("expected error for truncated sub-block")
	}
}
