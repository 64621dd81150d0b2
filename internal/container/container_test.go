package container

import (
	"bytes"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	palette := []RGB{{R: 255}, {G: 255}, {B: 255}}
	if err := w.WriteLogicalScreen(LogicalScreen{Width: 4, Height: 2, GlobalPalette: palette}); err != nil {
		t.Fatalf("WriteLogicalScreen: %v", err)
	}
	if err := w.WriteFrame(FrameSpec{
		Width: 4, Height: 2,
		Palette: palette,
		Indices: []byte{0, 1, 2, 0, 1, 2, 0, 1},
	}); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if err := w.WriteTrailer(); err != nil {
		t.Fatalf("WriteTrailer: %v", err)
	}

	data := buf.Bytes()
	header, pos, err := ReadHeader(data)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if header.Version != "89a" {
		t.Errorf("version = %q, want 89a", header.Version)
	}

	ls, pos, err := ReadLogicalScreen(data, pos)
	if err != nil {
		t.Fatalf("ReadLogicalScreen: %v", err)
	}
	if ls.Width != 4 || ls.Height != 2 {
		t.Errorf("logical screen = %dx%d, want 4x2", ls.Width, ls.Height)
	}
	if len(ls.GlobalPalette) != 4 {
		t.Errorf("global palette padded to %d entries, want 4", len(ls.GlobalPalette))
	}

	record, pos, err := Next(data, pos)
	if err != nil {
		t.Fatalf("Next (image): %v", err)
	}
	img, ok := record.(ImageRecord)
	if !ok {
		t.Fatalf("record type = %T, want ImageRecord", record)
	}
	if int(img.Descriptor.Width) != 4 || int(img.Descriptor.Height) != 2 {
		t.Errorf("image descriptor = %dx%d, want 4x2", img.Descriptor.Width, img.Descriptor.Height)
	}

	record, _, err = Next(data, pos)
	if err != nil {
		t.Fatalf("Next (trailer): %v", err)
	}
	if _, ok := record.(TrailerRecord); !ok {
		t.Errorf("record type = %T, want TrailerRecord", record)
	}
}

func TestColorTableSizeField(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{n: 1, want: 0},
		{n: 2, want: 0},
		{n: 3, want: 1},
		{n: 4, want: 1},
		{n: 5, want: 2},
		{n: 255, want: 7},
		{n: 256, want: 7},
	}
	for _, tt := range tests {
		if got := colorTableSizeField(tt.n); got != tt.want {
			t.Errorf("colorTableSizeField(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestPaddedColorTableSizeIsPowerOfTwo(t *testing.T) {
	for field := 0; field <= 7; field++ {
		got := paddedColorTableSize(field)
		want := 1 << uint(field+1)
		if got != want {
			t.Errorf("paddedColorTableSize(%d) = %d, want %d", field, got, want)
		}
	}
}

func TestWriteHeaderOutOfOrder(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteLogicalScreen(LogicalScreen{Width: 1, Height: 1}); err == nil {
		t.Error("expected ErrOutOfOrder when WriteLogicalScreen precedes WriteHeader")
	}
}

func TestReadHeaderRejectsNonGIF(t *testing.T) {
	_, _, err := ReadHeader([]byte("\x89PNG\r\n\x1a\n"))
	if err == nil {
		t.Error("expected error for PNG signature")
	}
}

func TestApplicationExtensionNetscapeLoopCount(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteHeader()
	w.WriteLogicalScreen(LogicalScreen{Width: 1, Height: 1})
	if err := w.WriteAnimationInfo(7); err != nil {
		t.Fatalf("WriteAnimationInfo: %v", err)
	}
	w.WriteFrame(FrameSpec{Width: 1, Height: 1, Palette: []RGB{{}}, Indices: []byte{0}})
	w.WriteTrailer()

	data := buf.Bytes()
	_, pos, _ := ReadHeader(data)
	_, pos, _ = ReadLogicalScreen(data, pos)
	record, _, err := Next(data, pos)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	app, ok := record.(ApplicationRecord)
	if !ok || !app.Netscape {
		t.Fatalf("record = %#v, want a Netscape ApplicationRecord", record)
	}
	if app.LoopCount != 7 {
		t.Errorf("LoopCount = %d, want 7", app.LoopCount)
	}
}
