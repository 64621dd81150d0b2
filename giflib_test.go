package giflib

import (
	"bytes"
	"testing"

	"giflib/internal/container"
)

func solidImage(width, height int, r, g, b uint8) *TruecolorImage {
	pix := make([]byte, width*height*4)
	for i := 0; i < width*height; i++ {
		pix[i*4] = r
		pix[i*4+1] = g
		pix[i*4+2] = b
		pix[i*4+3] = 255
	}
	return &TruecolorImage{Width: width, Height: height, Pix: pix}
}

func TestEncodeDecodeStaticSolidColor(t *testing.T) {
	img := solidImage(4, 3, 200, 50, 10)
	data, err := EncodeStaticGIF(img, EncodeOptions{})
	if err != nil {
		t.Fatalf("EncodeStaticGIF: %v", err)
	}

	decoded, err := DecodeGIF(data)
	if err != nil {
		t.Fatalf("DecodeGIF: %v", err)
	}
	if len(decoded.Frames) != 1 {
		t.Fatalf("frame count = %d, want 1", len(decoded.Frames))
	}
	frame := decoded.Frames[0]
	if frame.Image.Width != 4 || frame.Image.Height != 3 {
		t.Fatalf("decoded dimensions = %dx%d, want 4x3", frame.Image.Width, frame.Image.Height)
	}
	for i := 0; i < 4*3; i++ {
		if frame.Image.Pix[i*4+3] != 255 {
			t.Fatalf("pixel %d not opaque", i)
		}
	}
}

func TestEncodeDecodeAnimatedTwoFrames(t *testing.T) {
	frames := []TruecolorImage{
		*solidImage(2, 2, 255, 0, 0),
		*solidImage(2, 2, 0, 255, 0),
	}
	data, err := EncodeAnimatedGIF(frames, AnimationOptions{DelayMS: 100, Loops: 0})
	if err != nil {
		t.Fatalf("EncodeAnimatedGIF: %v", err)
	}

	decoded, err := DecodeGIF(data)
	if err != nil {
		t.Fatalf("DecodeGIF: %v", err)
	}
	if len(decoded.Frames) != 2 {
		t.Fatalf("frame count = %d, want 2", len(decoded.Frames))
	}
	if decoded.LoopCount != 0 {
		t.Errorf("LoopCount = %d, want 0 (infinite)", decoded.LoopCount)
	}
	for _, f := range decoded.Frames {
		if f.DelayMS != 100 {
			t.Errorf("frame delay = %d, want 100", f.DelayMS)
		}
	}

	info, err := DecodeInfo(data)
	if err != nil {
		t.Fatalf("DecodeInfo: %v", err)
	}
	if info.FrameCount != 2 {
		t.Errorf("Info.FrameCount = %d, want 2", info.FrameCount)
	}
	if info.DurationMS != 200 {
		t.Errorf("Info.DurationMS = %d, want 200", info.DurationMS)
	}
}

func TestDecodeGIFCorruptFrameYieldsPlaceholder(t *testing.T) {
	frames := []TruecolorImage{
		*solidImage(2, 2, 255, 0, 0),
	}
	data, err := EncodeAnimatedGIF(frames, AnimationOptions{})
	if err != nil {
		t.Fatalf("EncodeAnimatedGIF: %v", err)
	}

	// Locate the image descriptor's start using the same parser the
	// decoder uses, then corrupt the LZW minimum code size byte that
	// immediately follows its (padded) local color table.
	_, pos, err := container.ReadHeader(data)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	_, pos, err = container.ReadLogicalScreen(data, pos)
	if err != nil {
		t.Fatalf("ReadLogicalScreen: %v", err)
	}
	var minCodeSizePos = -1
	for {
		recordStart := pos
		record, next, err := container.Next(data, pos)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if img, ok := record.(container.ImageRecord); ok {
			paletteBytes := 0
			if img.Palette != nil {
				paletteBytes = len(img.Palette) * 3
			}
			minCodeSizePos = recordStart + 1 + 9 + paletteBytes
			break
		}
		if _, ok := record.(container.TrailerRecord); ok {
			t.Fatal("test setup: reached trailer before finding an image record")
		}
		pos = next
	}

	corrupted := append([]byte(nil), data...)
	corrupted[minCodeSizePos] = 0xFF // out of the valid [1,8] range

	decoded, err := DecodeGIF(corrupted)
	if err != nil {
		t.Fatalf("DecodeGIF should tolerate a corrupt frame, got error: %v", err)
	}
	if len(decoded.Frames) != 1 {
		t.Fatalf("frame count = %d, want 1", len(decoded.Frames))
	}
	if !decoded.Frames[0].Placeholder {
		t.Error("expected corrupt frame to be marked Placeholder")
	}
}

func TestQuantizeReducesToRequestedColorCount(t *testing.T) {
	img := &TruecolorImage{
		Width: 2, Height: 2,
		Pix: []byte{
			255, 0, 0, 255,
			0, 255, 0, 255,
			0, 0, 255, 255,
			255, 255, 0, 255,
		},
	}
	indexed, err := Quantize(img, 4)
	if err != nil {
		t.Fatalf("Quantize: %v", err)
	}
	if len(indexed.Palette) != 4 {
		t.Fatalf("palette size = %d, want 4", len(indexed.Palette))
	}
	if len(indexed.Pix) != 4 {
		t.Fatalf("pixel count = %d, want 4", len(indexed.Pix))
	}
}

func TestEncodeStaticGIFValidatesInput(t *testing.T) {
	_, err := EncodeStaticGIF(&TruecolorImage{Width: 0, Height: 1, Pix: nil}, EncodeOptions{})
	if err == nil {
		t.Error("expected validation error for zero-width image")
	}
}

func TestLowLevelWriterRoundTrip(t *testing.T) {
	img := solidImage(2, 2, 10, 20, 30)
	indexed, err := Quantize(img, 4)
	if err != nil {
		t.Fatalf("Quantize: %v", err)
	}

	var buf bytes.Buffer
	gw := NewWriter(&buf)
	if err := gw.WriteHeader(); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if err := gw.WriteLogicalScreen(2, 2, indexed.Palette, 0, 0); err != nil {
		t.Fatalf("WriteLogicalScreen: %v", err)
	}
	if err := gw.WriteFrame(indexed, 0, 0, FrameOptions{}, 0); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if err := gw.WriteTrailer(); err != nil {
		t.Fatalf("WriteTrailer: %v", err)
	}

	decoded, err := DecodeGIF(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeGIF: %v", err)
	}
	if len(decoded.Frames) != 1 {
		t.Fatalf("frame count = %d, want 1", len(decoded.Frames))
	}
}
