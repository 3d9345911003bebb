package tea

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
)

func TestParseHeader(t *testing.T) {
	data := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(data[0:4], Magic)
	binary.LittleEndian.PutUint16(data[4:6], 44100)
	data[6] = 1
	data[7] = CodecPCM16
	binary.LittleEndian.PutUint16(data[8:10], 100)
	binary.LittleEndian.PutUint16(data[10:12], 200)
	binary.LittleEndian.PutUint32(data[12:16], 1000)

	h, err := ParseHeader(data)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.SampleRate != 44100 || h.CodecID != CodecPCM16 || h.Blocks() != 10 {
		t.Fatalf("unexpected header %+v", h)
	}

	binary.LittleEndian.PutUint16(data[10:12], 199)
	if _, err := ParseHeader(data); !errors.Is(err, ErrBadBlockSize) {
		t.Fatalf("expected ErrBadBlockSize, got %v", err)
	}
	data[0] = 'X'
	if _, err := ParseHeader(data); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
	if _, err := ParseHeader(data[:10]); !errors.Is(err, ErrShortHeader) {
		t.Fatalf("expected ErrShortHeader, got %v", err)
	}
}

func TestDecodePCM16(t *testing.T) {
	h, err := NewHeader(CodecPCM16, 44100, 4, 4)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	raw, _ := h.MarshalBinary()
	block := []byte{
		0x00, 0x00,
		0xFF, 0x7F,
		0x00, 0x80,
		0x01, 0x00,
	}
	dec, err := NewDecoder(bytes.NewReader(append(raw, block...)))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	out := make([]int16, 4)
	n, err := dec.DecodeBlock(out)
	if err != nil || n != 4 {
		t.Fatalf("DecodeBlock: n=%d err=%v", n, err)
	}
	want := []int16{0, 32767, -32768, 1}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("sample %d: got %d want %d", i, out[i], want[i])
		}
	}
	if _, err := dec.DecodeBlock(out); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	h, _ := NewHeader(CodecPCM16, 8000, 4, 8)
	raw, _ := h.MarshalBinary()
	raw = append(raw, make([]byte, 8+3)...)
	_, err := ReadAll(bytes.NewReader(raw))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func sine(n, rate int, hz float64) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(12000 * math.Sin(2*math.Pi*hz*float64(i)/float64(rate)))
	}
	return out
}

func TestPCM16ClipRoundTrip(t *testing.T) {
	in := Clip{SampleRate: 22050, Samples: sine(1000, 22050, 440)}
	var buf bytes.Buffer
	if err := Encode(&buf, in, CodecPCM16, 256); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := ReadAll(&buf)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if out.SampleRate != in.SampleRate || len(out.Samples) != len(in.Samples) {
		t.Fatalf("got rate=%d len=%d", out.SampleRate, len(out.Samples))
	}
	for i := range in.Samples {
		if out.Samples[i] != in.Samples[i] {
			t.Fatalf("sample %d: got %d want %d", i, out.Samples[i], in.Samples[i])
		}
	}
}

func TestIMAADPCMClipTracksSignal(t *testing.T) {
	in := Clip{SampleRate: 22050, Samples: sine(3000, 22050, 330)}
	var buf bytes.Buffer
	if err := Encode(&buf, in, CodecIMAADPCM, 0); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if buf.Len() >= len(in.Samples) {
		t.Fatalf("adpcm stream is %d bytes for %d samples", buf.Len(), len(in.Samples))
	}
	out, err := ReadAll(&buf)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(out.Samples) != len(in.Samples) {
		t.Fatalf("got %d samples, want %d", len(out.Samples), len(in.Samples))
	}
	var sumErr float64
	for i := range in.Samples {
		d := float64(out.Samples[i]) - float64(in.Samples[i])
		sumErr += d * d
	}
	rms := math.Sqrt(sumErr / float64(len(in.Samples)))
	if rms > 600 {
		t.Fatalf("adpcm rms error %.1f too high", rms)
	}
}

func TestIMAADPCMBlockSilence(t *testing.T) {
	samples := make([]int16, 8)
	block := make([]byte, 3+len(samples)/2)
	if err := EncodeIMAADPCMBlock(samples, len(samples), block); err != nil {
		t.Fatalf("EncodeIMAADPCMBlock: %v", err)
	}
	out := make([]int16, len(samples))
	n, err := DecodeIMAADPCMBlock(block, len(samples), out)
	if err != nil || n != len(samples) {
		t.Fatalf("DecodeIMAADPCMBlock: n=%d err=%v", n, err)
	}
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d: got %d want 0", i, v)
		}
	}
	if err := EncodeIMAADPCMBlock(samples, len(samples), block[:2]); !errors.Is(err, ErrBadADPCMBlock) {
		t.Fatalf("expected ErrBadADPCMBlock, got %v", err)
	}
}
