package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"sparkdice/sparkos/tea"
)

func TestWAVRoundTrip(t *testing.T) {
	in := tea.Clip{SampleRate: 8000, Samples: []int16{0, 1000, -1000, 32767, -32768}}
	var buf bytes.Buffer
	if err := writeWAV(&buf, in); err != nil {
		t.Fatalf("writeWAV: %v", err)
	}
	if buf.Len() != 44+len(in.Samples)*2 {
		t.Fatalf("wav size=%d", buf.Len())
	}
	out, err := readWAV(&buf)
	if err != nil {
		t.Fatalf("readWAV: %v", err)
	}
	if out.SampleRate != in.SampleRate || len(out.Samples) != len(in.Samples) {
		t.Fatalf("got rate=%d n=%d", out.SampleRate, len(out.Samples))
	}
	for i := range in.Samples {
		if out.Samples[i] != in.Samples[i] {
			t.Fatalf("sample %d=%d, want %d", i, out.Samples[i], in.Samples[i])
		}
	}
}

func TestReadWAVRejectsStereo(t *testing.T) {
	var buf bytes.Buffer
	if err := writeWAV(&buf, tea.Clip{SampleRate: 8000, Samples: []int16{1, 2}}); err != nil {
		t.Fatalf("writeWAV: %v", err)
	}
	b := buf.Bytes()
	b[22] = 2
	if _, err := readWAV(bytes.NewReader(b)); err == nil {
		t.Fatalf("expected error for stereo input")
	}
}

func TestSynthClipsDecode(t *testing.T) {
	dir := t.TempDir()
	if err := writeSynthClips(dir, 8000, tea.CodecIMAADPCM, 0); err != nil {
		t.Fatalf("writeSynthClips: %v", err)
	}
	for _, name := range []string{"roll", "settle"} {
		f, err := os.Open(filepath.Join(dir, name+".tea"))
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		clip, err := tea.ReadAll(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		if clip.SampleRate != 8000 || len(clip.Samples) == 0 {
			t.Fatalf("%s: rate=%d n=%d", name, clip.SampleRate, len(clip.Samples))
		}
	}
}
