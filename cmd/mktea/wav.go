package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"sparkdice/sparkos/tea"
)

// readWAV reads a PCM16 mono WAV file.
func readWAV(r io.Reader) (tea.Clip, error) {
	var hdr [12]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return tea.Clip{}, err
	}
	if string(hdr[0:4]) != "RIFF" || string(hdr[8:12]) != "WAVE" {
		return tea.Clip{}, fmt.Errorf("wav: bad header")
	}

	var (
		clip     tea.Clip
		foundFmt bool
	)
	for {
		var ch [8]byte
		_, err := io.ReadFull(r, ch[:])
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return tea.Clip{}, err
		}
		id := string(ch[0:4])
		sz := binary.LittleEndian.Uint32(ch[4:8])
		pad := int64(sz % 2)

		switch id {
		case "fmt ":
			if sz < 16 {
				return tea.Clip{}, fmt.Errorf("wav: short fmt chunk")
			}
			buf := make([]byte, int64(sz)+pad)
			if _, err := io.ReadFull(r, buf); err != nil {
				return tea.Clip{}, err
			}
			format := binary.LittleEndian.Uint16(buf[0:2])
			channels := binary.LittleEndian.Uint16(buf[2:4])
			bits := binary.LittleEndian.Uint16(buf[14:16])
			if format != 1 || channels != 1 || bits != 16 {
				return tea.Clip{}, fmt.Errorf("wav: only PCM16 mono is supported (format=%d channels=%d bits=%d)", format, channels, bits)
			}
			clip.SampleRate = int(binary.LittleEndian.Uint32(buf[4:8]))
			foundFmt = true

		case "data":
			if !foundFmt {
				return tea.Clip{}, fmt.Errorf("wav: data before fmt")
			}
			buf := make([]byte, sz)
			if _, err := io.ReadFull(r, buf); err != nil {
				return tea.Clip{}, err
			}
			clip.Samples = make([]int16, len(buf)/2)
			for i := range clip.Samples {
				clip.Samples[i] = int16(binary.LittleEndian.Uint16(buf[2*i:]))
			}
			if len(clip.Samples) == 0 {
				return tea.Clip{}, fmt.Errorf("wav: empty data")
			}
			return clip, nil

		default:
			if _, err := io.CopyN(io.Discard, r, int64(sz)+pad); err != nil {
				return tea.Clip{}, err
			}
		}
	}
	return tea.Clip{}, fmt.Errorf("wav: missing fmt or data chunk")
}

func writeWAV(w io.Writer, clip tea.Clip) error {
	const channels, bits = 1, 16
	dataBytes := uint32(len(clip.Samples) * 2)
	blockAlign := uint16(channels * bits / 8)
	byteRate := uint32(clip.SampleRate) * uint32(blockAlign)

	var hdr [44]byte
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], 36+dataBytes)
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], 1)
	binary.LittleEndian.PutUint16(hdr[22:24], channels)
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(clip.SampleRate))
	binary.LittleEndian.PutUint32(hdr[28:32], byteRate)
	binary.LittleEndian.PutUint16(hdr[32:34], blockAlign)
	binary.LittleEndian.PutUint16(hdr[34:36], bits)
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], dataBytes)
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	buf := make([]byte, dataBytes)
	for i, s := range clip.Samples {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(s))
	}
	_, err := w.Write(buf)
	return err
}
