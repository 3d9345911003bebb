package tea

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// DefaultSamplesPerBlock is used by Encode when the caller passes zero.
const DefaultSamplesPerBlock = 505

// Clip is a fully decoded mono clip.
type Clip struct {
	SampleRate int
	Samples    []int16
}

// DurationMs returns the clip length in milliseconds.
func (c Clip) DurationMs() int {
	if c.SampleRate <= 0 {
		return 0
	}
	return len(c.Samples) * 1000 / c.SampleRate
}

// ReadAll decodes a whole TEA stream.
func ReadAll(r io.Reader) (Clip, error) {
	dec, err := NewDecoder(r)
	if err != nil {
		return Clip{}, err
	}
	clip := Clip{
		SampleRate: int(dec.Header.SampleRate),
		Samples:    make([]int16, 0, dec.Header.TotalSamples),
	}
	buf := make([]int16, dec.Header.SamplesPerBlock)
	for {
		n, err := dec.DecodeBlock(buf)
		if errors.Is(err, io.EOF) {
			return clip, nil
		}
		if err != nil {
			return Clip{}, err
		}
		clip.Samples = append(clip.Samples, buf[:n]...)
	}
}

// Encode writes c as a TEA stream using codec.
func Encode(w io.Writer, c Clip, codec uint8, samplesPerBlock int) error {
	if samplesPerBlock == 0 {
		samplesPerBlock = DefaultSamplesPerBlock
	}
	if len(c.Samples) == 0 {
		return fmt.Errorf("%w: empty clip", ErrBadHeader)
	}
	if c.SampleRate <= 0 || c.SampleRate > 0xFFFF {
		return fmt.Errorf("%w: sample rate %d", ErrBadHeader, c.SampleRate)
	}
	h, err := NewHeader(codec, c.SampleRate, samplesPerBlock, uint32(len(c.Samples)))
	if err != nil {
		return err
	}
	raw, err := h.MarshalBinary()
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(raw); err != nil {
		return fmt.Errorf("tea: write header: %w", err)
	}

	block := make([]byte, h.BlockSize)
	for start := 0; start < len(c.Samples); start += samplesPerBlock {
		end := start + samplesPerBlock
		if end > len(c.Samples) {
			end = len(c.Samples)
		}
		chunk := c.Samples[start:end]
		switch codec {
		case CodecPCM16:
			for i := range block {
				block[i] = 0
			}
			for i, s := range chunk {
				binary.LittleEndian.PutUint16(block[i*2:], uint16(s))
			}
		case CodecIMAADPCM:
			if err := EncodeIMAADPCMBlock(chunk, samplesPerBlock, block); err != nil {
				return err
			}
		}
		if _, err := bw.Write(block); err != nil {
			return fmt.Errorf("tea: write block: %w", err)
		}
	}
	return bw.Flush()
}
