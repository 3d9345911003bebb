// Package tea reads and writes TEA clips: a 32-byte header followed by
// fixed-size blocks of mono PCM16 or IMA-ADPCM audio.
package tea

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Magic is "TEA1" read as a little-endian u32.
const Magic = 0x31414554

const HeaderSize = 32

const (
	CodecPCM16    = 0x01
	CodecIMAADPCM = 0x02
)

const (
	FlagLoopEnabled = 1 << 0
	FlagHasEvents   = 1 << 1
)

var (
	ErrShortHeader  = errors.New("tea: header too short")
	ErrBadMagic     = errors.New("tea: invalid magic")
	ErrNotMono      = errors.New("tea: only mono supported")
	ErrBadCodec     = errors.New("tea: unsupported codec")
	ErrBadBlockSize = errors.New("tea: block size does not match codec")
	ErrBadHeader    = errors.New("tea: invalid header")
)

// Header is the fixed TEA file header.
//
// Layout (little-endian):
//   - u32: magic
//   - u16: sample rate
//   - u8: channels (1)
//   - u8: codec id
//   - u16: samples per block
//   - u16: block size in bytes
//   - u32: total samples
//   - u16: flags
//   - 14 bytes: reserved, zero
type Header struct {
	Magic           uint32
	SampleRate      uint16
	Channels        uint8
	CodecID         uint8
	SamplesPerBlock uint16
	BlockSize       uint16
	TotalSamples    uint32
	Flags           uint16
	Reserved        [14]byte
}

// NewHeader fills in magic, channel count and block size for codec.
func NewHeader(codec uint8, sampleRate, samplesPerBlock int, total uint32) (Header, error) {
	bs, err := BlockSize(codec, samplesPerBlock)
	if err != nil {
		return Header{}, err
	}
	h := Header{
		Magic:           Magic,
		SampleRate:      uint16(sampleRate),
		Channels:        1,
		CodecID:         codec,
		SamplesPerBlock: uint16(samplesPerBlock),
		BlockSize:       uint16(bs),
		TotalSamples:    total,
	}
	return h, h.Validate()
}

// BlockSize returns the encoded size of one block.
func BlockSize(codec uint8, samplesPerBlock int) (int, error) {
	if samplesPerBlock <= 0 || samplesPerBlock > 0xFFFF {
		return 0, fmt.Errorf("%w: samples per block %d", ErrBadHeader, samplesPerBlock)
	}
	switch codec {
	case CodecPCM16:
		return samplesPerBlock * 2, nil
	case CodecIMAADPCM:
		// predictor, step index, then one nibble per sample after the first.
		return 3 + samplesPerBlock/2, nil
	default:
		return 0, ErrBadCodec
	}
}

// ParseHeader decodes and validates a header.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, ErrShortHeader
	}
	var h Header
	h.Magic = binary.LittleEndian.Uint32(data[0:4])
	h.SampleRate = binary.LittleEndian.Uint16(data[4:6])
	h.Channels = data[6]
	h.CodecID = data[7]
	h.SamplesPerBlock = binary.LittleEndian.Uint16(data[8:10])
	h.BlockSize = binary.LittleEndian.Uint16(data[10:12])
	h.TotalSamples = binary.LittleEndian.Uint32(data[12:16])
	h.Flags = binary.LittleEndian.Uint16(data[16:18])
	copy(h.Reserved[:], data[18:32])
	return h, h.Validate()
}

func (h Header) MarshalBinary() ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	b := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(b[0:4], h.Magic)
	binary.LittleEndian.PutUint16(b[4:6], h.SampleRate)
	b[6] = h.Channels
	b[7] = h.CodecID
	binary.LittleEndian.PutUint16(b[8:10], h.SamplesPerBlock)
	binary.LittleEndian.PutUint16(b[10:12], h.BlockSize)
	binary.LittleEndian.PutUint32(b[12:16], h.TotalSamples)
	binary.LittleEndian.PutUint16(b[16:18], h.Flags)
	copy(b[18:32], h.Reserved[:])
	return b, nil
}

// Validate checks the header invariants.
func (h Header) Validate() error {
	switch {
	case h.Magic != Magic:
		return ErrBadMagic
	case h.Channels != 1:
		return ErrNotMono
	case h.SampleRate == 0:
		return fmt.Errorf("%w: zero sample rate", ErrBadHeader)
	case h.TotalSamples == 0:
		return fmt.Errorf("%w: zero total samples", ErrBadHeader)
	}
	for _, b := range h.Reserved {
		if b != 0 {
			return fmt.Errorf("%w: reserved bytes set", ErrBadHeader)
		}
	}
	want, err := BlockSize(h.CodecID, int(h.SamplesPerBlock))
	if err != nil {
		return err
	}
	if int(h.BlockSize) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrBadBlockSize, h.BlockSize, want)
	}
	return nil
}

// Blocks returns the number of blocks that hold TotalSamples.
func (h Header) Blocks() int {
	spb := uint32(h.SamplesPerBlock)
	if spb == 0 {
		return 0
	}
	return int((h.TotalSamples + spb - 1) / spb)
}
