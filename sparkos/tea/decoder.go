package tea

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxBlockBytes bounds the block buffer a Decoder carries.
const MaxBlockBytes = 2048

var errOutTooSmall = errors.New("tea: output buffer too small")

// Decoder streams blocks from a TEA file. DecodeBlock does not allocate.
type Decoder struct {
	r      io.Reader
	Header Header

	pos   uint32
	block [MaxBlockBytes]byte
}

// NewDecoder reads and validates the header from r.
func NewDecoder(r io.Reader) (*Decoder, error) {
	if r == nil {
		return nil, errors.New("tea: nil reader")
	}
	var raw [HeaderSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return nil, fmt.Errorf("tea: read header: %w", err)
	}
	h, err := ParseHeader(raw[:])
	if err != nil {
		return nil, err
	}
	if int(h.BlockSize) > MaxBlockBytes {
		return nil, fmt.Errorf("tea: block too large: %d > %d", h.BlockSize, MaxBlockBytes)
	}
	return &Decoder{r: r, Header: h}, nil
}

// Remaining returns the number of samples not yet decoded.
func (d *Decoder) Remaining() int { return int(d.Header.TotalSamples - d.pos) }

// DecodeBlock decodes the next block into out and returns the number of
// samples. The last block is trimmed to TotalSamples. It returns io.EOF once
// every sample has been decoded.
func (d *Decoder) DecodeBlock(out []int16) (int, error) {
	if d.pos >= d.Header.TotalSamples {
		return 0, io.EOF
	}
	spb := int(d.Header.SamplesPerBlock)
	if len(out) < spb {
		return 0, errOutTooSmall
	}

	block := d.block[:d.Header.BlockSize]
	if _, err := io.ReadFull(d.r, block); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, fmt.Errorf("tea: truncated at sample %d: %w", d.pos, io.ErrUnexpectedEOF)
		}
		return 0, fmt.Errorf("tea: read block: %w", err)
	}

	switch d.Header.CodecID {
	case CodecPCM16:
		for i := 0; i < spb; i++ {
			out[i] = int16(binary.LittleEndian.Uint16(block[i*2:]))
		}
	case CodecIMAADPCM:
		if _, err := DecodeIMAADPCMBlock(block, spb, out); err != nil {
			return 0, err
		}
	default:
		return 0, ErrBadCodec
	}

	n := spb
	if remain := d.Remaining(); remain < n {
		n = remain
	}
	d.pos += uint32(n)
	return n, nil
}
