package tea

import (
	"encoding/binary"
	"errors"
)

var imaSteps = [89]int32{
	7, 8, 9, 10, 11, 12, 13, 14, 16, 17,
	19, 21, 23, 25, 28, 31, 34, 37, 41, 45,
	50, 55, 60, 66, 73, 80, 88, 97, 107, 118,
	130, 143, 157, 173, 190, 209, 230, 253, 279, 307,
	337, 371, 408, 449, 494, 544, 598, 658, 724, 796,
	876, 963, 1060, 1166, 1282, 1411, 1552, 1707, 1878, 2066,
	2272, 2499, 2749, 3024, 3327, 3660, 4026, 4428, 4871, 5358,
	5894, 6484, 7132, 7845, 8630, 9493, 10442, 11487, 12635, 13899,
	15289, 16818, 18500, 20350, 22385, 24623, 27086, 29794, 32767,
}

var imaIndexAdjust = [8]int8{-1, -1, -1, -1, 2, 4, 6, 8}

var ErrBadADPCMBlock = errors.New("tea: bad ima-adpcm block")

// imaState is the predictor shared by encoder and decoder.
type imaState struct {
	pred  int32
	index int32
}

// apply reconstructs the next sample from nibble n and advances the state.
func (s *imaState) apply(n uint8) int16 {
	step := imaSteps[s.index]
	diff := step >> 3
	if n&4 != 0 {
		diff += step
	}
	if n&2 != 0 {
		diff += step >> 1
	}
	if n&1 != 0 {
		diff += step >> 2
	}
	if n&8 != 0 {
		s.pred -= diff
	} else {
		s.pred += diff
	}
	s.pred = clamp32(s.pred, -32768, 32767)
	s.index = clamp32(s.index+int32(imaIndexAdjust[n&7]), 0, 88)
	return int16(s.pred)
}

// encode picks the nibble that best approaches sample and applies it, so the
// encoder tracks exactly what the decoder will reconstruct.
func (s *imaState) encode(sample int16) uint8 {
	step := imaSteps[s.index]
	diff := int32(sample) - s.pred
	var n uint8
	if diff < 0 {
		n = 8
		diff = -diff
	}
	for bit, part := uint8(4), step; bit != 0; bit, part = bit>>1, part>>1 {
		if diff >= part {
			n |= bit
			diff -= part
		}
	}
	s.apply(n)
	return n
}

func clamp32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EncodeIMAADPCMBlock encodes one block of samplesPerBlock samples into dst.
// Missing input samples repeat the last one (or silence when empty).
//
// Block layout:
//   - i16: first sample, also the initial predictor
//   - u8: step index
//   - nibbles for the remaining samples, low nibble first
func EncodeIMAADPCMBlock(samples []int16, samplesPerBlock int, dst []byte) error {
	size, err := BlockSize(CodecIMAADPCM, samplesPerBlock)
	if err != nil || len(dst) != size {
		return ErrBadADPCMBlock
	}
	for i := range dst {
		dst[i] = 0
	}

	at := func(i int) int16 {
		switch {
		case i < len(samples):
			return samples[i]
		case len(samples) > 0:
			return samples[len(samples)-1]
		default:
			return 0
		}
	}

	st := imaState{pred: int32(at(0))}
	binary.LittleEndian.PutUint16(dst[0:2], uint16(at(0)))
	dst[2] = 0

	data := dst[3:]
	for i := 1; i < samplesPerBlock; i++ {
		n := st.encode(at(i))
		k := i - 1
		if k%2 == 0 {
			data[k/2] = n
		} else {
			data[k/2] |= n << 4
		}
	}
	return nil
}

// DecodeIMAADPCMBlock decodes one block into out, which must hold
// samplesPerBlock samples. It returns samplesPerBlock.
func DecodeIMAADPCMBlock(block []byte, samplesPerBlock int, out []int16) (int, error) {
	size, err := BlockSize(CodecIMAADPCM, samplesPerBlock)
	if err != nil || len(block) < size || len(out) < samplesPerBlock {
		return 0, ErrBadADPCMBlock
	}

	first := int16(binary.LittleEndian.Uint16(block[0:2]))
	st := imaState{pred: int32(first), index: clamp32(int32(block[2]), 0, 88)}
	out[0] = first

	data := block[3:]
	for i := 1; i < samplesPerBlock; i++ {
		k := i - 1
		n := data[k/2]
		if k%2 == 1 {
			n >>= 4
		}
		out[i] = st.apply(n & 0x0F)
	}
	return samplesPerBlock, nil
}
