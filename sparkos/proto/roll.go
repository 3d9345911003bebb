package proto

import (
	"encoding/binary"
	"math"
)

// RollPayload encodes MsgRollStarted and MsgRollSettled.
//
// Layout (little-endian):
//   - u32: roll sequence number (1-based)
//   - u8: face (target face for started, published face for settled)
//   - u64: kernel tick
func RollPayload(seq uint32, face uint8, tick uint64) []byte {
	buf := make([]byte, 13)
	binary.LittleEndian.PutUint32(buf[0:4], seq)
	buf[4] = face
	binary.LittleEndian.PutUint64(buf[5:13], tick)
	return buf
}

func DecodeRollPayload(b []byte) (seq uint32, face uint8, tick uint64, ok bool) {
	if len(b) != 13 {
		return 0, 0, 0, false
	}
	return binary.LittleEndian.Uint32(b[0:4]), b[4], binary.LittleEndian.Uint64(b[5:13]), true
}

// Pose is the wire form of one animation frame.
type Pose struct {
	Seq  uint32
	Tick uint64
	Y    float32
	// Q is the orientation quaternion as (w, x, y, z).
	Q [4]float32
}

// PosePayload encodes MsgPose.
//
// Layout (little-endian):
//   - u32: roll sequence number
//   - u64: kernel tick
//   - f32: vertical position
//   - 4×f32: quaternion w, x, y, z
func PosePayload(p Pose) []byte {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint32(buf[0:4], p.Seq)
	binary.LittleEndian.PutUint64(buf[4:12], p.Tick)
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(p.Y))
	for i, v := range p.Q {
		off := 16 + i*4
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
	}
	return buf
}

func DecodePosePayload(b []byte) (Pose, bool) {
	if len(b) != 32 {
		return Pose{}, false
	}
	var p Pose
	p.Seq = binary.LittleEndian.Uint32(b[0:4])
	p.Tick = binary.LittleEndian.Uint64(b[4:12])
	p.Y = math.Float32frombits(binary.LittleEndian.Uint32(b[12:16]))
	for i := range p.Q {
		off := 16 + i*4
		p.Q[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+4]))
	}
	return p, true
}

// ThemeChangedPayload encodes MsgThemeChanged as the UTF-8 theme name.
func ThemeChangedPayload(name string) []byte { return []byte(name) }

func DecodeThemeChangedPayload(b []byte) (string, bool) {
	if len(b) == 0 {
		return "", false
	}
	return string(b), true
}
