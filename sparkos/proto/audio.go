package proto

// SoundPlayPayload encodes MsgSoundPlay.
//
// Layout:
//   - bytes: UTF-8 clip name
func SoundPlayPayload(name string) []byte { return []byte(name) }

func DecodeSoundPlayPayload(b []byte) (name string, ok bool) {
	if len(b) == 0 {
		return "", false
	}
	return string(b), true
}

// SoundEnablePayload encodes MsgSoundEnable.
//
// Layout:
//   - u8: 1 enabled, 0 muted
func SoundEnablePayload(enabled bool) []byte {
	if enabled {
		return []byte{1}
	}
	return []byte{0}
}

func DecodeSoundEnablePayload(b []byte) (enabled bool, ok bool) {
	if len(b) != 1 || b[0] > 1 {
		return false, false
	}
	return b[0] == 1, true
}
