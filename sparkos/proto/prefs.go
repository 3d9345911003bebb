package proto

// MaxPrefKeyBytes bounds preference keys so key+value always fit a message.
const MaxPrefKeyBytes = 32

// PrefSetPayload encodes MsgPrefSet.
//
// Layout:
//   - u8: key length
//   - bytes: key
//   - bytes: value (rest of payload)
func PrefSetPayload(key, value string) ([]byte, bool) {
	if key == "" || len(key) > MaxPrefKeyBytes {
		return nil, false
	}
	buf := make([]byte, 1+len(key)+len(value))
	buf[0] = uint8(len(key))
	copy(buf[1:], key)
	copy(buf[1+len(key):], value)
	return buf, true
}

func DecodePrefSetPayload(b []byte) (key, value string, ok bool) {
	if len(b) < 2 {
		return "", "", false
	}
	n := int(b[0])
	if n == 0 || n > MaxPrefKeyBytes || 1+n > len(b) {
		return "", "", false
	}
	return string(b[1 : 1+n]), string(b[1+n:]), true
}
