package proto

// Kind identifies the message type carried in kernel.Message.Kind.
type Kind uint16

const (
	MsgLogLine Kind = iota + 1
	MsgRollStarted
	MsgPose
	MsgRollSettled
	MsgThemeChanged
	MsgSoundPlay
	MsgSoundEnable
	MsgPrefSet
)

func (k Kind) String() string {
	switch k {
	case MsgLogLine:
		return "log_line"
	case MsgRollStarted:
		return "roll_started"
	case MsgPose:
		return "pose"
	case MsgRollSettled:
		return "roll_settled"
	case MsgThemeChanged:
		return "theme_changed"
	case MsgSoundPlay:
		return "sound_play"
	case MsgSoundEnable:
		return "sound_enable"
	case MsgPrefSet:
		return "pref_set"
	default:
		return "unknown"
	}
}
