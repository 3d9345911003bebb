package audio

import (
	"fmt"

	"sparkdice/sparkos/kernel"
	"sparkdice/sparkos/proto"
)

// Clip names understood by the audio service.
const (
	ClipRoll   = "roll"
	ClipSettle = "settle"
)

// Client sends fire-and-forget requests to the audio service.
//
// Requests never block the caller; a full queue drops the request.
type Client struct {
	audioCap kernel.Capability
}

func New(audioCap kernel.Capability) *Client {
	return &Client{audioCap: audioCap}
}

func (c *Client) Play(ctx *kernel.Context, name string) error {
	return c.send(ctx, proto.MsgSoundPlay, proto.SoundPlayPayload(name))
}

func (c *Client) SetEnabled(ctx *kernel.Context, enabled bool) error {
	return c.send(ctx, proto.MsgSoundEnable, proto.SoundEnablePayload(enabled))
}

func (c *Client) send(ctx *kernel.Context, kind proto.Kind, payload []byte) error {
	if c == nil || !c.audioCap.Valid() {
		return nil
	}
	if ctx == nil {
		return fmt.Errorf("audio client: nil context for %s", kind)
	}
	if res := ctx.SendToCapResult(c.audioCap, uint16(kind), payload, kernel.Capability{}); res != kernel.SendOK {
		return fmt.Errorf("audio client send %s: %s", kind, res)
	}
	return nil
}
