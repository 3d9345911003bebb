package stream

import (
	"sparkdice/sparkos/kernel"
	"sparkdice/sparkos/proto"
)

const drainPerStep = 16

// Service turns kernel roll messages into feed events.
type Service struct {
	in  kernel.Capability
	hub *Hub
}

func NewService(in kernel.Capability, hub *Hub) *Service {
	return &Service{in: in, hub: hub}
}

func (s *Service) Step(ctx *kernel.Context) {
	for i := 0; i < drainPerStep; i++ {
		msg, ok := ctx.Recv(s.in)
		if !ok {
			break
		}
		if ev, ok := decodeEvent(msg); ok {
			s.hub.Publish(ev)
		}
	}
	ctx.BlockOn(s.in)
}

func decodeEvent(msg kernel.Message) (Event, bool) {
	payload := msg.Payload()
	switch proto.Kind(msg.Kind) {
	case proto.MsgRollStarted, proto.MsgRollSettled:
		seq, face, tick, ok := proto.DecodeRollPayload(payload)
		if !ok {
			return Event{}, false
		}
		typ := TypeRollStarted
		if proto.Kind(msg.Kind) == proto.MsgRollSettled {
			typ = TypeRollSettled
		}
		return Event{Type: typ, Seq: seq, Face: face, Tick: tick}, true
	case proto.MsgPose:
		p, ok := proto.DecodePosePayload(payload)
		if !ok {
			return Event{}, false
		}
		q := p.Q
		return Event{Type: TypePose, Seq: p.Seq, Tick: p.Tick, Y: p.Y, Q: &q}, true
	case proto.MsgThemeChanged:
		name, ok := proto.DecodeThemeChangedPayload(payload)
		if !ok {
			return Event{}, false
		}
		return Event{Type: TypeTheme, Name: name}, true
	}
	return Event{}, false
}
