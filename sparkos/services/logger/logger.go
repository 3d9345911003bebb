package logger

import (
	"sparkdice/hal"
	"sparkdice/sparkos/kernel"
	"sparkdice/sparkos/proto"
)

// drainPerStep bounds how many lines one Step writes, so a chatty task cannot
// starve the frame.
const drainPerStep = 8

// Service forwards MsgLogLine payloads to the HAL logger.
type Service struct {
	log   hal.Logger
	ep    kernel.Capability
	lines uint64
}

func New(log hal.Logger, ep kernel.Capability) *Service {
	return &Service{log: log, ep: ep}
}

// Lines returns the number of lines written so far.
func (s *Service) Lines() uint64 { return s.lines }

func (s *Service) Step(ctx *kernel.Context) {
	for i := 0; i < drainPerStep; i++ {
		msg, ok := ctx.Recv(s.ep)
		if !ok {
			break
		}
		if s.log == nil || msg.Kind != uint16(proto.MsgLogLine) {
			continue
		}
		s.log.WriteLineBytes(msg.Payload())
		s.lines++
	}
	ctx.BlockOn(s.ep)
}
