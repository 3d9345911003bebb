package audio

import (
	"sparkdice/hal"
	logclient "sparkdice/sparkos/client/logger"
	"sparkdice/sparkos/kernel"
	"sparkdice/sparkos/proto"
)

const drainPerStep = 8

// Service plays named clips on request. Playback is fire-and-forget and gated
// by the enabled flag; a clip that is missing or still loading is skipped.
type Service struct {
	in     kernel.Capability
	logCap kernel.Capability
	out    hal.Audio
	clips  *Loader

	enabled bool
	volume  float64
	played  int
	warned  map[string]bool
}

func New(in, logCap kernel.Capability, out hal.Audio, clips *Loader, enabled bool) *Service {
	return &Service{
		in:      in,
		logCap:  logCap,
		out:     out,
		clips:   clips,
		enabled: enabled,
		volume:  0.6,
		warned:  make(map[string]bool),
	}
}

func (s *Service) Enabled() bool { return s.enabled }

// Played returns the number of clips handed to the audio device.
func (s *Service) Played() int { return s.played }

func (s *Service) Step(ctx *kernel.Context) {
	for i := 0; i < drainPerStep; i++ {
		msg, ok := ctx.Recv(s.in)
		if !ok {
			break
		}
		switch proto.Kind(msg.Kind) {
		case proto.MsgSoundPlay:
			if name, ok := proto.DecodeSoundPlayPayload(msg.Payload()); ok {
				s.play(ctx, name)
			}
		case proto.MsgSoundEnable:
			if on, ok := proto.DecodeSoundEnablePayload(msg.Payload()); ok {
				s.enabled = on
			}
		}
	}
	ctx.BlockOn(s.in)
}

func (s *Service) play(ctx *kernel.Context, name string) {
	if !s.enabled || s.out == nil {
		return
	}
	var samples []int16
	if s.clips != nil {
		samples, _ = s.clips.Clip(name)
	}
	if len(samples) == 0 {
		s.warnOnce(ctx, name, "not loaded")
		return
	}
	if err := s.out.Play(samples, s.volume); err != nil {
		s.warnOnce(ctx, name, err.Error())
		return
	}
	s.played++
}

func (s *Service) warnOnce(ctx *kernel.Context, name, why string) {
	if s.warned[name] {
		return
	}
	s.warned[name] = true
	logclient.Logf(ctx, s.logCap, "audio: warn: skip %s: %s", name, why)
}
