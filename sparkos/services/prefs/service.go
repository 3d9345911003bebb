// Package prefs is the kernel service that persists preference changes.
package prefs

import (
	logclient "sparkdice/sparkos/client/logger"
	"sparkdice/sparkos/kernel"
	"sparkdice/sparkos/prefs"
	"sparkdice/sparkos/proto"
)

const drainPerStep = 8

// Service hands MsgPrefSet writes to the store's background writer so the
// frame loop never waits on disk.
type Service struct {
	in     kernel.Capability
	logCap kernel.Capability
	store  *prefs.Store

	queued  int
	dropped int
}

// New returns the service. A nil store turns every write into a no-op.
func New(in, logCap kernel.Capability, store *prefs.Store) *Service {
	return &Service{in: in, logCap: logCap, store: store}
}

func (s *Service) Queued() int  { return s.queued }
func (s *Service) Dropped() int { return s.dropped }

func (s *Service) Step(ctx *kernel.Context) {
	for i := 0; i < drainPerStep; i++ {
		msg, ok := ctx.Recv(s.in)
		if !ok {
			break
		}
		if proto.Kind(msg.Kind) != proto.MsgPrefSet {
			continue
		}
		key, value, ok := proto.DecodePrefSetPayload(msg.Payload())
		if !ok || s.store == nil {
			continue
		}
		if !s.store.SetAsync(key, value) {
			s.dropped++
			logclient.Logf(ctx, s.logCap, "prefs: warn: dropped write %s", key)
			continue
		}
		s.queued++
	}
	ctx.BlockOn(s.in)
}
