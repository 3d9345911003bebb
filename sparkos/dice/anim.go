package dice

import (
	"math"
	"time"
)

// Tuning holds the roll motion constants. Bounce values are per step, not per
// unit of time.
type Tuning struct {
	Duration       time.Duration `yaml:"duration"`
	LaunchVelocity float64       `yaml:"launch_velocity"`
	Gravity        float64       `yaml:"gravity"`
	Restitution    float64       `yaml:"restitution"`
	SpinTurns      float64       `yaml:"spin_turns"`
	ChaosStrength  float64       `yaml:"chaos_strength"`
	// IdleDrift is the heading change per idle frame, in radians.
	IdleDrift float64 `yaml:"idle_drift"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Duration:       2800 * time.Millisecond,
		LaunchVelocity: 0.3,
		Gravity:        -0.015,
		Restitution:    0.8,
		SpinTurns:      10,
		ChaosStrength:  0.8,
		IdleDrift:      0.0005,
	}
}

const (
	secondarySpin = 0.3
	chaosUntil    = 0.5
	snapFrom      = 0.8
)

var chaosWeights = [3]float64{1, 0.6, 0.3}

// Source is the uniform random source used for face sampling and jitter.
// *math/rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// Animator drives one roll from its start attitude to the exact target.
//
// It has two states: active until Advance observes p >= 1, settled after.
// A settled animator keeps returning its final pose.
type Animator struct {
	tun    Tuning
	rnd    Source
	start  Angles
	target RollTarget
	t0     uint64

	y, vy   float64
	p       float64
	angles  Angles
	settled bool
}

func NewAnimator(start Angles, target RollTarget, startMs uint64, tun Tuning, rnd Source) *Animator {
	mustValid(target.Face)
	return &Animator{
		tun:    tun,
		rnd:    rnd,
		start:  start,
		target: target,
		t0:     startMs,
		vy:     tun.LaunchVelocity,
		angles: start,
	}
}

func (a *Animator) Target() RollTarget { return a.target }
func (a *Animator) Progress() float64  { return a.p }
func (a *Animator) Settled() bool      { return a.settled }
func (a *Animator) Angles() Angles     { return a.angles }
func (a *Animator) Height() float64    { return a.y }

// Advance computes the pose for time nowMs. It reports true once the roll has
// settled; later calls return the settled pose unchanged.
func (a *Animator) Advance(nowMs uint64) (Pose, bool) {
	if a.settled {
		return a.pose(), true
	}

	a.vy += a.tun.Gravity
	a.y += a.vy
	if a.y < 0 {
		a.y = 0
		a.vy = -a.vy * a.tun.Restitution
	}

	p := a.progressAt(nowMs)
	if p < a.p {
		p = a.p
	}
	a.p = p

	if p >= 1 {
		a.angles = a.target.Angles
		a.settled = true
		return a.pose(), true
	}
	a.angles = a.rotationAt(p)
	return a.pose(), false
}

func (a *Animator) progressAt(nowMs uint64) float64 {
	if a.tun.Duration <= 0 {
		return 1
	}
	if nowMs <= a.t0 {
		return 0
	}
	elapsed := float64(nowMs - a.t0)
	p := elapsed / float64(a.tun.Duration.Milliseconds())
	return math.Min(p, 1)
}

func (a *Animator) rotationAt(p float64) Angles {
	r := a.start.lerp(a.target.Angles, p)

	spin := a.tun.SpinTurns * 2 * math.Pi * (1 - p) * (1 - p)
	r.X += spin
	r.Y += spin * secondarySpin

	if p < chaosUntil && a.rnd != nil {
		strength := a.tun.ChaosStrength * (1 - p/chaosUntil)
		r.X += (a.rnd.Float64() - 0.5) * strength * chaosWeights[0]
		r.Y += (a.rnd.Float64() - 0.5) * strength * chaosWeights[1]
		r.Z += (a.rnd.Float64() - 0.5) * strength * chaosWeights[2]
	}

	if p > snapFrom {
		t := (p - snapFrom) / (1 - snapFrom)
		r = r.lerp(a.target.Angles, t*t)
	}
	return r
}

func (a *Animator) pose() Pose {
	var pose Pose
	pose.Position[1] = a.y
	pose.Orientation = a.angles.Quat()
	return pose
}
