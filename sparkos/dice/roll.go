package dice

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// RollState is the controller's re-entrancy guard.
type RollState uint8

const (
	Idle RollState = iota
	Rolling
)

func (s RollState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rolling:
		return "rolling"
	default:
		return "unknown"
	}
}

// Hooks receive controller events. Both run synchronously inside
// RequestRoll/Tick and must not call back into the controller.
type Hooks struct {
	RollStarted func(seq uint32, target RollTarget)
	RollSettled func(seq uint32, face Face)
}

// Controller owns the single die: roll state, current attitude and the last
// published result.
//
// Idle frames turn the die slowly about world up (heading). Heading never
// changes which face is on top, so it is kept outside the Euler angles the
// animator works in.
type Controller struct {
	tun   Tuning
	rnd   Source
	hooks Hooks

	state   RollState
	angles  Angles
	heading float64
	height  float64

	anim    *Animator
	animGen uint32
	gen     uint32

	target RollTarget
	result Face
	pose   Pose
}

// NewController returns an idle controller resting with face 3 up.
func NewController(tun Tuning, rnd Source, hooks Hooks) *Controller {
	c := &Controller{tun: tun, rnd: rnd, hooks: hooks}
	c.pose = c.compose()
	c.result = TopFace(c.pose.Orientation)
	c.target = TargetFor(c.result)
	return c
}

func (c *Controller) State() RollState     { return c.state }
func (c *Controller) TriggerEnabled() bool { return c.state == Idle }
func (c *Controller) Result() Face         { return c.result }
func (c *Controller) Pose() Pose           { return c.pose }
func (c *Controller) Target() RollTarget   { return c.target }
func (c *Controller) Angles() Angles       { return c.angles }
func (c *Controller) Heading() float64     { return c.heading }
func (c *Controller) Seq() uint32          { return c.gen }

// Progress returns the active roll's progress, or 1 when idle.
func (c *Controller) Progress() float64 {
	if c.anim == nil {
		return 1
	}
	return c.anim.Progress()
}

// RequestRoll starts a roll at nowMs. It returns false and does nothing while
// a roll is in progress.
func (c *Controller) RequestRoll(nowMs uint64) bool {
	if c.state == Rolling {
		return false
	}

	f := Face(1 + c.rnd.Intn(6))
	mustValid(f)

	c.gen++
	c.state = Rolling
	c.target = TargetFor(f)
	c.anim = NewAnimator(c.angles, c.target, nowMs, c.tun, c.rnd)
	c.animGen = c.gen

	if c.hooks.RollStarted != nil {
		c.hooks.RollStarted(c.gen, c.target)
	}
	return true
}

// Tick advances the die to nowMs and returns the pose to render.
func (c *Controller) Tick(nowMs uint64) Pose {
	if c.anim != nil && c.animGen != c.gen {
		// Superseded by Reset or a newer roll.
		c.anim = nil
	}

	if c.state == Rolling && c.anim != nil {
		pose, done := c.anim.Advance(nowMs)
		c.angles = c.anim.Angles()
		c.height = pose.Position.Y()
		c.pose = c.compose()
		if done {
			c.settle()
		}
		return c.pose
	}

	c.heading += c.tun.IdleDrift
	c.pose = c.compose()
	return c.pose
}

// Reset drops any in-flight roll without publishing a result.
func (c *Controller) Reset() {
	c.gen++
	c.anim = nil
	c.state = Idle
}

// RestOn puts the idle die at rest with f on top and makes f the displayed
// result. It reports false and does nothing while a roll is in progress.
func (c *Controller) RestOn(f Face) bool {
	mustValid(f)
	if c.state == Rolling {
		return false
	}
	c.angles = RestAngles(f)
	c.height = 0
	c.result = f
	c.target = TargetFor(f)
	c.pose = c.compose()
	return true
}

func (c *Controller) settle() {
	c.anim = nil
	c.state = Idle

	solved := TopFace(c.pose.Orientation)
	if solved != c.target.Face {
		panic(fmt.Sprintf("dice: settled on face %d, target was %d", solved, c.target.Face))
	}
	c.result = solved

	if c.hooks.RollSettled != nil {
		c.hooks.RollSettled(c.gen, solved)
	}
}

func (c *Controller) compose() Pose {
	q := c.angles.Quat()
	if c.heading != 0 {
		q = mgl64.QuatRotate(c.heading, axisY).Mul(q)
	}
	return Pose{
		Position:    mgl64.Vec3{0, c.height, 0},
		Orientation: q,
	}
}
