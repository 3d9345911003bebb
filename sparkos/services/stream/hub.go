// Package stream publishes roll events to websocket spectators.
//
// The feed is one-way: spectators never send input to the die.
package stream

import (
	"encoding/json"
	"sync"
)

// Event is one JSON message on the feed.
type Event struct {
	Type string      `json:"type"`
	Seq  uint32      `json:"seq,omitempty"`
	Tick uint64      `json:"tick,omitempty"`
	Face uint8       `json:"face,omitempty"`
	Y    float32     `json:"y,omitempty"`
	Q    *[4]float32 `json:"q,omitempty"`
	Name string      `json:"name,omitempty"`

	// Set on hello only.
	Version string `json:"version,omitempty"`
	State   *State `json:"state,omitempty"`
}

// State is the latest known die state, served on /state and in hello.
type State struct {
	Seq     uint32     `json:"seq"`
	Rolling bool       `json:"rolling"`
	Result  uint8      `json:"result"`
	Target  uint8      `json:"target,omitempty"`
	Theme   string     `json:"theme,omitempty"`
	Tick    uint64     `json:"tick"`
	Y       float32    `json:"y"`
	Q       [4]float32 `json:"q"`
}

type client struct {
	out chan []byte
}

// Hub fans events out to connected clients. Slow clients lose events rather
// than stall the publisher.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	state   State
	dropped uint64
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		state:   State{Q: [4]float32{1, 0, 0, 0}},
	}
}

func (h *Hub) add(queue int) *client {
	c := &client{out: make(chan []byte, queue)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped returns how many per-client sends were dropped.
func (h *Hub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// State returns a copy of the latest state.
func (h *Hub) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Publish applies ev to the state and broadcasts it.
func (h *Hub) Publish(ev Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.apply(ev)
	for c := range h.clients {
		select {
		case c.out <- b:
		default:
			h.dropped++
		}
	}
}

func (h *Hub) apply(ev Event) {
	st := &h.state
	if ev.Tick != 0 {
		st.Tick = ev.Tick
	}
	switch ev.Type {
	case TypeRollStarted:
		st.Seq = ev.Seq
		st.Rolling = true
		st.Target = ev.Face
	case TypePose:
		st.Y = ev.Y
		if ev.Q != nil {
			st.Q = *ev.Q
		}
	case TypeRollSettled:
		st.Seq = ev.Seq
		st.Rolling = false
		st.Result = ev.Face
	case TypeResult:
		st.Result = ev.Face
	case TypeTheme:
		st.Theme = ev.Name
	}
}

const (
	TypeHello       = "hello"
	TypeRollStarted = "roll_started"
	TypePose        = "pose"
	TypeRollSettled = "roll_settled"
	TypeResult      = "result"
	TypeTheme       = "theme"
)
