package kernel

// Context provides task-local access to kernel operations for one Step call.
type Context struct {
	k      *Kernel
	taskID TaskID

	blocked     bool
	blockOnTick bool
	tickAfter   uint64
	blockOn     Endpoint
}

// TaskID returns the current task ID.
func (c *Context) TaskID() TaskID { return c.taskID }

// Recv reads one message from the capability endpoint without blocking.
func (c *Context) Recv(epCap Capability) (Message, bool) {
	if c.k == nil || !epCap.valid() || !epCap.canRecv() {
		return Message{}, false
	}
	return c.k.recv(epCap.ep)
}

// BlockOn parks the task until a message arrives on the endpoint.
//
// The task stays runnable if the endpoint already has queued messages.
func (c *Context) BlockOn(epCap Capability) {
	if !epCap.valid() || !epCap.canRecv() {
		return
	}
	c.blocked = true
	c.blockOnTick = false
	c.blockOn = epCap.ep
}

// BlockOnTick parks the task until the kernel clock advances.
func (c *Context) BlockOnTick() {
	c.blocked = true
	c.blockOnTick = true
	c.tickAfter = c.NowTick()
}

// Send sends a message to the capability endpoint.
func (c *Context) Send(fromCap, toCap Capability, kind uint16, payload []byte) bool {
	return c.SendCap(fromCap, toCap, kind, payload, Capability{})
}

// SendCap sends a message and transfers an optional capability.
func (c *Context) SendCap(fromCap, toCap Capability, kind uint16, payload []byte, xfer Capability) bool {
	return c.SendCapResult(fromCap, toCap, kind, payload, xfer) == SendOK
}

// SendCapResult sends a message and transfers an optional capability.
func (c *Context) SendCapResult(fromCap, toCap Capability, kind uint16, payload []byte, xfer Capability) SendResult {
	if !fromCap.valid() {
		return SendErrInvalidFromCap
	}
	if !fromCap.canSend() {
		return SendErrFromNoSendRight
	}
	if !toCap.valid() {
		return SendErrInvalidToCap
	}
	if !toCap.canSend() {
		return SendErrToNoSendRight
	}
	return c.k.send(fromCap.ep, toCap.ep, kind, payload, xfer)
}

// SendTo sends a message to the capability endpoint.
//
// The message From field is set to 0 (unknown).
func (c *Context) SendTo(toCap Capability, kind uint16, payload []byte) bool {
	return c.SendToCapResult(toCap, kind, payload, Capability{}) == SendOK
}

// SendToCapResult sends a message and transfers an optional capability.
//
// The message From field is set to 0 (unknown).
func (c *Context) SendToCapResult(toCap Capability, kind uint16, payload []byte, xfer Capability) SendResult {
	if !toCap.valid() {
		return SendErrInvalidToCap
	}
	if !toCap.canSend() {
		return SendErrToNoSendRight
	}
	return c.k.send(0, toCap.ep, kind, payload, xfer)
}

// NowTick returns the current kernel tick (milliseconds on host builds).
func (c *Context) NowTick() uint64 {
	if c.k == nil {
		return 0
	}
	return c.k.now
}
