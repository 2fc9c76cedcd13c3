// Package input turns raw device state into per-tick snapshots and
// discrete edge events. States subscribe to edges in Enter and must
// unsubscribe in Exit.
package input

// Raw is the device-level state sampled once per logic tick by whatever
// drives the sim (keyboard harness or a scenario script).
type Raw struct {
	MoveX  float64 // -1..1 strafe
	MoveZ  float64 // -1..1 forward
	Jump   bool
	Attack bool
	Sprint bool
	Dash   bool
	Crouch bool
}

// Snapshot is Raw plus the edges derived from the previous tick.
type Snapshot struct {
	Raw
	JumpPressed    bool
	AttackPressed  bool
	DashPressed    bool
	CrouchPressed  bool
	SprintPressed  bool
	SprintReleased bool
}

// Edge identifies a discrete input event.
type Edge int

const (
	EdgeJump Edge = iota
	EdgeAttack
	EdgeDash
	EdgeCrouch
	EdgeSprintPress
	EdgeSprintRelease
)

// Handle identifies a subscription. Zero is never issued.
type Handle int

type subscription struct {
	handle Handle
	edge   Edge
	fn     func()
}

// Controller derives edges from successive Raw samples and dispatches
// them to subscribers in subscription order.
type Controller struct {
	prev Raw
	snap Snapshot

	nextHandle Handle
	subs       []subscription
}

func NewController() *Controller {
	return &Controller{}
}

// Subscribe registers fn for an edge and returns its handle.
func (c *Controller) Subscribe(edge Edge, fn func()) Handle {
	c.nextHandle++
	c.subs = append(c.subs, subscription{handle: c.nextHandle, edge: edge, fn: fn})
	return c.nextHandle
}

// Unsubscribe removes a subscription. Safe to call from inside a handler.
func (c *Controller) Unsubscribe(h Handle) {
	for i, s := range c.subs {
		if s.handle == h {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}

// Feed ingests one tick of raw state, updates the snapshot, and fires
// edge handlers. Handlers may transition states, which subscribes and
// unsubscribes mid-dispatch; Feed iterates over a stable copy and skips
// entries removed by earlier handlers.
func (c *Controller) Feed(r Raw) {
	c.snap = Snapshot{
		Raw:            r,
		JumpPressed:    r.Jump && !c.prev.Jump,
		AttackPressed:  r.Attack && !c.prev.Attack,
		DashPressed:    r.Dash && !c.prev.Dash,
		CrouchPressed:  r.Crouch && !c.prev.Crouch,
		SprintPressed:  r.Sprint && !c.prev.Sprint,
		SprintReleased: !r.Sprint && c.prev.Sprint,
	}
	c.prev = r

	if c.snap.JumpPressed {
		c.emit(EdgeJump)
	}
	if c.snap.AttackPressed {
		c.emit(EdgeAttack)
	}
	if c.snap.DashPressed {
		c.emit(EdgeDash)
	}
	if c.snap.CrouchPressed {
		c.emit(EdgeCrouch)
	}
	if c.snap.SprintPressed {
		c.emit(EdgeSprintPress)
	}
	if c.snap.SprintReleased {
		c.emit(EdgeSprintRelease)
	}
}

// Snapshot returns the state derived from the last Feed.
func (c *Controller) Snapshot() Snapshot {
	return c.snap
}

func (c *Controller) emit(edge Edge) {
	stable := append([]subscription(nil), c.subs...)
	for _, s := range stable {
		if s.edge != edge {
			continue
		}
		if !c.active(s.handle) {
			continue
		}
		s.fn()
	}
}

func (c *Controller) active(h Handle) bool {
	for _, s := range c.subs {
		if s.handle == h {
			return true
		}
	}
	return false
}
