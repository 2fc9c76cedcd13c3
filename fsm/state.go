package fsm

// State is a single unit of player behavior. Each state owns its own
// enter/exit, per-frame logic, and fixed-step physics.
//
// State values are single-use: a fresh instance is constructed for every
// transition, so a state may keep timers and locked references as plain
// fields without reset bookkeeping.
type State interface {
	Name() string
	Enter()
	// Exit receives the incoming state so the outgoing state can make
	// exit decisions conditioned on the destination.
	Exit(next State)
	LogicUpdate(dt float64)
	PhysicsUpdate(dt float64)
}
