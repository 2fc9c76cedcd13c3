// Package command carries one-frame presentation cues from states to the
// harness: camera shake, sound, hit stop, time scale. States push and
// forget; the harness drains the queue once per frame.
package command

// Kind identifies a command type.
type Kind string

const (
	KindCameraShake Kind = "camera_shake"
	KindPlaySFX     Kind = "play_sfx"
	KindHitStop     Kind = "hit_stop"
	KindTimeScale   Kind = "time_scale"
)

// Command is a single cue. Fields are interpreted per Kind: Name is the
// sfx id, Amount the shake strength or time scale, Duration in seconds.
type Command struct {
	Kind     Kind
	Name     string
	Amount   float64
	Duration float64
}

// Queue is a simple FIFO drained once per frame.
type Queue struct {
	items []Command
}

// Push adds a command.
func (q *Queue) Push(cmd Command) {
	if q == nil {
		return
	}
	q.items = append(q.items, cmd)
}

// CameraShake pushes a camera shake cue.
func (q *Queue) CameraShake(strength, duration float64) {
	q.Push(Command{Kind: KindCameraShake, Amount: strength, Duration: duration})
}

// PlaySFX pushes a named sound cue.
func (q *Queue) PlaySFX(name string) {
	q.Push(Command{Kind: KindPlaySFX, Name: name})
}

// HitStop pushes a motion freeze cue.
func (q *Queue) HitStop(duration float64) {
	q.Push(Command{Kind: KindHitStop, Duration: duration})
}

// TimeScale pushes a global time multiplier cue.
func (q *Queue) TimeScale(scale float64) {
	q.Push(Command{Kind: KindTimeScale, Amount: scale})
}

// Drain returns all queued commands and clears the queue.
func (q *Queue) Drain() []Command {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
