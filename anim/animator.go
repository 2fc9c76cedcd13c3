// Package anim is the fire-and-forget animator collaborator. States
// play clips and fire triggers without acknowledgement; the only thing
// read back is normalized clip progress, which HomingExit polls to chain
// its landing variant.
package anim

// Animator tracks the current clip and its progress. Clip lengths come
// from tuning; unknown clips report full progress so polling callers
// never stall on missing data.
type Animator struct {
	lengths map[string]float64

	clip     string
	clipTime float64

	triggers []string
}

func NewAnimator(lengths map[string]float64) *Animator {
	return &Animator{lengths: lengths}
}

// Play switches to a clip from its start.
func (a *Animator) Play(clip string) {
	a.clip = clip
	a.clipTime = 0
}

// CrossFade switches clips, keeping a fraction of elapsed time so the
// blend doesn't restart progress at zero.
func (a *Animator) CrossFade(clip string, fade float64) {
	if clip == a.clip {
		return
	}
	a.clip = clip
	a.clipTime = 0
	if fade > 0 {
		a.clipTime = -fade
	}
}

// Trigger records a one-shot trigger. No acknowledgement contract.
func (a *Animator) Trigger(name string) {
	a.triggers = append(a.triggers, name)
}

// DrainTriggers returns fired triggers and clears them.
func (a *Animator) DrainTriggers() []string {
	out := a.triggers
	a.triggers = nil
	return out
}

// Update advances clip time.
func (a *Animator) Update(dt float64) {
	a.clipTime += dt
}

// Clip returns the current clip name.
func (a *Animator) Clip() string {
	return a.clip
}

// NormalizedTime reports clip progress in [0, 1]. A clip past its end
// stays at 1; an unknown clip reports 1 immediately.
func (a *Animator) NormalizedTime() float64 {
	length, ok := a.lengths[a.clip]
	if !ok || length <= 0 {
		return 1
	}
	t := a.clipTime / length
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
