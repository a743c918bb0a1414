package lighting

import "sync"

// Registry tracks the on/off state of the floodlights of a fixed number of
// courts. Court IDs are 0..Size()-1; every light starts off.
type Registry struct {
	mu     sync.RWMutex
	lights []bool
}

func New(courts int) *Registry {
	if courts < 0 {
		courts = 0
	}
	return &Registry{lights: make([]bool, courts)}
}

func (r *Registry) Size() int {
	return len(r.lights)
}

func (r *Registry) valid(courtID int) bool {
	return courtID >= 0 && courtID < len(r.lights)
}

// Enable switches the lights of a court on.
// It returns false without touching any state if courtID is out of range.
func (r *Registry) Enable(courtID int) bool {
	return r.set(courtID, true)
}

// Disable switches the lights of a court off. Same contract as Enable.
func (r *Registry) Disable(courtID int) bool {
	return r.set(courtID, false)
}

func (r *Registry) set(courtID int, on bool) bool {
	if !r.valid(courtID) {
		return false
	}
	r.mu.Lock()
	r.lights[courtID] = on
	r.mu.Unlock()
	return true
}

// IsOn reports the state of a court's lights; ok is false for an unknown court.
func (r *Registry) IsOn(courtID int) (on bool, ok bool) {
	if !r.valid(courtID) {
		return false, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lights[courtID], true
}

// Snapshot returns a copy of all states indexed by court ID.
func (r *Registry) Snapshot() []bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]bool, len(r.lights))
	copy(out, r.lights)
	return out
}
