package power

import "github.com/solar3s/ippower/internal/syncutil"

// SettingsController is what front-ends need from a controller.
type SettingsController interface {
	Get(s Setting) (Value, error)
	Set(s Setting, v Value) error
	State() (State, error)
	Apply(p Profile) error
}

var (
	_ SettingsController = (*Controller)(nil)
	_ SettingsController = (*Shared)(nil)
)

// Shared serializes calls to a Controller used by several goroutines.
// The firmware has a single result slot, so two interleaved queries would
// read each other's answers.
type Shared struct {
	mu  syncutil.Mutex
	ctl *Controller
}

func NewShared(ctl *Controller) *Shared {
	return &Shared{ctl: ctl}
}

func (sh *Shared) Get(s Setting) (Value, error) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.ctl.Get(s)
}

func (sh *Shared) Set(s Setting, v Value) error {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.ctl.Set(s, v)
}

func (sh *Shared) State() (State, error) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.ctl.State()
}

func (sh *Shared) Apply(p Profile) error {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.ctl.Apply(p)
}
