package power

import (
	"strings"

	"github.com/solar3s/ippower/internal/syncutil"
)

// Op is one operation seen by a Simulator.
type Op struct {
	Write bool
	Data  string
}

func (op Op) String() string {
	if op.Write {
		return "write " + op.Data
	}
	return "read " + op.Data
}

// Simulator is an in-memory stand-in for the firmware behind the ACPI call
// interface. It is a Channel, used by tests and by dry runs.
type Simulator struct {
	// RejectConflicts makes the firmware ignore a request turning rapid
	// charge or battery conservation on while the other one is on.
	RejectConflicts bool
	// WriteErr and ReadErr, when set, are returned by Write and Read.
	WriteErr error
	ReadErr  error

	mu        syncutil.Mutex
	state     State
	response  string
	overrides map[Setting]string
	frozen    map[Setting]bool
	ops       []Op
}

// NewSimulator returns a firmware in intelligent mode with both switches off.
func NewSimulator() *Simulator {
	return &Simulator{
		RejectConflicts: true,
		state: State{
			PerformanceMode:     Intelligent,
			RapidCharge:         Off,
			BatteryConservation: Off,
		},
		overrides: make(map[Setting]string),
		frozen:    make(map[Setting]bool),
	}
}

// SetState replaces the firmware state without recording operations.
// Zero fields of st are left untouched.
func (sim *Simulator) SetState(st State) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	for _, s := range Settings {
		if v := st.Get(s); v != 0 {
			sim.state.set(s, v)
		}
	}
}

// State returns the firmware state.
func (sim *Simulator) State() State {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return sim.state
}

// Override makes the get method of s answer raw, whatever the state.
func (sim *Simulator) Override(s Setting, raw string) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.overrides[s] = raw
}

// Freeze makes the firmware ignore every request changing s.
func (sim *Simulator) Freeze(s Setting) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.frozen[s] = true
}

// Ops returns every operation seen so far.
func (sim *Simulator) Ops() []Op {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return append([]Op(nil), sim.ops...)
}

// Writes returns the data of every write seen so far.
func (sim *Simulator) Writes() []string {
	var ret []string
	for _, op := range sim.Ops() {
		if op.Write {
			ret = append(ret, op.Data)
		}
	}
	return ret
}

// ResetOps forgets the recorded operations.
func (sim *Simulator) ResetOps() {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.ops = nil
}

func (sim *Simulator) Write(command string) error {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	if sim.WriteErr != nil {
		return sim.WriteErr
	}
	sim.ops = append(sim.ops, Op{Write: true, Data: command})

	method, arg, hasArg := strings.Cut(strings.TrimSpace(command), " ")
	if !hasArg {
		sim.response = sim.answer(method)
		return nil
	}
	sim.response = sim.call(method, strings.TrimSpace(arg))
	return nil
}

func (sim *Simulator) Read() (string, error) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	if sim.ReadErr != nil {
		return "", sim.ReadErr
	}
	sim.ops = append(sim.ops, Op{Data: sim.response})
	return sim.response, nil
}

// answer evaluates a get method.
func (sim *Simulator) answer(method string) string {
	for _, s := range Settings {
		if s.GetQuery() != method {
			continue
		}
		if raw, ok := sim.overrides[s]; ok {
			return raw
		}
		raw, _ := s.raw(sim.state.Get(s))
		return raw
	}
	return respNotFound
}

// call evaluates a set method with its argument. Rapid charge and battery
// conservation share their method, the argument tells them apart.
func (sim *Simulator) call(method, arg string) string {
	found := false
	for _, s := range Settings {
		if s.SetPrefix() != method {
			continue
		}
		found = true
		for v, code := range tables[s].encode {
			if !strings.EqualFold(code, arg) {
				continue
			}
			if sim.frozen[s] {
				return resp0
			}
			if opposite, ok := s.Opposite(); ok && v == On && sim.RejectConflicts && sim.state.Get(opposite) == On {
				return resp0
			}
			sim.state.set(s, v)
			return resp0
		}
	}
	if !found {
		return respNotFound
	}
	return resp0
}
