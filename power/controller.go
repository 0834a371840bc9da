package power

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// State holds the decoded value of every setting.
type State struct {
	PerformanceMode     Value `json:"performance_mode" yaml:"performance_mode"`
	RapidCharge         Value `json:"rapid_charge" yaml:"rapid_charge"`
	BatteryConservation Value `json:"battery_conservation" yaml:"battery_conservation"`
}

// Get returns the value of s in st.
func (st State) Get(s Setting) Value {
	switch s {
	case PerformanceMode:
		return st.PerformanceMode
	case RapidCharge:
		return st.RapidCharge
	case BatteryConservation:
		return st.BatteryConservation
	}
	return 0
}

func (st *State) set(s Setting, v Value) {
	switch s {
	case PerformanceMode:
		st.PerformanceMode = v
	case RapidCharge:
		st.RapidCharge = v
	case BatteryConservation:
		st.BatteryConservation = v
	}
}

// Controller reads and writes the power settings through a Channel.
// It keeps no state besides the channel: every call talks to the firmware.
// A Controller must not be used from several goroutines at once, see Shared.
type Controller struct {
	ch  Channel
	log zerolog.Logger
}

func NewController(ch Channel) *Controller {
	return &Controller{
		ch:  ch,
		log: log.With().Str("component", "power").Logger(),
	}
}

// Open opens the ACPI call interface at path and returns a Controller using it.
func Open(path string, opts ...CallFileOption) (*Controller, error) {
	cf, err := OpenCallFile(path, opts...)
	if err != nil {
		return nil, err
	}
	return NewController(cf), nil
}

// Get reads the current value of s.
func (c *Controller) Get(s Setting) (Value, error) {
	if !s.valid() {
		return 0, &ValueError{Msg: "unknown setting", BadValue: s.String()}
	}
	raw, err := Query(c.ch, s.GetQuery())
	if err != nil {
		return 0, err
	}
	return s.Decode(raw)
}

// Set changes s to v and reads it back to make sure the firmware took it.
//
// Rapid charge and battery conservation can't both be on: before turning
// one on, the other one is turned off if needed.
func (c *Controller) Set(s Setting, v Value) error {
	code, err := s.Encode(v)
	if err != nil {
		return err
	}

	if opposite, ok := s.Opposite(); ok && v == On {
		current, err := c.Get(opposite)
		if err != nil {
			return err
		}
		if current != Off {
			c.log.Debug().Stringer("setting", opposite).Msg("turning off opposite setting first")
			// v is Off here, so this goes at most one level deep.
			if err := c.Set(opposite, Off); err != nil {
				return err
			}
		}
	}

	if err := c.ch.Write(s.SetPrefix() + " " + code); err != nil {
		return err
	}

	got, err := c.Get(s)
	if err != nil {
		return err
	}
	if got != v {
		return &VerificationError{Setting: s, Want: v, Got: got}
	}
	c.log.Debug().Stringer("setting", s).Stringer("value", v).Msg("setting changed")
	return nil
}

// State reads every setting, in the order of Settings.
func (c *Controller) State() (State, error) {
	var st State
	for _, s := range Settings {
		v, err := c.Get(s)
		if err != nil {
			return State{}, err
		}
		st.set(s, v)
	}
	return st, nil
}

func (c *Controller) PerformanceMode() (Value, error) {
	return c.Get(PerformanceMode)
}

func (c *Controller) SetPerformanceMode(v Value) error {
	return c.Set(PerformanceMode, v)
}

func (c *Controller) RapidCharge() (bool, error) {
	v, err := c.Get(RapidCharge)
	return v == On, err
}

func (c *Controller) SetRapidCharge(on bool) error {
	return c.Set(RapidCharge, switchValue(on))
}

func (c *Controller) BatteryConservation() (bool, error) {
	v, err := c.Get(BatteryConservation)
	return v == On, err
}

func (c *Controller) SetBatteryConservation(on bool) error {
	return c.Set(BatteryConservation, switchValue(on))
}

func switchValue(on bool) Value {
	if on {
		return On
	}
	return Off
}
