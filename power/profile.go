package power

// Profile is a set of desired values. Zero fields are left untouched.
type Profile struct {
	PerformanceMode     Value `json:"performance_mode,omitempty" yaml:"performance_mode,omitempty"`
	RapidCharge         Value `json:"rapid_charge,omitempty" yaml:"rapid_charge,omitempty"`
	BatteryConservation Value `json:"battery_conservation,omitempty" yaml:"battery_conservation,omitempty"`
}

// ProfileOf returns a Profile requesting every value of st.
func ProfileOf(st State) Profile {
	return Profile(st)
}

func (p Profile) Get(s Setting) Value {
	return State(p).Get(s)
}

func (p Profile) Empty() bool {
	return p == Profile{}
}

// Validate checks every set value against its setting's domain, and that
// rapid charge and battery conservation aren't both requested on.
func (p Profile) Validate() error {
	for _, s := range Settings {
		v := p.Get(s)
		if v == 0 {
			continue
		}
		if _, err := s.Encode(v); err != nil {
			return err
		}
	}
	if p.RapidCharge == On && p.BatteryConservation == On {
		return &ValueError{
			Msg:      "rapid charge and battery conservation can't both be on",
			BadValue: "RapidCharge=On,BatteryConservation=On",
		}
	}
	return nil
}

// Apply sets every value of p: performance mode first, then the switches
// being turned off, then the ones being turned on.
func (c *Controller) Apply(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.PerformanceMode != 0 {
		if err := c.Set(PerformanceMode, p.PerformanceMode); err != nil {
			return err
		}
	}
	for _, want := range []Value{Off, On} {
		for _, s := range []Setting{RapidCharge, BatteryConservation} {
			if p.Get(s) != want {
				continue
			}
			if err := c.Set(s, want); err != nil {
				return err
			}
		}
	}
	return nil
}
