package power

import (
	"testing"

	"pgregory.net/rapid"
)

// TestPropertySetThenGet verifies that any sequence of valid sets reads
// back what was set, and never leaves both switches on.
func TestPropertySetThenGet(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		sim := NewSimulator()
		sim.SetState(State{
			PerformanceMode:     rapid.SampledFrom(PerformanceMode.Values()).Draw(t, "perf0"),
			RapidCharge:         rapid.SampledFrom(RapidCharge.Values()).Draw(t, "rapid0"),
			BatteryConservation: Off,
		})
		ctl := NewController(sim)

		n := rapid.IntRange(1, 16).Draw(t, "n")
		for i := 0; i < n; i++ {
			s := rapid.SampledFrom(Settings).Draw(t, "setting")
			v := rapid.SampledFrom(s.Values()).Draw(t, "value")

			if err := ctl.Set(s, v); err != nil {
				t.Fatalf("Set(%s, %s): %v", s, v, err)
			}
			got, err := ctl.Get(s)
			if err != nil {
				t.Fatalf("Get(%s): %v", s, err)
			}
			if got != v {
				t.Fatalf("Get(%s) = %s after setting %s", s, got, v)
			}

			st := sim.State()
			if st.RapidCharge == On && st.BatteryConservation == On {
				t.Fatalf("rapid charge and battery conservation both on after Set(%s, %s)", s, v)
			}
		}
	})
}

// TestPropertyForeignValueNeverWrites verifies values outside a setting's
// domain are rejected before anything reaches the firmware.
func TestPropertyForeignValueNeverWrites(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.SampledFrom(Settings).Draw(t, "setting")
		v := Value(rapid.IntRange(-4, 12).Filter(func(i int) bool {
			return !s.Accepts(Value(i))
		}).Draw(t, "value"))

		sim := NewSimulator()
		err := NewController(sim).Set(s, v)
		if Kind(err) != KindValue {
			t.Fatalf("Set(%s, %s) = %v, want a ValueError", s, v, err)
		}
		if len(sim.Ops()) != 0 {
			t.Fatalf("Set(%s, %s) talked to the firmware: %v", s, v, sim.Ops())
		}
	})
}

// TestPropertyUnknownCodeNeverDecodes verifies raw answers outside the
// decode table always fail with the raw answer attached.
func TestPropertyUnknownCodeNeverDecodes(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.SampledFrom(Settings).Draw(t, "setting")
		raw := rapid.StringMatching(`0x[0-9a-f]{1,3}`).Filter(func(raw string) bool {
			_, ok := tables[s].decode[raw]
			return !ok
		}).Draw(t, "raw")

		sim := NewSimulator()
		sim.Override(s, raw)
		v, err := NewController(sim).Get(s)
		if BadValue(err) != raw || v != 0 {
			t.Fatalf("Get(%s) with %q = %s, %v", s, raw, v, err)
		}
	})
}
