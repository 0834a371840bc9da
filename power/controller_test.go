package power

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	qPerf    = `\_SB.PCI0.LPC0.EC0.SPMO`
	qRapid   = `\_SB.PCI0.LPC0.EC0.QCHO`
	qConserv = `\_SB.PCI0.LPC0.EC0.BTSM`
	sDYTC    = `\_SB.PCI0.LPC0.EC0.VPC0.DYTC`
	sSBMC    = `\_SB.PCI0.LPC0.EC0.VPC0.SBMC`
)

func wr(data string) Op { return Op{Write: true, Data: data} }
func rd(data string) Op { return Op{Data: data} }

func newTestController(t *testing.T) (*Controller, *Simulator) {
	t.Helper()
	sim := NewSimulator()
	return NewController(sim), sim
}

// setWrites returns the writes that invoke a set method.
func setWrites(sim *Simulator) []string {
	var ret []string
	for _, data := range sim.Writes() {
		if strings.Contains(data, " ") {
			ret = append(ret, data)
		}
	}
	return ret
}

func TestController_Get(t *testing.T) {
	t.Parallel()

	ctl, sim := newTestController(t)
	sim.SetState(State{PerformanceMode: BatterySave, RapidCharge: On})

	v, err := ctl.Get(PerformanceMode)
	require.NoError(t, err)
	assert.Equal(t, BatterySave, v)

	v, err = ctl.Get(RapidCharge)
	require.NoError(t, err)
	assert.Equal(t, On, v)

	v, err = ctl.Get(BatteryConservation)
	require.NoError(t, err)
	assert.Equal(t, Off, v)

	assert.Equal(t, []Op{
		wr(qPerf), rd("0x2"),
		wr(qRapid), rd("0x1"),
		wr(qConserv), rd("0x0"),
	}, sim.Ops())
}

func TestController_SetGetRoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range Settings {
		for _, v := range s.Values() {
			ctl, _ := newTestController(t)
			require.NoError(t, ctl.Set(s, v), "%s=%s", s, v)

			got, err := ctl.Get(s)
			require.NoError(t, err)
			assert.Equal(t, v, got, "%s", s)
		}
	}
}

func TestController_SetWritesOnceAndVerifiesOnce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		setting Setting
		value   Value
		ops     []Op
	}{
		{PerformanceMode, Intelligent, []Op{wr(sDYTC + " 0x000FB001"), wr(qPerf), rd("0x0")}},
		{PerformanceMode, Performance, []Op{wr(sDYTC + " 0x0012B001"), wr(qPerf), rd("0x1")}},
		{PerformanceMode, BatterySave, []Op{wr(sDYTC + " 0x0013B001"), wr(qPerf), rd("0x2")}},
		{RapidCharge, Off, []Op{wr(sSBMC + " 0x08"), wr(qRapid), rd("0x0")}},
		{BatteryConservation, Off, []Op{wr(sSBMC + " 0x05"), wr(qConserv), rd("0x0")}},
		{RapidCharge, On, []Op{wr(qConserv), rd("0x0"), wr(sSBMC + " 0x07"), wr(qRapid), rd("0x1")}},
		{BatteryConservation, On, []Op{wr(qRapid), rd("0x0"), wr(sSBMC + " 0x03"), wr(qConserv), rd("0x1")}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.setting.String()+"="+tt.value.String(), func(t *testing.T) {
			t.Parallel()
			ctl, sim := newTestController(t)

			require.NoError(t, ctl.Set(tt.setting, tt.value))
			assert.Equal(t, tt.ops, sim.Ops())

			code, err := tt.setting.Encode(tt.value)
			require.NoError(t, err)
			assert.Equal(t, []string{tt.setting.SetPrefix() + " " + code}, setWrites(sim))
		})
	}
}

func TestController_SetRapidChargeTurnsConservationOff(t *testing.T) {
	t.Parallel()

	ctl, sim := newTestController(t)
	sim.SetState(State{BatteryConservation: On})

	require.NoError(t, ctl.Set(RapidCharge, On))

	assert.Equal(t, []Op{
		wr(qConserv), rd("0x1"),
		wr(sSBMC + " 0x05"), wr(qConserv), rd("0x0"),
		wr(sSBMC + " 0x07"), wr(qRapid), rd("0x1"),
	}, sim.Ops())
	assert.Equal(t, On, sim.State().RapidCharge)
	assert.Equal(t, Off, sim.State().BatteryConservation)
}

func TestController_SetConservationTurnsRapidChargeOff(t *testing.T) {
	t.Parallel()

	ctl, sim := newTestController(t)
	sim.SetState(State{RapidCharge: On, BatteryConservation: Off})

	require.NoError(t, ctl.Set(BatteryConservation, On))

	assert.Equal(t, []Op{
		wr(qRapid), rd("0x1"),
		wr(sSBMC + " 0x08"), wr(qRapid), rd("0x0"),
		wr(sSBMC + " 0x03"), wr(qConserv), rd("0x1"),
	}, sim.Ops())
	assert.Equal(t, Off, sim.State().RapidCharge)
	assert.Equal(t, On, sim.State().BatteryConservation)
}

func TestController_SetOnWithOppositeOffSkipsCoupling(t *testing.T) {
	t.Parallel()

	ctl, sim := newTestController(t)
	sim.SetState(State{PerformanceMode: Performance, BatteryConservation: Off})

	require.NoError(t, ctl.Set(RapidCharge, On))
	assert.Equal(t, []string{sSBMC + " 0x07"}, setWrites(sim))
}

func TestController_SetOffNeverReadsOpposite(t *testing.T) {
	t.Parallel()

	ctl, sim := newTestController(t)
	sim.SetState(State{RapidCharge: On})

	require.NoError(t, ctl.Set(BatteryConservation, Off))
	assert.Equal(t, []string{sSBMC + " 0x05", qConserv}, sim.Writes())
}

func TestController_GetInvalidResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		setting Setting
		raw     string
	}{
		{PerformanceMode, "0x3"},
		{PerformanceMode, "Error: AE_NOT_FOUND"},
		{RapidCharge, "0x2"},
		{BatteryConservation, "0xff"},
		{BatteryConservation, ""},
	}

	for _, tt := range tests {
		ctl, sim := newTestController(t)
		sim.Override(tt.setting, tt.raw)

		v, err := ctl.Get(tt.setting)

		var valueErr *ValueError
		require.ErrorAs(t, err, &valueErr)
		assert.Equal(t, tt.raw, valueErr.BadValue)
		assert.Zero(t, v, "no value on a decode failure")
		assert.Equal(t, []string{tt.setting.GetQuery()}, sim.Writes())
	}
}

func TestController_SetInvalidValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		setting Setting
		value   Value
	}{
		{PerformanceMode, On},
		{PerformanceMode, Off},
		{PerformanceMode, 0},
		{RapidCharge, Performance},
		{RapidCharge, Value(9)},
		{BatteryConservation, Intelligent},
		{Setting(3), On},
	}

	for _, tt := range tests {
		ctl, sim := newTestController(t)

		err := ctl.Set(tt.setting, tt.value)

		assert.Equal(t, KindValue, Kind(err), "%s=%s", tt.setting, tt.value)
		assert.Empty(t, sim.Ops(), "nothing written for %s=%s", tt.setting, tt.value)
	}

	ctl, _ := newTestController(t)
	err := ctl.Set(RapidCharge, BatterySave)
	assert.Equal(t, "BatterySave", BadValue(err))
}

func TestController_VerificationFailure(t *testing.T) {
	t.Parallel()

	ctl, sim := newTestController(t)
	sim.Freeze(PerformanceMode)

	err := ctl.Set(PerformanceMode, Performance)

	var verifyErr *VerificationError
	require.ErrorAs(t, err, &verifyErr)
	assert.Equal(t, PerformanceMode, verifyErr.Setting)
	assert.Equal(t, Performance, verifyErr.Want)
	assert.Equal(t, Intelligent, verifyErr.Got)
	assert.Equal(t, []Op{wr(sDYTC + " 0x0012B001"), wr(qPerf), rd("0x0")}, sim.Ops(), "no retry")
}

func TestController_VerificationFailureInCouplingAborts(t *testing.T) {
	t.Parallel()

	ctl, sim := newTestController(t)
	sim.SetState(State{BatteryConservation: On})
	sim.Freeze(BatteryConservation)

	err := ctl.Set(RapidCharge, On)

	var verifyErr *VerificationError
	require.ErrorAs(t, err, &verifyErr)
	assert.Equal(t, BatteryConservation, verifyErr.Setting)
	assert.Equal(t, Off, verifyErr.Want)
	assert.Equal(t, []string{sSBMC + " 0x05"}, setWrites(sim), "rapid charge never written")
	assert.Equal(t, Off, sim.State().RapidCharge)
}

func TestController_InvalidOppositeAborts(t *testing.T) {
	t.Parallel()

	ctl, sim := newTestController(t)
	sim.Override(RapidCharge, "0x5")

	err := ctl.Set(BatteryConservation, On)

	assert.Equal(t, "0x5", BadValue(err))
	assert.Equal(t, []string{qRapid}, sim.Writes())
}

func TestController_ConflictRejectedWithoutCoupling(t *testing.T) {
	t.Parallel()

	// what would happen without turning the opposite setting off first
	sim := NewSimulator()
	sim.SetState(State{BatteryConservation: On})
	require.NoError(t, sim.Write(sSBMC+" 0x07"))
	assert.Equal(t, Off, sim.State().RapidCharge)

	ctl := NewController(sim)
	require.NoError(t, ctl.Set(RapidCharge, On))
	assert.Equal(t, On, sim.State().RapidCharge)
}

func TestController_IOFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("no such device")

	ctl, sim := newTestController(t)
	sim.WriteErr = boom
	_, err := ctl.Get(RapidCharge)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, KindIO, Kind(err))

	err = ctl.Set(PerformanceMode, Performance)
	require.ErrorIs(t, err, boom)

	ctl, sim = newTestController(t)
	sim.ReadErr = boom
	err = ctl.Set(PerformanceMode, Performance)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, Performance, sim.State().PerformanceMode, "write went through, read-back failed")
}

func TestController_State(t *testing.T) {
	t.Parallel()

	ctl, sim := newTestController(t)
	sim.SetState(State{PerformanceMode: Performance, BatteryConservation: On})

	st, err := ctl.State()
	require.NoError(t, err)
	assert.Equal(t, State{PerformanceMode: Performance, RapidCharge: Off, BatteryConservation: On}, st)
	assert.Equal(t, []string{qPerf, qRapid, qConserv}, sim.Writes())

	sim.Override(RapidCharge, "bogus")
	_, err = ctl.State()
	assert.Equal(t, KindValue, Kind(err))
}

func TestController_Conveniences(t *testing.T) {
	t.Parallel()

	ctl, sim := newTestController(t)

	require.NoError(t, ctl.SetPerformanceMode(BatterySave))
	mode, err := ctl.PerformanceMode()
	require.NoError(t, err)
	assert.Equal(t, BatterySave, mode)

	require.NoError(t, ctl.SetBatteryConservation(true))
	on, err := ctl.BatteryConservation()
	require.NoError(t, err)
	assert.True(t, on)

	require.NoError(t, ctl.SetRapidCharge(true))
	on, err = ctl.RapidCharge()
	require.NoError(t, err)
	assert.True(t, on)

	on, err = ctl.BatteryConservation()
	require.NoError(t, err)
	assert.False(t, on, "turned off by rapid charge")

	require.NoError(t, ctl.SetRapidCharge(false))
	assert.Equal(t, State{PerformanceMode: BatterySave, RapidCharge: Off, BatteryConservation: Off}, sim.State())
}

func TestOpen(t *testing.T) {
	t.Parallel()

	fs := newCallFs(t, "0x1\x00\x00")
	ctl, err := Open(DefaultCallPath, WithFs(fs))
	require.NoError(t, err)

	// a plain file echoes back what was written, so only the trace is checked
	_, err = ctl.Get(RapidCharge)
	assert.Equal(t, qRapid, BadValue(err))

	_, err = Open("/nonexistent", WithFs(fs))
	assert.Equal(t, KindAccess, Kind(err))
}
