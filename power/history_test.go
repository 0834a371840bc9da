package power

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	from := State{PerformanceMode: Intelligent, RapidCharge: On, BatteryConservation: Off}
	to := State{PerformanceMode: Intelligent, RapidCharge: Off, BatteryConservation: On}

	assert.Equal(t, []Change{
		{Time: now, Setting: RapidCharge, From: On, To: Off},
		{Time: now, Setting: BatteryConservation, From: Off, To: On},
	}, Diff(now, from, to))
	assert.Empty(t, Diff(now, from, from))
}

func TestHistory(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	h := NewHistory(2)

	_, ok := h.LastChanged(PerformanceMode)
	assert.False(t, ok)

	h.Record(Change{Time: t0, Setting: PerformanceMode, From: Intelligent, To: Performance})
	h.Record(
		Change{Time: t0.Add(time.Minute), Setting: RapidCharge, From: Off, To: On},
		Change{Time: t0.Add(2 * time.Minute), Setting: PerformanceMode, From: Performance, To: BatterySave},
	)

	changes := h.Changes()
	assert.Len(t, changes, 2, "oldest dropped")
	assert.Equal(t, RapidCharge, changes[0].Setting)

	last, ok := h.LastChanged(PerformanceMode)
	assert.True(t, ok)
	assert.Equal(t, t0.Add(2*time.Minute), last)

	assert.Equal(t, "12:02:00 PerformanceMode: Performance -> BatterySave", changes[1].String())
}

func TestNewHistory_DefaultSize(t *testing.T) {
	t.Parallel()

	h := NewHistory(0)
	for i := 0; i < DefaultHistorySize+10; i++ {
		h.Record(Change{Setting: RapidCharge})
	}
	assert.Len(t, h.Changes(), DefaultHistorySize)
}
