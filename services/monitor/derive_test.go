package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powerlog-go/types"
)

func TestDeriveKnownValues(t *testing.T) {
	s := types.PowerSample{BusVolts: 5.0, ShuntMilliV: 20.0, CurrentMilliA: 100.0}
	m := Derive(s, 1100, 1000, 0)

	assert.InDelta(t, 5.02, m.LoadVolts, 1e-12)
	assert.InDelta(t, 502.0, m.PowerMilliW, 1e-9)
	assert.InDelta(t, 502.0*100/3_600_000.0, m.EnergyMilliWH, 1e-12)
	assert.Equal(t, uint32(1100), m.TimestampMS)
}

// Energy must equal the exact running sum of power*dt/3.6e6 whether dt is
// constant or jittered: the nominal period must never appear as a divisor.
func TestEnergyRunningSumVariableDt(t *testing.T) {
	steps := []struct {
		powerMW float64
		dtMS    uint32
	}{
		{500, 100}, {500, 100}, {480, 137}, {520, 63},
		{0, 100}, {1000, 200}, {750, 91}, {750, 109},
	}

	var (
		now    uint32 = 5000
		energy float64
		want   float64
	)
	for _, st := range steps {
		prev := now
		now += st.dtMS
		// A sample with shunt drop folded to zero so power == busV*current.
		s := types.PowerSample{BusVolts: 1.0, CurrentMilliA: st.powerMW}
		m := Derive(s, now, prev, energy)
		energy = m.EnergyMilliWH
		want += st.powerMW * float64(st.dtMS) / 3_600_000.0
	}
	require.InDelta(t, want, energy, 1e-12)
}

func TestEnergyMonotonicForNonNegativePower(t *testing.T) {
	var now uint32
	var energy float64
	powers := []float64{0, 1, 250, 0.001, 800, 0, 42}
	for i, p := range powers {
		prev := now
		now += uint32(50 + 13*i)
		m := Derive(types.PowerSample{BusVolts: 1.0, CurrentMilliA: p}, now, prev, energy)
		assert.GreaterOrEqual(t, m.EnergyMilliWH, energy, "step %d", i)
		energy = m.EnergyMilliWH
	}
}

func TestDeriveSignPassThrough(t *testing.T) {
	// Discharge: negative current must produce negative power, unclamped.
	s := types.PowerSample{BusVolts: 5.0, ShuntMilliV: -20.0, CurrentMilliA: -100.0}
	m := Derive(s, 200, 100, 1.0)

	assert.InDelta(t, 4.98, m.LoadVolts, 1e-12)
	assert.InDelta(t, -498.0, m.PowerMilliW, 1e-9)
	assert.Less(t, m.EnergyMilliWH, 1.0)
}

func TestDeriveTimestampWraparound(t *testing.T) {
	// 100 ms elapsed across the uint32 boundary.
	prev := uint32(0xFFFFFFCE)
	now := uint32(0x00000032)
	m := Derive(types.PowerSample{BusVolts: 1.0, CurrentMilliA: 360}, now, prev, 0)

	assert.InDelta(t, 360.0*100/3_600_000.0, m.EnergyMilliWH, 1e-12)
}

func TestDeriveZeroDt(t *testing.T) {
	m := Derive(types.PowerSample{BusVolts: 5, CurrentMilliA: 100}, 1000, 1000, 2.5)
	assert.Equal(t, 2.5, m.EnergyMilliWH)
}
