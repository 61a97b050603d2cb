package monitor

import "powerlog-go/types"

// Derive computes the per-cycle metrics from one raw sample.
//
// Energy integrates over the measured wall-clock delta, not the nominal
// period: when a tick is absorbed under overrun the next cycle's dt simply
// grows, and the running sum stays exact. Millisecond timestamps are
// uint32; the subtraction is wrap-safe.
//
// Sign is passed through as measured. Charge vs discharge is undefined
// upstream, so nothing here clamps or rectifies.
func Derive(sample types.PowerSample, nowMS, prevMS uint32, prevEnergyMWH float64) types.Metrics {
	loadV := sample.BusVolts + sample.ShuntMilliV/1000.0
	powerMW := loadV * sample.CurrentMilliA

	dtMS := nowMS - prevMS
	energy := prevEnergyMWH + powerMW*float64(dtMS)/3_600_000.0

	return types.Metrics{
		LoadVolts:     loadV,
		PowerMilliW:   powerMW,
		EnergyMilliWH: energy,
		TimestampMS:   nowMS,
	}
}
