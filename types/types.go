package types

// ------------------------
// Power monitor payloads
// ------------------------

// PowerSample is one raw acquisition from the sensor. It is transient:
// the monitor overwrites it every cycle and keeps no history beyond the
// previous cycle's rendered values.
type PowerSample struct {
	ShuntMilliV   float64 `json:"shunt_mV"`
	BusVolts      float64 `json:"bus_V"`
	CurrentMilliA float64 `json:"current_mA"`
}

// Metrics are the derived per-cycle values.
// Retained value: power/monitor/<name>/metrics
type Metrics struct {
	LoadVolts     float64 `json:"load_V"`
	PowerMilliW   float64 `json:"power_mW"`
	EnergyMilliWH float64 `json:"energy_mWh"`
	TimestampMS   uint32  `json:"ts_ms"`
}
