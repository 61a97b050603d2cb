package types

// Power policies for the sensor between cycles.
const (
	PowerToggle   = "toggle"    // sleep the sensor between cycles (default)
	PowerAlwaysOn = "always_on" // keep the sensor converting continuously
)

// MonitorConfig is supplied on the "config/monitor" bus topic.
type MonitorConfig struct {
	PeriodMS    int    `json:"period_ms,omitempty"`    // tick period; default 100
	FlushEvery  int    `json:"flush_every,omitempty"`  // cycles per physical flush; default 10
	PowerPolicy string `json:"power_policy,omitempty"` // "toggle" | "always_on"
	LogPath     string `json:"log_path,omitempty"`     // default "power.csv"
}

// WithDefaults fills unset fields.
func (c MonitorConfig) WithDefaults() MonitorConfig {
	if c.PeriodMS <= 0 {
		c.PeriodMS = 100
	}
	if c.FlushEvery <= 0 {
		c.FlushEvery = 10
	}
	if c.PowerPolicy == "" {
		c.PowerPolicy = PowerToggle
	}
	if c.LogPath == "" {
		c.LogPath = "power.csv"
	}
	return c
}
