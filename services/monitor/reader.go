package monitor

import (
	"time"

	"powerlog-go/drivers/ina219"
	"powerlog-go/errcode"
	"powerlog-go/types"
)

// SampleReader acquires one raw sample. Implementations must be bounded:
// the read has to fit inside the tick period with margin for persistence
// and rendering.
type SampleReader interface {
	ReadSample() (types.PowerSample, error)
}

// INA219Reader adapts the INA219 driver to the monitor. Under the toggle
// policy the sensor sleeps between cycles and each read is a one-shot
// conversion: trigger, poll ready, read three scalars, power down. The
// conversion costs real time (about 8.5 ms at the 12-bit/8-sample
// setting), which is why the wait budget exists at all.
type INA219Reader struct {
	dev        *ina219.Device
	toggle     bool
	waitBudget time.Duration
}

func NewINA219Reader(dev *ina219.Device, powerPolicy string) *INA219Reader {
	return &INA219Reader{
		dev:        dev,
		toggle:     powerPolicy != types.PowerAlwaysOn,
		waitBudget: 20 * time.Millisecond,
	}
}

func (r *INA219Reader) ReadSample() (types.PowerSample, error) {
	if r.toggle {
		if err := r.dev.Trigger(); err != nil {
			return types.PowerSample{}, r.fail("trigger", err)
		}
		if err := r.waitReady(); err != nil {
			return types.PowerSample{}, r.fail("wait", err)
		}
	}

	shuntUV, err := r.dev.ShuntMicroV()
	if err != nil {
		return types.PowerSample{}, r.fail("shunt", err)
	}
	busMV, err := r.dev.BusMilliV()
	if err != nil {
		return types.PowerSample{}, r.fail("bus", err)
	}
	curUA, err := r.dev.CurrentMicroA()
	if err != nil {
		return types.PowerSample{}, r.fail("current", err)
	}

	if r.toggle {
		if err := r.dev.Sleep(); err != nil {
			return types.PowerSample{}, &errcode.E{C: errcode.SensorUnavailable, Op: "sleep", Err: err}
		}
	}

	return types.PowerSample{
		ShuntMilliV:   float64(shuntUV) / 1000.0,
		BusVolts:      float64(busMV) / 1000.0,
		CurrentMilliA: float64(curUA) / 1000.0,
	}, nil
}

func (r *INA219Reader) waitReady() error {
	deadline := time.Now().Add(r.waitBudget)
	for {
		ready, err := r.dev.ConversionReady()
		if err != nil {
			return err
		}
		if ready {
			return nil
		}
		if time.Now().After(deadline) {
			return errcode.Timeout
		}
		time.Sleep(time.Millisecond)
	}
}

// fail powers the sensor back down on the way out so a bus error cannot
// leave it converting, then tags the error as distinguishable from a true
// zero reading.
func (r *INA219Reader) fail(op string, err error) error {
	if r.toggle {
		_ = r.dev.Sleep()
	}
	return &errcode.E{C: errcode.SensorUnavailable, Op: op, Err: err}
}
