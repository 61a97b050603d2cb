// Package ina219 provides a minimal TinyGo driver for the TI INA219
// high-side current/power monitor.
//
// Design notes (datasheet references):
// • I2C up to 400kHz; 16-bit registers, data-high then data-low.
// • Current and power registers read zero until the calibration register
//   is programmed from the shunt value and a chosen current LSB.
// • Shunt voltage LSB is 10 µV regardless of PGA gain; bus voltage LSB is
//   4 mV with the value left-shifted by 3 in its register.
// • Power-down and triggered modes allow the part to sleep between
//   one-shot conversions.
package ina219

import (
	"errors"

	"tinygo.org/x/drivers"
)

var (
	ErrNotCalibrated = errors.New("calibration not set")
	ErrOverflow      = errors.New("current/power math overflow")
)

// Config selects the measurement ranges and the calibration point.
// CurrentLSBNanoA is the value of one current register bit; pick a round
// figure near MaxExpectedCurrent/32767 (100_000 nA for the 32V/2A profile).
type Config struct {
	Address         uint16
	Range           BusRange
	Gain            Gain
	BusADC          ADCMode
	ShuntADC        ADCMode
	Mode            Mode
	ShuntMicroOhm   uint32 // sense resistor, µΩ
	CurrentLSBNanoA uint32
}

// Config32V2A is the common 32 V bus / 2 A / 0.1 Ω shunt operating point
// (calibration register 4096, current LSB 100 µA, power LSB 2 mW).
func Config32V2A() Config {
	return Config{
		Address:         AddressDefault,
		Range:           Range32V,
		Gain:            Gain320mV,
		BusADC:          ADC12Bit8S,
		ShuntADC:        ADC12Bit8S,
		Mode:            ModeShuntBusContinuous,
		ShuntMicroOhm:   100_000,
		CurrentLSBNanoA: 100_000,
	}
}

type Device struct {
	i2c  drivers.I2C
	addr uint16

	mode       Mode
	configWord uint16
	calWord    uint16
	lsbNanoA   uint32

	// Fixed buffers to avoid per-call heap allocations.
	w [3]byte
	r [2]byte
}

func New(i2c drivers.I2C, cfg Config) *Device {
	addr := cfg.Address
	if addr == 0 {
		addr = AddressDefault
	}
	return &Device{i2c: i2c, addr: addr}
}

// Configure writes the calibration and configuration registers. The device
// keeps the composed config word so that Sleep/Wake can restore it without
// a bus read.
func (d *Device) Configure(cfg Config) error {
	if cfg.ShuntMicroOhm == 0 || cfg.CurrentLSBNanoA == 0 {
		return ErrNotCalibrated
	}
	d.lsbNanoA = cfg.CurrentLSBNanoA

	// cal = trunc(0.04096 / (currentLSB[A] * Rshunt[Ω]))
	//     = 4.096e13 / (lsb[nA] * R[µΩ])
	cal := uint64(40_960_000_000_000) / (uint64(cfg.CurrentLSBNanoA) * uint64(cfg.ShuntMicroOhm))
	if cal == 0 || cal > 0xFFFE {
		return ErrNotCalibrated
	}
	d.calWord = uint16(cal)
	if err := d.writeWord(regCalibration, d.calWord); err != nil {
		return err
	}

	d.mode = cfg.Mode
	d.configWord = uint16(cfg.Range)<<13 |
		uint16(cfg.Gain)<<11 |
		uint16(cfg.BusADC)<<7 |
		uint16(cfg.ShuntADC)<<3 |
		uint16(cfg.Mode)
	return d.writeWord(regConfig, d.configWord)
}

// Reset issues a software reset; Configure must be called again afterwards.
func (d *Device) Reset() error {
	return d.writeWord(regConfig, cfgReset)
}

// Sleep puts the part in power-down mode. Register contents are kept.
func (d *Device) Sleep() error {
	return d.writeWord(regConfig, d.configWord&^uint16(0x7))
}

// Wake restores the configured operating mode. In a triggered mode this
// also starts a one-shot conversion. The part needs ~40 µs to leave
// power-down before the conversion begins.
func (d *Device) Wake() error {
	return d.writeWord(regConfig, d.configWord)
}

// Trigger starts a one-shot shunt+bus conversion regardless of the
// configured mode. Use ConversionReady to poll for completion.
func (d *Device) Trigger() error {
	w := d.configWord&^uint16(0x7) | uint16(ModeShuntBusTriggered)
	return d.writeWord(regConfig, w)
}

// ConversionReady reports the CNVR flag, set when all conversions since the
// last power/calibration access are complete.
func (d *Device) ConversionReady() (bool, error) {
	v, err := d.readWord(regBusVolt)
	if err != nil {
		return false, err
	}
	return v&busCNVR != 0, nil
}

// ---------------- Wire helpers ----------------

func (d *Device) readWord(reg byte) (uint16, error) {
	d.w[0] = reg
	if err := d.i2c.Tx(d.addr, d.w[:1], d.r[:2]); err != nil {
		return 0, err
	}
	return uint16(d.r[0])<<8 | uint16(d.r[1]), nil
}

func (d *Device) writeWord(reg byte, v uint16) error {
	d.w[0] = reg
	d.w[1] = byte(v >> 8)
	d.w[2] = byte(v)
	return d.i2c.Tx(d.addr, d.w[:3], nil)
}

func (d *Device) readS16(reg byte) (int16, error) {
	v, err := d.readWord(reg)
	return int16(v), err
}
