package ina219

// Telemetry readers. Integer units throughout: µV, mV, µA, µW.

// ShuntMicroV returns the shunt voltage drop. LSB is 10 µV.
func (d *Device) ShuntMicroV() (int32, error) {
	raw, err := d.readS16(regShuntVolt)
	if err != nil {
		return 0, err
	}
	return int32(raw) * 10, nil
}

// BusMilliV returns the bus voltage. The value occupies bits 15:3 with a
// 4 mV LSB; bit 0 flags a current/power math overflow.
func (d *Device) BusMilliV() (int32, error) {
	raw, err := d.readWord(regBusVolt)
	if err != nil {
		return 0, err
	}
	if raw&busOVF != 0 {
		return 0, ErrOverflow
	}
	return int32(raw>>3) * 4, nil
}

// CurrentMicroA returns the calibrated current through the shunt. Sign
// follows the measured direction; charge vs discharge is not interpreted
// here.
func (d *Device) CurrentMicroA() (int32, error) {
	if d.lsbNanoA == 0 {
		return 0, ErrNotCalibrated
	}
	raw, err := d.readS16(regCurrent)
	if err != nil {
		return 0, err
	}
	return int32((int64(raw) * int64(d.lsbNanoA)) / 1000), nil
}

// PowerMicroW returns the hardware power product. Power LSB is 20× the
// current LSB.
func (d *Device) PowerMicroW() (int32, error) {
	if d.lsbNanoA == 0 {
		return 0, ErrNotCalibrated
	}
	raw, err := d.readWord(regPower)
	if err != nil {
		return 0, err
	}
	return int32((int64(raw) * 20 * int64(d.lsbNanoA)) / 1000), nil
}
