package ina219

// 7-bit address with A0/A1 grounded.
const AddressDefault uint16 = 0x40

// Register map. All registers are 16-bit, MSB first on the wire.
const (
	regConfig      = 0x00 // R/W
	regShuntVolt   = 0x01 // R
	regBusVolt     = 0x02 // R
	regPower       = 0x03 // R
	regCurrent     = 0x04 // R
	regCalibration = 0x05 // R/W
)

// Config register fields.

type BusRange uint16

const (
	Range16V BusRange = 0x0
	Range32V BusRange = 0x1 // default
)

type Gain uint16

const (
	Gain40mV  Gain = 0x0 // /1, ±40 mV shunt range
	Gain80mV  Gain = 0x1 // /2, ±80 mV
	Gain160mV Gain = 0x2 // /4, ±160 mV
	Gain320mV Gain = 0x3 // /8, ±320 mV (default)
)

// ADC resolution / averaging. Conversion time grows with averaging; the
// 12-bit single-sample setting converts in 532 µs, 128-sample averaging
// takes 68.1 ms per channel.
type ADCMode uint16

const (
	ADC9Bit       ADCMode = 0x0 //  84 µs
	ADC10Bit      ADCMode = 0x1 // 148 µs
	ADC11Bit      ADCMode = 0x2 // 276 µs
	ADC12Bit      ADCMode = 0x3 // 532 µs
	ADC12Bit2S    ADCMode = 0x9 // 1.06 ms
	ADC12Bit4S    ADCMode = 0xA // 2.13 ms
	ADC12Bit8S    ADCMode = 0xB // 4.26 ms
	ADC12Bit16S   ADCMode = 0xC // 8.51 ms
	ADC12Bit32S   ADCMode = 0xD // 17.02 ms
	ADC12Bit64S   ADCMode = 0xE // 34.05 ms
	ADC12Bit128S  ADCMode = 0xF // 68.10 ms
)

type Mode uint16

const (
	ModePowerDown          Mode = 0x0
	ModeShuntTriggered     Mode = 0x1
	ModeBusTriggered       Mode = 0x2
	ModeShuntBusTriggered  Mode = 0x3
	ModeADCOff             Mode = 0x4
	ModeShuntContinuous    Mode = 0x5
	ModeBusContinuous      Mode = 0x6
	ModeShuntBusContinuous Mode = 0x7 // default
)

const cfgReset uint16 = 1 << 15

// Bus voltage register flag bits.
const (
	busCNVR uint16 = 1 << 1 // conversion ready
	busOVF  uint16 = 1 << 0 // math overflow
)
