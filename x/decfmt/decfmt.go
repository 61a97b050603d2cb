// Package decfmt formats decimal values with fixed width and precision.
// It is the wire format for the CSV log and the display: right-aligned,
// space-padded, a fixed number of fractional digits, no exponent form.
// No fmt, no heap allocation on the Append paths.
package decfmt

const maxPrec = 9

var pow10 = [maxPrec + 1]int64{
	1, 10, 100, 1_000, 10_000, 100_000,
	1_000_000, 10_000_000, 100_000_000, 1_000_000_000,
}

// AppendFixed appends v formatted with prec fractional digits, right-aligned
// in a field of at least width bytes. Values that do not fit widen the field
// rather than truncate. NaN and infinities render as spaces padded "nan",
// "inf", "-inf" so a broken sample cannot corrupt the column layout.
func AppendFixed(dst []byte, v float64, width, prec int) []byte {
	if prec < 0 {
		prec = 0
	}
	if prec > maxPrec {
		prec = maxPrec
	}

	if v != v { // NaN
		return appendPadded(dst, []byte("nan"), width)
	}

	scale := pow10[prec]
	// Largest magnitude whose scaled-and-rounded value still fits int64.
	limit := float64(int64(1)<<62) / float64(scale)
	if v > limit {
		return appendPadded(dst, []byte("inf"), width)
	}
	if v < -limit {
		return appendPadded(dst, []byte("-inf"), width)
	}

	neg := false
	if v < 0 {
		neg = true
		v = -v
	}

	// Round half away from zero at the last kept digit.
	scaled := int64(v*float64(scale) + 0.5)

	intPart := scaled / scale
	frac := scaled % scale

	var buf [32]byte
	i := len(buf)

	if prec > 0 {
		for p := 0; p < prec; p++ {
			i--
			buf[i] = byte('0' + frac%10)
			frac /= 10
		}
		i--
		buf[i] = '.'
	}
	if intPart == 0 {
		i--
		buf[i] = '0'
	}
	for intPart > 0 {
		i--
		buf[i] = byte('0' + intPart%10)
		intPart /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}

	return appendPadded(dst, buf[i:], width)
}

// Fixed is the string form of AppendFixed.
func Fixed(v float64, width, prec int) string {
	return string(AppendFixed(nil, v, width, prec))
}

// AppendUint appends u in decimal with no padding.
func AppendUint(dst []byte, u uint32) []byte {
	if u == 0 {
		return append(dst, '0')
	}
	var buf [10]byte
	i := len(buf)
	for u > 0 {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
	}
	return append(dst, buf[i:]...)
}

func appendPadded(dst, s []byte, width int) []byte {
	for pad := width - len(s); pad > 0; pad-- {
		dst = append(dst, ' ')
	}
	return append(dst, s...)
}
