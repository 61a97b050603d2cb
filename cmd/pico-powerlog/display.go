//go:build rp2040

package main

import (
	"image/color"

	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 0}
)

// Four 16-pixel rows on the 128x64 panel, one metric each.
const rowHeight = 16

// oled adapts the SSD1306 to the monitor's display contract. Only the
// region of a changed line is cleared and redrawn; Commit pushes the
// buffer once per cycle at most.
type oled struct {
	dev  *ssd1306.Device
	line int
}

func newOLED(dev *ssd1306.Device) *oled {
	return &oled{dev: dev}
}

func (o *oled) SetCursor(line int) { o.line = line }

func (o *oled) WriteText(s string) error {
	top := int16(o.line * rowHeight)
	clearRect(o.dev, 0, top, 128, rowHeight)
	baseline := top + 12
	tinyfont.WriteLine(o.dev, &freemono.Regular9pt7b, 0, baseline, s, white)
	return nil
}

func (o *oled) Commit() error {
	return o.dev.Display()
}

func clearRect(dev *ssd1306.Device, x, y, w, h int16) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			dev.SetPixel(xx, yy, black)
		}
	}
}
