//go:build rp2040

// Raspberry Pi Pico wiring for the power logger: INA219 on I2C0, SSD1306
// OLED on the same bus, SD card on SPI0, console on UART0.
package main

import (
	"context"
	"machine"
	"os"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/sdcard"
	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfs/fatfs"

	"powerlog-go/bus"
	"powerlog-go/drivers/ina219"
	"powerlog-go/services/console"
	"powerlog-go/services/monitor"
	"powerlog-go/types"
)

const sdCS = machine.GP17

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	ctx := context.Background()
	cfg := types.MonitorConfig{}.WithDefaults()

	// Console UART.
	_ = uartx.UART0.Configure(uartx.UARTConfig{BaudRate: 115200})

	// Sensor bus.
	if err := machine.I2C0.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz}); err != nil {
		fatal("i2c0 configure:", err)
	}
	sensor := ina219.New(machine.I2C0, ina219.Config32V2A())
	if err := sensor.Configure(ina219.Config32V2A()); err != nil {
		// No sensor means nothing to log; startup failure is fatal.
		fatal("ina219 configure:", err)
	}

	// Display. A cold display needs a moment before it accepts config.
	time.Sleep(time.Second)
	oled := ssd1306.NewI2C(machine.I2C0)
	oled.Configure(ssd1306.Config{Width: 128, Height: 64, Address: 0x3C, VccState: ssd1306.SWITCHCAPVCC})
	oled.ClearDisplay()
	disp := newOLED(&oled)

	// SD card. Absence degrades to display-only, it never aborts the loop.
	store := openStorage(cfg.LogPath)
	if store == nil {
		println("warn: no log medium, running display-only")
	}

	b := bus.NewBus(8)

	con := &console.Service{W: uartx.UART0}
	_ = con.Start(ctx, b.NewConnection("console"))

	reader := monitor.NewINA219Reader(sensor, cfg.PowerPolicy)
	svc := monitor.New("main", cfg, reader, store, disp)
	svc.Run(ctx, b.NewConnection("monitor"))
}

func openStorage(path string) monitor.Storage {
	spi := machine.SPI0
	sd := sdcard.New(spi, machine.SPI0_SCK_PIN, machine.SPI0_SDO_PIN, machine.SPI0_SDI_PIN, sdCS)
	if err := sd.Configure(); err != nil {
		println("warn: sdcard configure:", err.Error())
		return nil
	}
	fs := fatfs.New(&sd)
	fs.Configure(&fatfs.Config{SectorSize: 512})
	if err := fs.Mount(); err != nil {
		println("warn: fat mount:", err.Error())
		return nil
	}
	// Created or truncated once; the handle then lives as long as we do.
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		println("warn: open log:", err.Error())
		return nil
	}
	return &fileStore{f: f}
}

func fatal(msg string, err error) {
	for {
		println("fatal:", msg, err.Error())
		time.Sleep(5 * time.Second)
	}
}
