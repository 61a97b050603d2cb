// Host-side harness for the power logger. A synthetic sensor stands in
// for the INA219 so the sampling loop, CSV recorder and renderer can be
// exercised without hardware; the log lands in a plain file and the
// display lines go to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"powerlog-go/bus"
	"powerlog-go/services/console"
	"powerlog-go/services/monitor"
	"powerlog-go/types"
)

func main() {
	var (
		periodMS = flag.Int("period-ms", 100, "sampling period in milliseconds")
		flushN   = flag.Int("flush-every", 10, "records buffered between flushes")
		logPath  = flag.String("log", "power.csv", "CSV log path")
		duration = flag.Duration("for", 0, "stop after this long (0 = run until interrupted)")
	)
	flag.Parse()

	cfg := types.MonitorConfig{
		PeriodMS:   *periodMS,
		FlushEvery: *flushN,
		LogPath:    *logPath,
	}.WithDefaults()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if *duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	f, err := os.OpenFile(cfg.LogPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open log:", err)
		os.Exit(1)
	}
	defer f.Close()

	b := bus.NewBus(8)

	con := &console.Service{W: os.Stdout}
	_ = con.Start(ctx, b.NewConnection("console"))

	svc := monitor.New("main", cfg, &syntheticReader{}, &fileStore{f: f}, &termDisplay{})
	svc.Run(ctx, b.NewConnection("monitor"))
}

// syntheticReader emits a 5V supply with a slow sinusoidal load swing,
// close enough to a real bench trace to make the derived numbers move.
type syntheticReader struct {
	n int
}

func (r *syntheticReader) ReadSample() (types.PowerSample, error) {
	r.n++
	phase := float64(r.n) / 50.0
	currentMA := 100.0 + 40.0*math.Sin(phase)
	shuntMV := currentMA * 0.1 // 0.1 ohm shunt
	return types.PowerSample{
		ShuntMilliV:   shuntMV,
		BusVolts:      5.0,
		CurrentMilliA: currentMA,
	}, nil
}

// fileStore adapts an os.File to the monitor's storage contract.
type fileStore struct {
	f *os.File
}

func (s *fileStore) Append(p []byte) error {
	_, err := s.f.Write(p)
	return err
}

func (s *fileStore) Flush() error { return s.f.Sync() }

// termDisplay prints only the lines that changed, mirroring what the
// OLED adapter does with its per-line regions.
type termDisplay struct {
	line  int
	dirty [4]string
}

func (d *termDisplay) SetCursor(line int) { d.line = line }

func (d *termDisplay) WriteText(s string) error {
	if d.line >= 0 && d.line < len(d.dirty) {
		d.dirty[d.line] = s
	}
	return nil
}

func (d *termDisplay) Commit() error {
	var sb strings.Builder
	for i, s := range d.dirty {
		if s == "" {
			continue
		}
		fmt.Fprintf(&sb, "display[%d] %s\n", i, s)
		d.dirty[i] = ""
	}
	if sb.Len() > 0 {
		_, err := os.Stdout.WriteString(sb.String())
		return err
	}
	return nil
}
