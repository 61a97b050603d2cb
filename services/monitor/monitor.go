// services/monitor/monitor.go
package monitor

import (
	"context"
	"sync/atomic"
	"time"

	"powerlog-go/bus"
	"powerlog-go/errcode"
	"powerlog-go/types"
)

var topicConfigMonitor = bus.T("config", "monitor")

// Service runs the acquire → derive → persist → render loop. One cycle per
// observed tick; overlapping acquisitions cannot happen because the loop
// is the sole consumer of the trigger flag.
type Service struct {
	name   string
	reader SampleReader
	rec    *Recorder
	ren    *Renderer
	trig   Trigger
	clock  func() uint32 // monotonic-ish milliseconds

	conn     *bus.Connection
	periodMS atomic.Int32

	// Cycle state. energyMWH is the one stateful, monotonically
	// accumulated quantity; it lives for the process lifetime and is
	// never reset.
	prevMS    uint32
	energyMWH float64
	primed    bool
}

func New(name string, cfg types.MonitorConfig, reader SampleReader, store Storage, disp Display) *Service {
	cfg = cfg.WithDefaults()
	s := &Service{
		name:   name,
		reader: reader,
		rec:    NewRecorder(store, cfg.FlushEvery),
		ren:    NewRenderer(disp),
		clock:  millis,
	}
	s.periodMS.Store(int32(cfg.PeriodMS))
	return s
}

// startTime carries Go's monotonic clock reading, so millis is immune to
// wall-clock steps on host builds. Epoch is process start, which is all
// the loop needs: only deltas matter.
var startTime = time.Now()

func millis() uint32 { return uint32(time.Since(startTime).Milliseconds()) }

// Trigger exposes the tick flag to the platform's timer source.
func (s *Service) Trigger() *Trigger { return &s.trig }

// Run starts the tick source and services the loop until ctx is done. The
// flag check is non-blocking; a tick that fires while a cycle is in
// flight stays set and yields exactly one catch-up cycle whose energy
// integration uses the true elapsed time.
func (s *Service) Run(ctx context.Context, conn *bus.Connection) {
	s.conn = conn
	cfgSub := conn.Subscribe(topicConfigMonitor)
	ctrlSub := conn.Subscribe(bus.T("power", "monitor", s.name, "control", "+"))
	defer conn.Unsubscribe(cfgSub)
	defer conn.Unsubscribe(ctrlSub)

	go RunTicker(ctx, &s.trig, s.periodMS.Load)

	s.publishState("ready", "sampling", nil)

	poll := time.NewTicker(time.Millisecond)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			s.publishState("stopped", "context_cancelled", nil)
			return

		case msg := <-cfgSub.Channel():
			s.applyConfig(msg)

		case msg := <-ctrlSub.Channel():
			s.handleControl(msg)

		case <-poll.C:
			if s.trig.TakeTick() {
				s.runCycle(s.clock())
			}
		}
	}
}

// runCycle performs one full acquire → derive → persist → render pass.
// Persistence and display failures are independent: either side may skip
// its effect for the cycle while the other continues.
func (s *Service) runCycle(nowMS uint32) {
	sample, err := s.reader.ReadSample()
	if err != nil {
		// Hold the accumulator rather than integrate a bogus sample, and
		// advance the reference point so the failed interval is not
		// credited to the next good sample either.
		s.prevMS = nowMS
		s.primed = true
		s.publishState("degraded", "sensor_read_failed", err)
		return
	}

	if !s.primed {
		s.prevMS = nowMS
		s.primed = true
	}
	m := Derive(sample, nowMS, s.prevMS, s.energyMWH)
	s.prevMS = nowMS
	s.energyMWH = m.EnergyMilliWH

	if err := s.rec.Append(m.TimestampMS, m.LoadVolts, sample.CurrentMilliA); err != nil {
		s.publishState("degraded", "log_append_failed", err)
	}
	if err := s.ren.Render(m, sample.CurrentMilliA); err != nil {
		s.publishState("degraded", "render_failed", err)
	}

	if s.conn != nil {
		s.conn.Publish(s.conn.NewMessage(
			bus.T("power", "monitor", s.name, "metrics"), m, true))
	}
}

func (s *Service) applyConfig(msg *bus.Message) {
	var cfg types.MonitorConfig
	if err := decodeJSON(msg.Payload, &cfg); err != nil {
		s.publishState("error", "config_decode_failed", err)
		return
	}
	if cfg.PeriodMS > 0 {
		s.periodMS.Store(int32(clampInt(cfg.PeriodMS, 10, 3_600_000)))
	}
	if cfg.FlushEvery > 0 {
		s.rec.SetFlushEvery(cfg.FlushEvery)
	}
	s.publishState("ready", "configured", nil)
}

func (s *Service) handleControl(msg *bus.Message) {
	method, _ := msg.Topic[len(msg.Topic)-1].(string)
	switch method {
	case "read_now":
		s.trig.Tick()
		s.replyOK(msg, nil)
	case "set_rate":
		ms := parsePeriodMS(msg.Payload)
		if ms <= 0 {
			s.replyErr(msg, errcode.InvalidPayload)
			return
		}
		s.periodMS.Store(int32(clampInt(ms, 10, 3_600_000)))
		s.replyOK(msg, map[string]any{"period_ms": int(s.periodMS.Load())})
	default:
		s.replyErr(msg, errcode.Unsupported)
	}
}

// ---- bus helpers ----

func (s *Service) publishState(level, status string, err error) {
	if s.conn == nil {
		return
	}
	payload := map[string]any{"level": level, "status": status, "ts_ms": s.clock()}
	if err != nil {
		payload["error"] = string(errcode.Of(err))
	}
	s.conn.Publish(s.conn.NewMessage(bus.T("power", "monitor", s.name, "state"), payload, true))
}

func (s *Service) replyOK(req *bus.Message, extra map[string]any) {
	if len(req.ReplyTo) == 0 {
		return
	}
	m := map[string]any{"ok": true}
	for k, v := range extra {
		m[k] = v
	}
	s.conn.Reply(req, m, false)
}

func (s *Service) replyErr(req *bus.Message, code errcode.Code) {
	if len(req.ReplyTo) == 0 {
		return
	}
	s.conn.Reply(req, map[string]any{"ok": false, "error": string(code)}, false)
}
