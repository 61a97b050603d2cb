package console

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"powerlog-go/bus"
	"powerlog-go/types"
)

// syncBuffer serializes writes so the test can read concurrently.
type syncBuffer struct {
	mu  chan struct{}
	buf bytes.Buffer
}

func newSyncBuffer() *syncBuffer {
	sb := &syncBuffer{mu: make(chan struct{}, 1)}
	sb.mu <- struct{}{}
	return sb
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	<-s.mu
	defer func() { s.mu <- struct{}{} }()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	<-s.mu
	defer func() { s.mu <- struct{}{} }()
	return s.buf.String()
}

func TestConsoleMirrorsMetrics(t *testing.T) {
	b := bus.NewBus(8)
	out := newSyncBuffer()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &Service{W: out}
	_ = svc.Start(ctx, b.NewConnection("console"))
	time.Sleep(20 * time.Millisecond) // let subscriptions land

	pub := b.NewConnection("monitor")
	pub.Publish(pub.NewMessage(bus.T("power", "monitor", "main", "metrics"),
		types.Metrics{LoadVolts: 5.02, PowerMilliW: 502, EnergyMilliWH: 1.5, TimestampMS: 1000}, false))

	assert.Eventually(t, func() bool {
		return out.String() == "1000 ms    5.020 V  502.000 mW    1.500 mWh\n"
	}, time.Second, 5*time.Millisecond)
}

func TestConsoleMirrorsState(t *testing.T) {
	b := bus.NewBus(8)
	out := newSyncBuffer()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &Service{W: out}
	_ = svc.Start(ctx, b.NewConnection("console"))
	time.Sleep(20 * time.Millisecond)

	pub := b.NewConnection("monitor")
	pub.Publish(pub.NewMessage(bus.T("power", "monitor", "main", "state"),
		map[string]any{"level": "degraded", "status": "sensor_read_failed", "error": "sensor_unavailable"}, false))

	assert.Eventually(t, func() bool {
		return out.String() == "state degraded sensor_read_failed sensor_unavailable\n"
	}, time.Second, 5*time.Millisecond)
}
