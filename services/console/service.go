package console

import (
	"context"
	"io"

	"powerlog-go/bus"
	"powerlog-go/types"
	"powerlog-go/x/decfmt"
)

// Service mirrors monitor metrics and state changes to a byte stream (a
// UART on hardware, stdout on a host build). It rides the bus so the
// sampling loop never blocks on console I/O.
type Service struct {
	W io.Writer
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	metSub := conn.Subscribe(bus.T("power", "monitor", "+", "metrics"))
	stateSub := conn.Subscribe(bus.T("power", "monitor", "+", "state"))
	defer conn.Unsubscribe(metSub)
	defer conn.Unsubscribe(stateSub)

	buf := make([]byte, 0, 96)

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-metSub.Channel():
			m, ok := msg.Payload.(types.Metrics)
			if !ok {
				continue
			}
			buf = formatMetrics(buf[:0], m)
			_, _ = s.W.Write(buf)
		case msg := <-stateSub.Channel():
			st, ok := msg.Payload.(map[string]any)
			if !ok {
				continue
			}
			buf = formatState(buf[:0], st)
			_, _ = s.W.Write(buf)
		}
	}
}

func formatMetrics(dst []byte, m types.Metrics) []byte {
	dst = decfmt.AppendUint(dst, m.TimestampMS)
	dst = append(dst, " ms "...)
	dst = decfmt.AppendFixed(dst, m.LoadVolts, 8, 3)
	dst = append(dst, " V "...)
	dst = decfmt.AppendFixed(dst, m.PowerMilliW, 8, 3)
	dst = append(dst, " mW "...)
	dst = decfmt.AppendFixed(dst, m.EnergyMilliWH, 8, 3)
	dst = append(dst, " mWh\n"...)
	return dst
}

func formatState(dst []byte, st map[string]any) []byte {
	dst = append(dst, "state "...)
	if level, ok := st["level"].(string); ok {
		dst = append(dst, level...)
	}
	if status, ok := st["status"].(string); ok {
		dst = append(dst, ' ')
		dst = append(dst, status...)
	}
	if e, ok := st["error"].(string); ok {
		dst = append(dst, ' ')
		dst = append(dst, e...)
	}
	dst = append(dst, '\n')
	return dst
}

// Start the console service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
