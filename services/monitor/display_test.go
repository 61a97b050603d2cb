package monitor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powerlog-go/types"
)

// fakeDisplay records writes per line and commits.
type fakeDisplay struct {
	cursor    int
	lines     map[int]string
	writes    map[int]int
	commits   int
	writeErr  error
	commitErr error
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{lines: map[int]string{}, writes: map[int]int{}}
}

func (f *fakeDisplay) SetCursor(line int) { f.cursor = line }

func (f *fakeDisplay) WriteText(s string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.lines[f.cursor] = s
	f.writes[f.cursor]++
	return nil
}

func (f *fakeDisplay) Commit() error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.commits++
	return nil
}

func metricsAt(loadV, currentMA float64) (types.Metrics, float64) {
	m := types.Metrics{
		LoadVolts:     loadV,
		PowerMilliW:   loadV * currentMA,
		EnergyMilliWH: 1.5,
		TimestampMS:   1000,
	}
	return m, currentMA
}

func TestRenderAllLinesFirstCycle(t *testing.T) {
	d := newFakeDisplay()
	r := NewRenderer(d)

	m, cur := metricsAt(5.02, 100)
	require.NoError(t, r.Render(m, cur))

	assert.Equal(t, "   5.020 V", d.lines[lineLoadVolts])
	assert.Equal(t, " 100.000 mA", d.lines[lineCurrent])
	assert.Equal(t, " 502.000 mW", d.lines[linePower])
	assert.Equal(t, "   1.500 mWh", d.lines[lineEnergy])
	assert.Equal(t, 1, d.commits)
}

// Rendering the same value twice triggers exactly one physical redraw.
func TestRenderSkipsUnchangedLines(t *testing.T) {
	d := newFakeDisplay()
	r := NewRenderer(d)

	m, cur := metricsAt(5.02, 100)
	require.NoError(t, r.Render(m, cur))
	require.NoError(t, r.Render(m, cur))

	for line := 0; line < numLines; line++ {
		assert.Equal(t, 1, d.writes[line], "line %d", line)
	}
	assert.Equal(t, 1, d.commits) // second cycle drew nothing
}

func TestRenderRedrawsOnlyChangedLines(t *testing.T) {
	d := newFakeDisplay()
	r := NewRenderer(d)

	m, cur := metricsAt(5.02, 100)
	require.NoError(t, r.Render(m, cur))

	// Same load voltage and current; only energy moved.
	m2 := m
	m2.EnergyMilliWH = 1.514
	require.NoError(t, r.Render(m2, cur))

	assert.Equal(t, 1, d.writes[lineLoadVolts])
	assert.Equal(t, 1, d.writes[lineCurrent])
	assert.Equal(t, 1, d.writes[linePower])
	assert.Equal(t, 2, d.writes[lineEnergy])
	assert.Equal(t, 2, d.commits)
}

// A transient commit failure must not leave the panel stale: the next
// cycle has to redraw and commit even when every value is unchanged.
func TestRenderFailedCommitRetriedNextCycle(t *testing.T) {
	d := newFakeDisplay()
	r := NewRenderer(d)

	d.commitErr = errors.New("i2c nak")
	m, cur := metricsAt(5.02, 100)
	assert.Error(t, r.Render(m, cur))
	assert.Equal(t, 0, d.commits)

	d.commitErr = nil
	require.NoError(t, r.Render(m, cur))
	assert.Equal(t, 1, d.commits)
	assert.Equal(t, 2, d.writes[lineLoadVolts], "uncommitted lines redrawn")
	assert.Equal(t, "   5.020 V", d.lines[lineLoadVolts])
}

func TestRenderFailedWriteRetriedNextCycle(t *testing.T) {
	d := newFakeDisplay()
	r := NewRenderer(d)

	d.writeErr = errors.New("display nak")
	m, cur := metricsAt(5.02, 100)
	assert.Error(t, r.Render(m, cur))

	d.writeErr = nil
	require.NoError(t, r.Render(m, cur))
	assert.Equal(t, "   5.020 V", d.lines[lineLoadVolts])
}
