package monitor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powerlog-go/errcode"
)

// fakeStorage records appended bytes and flush calls, with switchable
// failure injection.
type fakeStorage struct {
	data      []byte
	appends   int
	flushes   int
	appendErr error
	flushErr  error
}

func (f *fakeStorage) Append(p []byte) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.data = append(f.data, p...)
	f.appends++
	return nil
}

func (f *fakeStorage) Flush() error {
	if f.flushErr != nil {
		return f.flushErr
	}
	f.flushes++
	return nil
}

func TestRecorderExactCSVBytes(t *testing.T) {
	st := &fakeStorage{}
	r := NewRecorder(st, 10)

	require.NoError(t, r.Append(0, 5.02, 100.0))
	require.NoError(t, r.Append(100, 5.019, 99.875))
	require.NoError(t, r.Append(200, 12.345, -3.3))

	want := "Time,Voltage,Current\n" +
		"0,   5.020, 100.000\n" +
		"100,   5.019,  99.875\n" +
		"200,  12.345,  -3.300\n"
	assert.Equal(t, want, string(st.data))
}

func TestRecorderHeaderWrittenOnce(t *testing.T) {
	st := &fakeStorage{}
	r := NewRecorder(st, 10)

	require.NoError(t, r.Append(0, 1, 1))
	require.NoError(t, r.Append(100, 1, 1))

	assert.Equal(t, 3, st.appends) // header + 2 records
}

// One physical flush per ten accepted records, never more, never fewer.
func TestRecorderFlushCadence(t *testing.T) {
	st := &fakeStorage{}
	r := NewRecorder(st, 10)

	for i := 0; i < 9; i++ {
		require.NoError(t, r.Append(uint32(i*100), 5, 100))
		assert.Equal(t, i+1, r.FlushCount())
		assert.Equal(t, 0, st.flushes)
	}

	require.NoError(t, r.Append(900, 5, 100))
	assert.Equal(t, 0, r.FlushCount()) // wrapped
	assert.Equal(t, 1, st.flushes)

	for i := 10; i < 30; i++ {
		require.NoError(t, r.Append(uint32(i*100), 5, 100))
	}
	assert.Equal(t, 3, st.flushes)
}

func TestRecorderNilStorageSkips(t *testing.T) {
	r := NewRecorder(nil, 10)
	err := r.Append(0, 5, 100)
	assert.Equal(t, errcode.StorageUnavailable, errcode.Of(err))
}

func TestRecorderAppendFailureDropsRecordOnly(t *testing.T) {
	st := &fakeStorage{}
	r := NewRecorder(st, 10)
	require.NoError(t, r.Append(0, 5, 100))

	st.appendErr = errors.New("medium gone")
	err := r.Append(100, 5, 100)
	assert.Equal(t, errcode.StorageUnavailable, errcode.Of(err))
	assert.Equal(t, 1, r.FlushCount()) // failed record not counted

	st.appendErr = nil
	require.NoError(t, r.Append(200, 5, 100))
	assert.Equal(t, 2, r.FlushCount())
}

func TestRecorderHeaderRetriedAfterFailure(t *testing.T) {
	st := &fakeStorage{appendErr: errors.New("not mounted")}
	r := NewRecorder(st, 10)

	assert.Error(t, r.Append(0, 5, 100))

	st.appendErr = nil
	require.NoError(t, r.Append(100, 5, 100))
	want := "Time,Voltage,Current\n100,   5.000, 100.000\n"
	assert.Equal(t, want, string(st.data))
}

// A failed flush is retried on the very next record, not after another
// full batch, so the unflushed window never exceeds one batch.
func TestRecorderFlushFailureRetriedNextAppend(t *testing.T) {
	st := &fakeStorage{flushErr: errors.New("card busy")}
	r := NewRecorder(st, 2)

	require.NoError(t, r.Append(0, 5, 100))
	err := r.Append(100, 5, 100)
	assert.Equal(t, errcode.StorageUnavailable, errcode.Of(err))
	assert.Equal(t, 2, r.FlushCount()) // threshold still pending

	st.flushErr = nil
	require.NoError(t, r.Append(200, 5, 100))
	assert.Equal(t, 1, st.flushes)
	assert.Equal(t, 0, r.FlushCount())
}
