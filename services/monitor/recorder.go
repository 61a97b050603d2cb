package monitor

import (
	"powerlog-go/errcode"
	"powerlog-go/x/decfmt"
)

// Storage is the opaque append/flush capability backing the CSV log. The
// file (or equivalent) is opened once by the platform layer and stays open
// for the process lifetime; opening per cycle costs too much latency.
type Storage interface {
	Append(p []byte) error
	Flush() error
}

const csvHeader = "Time,Voltage,Current\n"

// Recorder appends one CSV record per accepted cycle and flushes the
// medium once every flushEvery records. A physical flush can spike to the
// order of the whole cycle budget, so it is amortized; the cost is that an
// abrupt power loss drops at most flushEvery unflushed records.
type Recorder struct {
	store      Storage
	flushEvery int
	count      int
	headerDone bool
	buf        []byte
}

func NewRecorder(store Storage, flushEvery int) *Recorder {
	if flushEvery <= 0 {
		flushEvery = 10
	}
	return &Recorder{
		store:      store,
		flushEvery: flushEvery,
		buf:        make([]byte, 0, 64),
	}
}

// SetFlushEvery adjusts the amortization threshold at runtime.
func (r *Recorder) SetFlushEvery(n int) {
	if n > 0 {
		r.flushEvery = n
	}
}

// FlushCount reports records accepted since the last successful flush.
func (r *Recorder) FlushCount() int { return r.count }

// Append writes `<ms>,<%8.3f>,<%8.3f>\n`. On any storage failure the
// record is dropped for this cycle and the error reported; the caller
// continues the loop and retries naturally next cycle.
func (r *Recorder) Append(tsMS uint32, loadVolts, currentMA float64) error {
	if r.store == nil {
		return errcode.StorageUnavailable
	}

	if !r.headerDone {
		if err := r.store.Append([]byte(csvHeader)); err != nil {
			return &errcode.E{C: errcode.StorageUnavailable, Op: "header", Err: err}
		}
		r.headerDone = true
	}

	r.buf = r.buf[:0]
	r.buf = decfmt.AppendUint(r.buf, tsMS)
	r.buf = append(r.buf, ',')
	r.buf = decfmt.AppendFixed(r.buf, loadVolts, 8, 3)
	r.buf = append(r.buf, ',')
	r.buf = decfmt.AppendFixed(r.buf, currentMA, 8, 3)
	r.buf = append(r.buf, '\n')

	if err := r.store.Append(r.buf); err != nil {
		return &errcode.E{C: errcode.StorageUnavailable, Op: "append", Err: err}
	}

	r.count++
	if r.count >= r.flushEvery {
		// Counter resets only once the flush lands, so a failed flush is
		// retried on the very next record and the unflushed window stays
		// bounded by flushEvery.
		if err := r.store.Flush(); err != nil {
			return &errcode.E{C: errcode.StorageUnavailable, Op: "flush", Err: err}
		}
		r.count = 0
	}
	return nil
}
