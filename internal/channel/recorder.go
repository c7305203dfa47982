package channel

import (
	"sync"
)

type Write struct {
	ID    ID
	Value string
}

// Recorder is an in-memory set of channels. It backs dry runs and tests.
type Recorder struct {
	mu       sync.Mutex
	writes   []Write
	last     map[ID]string
	failures map[ID]error
	onWrite  func(Write)
}

func NewRecorder() *Recorder {
	return &Recorder{
		last:     make(map[ID]string),
		failures: make(map[ID]error),
	}
}

// Bank returns a Bank whose channels all record into r.
func (r *Recorder) Bank() *Bank {
	channels := make(map[ID]Channel, numIDs)
	for _, id := range IDs() {
		channels[id] = &recordedChannel{recorder: r, id: id}
	}
	// Every ID is covered so this cannot fail.
	b, _ := NewBank(channels)
	return b
}

// OnWrite registers fn to be called after every accepted write.
func (r *Recorder) OnWrite(fn func(Write)) {
	r.mu.Lock()
	r.onWrite = fn
	r.mu.Unlock()
}

// FailOn makes every write to id fail with err. A nil err clears it.
func (r *Recorder) FailOn(id ID, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.failures, id)
		return
	}
	r.failures[id] = err
}

// Writes returns the accepted writes in order.
func (r *Recorder) Writes() []Write {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Write(nil), r.writes...)
}

// Last returns the most recent value written to id.
func (r *Recorder) Last(id ID) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.last[id]
	return v, ok
}

// Reset forgets recorded writes. Injected failures are kept.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = nil
	r.last = make(map[ID]string)
}

func (r *Recorder) record(id ID, value string) error {
	r.mu.Lock()
	if err := r.failures[id]; err != nil {
		r.mu.Unlock()
		return err
	}
	w := Write{ID: id, Value: value}
	r.writes = append(r.writes, w)
	r.last[id] = value
	fn := r.onWrite
	r.mu.Unlock()

	if fn != nil {
		fn(w)
	}
	return nil
}

type recordedChannel struct {
	recorder *Recorder
	id       ID
}

func (c *recordedChannel) Write(value string) error {
	return c.recorder.record(c.id, value)
}
