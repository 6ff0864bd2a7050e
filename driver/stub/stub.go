//go:build !tinygo && !baremetal

// Package stub provides host-side implementations of every hardware
// capability the core drives. They record side effects instead of touching
// hardware, which is what the host constructors and example harnesses run on.
package stub

import (
	"sync"
	"time"

	"github.com/selune/beaconfw/core"
	"github.com/selune/beaconfw/protocol"
)

// Recorder collects the ordered side effects of a wake cycle.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *Recorder) record(ev string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = r.events[:0]
}

// Radio records broadcasts instead of advertising.
type Radio struct {
	rec *Recorder

	mu      sync.Mutex
	name    string
	payload []byte

	FailAdvertise bool
	FailStop      bool
}

func NewRadio(rec *Recorder) *Radio { return &Radio{rec: rec} }

func (r *Radio) Advertise(name string, payload []byte) error {
	if r.FailAdvertise {
		return protocol.ErrRadioInit
	}
	r.mu.Lock()
	r.name = name
	r.payload = append([]byte(nil), payload...)
	r.mu.Unlock()
	r.rec.record("radio-start")
	return nil
}

func (r *Radio) Stop() error {
	if r.FailStop {
		return protocol.ErrRadioInit
	}
	r.rec.record("radio-stop")
	return nil
}

// LastBroadcast returns the name and payload of the most recent broadcast.
func (r *Radio) LastBroadcast() (string, []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name, append([]byte(nil), r.payload...)
}

// Indicator records color changes.
type Indicator struct {
	rec *Recorder
}

func NewIndicator(rec *Recorder) *Indicator { return &Indicator{rec: rec} }

func (i *Indicator) Set(c core.Color) error {
	i.rec.record("indicator-set")
	return nil
}

func (i *Indicator) Off() error {
	i.rec.record("indicator-off")
	return nil
}

// ID serves a fixed hardware identifier.
type ID struct {
	Addr [6]byte
}

func (i *ID) HardwareID() [6]byte { return i.Addr }

// Button is a polled trigger input.
type Button struct {
	mu      sync.Mutex
	pressed bool
}

func (b *Button) Press() {
	b.mu.Lock()
	b.pressed = true
	b.mu.Unlock()
}

func (b *Button) Release() {
	b.mu.Lock()
	b.pressed = false
	b.mu.Unlock()
}

func (b *Button) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pressed
}

// Boot reports a configurable wake cause.
type Boot struct {
	Cause core.WakeCause
}

func (b *Boot) WakeCause() core.WakeCause { return b.Cause }

// Clock advances a virtual microsecond counter instead of sleeping, so a
// full cycle with its 10-second broadcast window runs instantly on the host.
type Clock struct {
	mu  sync.Mutex
	now uint32
}

func (c *Clock) Micros() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Sleep(d time.Duration) {
	c.mu.Lock()
	c.now += uint32(d / time.Microsecond)
	c.mu.Unlock()
}

// Advance moves virtual time forward without a sleep call.
func (c *Clock) Advance(d time.Duration) {
	c.Sleep(d)
}

// Wake records arming, suspension and restarts. Suspend returns so the host
// harness regains control where hardware would power off.
type Wake struct {
	rec *Recorder

	FailArm bool

	mu        sync.Mutex
	suspended bool
	restarted bool
}

func NewWake(rec *Recorder) *Wake { return &Wake{rec: rec} }

func (w *Wake) Arm() error {
	if w.FailArm {
		return protocol.ErrWakeArm
	}
	w.rec.record("wake-arm")
	return nil
}

func (w *Wake) Suspend() error {
	w.mu.Lock()
	w.suspended = true
	w.mu.Unlock()
	w.rec.record("suspend")
	return nil
}

func (w *Wake) Restart() {
	w.mu.Lock()
	w.restarted = true
	w.mu.Unlock()
	w.rec.record("restart")
}

func (w *Wake) Suspended() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.suspended
}

func (w *Wake) Restarted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.restarted
}

// Log records flushes.
type Log struct {
	rec *Recorder
}

func NewLog(rec *Recorder) *Log { return &Log{rec: rec} }

func (l *Log) Flush() { l.rec.record("log-flush") }
