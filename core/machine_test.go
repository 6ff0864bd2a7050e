package core

import (
	"errors"
	"testing"
	"time"

	"github.com/selune/beaconfw/protocol"
	"github.com/selune/beaconfw/state"
)

// recorder collects the ordered side effects of a cycle so tests can assert
// the quiesce ordering without hardware.
type recorder struct {
	events []string
}

func (r *recorder) add(ev string) { r.events = append(r.events, ev) }

func (r *recorder) has(ev string) bool {
	for _, e := range r.events {
		if e == ev {
			return true
		}
	}
	return false
}

func (r *recorder) index(ev string) int {
	for i, e := range r.events {
		if e == ev {
			return i
		}
	}
	return -1
}

type mockRadio struct {
	rec           *recorder
	failAdvertise bool
	failStop      bool
	name          string
	payload       []byte
}

func (m *mockRadio) Advertise(name string, payload []byte) error {
	if m.failAdvertise {
		return protocol.ErrRadioInit
	}
	m.name = name
	m.payload = append([]byte(nil), payload...)
	m.rec.add("radio-start")
	return nil
}

func (m *mockRadio) Stop() error {
	if m.failStop {
		return protocol.ErrRadioInit
	}
	m.rec.add("radio-stop")
	return nil
}

type mockIndicator struct {
	rec  *recorder
	fail bool
}

func (m *mockIndicator) Set(c Color) error {
	if m.fail {
		return errors.New("indicator dead")
	}
	m.rec.add("indicator-set")
	return nil
}

func (m *mockIndicator) Off() error {
	if m.fail {
		return errors.New("indicator dead")
	}
	m.rec.add("indicator-off")
	return nil
}

type mockID struct{ id [6]byte }

func (m *mockID) HardwareID() [6]byte { return m.id }

// mockTrigger reads inactive until it has been polled pressAfter times; with
// pressAfter == 0 it reads the fixed held value.
type mockTrigger struct {
	held       bool
	pressAfter int
	polls      int
}

func (m *mockTrigger) Active() bool {
	if m.pressAfter > 0 {
		m.polls++
		return m.polls >= m.pressAfter
	}
	return m.held
}

type mockBoot struct{ cause WakeCause }

func (m *mockBoot) WakeCause() WakeCause { return m.cause }

// mockClock advances virtual time instead of sleeping.
type mockClock struct{ now uint32 }

func (m *mockClock) Micros() uint32        { return m.now }
func (m *mockClock) Sleep(d time.Duration) { m.now += uint32(d / time.Microsecond) }

type mockWake struct {
	rec       *recorder
	failArm   bool
	suspended bool
	restarted bool
}

func (m *mockWake) Arm() error {
	if m.failArm {
		return protocol.ErrWakeArm
	}
	m.rec.add("wake-arm")
	return nil
}

func (m *mockWake) Suspend() error {
	m.rec.add("suspend")
	m.suspended = true
	return nil
}

func (m *mockWake) Restart() {
	m.rec.add("restart")
	m.restarted = true
}

type mockLog struct{ rec *recorder }

func (m *mockLog) Flush() { m.rec.add("log-flush") }

const (
	testKey   = uint32(0x12345678)
	testBatch = uint16(0x0001)
)

var testID = [6]byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}

// testSeed is DeriveSeed(testID, testKey, testBatch).
const testSeed = uint32(0xB88E9AA5)

type rig struct {
	device    *Device
	store     *state.PersistentState
	rec       *recorder
	radio     *mockRadio
	indicator *mockIndicator
	trigger   *mockTrigger
	boot      *mockBoot
	clock     *mockClock
	wake      *mockWake
}

func newRig(initialized bool, cause WakeCause) *rig {
	rec := &recorder{}
	r := &rig{
		store:     &state.PersistentState{},
		rec:       rec,
		radio:     &mockRadio{rec: rec},
		indicator: &mockIndicator{rec: rec},
		trigger:   &mockTrigger{},
		boot:      &mockBoot{cause: cause},
		clock:     &mockClock{now: 1000},
		wake:      &mockWake{rec: rec},
	}
	r.store.ResetToDefaults()
	if initialized {
		r.store.Seed = testSeed
		r.store.Counter = 7
		r.store.Initialized = true
		r.store.State = state.NormalMode
	}
	hal := HAL{
		Radio:     r.radio,
		Indicator: r.indicator,
		ID:        &mockID{id: testID},
		Trigger:   r.trigger,
		Boot:      r.boot,
		Clock:     r.clock,
		Wake:      r.wake,
		Log:       &mockLog{rec: rec},
	}
	r.device = NewDevice(r.store, hal, testKey, testBatch)
	return r
}

func TestNextMode(t *testing.T) {
	tests := []struct {
		name        string
		initialized bool
		cause       WakeCause
		trigger     bool
		want        state.DeviceState
	}{
		{"uninitialized, power-on", false, WakePowerOn, false, state.FactoryMode},
		{"uninitialized, power-on, trigger held", false, WakePowerOn, true, state.FactoryMode},
		{"uninitialized, sleep-wake", false, WakeFromSleep, false, state.FactoryMode},
		{"initialized, power-on", true, WakePowerOn, false, state.NormalMode},
		{"initialized, power-on, trigger held", true, WakePowerOn, true, state.FactoryMode},
		{"initialized, sleep-wake", true, WakeFromSleep, false, state.NormalMode},
		{"initialized, sleep-wake, trigger held", true, WakeFromSleep, true, state.NormalMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextMode(tt.initialized, tt.cause, tt.trigger)
			if got != tt.want {
				t.Errorf("NextMode(%v, %v, %v) = %v, want %v",
					tt.initialized, tt.cause, tt.trigger, got, tt.want)
			}
		})
	}
}

func TestFirstBootRunsFactory(t *testing.T) {
	r := newRig(false, WakePowerOn)

	if err := r.device.RunCycle(); err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}

	if r.store.Seed != testSeed {
		t.Errorf("Seed = %08X, want %08X", r.store.Seed, testSeed)
	}
	if !r.store.Initialized {
		t.Error("Initialized = false after factory")
	}
	if r.store.Counter != 1 {
		t.Errorf("Counter = %v, want 1 after first broadcast", r.store.Counter)
	}
	if !r.wake.suspended {
		t.Error("device did not suspend after the first cycle")
	}
}

func TestCorruptedStoreResetsBeforeUse(t *testing.T) {
	r := newRig(false, WakePowerOn)
	// Garbage with a wrong magic must never be read as state.
	*r.store = state.PersistentState{
		Magic:       0x12341234,
		Seed:        0xFFFFFFFF,
		Counter:     999,
		Initialized: true,
		State:       state.NormalMode,
	}

	if err := r.device.RunCycle(); err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}

	if r.store.Seed != testSeed {
		t.Errorf("Seed = %08X, want freshly derived %08X", r.store.Seed, testSeed)
	}
	if r.store.Counter != 1 {
		t.Errorf("Counter = %v, want 1 (garbage counter must not survive)", r.store.Counter)
	}
}

func TestFactoryWaitTimesOut(t *testing.T) {
	r := newRig(false, WakePowerOn)
	start := r.clock.now

	if err := r.device.RunCycle(); err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}

	elapsed := r.clock.now - start
	if elapsed < protocol.FactoryWaitTimeout*1000 {
		t.Errorf("factory wait elapsed %dus, want at least the %dms timeout",
			elapsed, protocol.FactoryWaitTimeout)
	}
	if !r.store.Initialized {
		t.Error("timeout path did not initialise the device")
	}
}

func TestFactoryWaitTriggerCutsShort(t *testing.T) {
	r := newRig(false, WakePowerOn)
	r.trigger.pressAfter = 5
	start := r.clock.now

	if err := r.device.RunCycle(); err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}

	// One broadcast window elapses after the wait; everything beyond that
	// came from factory polling and must be well under the full timeout.
	elapsed := r.clock.now - start - protocol.BroadcastWindow*1000
	if elapsed >= protocol.FactoryWaitTimeout*1000 {
		t.Errorf("trigger did not cut the factory wait short (elapsed %dus)", elapsed)
	}
	if !r.store.Initialized {
		t.Error("trigger path did not initialise the device")
	}
}

func TestSleepWakeWithTriggerStaysNormal(t *testing.T) {
	r := newRig(true, WakeFromSleep)
	r.trigger.held = true

	if err := r.device.RunCycle(); err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}

	if r.store.Seed != testSeed {
		t.Errorf("Seed = %08X, want untouched %08X", r.store.Seed, testSeed)
	}
	if r.store.Counter != 8 {
		t.Errorf("Counter = %v, want 8 (7 persisted + 1)", r.store.Counter)
	}
}

func TestPowerOnTriggerForcesFactoryReset(t *testing.T) {
	r := newRig(true, WakePowerOn)
	r.store.Seed = 0x11111111 // pretend an older personalisation
	r.trigger.held = true

	if err := r.device.RunCycle(); err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}

	if r.store.Seed != testSeed {
		t.Errorf("Seed = %08X, want re-derived %08X", r.store.Seed, testSeed)
	}
	if r.store.Counter != 1 {
		t.Errorf("Counter = %v, want restarted at 1", r.store.Counter)
	}
	if !r.store.Initialized {
		t.Error("Initialized = false after factory reset")
	}
}

func TestBroadcastPayload(t *testing.T) {
	r := newRig(true, WakeFromSleep)
	ts := r.clock.now

	if err := r.device.RunCycle(); err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}

	if r.radio.name != protocol.DeviceName {
		t.Errorf("advertised name = %q, want %q", r.radio.name, protocol.DeviceName)
	}
	p := protocol.DecodePayload(r.radio.payload)
	if p == nil {
		t.Fatalf("broadcast payload % X does not decode", r.radio.payload)
	}
	if p.Timestamp != ts {
		t.Errorf("payload timestamp = %v, want %v", p.Timestamp, ts)
	}
	if want := protocol.GenerateCode(testSeed, ts); p.Code != want {
		t.Errorf("payload code = %08X, want %08X", p.Code, want)
	}
}

func TestSuspendOrdering(t *testing.T) {
	r := newRig(true, WakeFromSleep)

	if err := r.device.RunCycle(); err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}

	want := []string{
		"indicator-set",
		"radio-start",
		"radio-stop",
		"log-flush",
		"indicator-off",
		"wake-arm",
		"suspend",
	}
	if len(r.rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", r.rec.events, want)
	}
	for i := range want {
		if r.rec.events[i] != want[i] {
			t.Fatalf("events = %v, want %v", r.rec.events, want)
		}
	}
}

func TestRadioFailureNeverSuspends(t *testing.T) {
	r := newRig(true, WakeFromSleep)
	r.radio.failAdvertise = true

	err := r.device.RunCycle()
	if err != protocol.ErrRestarted {
		t.Fatalf("RunCycle() error = %v, want %v", err, protocol.ErrRestarted)
	}

	if r.wake.suspended {
		t.Error("error path suspended the device")
	}
	if !r.wake.restarted {
		t.Error("error path did not force a restart")
	}
	if r.store.State != state.ErrorState {
		t.Errorf("State = %v, want %v", r.store.State, state.ErrorState)
	}
	if r.store.LastError != state.ErrRadioInitFailed {
		t.Errorf("LastError = %v, want %v", r.store.LastError, state.ErrRadioInitFailed)
	}
	if r.rec.has("wake-arm") {
		t.Error("error path armed the wake source")
	}
}

func TestStopFailureAlsoRestarts(t *testing.T) {
	r := newRig(true, WakeFromSleep)
	r.radio.failStop = true

	if err := r.device.RunCycle(); err != protocol.ErrRestarted {
		t.Fatalf("RunCycle() error = %v, want %v", err, protocol.ErrRestarted)
	}
	if r.wake.suspended {
		t.Error("suspended after a failed radio stop")
	}
}

func TestErrorSignalBlinks(t *testing.T) {
	r := newRig(true, WakeFromSleep)
	r.radio.failAdvertise = true

	_ = r.device.RunCycle()

	blinks := 0
	for _, ev := range r.rec.events {
		if ev == "indicator-set" {
			blinks++
		}
	}
	// One green set before the failed broadcast attempt, plus the red blinks.
	if want := 1 + protocol.ErrorBlinkCount; blinks != want {
		t.Errorf("indicator set %d times, want %d", blinks, want)
	}
	if r.rec.index("restart") < r.rec.index("log-flush") {
		t.Error("restart ran before the log flush")
	}
}

func TestArmFailureAbortsSuspend(t *testing.T) {
	r := newRig(true, WakeFromSleep)
	r.wake.failArm = true

	err := r.device.RunCycle()
	if err != protocol.ErrWakeArm {
		t.Fatalf("RunCycle() error = %v, want %v", err, protocol.ErrWakeArm)
	}

	if r.wake.suspended {
		t.Error("suspended with no armed wake source")
	}
	if r.wake.restarted {
		t.Error("arming failure must stay awake, not restart")
	}
	// Quiesce still completed before the abort.
	if !r.rec.has("radio-stop") || !r.rec.has("indicator-off") {
		t.Errorf("quiesce incomplete before abort: %v", r.rec.events)
	}
}

func TestIndicatorFailureDegradesOnly(t *testing.T) {
	r := newRig(true, WakeFromSleep)
	r.indicator.fail = true

	if err := r.device.RunCycle(); err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}

	if !r.wake.suspended {
		t.Error("indicator failure stopped the cycle")
	}
	if r.store.LastError != state.ErrIndicatorInitFailed {
		t.Errorf("LastError = %v, want %v", r.store.LastError, state.ErrIndicatorInitFailed)
	}
}

func TestInvalidStateEnumFails(t *testing.T) {
	r := newRig(true, WakeFromSleep)
	r.store.State = state.DeviceState(200)

	if err := r.device.RunCycle(); err != protocol.ErrRestarted {
		t.Fatalf("RunCycle() error = %v, want %v", err, protocol.ErrRestarted)
	}
	if r.store.LastError != state.ErrInvalidState {
		t.Errorf("LastError = %v, want %v", r.store.LastError, state.ErrInvalidState)
	}
	if r.wake.suspended {
		t.Error("invalid-state path suspended the device")
	}
}

func TestSteadyStateCycles(t *testing.T) {
	r := newRig(true, WakeFromSleep)

	for i := 0; i < 3; i++ {
		if err := r.device.RunCycle(); err != nil {
			t.Fatalf("cycle %d: RunCycle() error = %v", i, err)
		}
	}

	if r.store.Counter != 10 {
		t.Errorf("Counter = %v, want 10 after three more broadcasts", r.store.Counter)
	}
	if r.store.Seed != testSeed {
		t.Errorf("Seed drifted to %08X", r.store.Seed)
	}
	if r.store.State != state.NormalMode {
		t.Errorf("State = %v, want %v", r.store.State, state.NormalMode)
	}
}
