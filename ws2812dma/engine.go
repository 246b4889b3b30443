// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ws2812dma

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Timing constants for the WS2812 protocol: a 1.25µs bit period, ~0.4µs
// high time for a logical 0, ~0.8µs for a logical 1, and a reset-latch
// gap of roughly 300µs (240 bit periods), well above the 50µs the
// datasheet requires.
const (
	BitPeriod   = 1250 * time.Nanosecond
	T0H         = 400 * time.Nanosecond
	T1H         = 800 * time.Nanosecond
	LatchPeriod = 300 * time.Microsecond
)

type engineState uint32

const (
	stateIdle engineState = iota
	stateStreaming
	stateLatching
)

func (s engineState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateStreaming:
		return "streaming"
	case stateLatching:
		return "latching"
	default:
		return fmt.Sprintf("engineState(%d)", uint32(s))
	}
}

// Engine is the bit-planed DMA refresh engine. The zero value is not
// usable; construct with NewEngine.
//
// Engine executes Refresh atomically with respect to the foreground
// caller and assumes it is idle at entry: concurrent refreshes are not
// supported and no interlock is enforced, matching the hardware this
// models. The published Channel array is written by Refresh before
// ArmStreaming is called and is thereafter only read by the data-event
// handler; once streaming begins the caller must not touch it again
// until the engine returns to idle.
type Engine struct {
	hw          Hardware
	bitPeriod   time.Duration
	latchPeriod time.Duration

	state engineState // only touched from Refresh and the two handlers below; never concurrently

	channels  [NumChannels]Channel
	cursor    int
	maxLength int
	mask      uint16

	errorCount atomic.Uint32
}

// NewEngine constructs an Engine bound to hw, using the WS2812 default
// timings. Call Initialize once before the first Refresh.
func NewEngine(hw Hardware) *Engine {
	return &Engine{hw: hw, bitPeriod: BitPeriod, latchPeriod: LatchPeriod, state: stateIdle}
}

// Initialize performs one-time setup: it leaves the engine idle with no
// waveform on any pin. It is not safe to call concurrently with Refresh
// or with a pending interrupt, and it is expected to run exactly once
// before the driver is used.
func (e *Engine) Initialize() error {
	return e.hw.ForceLow(0)
}

// Refresh publishes a new frame and begins transmission. channels is an
// ordered array of eight descriptors; a zero-length Frame marks a
// channel inactive for this refresh. Refresh returns immediately:
// transmission and the reset latch proceed via HandleDataEvent and
// HandleLatchTimerUpdate, called from whatever notification mechanism
// the Hardware implementation uses.
//
// The caller must not invoke Refresh again until the engine has
// returned to idle; doing so is undefined behavior, exactly as in the
// firmware this is ported from.
func (e *Engine) Refresh(channels [NumChannels]Channel) error {
	e.channels = channels
	e.cursor = 0
	e.mask = activeMask(&e.channels)
	e.maxLength = maxChainLength(&e.channels)

	var ring [dmaBufferSize]uint16
	for i := 0; i < dmaBufferSize; i += 8 {
		slots := transposeByte(e.cursor, &e.channels)
		copy(ring[i:i+8], slots[:])
		e.cursor++
	}

	// This call is the publication point: once it returns, the hardware
	// may begin reading e.channels concurrently from interrupt context.
	if err := e.hw.ArmStreaming(e.mask, e.bitPeriod, ring); err != nil {
		return err
	}
	e.state = stateStreaming
	return nil
}

// HandleDataEvent is the single ISR entry point for the data DMA
// stream's combined interrupt. half and complete may both be set on the
// same entry; transferError is independent of either and never aborts
// the frame, it only increments the error counter.
func (e *Engine) HandleDataEvent(half, complete, transferError bool) {
	if transferError {
		e.errorCount.Add(1)
	}
	if half {
		e.refill(0)
	}
	if complete {
		e.refill(dmaBufferFillSize)
		if e.cursor >= e.maxLength {
			e.enterLatch()
		}
	}
}

// refill regenerates the half of the ring starting at slot base, or
// forces the active pins low if the cursor has already run past
// maxLength (the defensive idle clamp described in spec section 4.4).
func (e *Engine) refill(base int) {
	if e.cursor >= e.maxLength {
		e.hw.ForceLow(e.mask)
		return
	}
	slots := transposeByte(e.cursor, &e.channels)
	e.cursor++
	e.hw.WriteSlots(slots, base/dmaBufferFillSize)
}

// enterLatch transitions streaming -> latching: it forces the pins low,
// disables the PWM compare outputs, and rearms the timer for the
// reset-latch gap.
func (e *Engine) enterLatch() {
	e.state = stateLatching
	e.hw.ForceLow(e.mask)
	e.hw.EnterLatch(e.mask, e.latchPeriod)
}

// HandleLatchTimerUpdate is the single ISR entry point for the timer's
// update interrupt. It is only meaningful in the latching state; a
// spurious call while idle or streaming is ignored, since by
// construction the latch timer only runs once the last
// transfer-complete event has already transitioned the engine here.
func (e *Engine) HandleLatchTimerUpdate() {
	if e.state != stateLatching {
		return
	}
	e.hw.ExitLatch()
	e.state = stateIdle
}

// State reports the engine's current state, for diagnostics only; the
// engine itself never branches on an externally-observed state.
func (e *Engine) State() string {
	return e.state.String()
}

// ErrorCount returns the number of DMA transfer errors observed since
// construction. It never resets.
func (e *Engine) ErrorCount() uint32 {
	return e.errorCount.Load()
}
