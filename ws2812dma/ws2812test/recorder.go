// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ws2812test provides a ws2812dma.Hardware implementation that
// records every call instead of touching real registers, for use as the
// trace recorder spec section 8's testable properties are defined
// against.
package ws2812test

import "time"

// BitPeriod is one period's worth of the three GPIO-register writes the
// real hardware performs in order: raise all active pins (Set), clear
// the pins whose current bit is 0 at T0H (Clear0), clear all active
// pins at T1H (ClearAll).
type BitPeriod struct {
	Set      uint16
	Clear0   uint16
	ClearAll uint16
}

// Call records one Hardware method invocation, in order, for assertions
// that care about the choreography rather than just its GPIO-level
// effect (e.g. that ForceLow precedes EnterLatch).
type Call struct {
	Method string
	Mask   uint16
	Half   int
	Period time.Duration
}

// Recorder is a ws2812dma.Hardware that never touches real memory. It
// expands every slot it is handed into the BitPeriod triple the real
// timer/DMA choreography would have produced, using the most recently
// armed active-pin mask for the Set and ClearAll phases.
type Recorder struct {
	Periods   []BitPeriod
	Calls     []Call
	ForcedLow []uint16

	mask uint16
}

// ArmStreaming records the call and expands the pre-filled ring into
// its first sixteen bit periods (both halves).
func (r *Recorder) ArmStreaming(activeMask uint16, bitPeriod time.Duration, initial [16]uint16) error {
	r.mask = activeMask
	r.Calls = append(r.Calls, Call{Method: "ArmStreaming", Mask: activeMask, Period: bitPeriod})
	r.appendHalf(initial[:8])
	r.appendHalf(initial[8:])
	return nil
}

// WriteSlots records the call and expands the refilled half into its
// eight bit periods.
func (r *Recorder) WriteSlots(slots [8]uint16, half int) error {
	r.Calls = append(r.Calls, Call{Method: "WriteSlots", Half: half})
	r.appendHalf(slots[:])
	return nil
}

func (r *Recorder) appendHalf(slots []uint16) {
	for _, clear0 := range slots {
		r.Periods = append(r.Periods, BitPeriod{Set: r.mask, Clear0: clear0, ClearAll: r.mask})
	}
}

// ForceLow records the mask written to the bit-reset register outside
// of the normal per-period choreography (the idle clamp and latch
// entry).
func (r *Recorder) ForceLow(activeMask uint16) error {
	r.ForcedLow = append(r.ForcedLow, activeMask)
	r.Calls = append(r.Calls, Call{Method: "ForceLow", Mask: activeMask})
	return nil
}

// EnterLatch records the latching transition.
func (r *Recorder) EnterLatch(activeMask uint16, latchPeriod time.Duration) error {
	r.Calls = append(r.Calls, Call{Method: "EnterLatch", Mask: activeMask, Period: latchPeriod})
	return nil
}

// ExitLatch records the return to idle.
func (r *Recorder) ExitLatch() error {
	r.Calls = append(r.Calls, Call{Method: "ExitLatch"})
	return nil
}
