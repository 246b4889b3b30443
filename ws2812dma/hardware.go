// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ws2812dma

import "time"

// Hardware is the seam between the hardware-agnostic state machine in
// this package and a concrete timer/DMA/GPIO peripheral set. A real
// implementation (host/bcm283x.WS2812Engine) drives actual registers; a
// test implementation (ws2812test.Recorder) appends to a trace.
//
// Every method here corresponds to one piece of the choreography in
// spec section 4: arming the three DMA streams and starting the timer,
// refilling one half of the ring buffer, forcing the active pins low,
// and the latch handoff. None of them may block for longer than a
// fraction of a bit period; Engine calls them from the same goroutine
// that received the hardware notification, which stands in for
// interrupt context.
type Hardware interface {
	// ArmStreaming starts a new refresh: stop any prior streaming, clear
	// status flags, load the active-pin mask and initial ring contents,
	// and start the timer so the first SET/CLEAR-0/CLEAR-ALL triplet
	// fires within bitPeriod.
	ArmStreaming(activeMask uint16, bitPeriod time.Duration, initial [dmaBufferSize]uint16) error

	// WriteSlots regenerates one half of the ring buffer. half is 0 for
	// the half-transfer event (slots 0..7) and 1 for the
	// transfer-complete event (slots 8..15).
	WriteSlots(slots [dmaBufferFillSize]uint16, half int) error

	// ForceLow drives every active pin low immediately by writing
	// activeMask to the bit-reset register. Used both as the defensive
	// idle clamp once the cursor has run past maxLength, and at latch
	// entry.
	ForceLow(activeMask uint16) error

	// EnterLatch stops the timer, disables the three DMA requests and
	// the two PWM compare outputs, and rearms the same timer for the
	// reset-latch gap with its update interrupt enabled.
	EnterLatch(activeMask uint16, latchPeriod time.Duration) error

	// ExitLatch stops the latch timer, disables its update interrupt and
	// re-enables the two PWM compare outputs ahead of the next refresh.
	ExitLatch() error
}
