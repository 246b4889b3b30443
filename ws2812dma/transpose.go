// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ws2812dma

// dmaBufferSize is the ring buffer depth in 16-bit slots (DMA_BUFFER_SIZE
// in the original firmware); dmaBufferFillSize is one half of it, the
// unit the refill state machine regenerates on each half/complete event.
const (
	dmaBufferSize         = 16
	dmaBufferFillSize     = dmaBufferSize / 2
	terminatorPaddingBytes = 3
)

// transposeByte computes the eight 16-bit GPIO-clear words that drive
// the eight sub-slots of bit-period pos, one word per bit of the
// MSB-first byte from every channel, fused with a gather into each
// channel's GPIO bit position.
//
// slot[j] holds bit (7-j) of (frame byte XOR 0xff) for every channel: the
// ring buffer holds clear-at-T0H masks, not data masks, so the CLEAR-0
// DMA destination can be the GPIO bit-reset register directly with no
// inversion step on the hot path. This inversion must be preserved by
// any port; see DESIGN.md.
func transposeByte(pos int, channels *[NumChannels]Channel) [8]uint16 {
	var slots [8]uint16
	for ch := 0; ch < NumChannels; ch++ {
		inv := channels[ch].byteAt(pos) ^ 0xff
		bit := channelGPIO[channels[ch].Index]
		for j := 0; j < 8; j++ {
			if inv&(1<<uint(7-j)) != 0 {
				slots[j] |= 1 << bit
			}
		}
	}
	return slots
}
