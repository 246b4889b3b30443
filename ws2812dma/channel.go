// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ws2812dma

// NumChannels is the number of LED strings the engine multiplexes onto a
// single GPIO bank, one per bit of the bank's bit-planed words.
const NumChannels = 8

// channelGPIO maps a channel index (0..NumChannels-1) to the bit position
// within the 16-bit GPIO bank that carries its waveform. It is a
// compile-time constant table, as required by the engine's open-loop,
// fixed-topology design.
var channelGPIO = [NumChannels]uint{0, 1, 2, 3, 4, 5, 6, 7}

// Channel is one LED string's view onto this refresh's frame bytes.
//
// Frame is borrowed: the engine never mutates it and never retains it
// past the refresh it was published in. A nil or empty Frame marks the
// channel inactive for this refresh; its pin is not driven.
type Channel struct {
	Frame []byte
	Index int
}

func (c Channel) lengthInBytes() int {
	return len(c.Frame)
}

func (c Channel) active() bool {
	return len(c.Frame) > 0
}

// byteAt returns the frame byte at pos, substituting 0xff once pos runs
// past this channel's length. A substituted 0xff XORs to 0x00 in the
// transposer, so the channel never clears past T1H for the remainder of
// the refresh: it free-runs as a stream of logical 1s during the tail,
// which only matters once the active-pin mask has already excluded it.
func (c Channel) byteAt(pos int) byte {
	if pos < len(c.Frame) {
		return c.Frame[pos]
	}
	return 0xff
}

// activeMask returns the 16-bit union of GPIO bits for channels with a
// non-zero length in this refresh.
func activeMask(channels *[NumChannels]Channel) uint16 {
	var mask uint16
	for _, c := range channels {
		if c.active() {
			mask |= 1 << channelGPIO[c.Index]
		}
	}
	return mask
}

// maxChainLength returns the number of byte-periods the refresh must run
// for: the longest channel, plus two bit-buffer's worth of drain, plus
// three bytes of all-ones terminator padding so every string settles
// into a quiescent high-time before the reset latch. The terminator
// padding is a safety margin empirically sufficient for WS2812;
// implementers may extend it for other line lengths.
func maxChainLength(channels *[NumChannels]Channel) int {
	max := 0
	for _, c := range channels {
		if n := c.lengthInBytes(); n > max {
			max = n
		}
	}
	return max + dmaBufferSize/8 + terminatorPaddingBytes
}
