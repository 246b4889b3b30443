// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ws2812dma

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestTransposeSingleChannel is scenario 1 from spec section 8: a single
// byte 0xA5 on channel 0 at GPIO bit 0.
func TestTransposeSingleChannel(t *testing.T) {
	var channels [NumChannels]Channel
	channels[0] = Channel{Frame: []byte{0xA5}, Index: 0}

	got := transposeByte(0, &channels)
	want := [8]uint16{0, 1, 0, 1, 1, 0, 1, 0}
	require.Equal(t, want, got)
}

// TestTransposeTwoChannels is scenario 2: two same-length channels at
// GPIO bits 0 and 1.
func TestTransposeTwoChannels(t *testing.T) {
	var channels [NumChannels]Channel
	channels[0] = Channel{Frame: []byte{0xFF, 0x00}, Index: 0}
	channels[1] = Channel{Frame: []byte{0x00, 0xFF}, Index: 1}

	byte0 := transposeByte(0, &channels)
	for _, s := range byte0 {
		require.Equal(t, uint16(0b10), s)
	}
	byte1 := transposeByte(1, &channels)
	for _, s := range byte1 {
		require.Equal(t, uint16(0b01), s)
	}
}

// TestTransposeAllEmpty is scenario 3: every channel inactive, every
// emitted word must be zero.
func TestTransposeAllEmpty(t *testing.T) {
	var channels [NumChannels]Channel
	got := transposeByte(0, &channels)
	require.Equal(t, [8]uint16{}, got)
	require.Equal(t, uint16(0), activeMask(&channels))
}

// TestTransposeInverse checks the law in spec section 8: bit pk of word
// j equals NOT bit (7-j) of bk, for arbitrary bytes at arbitrary
// channel positions.
func TestTransposeInverse(t *testing.T) {
	var channels [NumChannels]Channel
	bytes := [NumChannels]byte{0x00, 0xFF, 0xA5, 0x5A, 0x81, 0x18, 0x3C, 0xC3}
	for i, b := range bytes {
		channels[i] = Channel{Frame: []byte{b}, Index: i}
	}

	words := transposeByte(0, &channels)
	for k, b := range bytes {
		pk := channelGPIO[k]
		for j := 0; j < 8; j++ {
			gotBit := (words[j] >> pk) & 1
			wantBit := uint16((^b >> uint(7-j)) & 1)
			require.Equalf(t, wantBit, gotBit, "channel %d bit %d", k, j)
		}
	}
}

// TestTransposeInactiveChannelNeutrality covers the invariant: once pos
// runs past a channel's length, its bit position reads 0 in every
// emitted clear word. transposeByte sets a slot bit when the inverted
// byte bit is 1, and the substituted 0xff inverts to 0x00, so the pin is
// absent from every clear word once its channel runs out.
func TestTransposeInactiveChannelNeutrality(t *testing.T) {
	var channels [NumChannels]Channel
	channels[3] = Channel{Frame: []byte{0xFF}, Index: 3}

	// pos 1 is past channel 3's single byte.
	got := transposeByte(1, &channels)
	for _, s := range got {
		require.Equal(t, uint16(0), s&(1<<channelGPIO[3]))
	}
}

// TestTransposePermutedIndex ensures the transposer drives pins by
// Channel.Index, not by a descriptor's position in the array: a channel
// parked at array slot 5 but carrying Index 2 must still land in GPIO
// bit 2.
func TestTransposePermutedIndex(t *testing.T) {
	var channels [NumChannels]Channel
	channels[5] = Channel{Frame: []byte{0x00}, Index: 2}

	got := transposeByte(0, &channels)
	want := 1 << channelGPIO[2]
	for _, s := range got {
		require.Equal(t, uint16(want), s)
	}
	require.Equal(t, uint16(1<<channelGPIO[2]), activeMask(&channels))
}

func TestActiveMask(t *testing.T) {
	var channels [NumChannels]Channel
	channels[0] = Channel{Frame: []byte{1, 2, 3}, Index: 0}
	channels[3] = Channel{Frame: []byte{1}, Index: 3}
	channels[7] = Channel{Frame: []byte{}, Index: 7}

	mask := activeMask(&channels)
	require.Equal(t, uint16(1<<0|1<<3), mask)
}

func TestMaxChainLengthUnequalLengths(t *testing.T) {
	var channels [NumChannels]Channel
	channels[0] = Channel{Frame: make([]byte, 3)}
	channels[1] = Channel{Frame: make([]byte, 1)}

	// scenario 4: [3,1,0,0,0,0,0,0] -> 3 + 2 + 3 = 8.
	require.Equal(t, 8, maxChainLength(&channels))
}
