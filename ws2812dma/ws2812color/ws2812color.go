// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ws2812color packs RGB triples into the per-channel byte order
// WS2812-family LEDs expect. It is a byte-packing convenience only: the
// engine itself never interprets frame bytes, and animation, gamma and
// color correction remain the caller's responsibility.
package ws2812color

// GRB packs r, g, b into the green-red-blue byte order standard WS2812
// strings expect. The engine is otherwise color-order-agnostic; use RGB
// or BRG below for strings wired differently.
func GRB(r, g, b byte) [3]byte {
	return [3]byte{g, r, b}
}

// RGB packs r, g, b in red-green-blue order, for strings that expect it.
func RGB(r, g, b byte) [3]byte {
	return [3]byte{r, g, b}
}

// BRG packs r, g, b in blue-red-green order, used by some WS2811 strings.
func BRG(r, g, b byte) [3]byte {
	return [3]byte{b, r, g}
}

// AppendGRB appends the GRB encoding of r, g, b to frame and returns the
// extended slice, for building a Channel.Frame one pixel at a time.
func AppendGRB(frame []byte, r, g, b byte) []byte {
	px := GRB(r, g, b)
	return append(frame, px[0], px[1], px[2])
}
