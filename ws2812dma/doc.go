// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ws2812dma implements the bit-planed DMA refresh engine that
// drives up to eight independent WS2812-family LED strings in lockstep
// from a single GPIO bank.
//
// The engine is hardware-agnostic: it talks to a concrete peripheral
// set (a real bcm283x timer/DMA/GPIO trio, or a trace recorder in
// tests) through the Hardware interface. It owns no goroutines of its
// own; a Hardware implementation is responsible for delivering the two
// notifications described in HandleDataEvent and HandleLatchTimerUpdate,
// whether that comes from a real interrupt, a SIGIO-style signal, or a
// polling goroutine.
package ws2812dma
