// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bcm283x drives the WS2812 DMA refresh engine on a Broadcom
// bcm283x (Raspberry Pi) host: memory-mapped GPIO output, the DMA
// controller's circular control-block chains, the PWM peripheral as
// the shared pacing source for all three streams, the clock manager,
// and the free-running System Timer used for the reset-latch gap.
//
// See ws2812.go for the concrete ws2812dma.Hardware binding.
//
// Datasheet
//
// https://www.raspberrypi.org/wp-content/uploads/2012/02/BCM2835-ARM-Peripherals.pdf
//
// Its crowd-sourced errata: http://elinux.org/BCM2835_datasheet_errata
//
// Another doc about PCM and PWM:
// https://fr.scribd.com/doc/127599939/BCM2835-Audio-clocks
package bcm283x
