// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"errors"
	"time"
)

const (
	// 31:4 reserved
	timerM3 = 1 << 3 // M3
	timerM2 = 1 << 2 // M2
	timerM1 = 1 << 1 // M1
	timerM0 = 1 << 0 // M0
)

// Page 173
type timerCtl uint32

// timerMap is the free-running System Timer, page 172. It is the
// engine's reset-latch clock: clo is a 1MHz counter that never stops,
// and c3 is the compare register the latch phase arms to request a
// match status bit once latchPeriod has elapsed.
type timerMap struct {
	cs  timerCtl
	clo uint32
	chi uint32
	c0  uint32
	c1  uint32
	c2  uint32
	c3  uint32
}

var timerMemory *timerMap

// armLatchCompare schedules a C3 match latchPeriod out from now and
// clears any stale M3 status from a previous round.
func armLatchCompare(latchPeriod time.Duration) error {
	if timerMemory == nil {
		return errors.New("bcm283x-timer: subsystem not initialized")
	}
	timerMemory.cs = timerM3
	ticks := uint32(latchPeriod / time.Microsecond)
	timerMemory.c3 = timerMemory.clo + ticks
	return nil
}

// latchCompareFired reports and clears the C3 match status.
func latchCompareFired() bool {
	if timerMemory == nil || timerMemory.cs&timerM3 == 0 {
		return false
	}
	timerMemory.cs = timerM3
	return true
}
