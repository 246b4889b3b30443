// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"testing"
	"time"
)

func TestArmLatchCompare_notInitialized(t *testing.T) {
	defer func() { timerMemory = nil }()
	timerMemory = nil
	if err := armLatchCompare(300 * time.Microsecond); err == nil {
		t.Fatal("expected an error with no timer subsystem mapped")
	}
	if latchCompareFired() {
		t.Fatal("latchCompareFired must report false with no timer subsystem mapped")
	}
}

func TestArmLatchCompare(t *testing.T) {
	defer func() { timerMemory = nil }()
	timerMemory = &timerMap{clo: 1000}
	if err := armLatchCompare(300 * time.Microsecond); err != nil {
		t.Fatal(err)
	}
	if timerMemory.c3 != 1300 {
		t.Fatalf("c3 = %d, want 1300", timerMemory.c3)
	}
	// CS is write-1-to-clear: arming clears any stale match by writing M3.
	if timerMemory.cs != timerM3 {
		t.Fatalf("cs = %d, want the M3 clear write", timerMemory.cs)
	}
	// The fake map is plain memory; model the hardware clearing the flag.
	timerMemory.cs = 0
	if latchCompareFired() {
		t.Fatal("M3 hasn't been set yet")
	}
	timerMemory.cs = timerM3
	if !latchCompareFired() {
		t.Fatal("expected M3 to be reported once set")
	}
	if timerMemory.cs != timerM3 {
		t.Fatal("latchCompareFired must clear M3 by writing 1 to it after reporting it")
	}
}
