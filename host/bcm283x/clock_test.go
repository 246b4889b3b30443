// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import "testing"

func TestClockMap_zero(t *testing.T) {
	c := clockMap{}
	if c.ctl != 0 || c.div != 0 {
		t.Fatal("zero value clockMap should read as all zero")
	}
}

func TestSetPWMClockSource_notInitialized(t *testing.T) {
	defer func() {
		clockMemory = nil
		pwmMemory = nil
	}()
	clockMemory = nil
	pwmMemory = nil
	if _, _, err := setPWMClockSource(19200000, 800000); err == nil {
		t.Fatal("expected an error with no clock subsystem mapped")
	}

	clockMemory = &clockMap{}
	if _, _, err := setPWMClockSource(19200000, 800000); err == nil {
		t.Fatal("expected an error with no pwm subsystem mapped")
	}
}

func TestSetPWMClockSource_invalidFrequencies(t *testing.T) {
	defer func() {
		clockMemory = nil
		pwmMemory = nil
	}()
	clockMemory = &clockMap{}
	pwmMemory = &pwmMap{}
	if _, _, err := setPWMClockSource(0, 800000); err == nil {
		t.Fatal("expected an error for a zero source frequency")
	}
	if _, _, err := setPWMClockSource(19200000, 0); err == nil {
		t.Fatal("expected an error for a zero target frequency")
	}
	if _, _, err := setPWMClockSource(19200000, 1); err == nil {
		t.Fatal("expected an error for a divisor above diviMax")
	}
}
