// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import "testing"

func TestDmaStatus_String(t *testing.T) {
	if s := dmaStatus(0).String(); s != "0" {
		t.Fatal(s)
	}
	if s := active.String(); s == "0" {
		t.Fatal("non-zero status must not render as 0")
	}
}

func TestDmaTransferInfo_String(t *testing.T) {
	if s := dmaTransferInfo(fire).String(); s != "Fire" {
		t.Fatal(s)
	}
	if s := pwm.String(); s == "Fire" {
		t.Fatal("pwm mapping must not render as Fire")
	}
}

func TestDmaDebug_String(t *testing.T) {
	if s := dmaDebug(0).String(); s != "0" {
		t.Fatal(s)
	}
	if s := readError.String(); s == "0" {
		t.Fatal("non-zero debug must not render as 0")
	}
}

func TestDmaStride_String(t *testing.T) {
	if s := dmaStride(0).String(); s != "0x0" {
		t.Fatal(s)
	}
}

func TestControlBlock(t *testing.T) {
	c := controlBlock{}
	if c.initBlock(1, 1, 4, true, true, fire, 0) == nil {
		t.Fatal("can't set both srcInc and dstInc")
	}
	if c.initBlock(0, 0, 4, false, false, fire, 0) == nil {
		t.Fatal("need at least one non-zero address")
	}
	if c.initBlock(0, 1, 4, true, false, fire, 0) == nil {
		t.Fatal("srcInc requires srcAddr")
	}
	if c.initBlock(1, 0, 4, false, true, fire, 0) == nil {
		t.Fatal("dstInc requires dstAddr")
	}
	if c.initBlock(1, 1, 4, false, false, fire, 32) == nil {
		t.Fatal("waits must fit in 5 bits")
	}
	if c.initBlock(1, 1, 4, false, false, fire, 1) == nil {
		t.Fatal("dmaFire can't use wait cycles")
	}

	if err := c.initBlock(1, 0, 4, false, false, fire, 0); err != nil {
		t.Fatal(err)
	}
	if err := c.initBlock(0, 1, 4, false, false, fire, 0); err != nil {
		t.Fatal(err)
	}
	if err := c.initBlock(1, 0, 4, true, false, fire, 0); err != nil {
		t.Fatal(err)
	}
	if err := c.initBlock(0, 1, 4, false, true, pwm, 0); err != nil {
		t.Fatal(err)
	}
	if c.transferInfo&dstDReq == 0 {
		t.Fatal("non-fire mappings must request dstDReq pacing")
	}
}

func TestDmaChannel(t *testing.T) {
	d := dmaChannel{}
	if !d.isAvailable() {
		t.Fatal("empty channel is available")
	}
	d = dmaChannel{cs: active}
	if d.isAvailable() {
		t.Fatal("active channel is not available")
	}
	d = dmaChannel{debug: readError}
	if d.wait() == nil {
		t.Fatal("read error")
	}
	d = dmaChannel{debug: fifoError}
	if d.wait() == nil {
		t.Fatal("fifo error")
	}
	d = dmaChannel{debug: readLastNotSetError}
	if d.wait() == nil {
		t.Fatal("read last not set error")
	}
	d = dmaChannel{}
	if err := d.wait(); err != nil {
		t.Fatal(err)
	}
}

func TestDmaChannel_startIO(t *testing.T) {
	d := dmaChannel{}
	d.reset()
	d.startIO(0x1000)
	if d.cbAddr != 0x1000 {
		t.Fatal(d.cbAddr)
	}
	if d.cs&active == 0 {
		t.Fatal("startIO must set the active bit")
	}
}

func TestChannel(t *testing.T) {
	defer func() { dmaMemory = nil }()
	dmaMemory = nil
	if _, err := channel(0); err == nil {
		t.Fatal("expected an error with no dma subsystem mapped")
	}
	dmaMemory = &dmaMap{}
	if _, err := channel(-1); err == nil {
		t.Fatal("expected an error for a negative channel")
	}
	if _, err := channel(len(dmaMemory.channels)); err == nil {
		t.Fatal("expected an error for a channel past the mapped window")
	}
	ch, err := channel(5)
	if err != nil {
		t.Fatal(err)
	}
	if ch != &dmaMemory.channels[5] {
		t.Fatal("channel(5) must alias dmaMemory.channels[5]")
	}
}
