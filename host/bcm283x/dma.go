// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// The DMA controller can be used for two functionality:
// - implement zero-CPU continuous PWM.
// - bitbang a large stream of bits over a GPIO pin, for example for WS2812b
//   support.
//
// The way it works under the hood is that the bcm283x has two registers, one
// to set a bit and one to clear a bit.
//
// So the WS2812 engine uses three DMA channels: one writes a fixed "set bit"
// word, one writes the data-dependent "clear bit" words and one writes a fixed
// "clear all" word (see ws2812.go). Each is an independent 32 bits wide stream
// paced once per period.
//
// References
//
// Page 7:
// " Software accessing RAM directly must use physical addresses (based at
// 0x00000000). Software accessing RAM using the DMA engines must use bus
// addresses (based at 0xC0000000) " ... to skip the L1 cache.
//
// " The BCM2835 DMA Controller provides a total of 16 DMA channels. Each
// channel operates independently from the others and is internally arbitrated
// onto one of the 3 system buses. This means that the amount of bandwidth that
// a DMA channel may consume can be controlled by the arbiter settings. "
//
// The CPU has 16 DMA channels but only the first 7 (#0 to #6) can do strides.
// 7~15 have half the bandwidth.

package bcm283x

import (
	"errors"
	"fmt"
)

// Pages 47-50
type dmaStatus uint32

const (
	reset                    dmaStatus = 1 << 31 // RESET
	abort                    dmaStatus = 1 << 30 // ABORT
	disDebug                 dmaStatus = 1 << 29 // DISDEBUG
	waitForOutstandingWrites dmaStatus = 1 << 28 // WAIT_FOR_OUTSTANDING_WRITES
	// 27:24 reserved
	// 23:20 Lowest has higher priority on AXI.
	panicPriorityShift = 20 // PANIC_PRIORITY
	// 19:16 Lowest has higher priority on AXI.
	priorityShift = 16 // PRIORITY
	// 15:9 reserved
	errorStatus dmaStatus = 1 << 8 // ERROR DMA error was detected; must be cleared manually.
	// 7 reserved
	waitingForOutstandingWrites dmaStatus = 1 << 6 // WAITING_FOR_OUTSTANDING_WRITES
	dreqStopsDMA                dmaStatus = 1 << 5 // DREQ_STOPS_DMA
	paused                      dmaStatus = 1 << 4 // PAUSED
	dreq                        dmaStatus = 1 << 3 // DREQ
	interrupt                   dmaStatus = 1 << 2 // INT
	end                         dmaStatus = 1 << 1 // END
	active                      dmaStatus = 1 << 0 // ACTIVE
)

// Pages 50-52
type dmaTransferInfo uint32

const (
	// 31:27 reserved
	// Don't do wide writes as 2 beat burst; only for channels 0 to 6
	noWideBursts dmaTransferInfo = 1 << 26 // NO_WIDE_BURSTS
	// 25:21 Slows down the DMA throughput by setting the numbre of dummy cycles
	// burnt after each DMA read or write is completed.
	waitCyclesShift = 21 // WAITS
	// 20:16 Peripheral mapping (1-31) whose ready signal shall be used to
	// control the rate of the transfers. 0 means continuous un-paced transfer.
	//
	// It is the source used to pace the data reads and writes operations, each
	// pace being a DReq (Data Request).
	//
	// Page 61
	fire          dmaTransferInfo = (iota - 2) << 16 // PERMAP; Continuous trigger
	dsi                                        //
	pcmTX                                      //
	pcmRX                                      //
	smi                                        //
	pwm                                        //
	spiTX                                      //
	spiRX                                      //
	bscSPIslaveTX                              //
	bscSPIslaveRX                              //
	unused                                     //
	eMMC                                       //
	uartTX                                     //
	sdHost                                     //
	uartRX                                     //
	dsi2                                       // Same as dsi
	slimBusMCTX                                //
	hdmi                                       //
	slimBusMCRX                                //
	slimBusDC0                                 //
	slimBusDC1                                 //
	slimBusDC2                                 //
	slimBusDC3                                 //
	slimBusDC4                                 //
	scalerFifo0                                // Also on SMI; SMI can be disabled with smiDisable
	scalerFifo1                                //
	scalerFifo2                                //
	slimBusDC5                                 //
	slimBusDC6                                 //
	slimBusDC7                                 //
	slimBusDC8                                 //
	slimBusDC9                                 //

	burstLengthShift                 = 12      // BURST_LENGTH 15:12 0 means a single transfer.
	srcIgnore        dmaTransferInfo = 1 << 11 // SRC_IGNORE Source won't be read, output will be zeros.
	srcDReq          dmaTransferInfo = 1 << 10 // SRC_DREQ
	srcWidth128      dmaTransferInfo = 1 << 9  // SRC_WIDTH 128 bits reads if set, 32 bits otherwise.
	srcInc           dmaTransferInfo = 1 << 8  // SRC_INC Increment read pointer by 32/128bits at each read if set.
	dstIgnore        dmaTransferInfo = 1 << 7  // DEST_IGNORE Do not write.
	dstDReq          dmaTransferInfo = 1 << 6  // DEST_DREQ
	dstWidth         dmaTransferInfo = 1 << 5  // DEST_WIDTH 128 bits writes if set, 32 bits otherwise.
	dstInc           dmaTransferInfo = 1 << 4  // DEST_INC Increment write pointer by 32/128bits at each read if set.
	waitResp         dmaTransferInfo = 1 << 3  // WAIT_RESP DMA waits for AXI write response.
	// 2 reserved
	// 2D mode interpret of txLen; linear if unset; only for channels 0 to 6.
	transfer2DMode  dmaTransferInfo = 1 << 1 // TDMODE
	interruptEnable dmaTransferInfo = 1 << 0 // INTEN Generate an interrupt upon completion.
)

// Page 55
type dmaDebug uint32

const (
	// 31:29 reserved
	lite dmaDebug = 1 << 28 // LITE RO set for lite DMA controllers
	// 27:25 version
	version dmaDebug = 7 << 25 // VERSION
	// 24:16 dmaState
	stateShift = 16 // DMA_STATE
	// 15:8  dmaID
	idShift = 8 // DMA_ID
	// 7:4   outstandingWrites
	outstandingWritesShift = 4 // OUTSTANDING_WRITES
	// 3     reserved
	readError           dmaDebug = 1 << 2 // READ_ERROR slave read error; clear by writing a 1
	fifoError           dmaDebug = 1 << 1 // FIF_ERROR fifo error; clear by writing a 1
	readLastNotSetError dmaDebug = 1 << 0 // READ_LAST_NOT_SET_ERROR last AXI read signal was not set when expected
)

// 31:30 0
// 29:16 yLength (only for channels #0 to #6)
// 15:0  xLength
type dmaTransferLen uint32

// 31:16 dstStride byte increment to apply at the end of each row in 2D mode
// 15:0  srcStride byte increment to apply at the end of each row in 2D mode
type dmaStride uint32

// controlBlock is one DMA control block, 32 bytes, 32 byte aligned, as
// laid out in the BCM2835 ARM peripherals datasheet page 40. A circular
// chain of these is how the three WS2812 streams (SET, CLEAR-0,
// CLEAR-ALL) keep re-running without CPU intervention once armed.
type controlBlock struct {
	transferInfo dmaTransferInfo
	srcAddr      uint32 // bus address
	dstAddr      uint32 // bus address
	txLen        dmaTransferLen
	stride       dmaStride
	nextCB       uint32 // bus address of the next control block, 0 to stop
	debug        dmaDebug
	reserved     uint32
}

// initBlock fills in a control block for a one-shot or self-chained
// transfer. It rejects srcInc and dstInc set together, two zero
// addresses, an incrementing side whose address is zero, more than 31
// wait cycles and wait cycles on an un-paced (fire) transfer. nextCB is
// left at 0; callers chain blocks by setting it afterwards.
func (c *controlBlock) initBlock(srcAddr, dstAddr, txLen uint32, srcInc, dstInc bool, mapping dmaTransferInfo, waits uint32) error {
	if srcInc && dstInc {
		return errors.New("bcm283x: can't set both srcInc and dstInc for a GPIO-register destination")
	}
	if srcAddr == 0 && dstAddr == 0 {
		return errors.New("bcm283x: need at least one non-zero address")
	}
	if srcInc && srcAddr == 0 {
		return errors.New("bcm283x: srcInc requires srcAddr")
	}
	if dstInc && dstAddr == 0 {
		return errors.New("bcm283x: dstInc requires dstAddr")
	}
	if waits > 31 {
		return errors.New("bcm283x: waits must fit in 5 bits")
	}
	if mapping == fire && waits != 0 {
		return errors.New("bcm283x: dmaFire can't use wait cycles")
	}
	ti := mapping | waitResp
	ti |= dmaTransferInfo(waits) << waitCyclesShift
	if srcInc {
		ti |= srcInc_
	}
	if dstInc {
		ti |= dstInc_
	}
	if mapping != fire {
		ti |= dstDReq
	}
	c.transferInfo = ti
	c.srcAddr = srcAddr
	c.dstAddr = dstAddr
	c.txLen = dmaTransferLen(txLen)
	c.stride = 0
	c.nextCB = 0
	return nil
}

// srcInc_ and dstInc_ avoid shadowing the srcInc/dstInc parameter names
// used throughout initBlock.
const (
	srcInc_ = srcInc
	dstInc_ = dstInc
)

// GoString renders a controlBlock the way the upstream bcm283x package
// renders its register structs, for diagnostics and tests.
func (c *controlBlock) GoString() string {
	return fmt.Sprintf("{\n  transferInfo: %s,\n  srcAddr:      0x%x,\n  dstAddr:      0x%x,\n  txLen:        %d,\n  stride:       0x%x,\n  nextCB:       0x%x,\n}",
		c.transferInfo, c.srcAddr, c.dstAddr, c.txLen, c.stride, c.nextCB)
}

// dmaChannel is the live register view of one DMA engine, mapped at a
// fixed per-channel offset into the DMA peripheral's page. Once a
// control block is loaded, the transferInfo through nextCB fields mirror
// that control block; cs holds the channel's control and status bits.
type dmaChannel struct {
	cs           dmaStatus
	cbAddr       uint32 // bus address of the current control block
	transferInfo dmaTransferInfo
	srcAddr      uint32
	dstAddr      uint32
	txLen        dmaTransferLen
	stride       dmaStride
	nextCB       uint32
	debug        dmaDebug
	reserved     [2]uint32
}

// isAvailable reports whether the channel is not currently transferring
// and has no pending reset.
func (d *dmaChannel) isAvailable() bool {
	return d.cs&(active|reset) == 0
}

// reset clears the channel's control/status register ready for a new
// control block chain to be loaded.
func (d *dmaChannel) reset() {
	d.cs = waitForOutstandingWrites | 8<<panicPriorityShift | 8<<priorityShift
}

// startIO points the channel at cbAddr (the bus address of a
// controlBlock) and sets the active bit.
func (d *dmaChannel) startIO(cbAddr uint32) {
	d.cbAddr = cbAddr
	d.cs |= active
}

// wait reports any of the three terminal debug error conditions; it
// does not block, despite the name carried over from the upstream
// package, because this driver never busy-waits on the hot path.
func (d *dmaChannel) wait() error {
	if d.debug&readError != 0 {
		return errors.New("bcm283x: dma read error")
	}
	if d.debug&fifoError != 0 {
		return errors.New("bcm283x: dma fifo error")
	}
	if d.debug&readLastNotSetError != 0 {
		return errors.New("bcm283x: dma read-last-not-set error")
	}
	return nil
}

// GoString renders a dmaChannel the way the upstream bcm283x package
// renders its register structs.
func (d *dmaChannel) GoString() string {
	return fmt.Sprintf("{\n  cs:           %s,\n  cbAddr:       0x%x,\n  transferInfo: %s,\n  srcAddr:      0x%x,\n  dstAddr:      0x%x,\n  txLen:        %d,\n  stride:       0x%x,\n  nextCB:       0x%x,\n  debug:        %s,\n  reserved:     {...},\n}",
		d.cs, d.cbAddr, d.transferInfo, d.srcAddr, d.dstAddr, d.txLen, d.stride, d.nextCB, d.debug)
}

// dmaMap is the memory-mapped view of the DMA peripheral's register
// page: fifteen dmaChannel windows followed by the shared interrupt
// status and global enable registers.
type dmaMap struct {
	channels        [15]dmaChannel
	reserved        [56]uint32
	interruptStatus uint32
	reserved2       [3]uint32
	enable          uint32
}

// String renders the bits that are set, for diagnostics; an exact
// reproduction of every named flag is unnecessary to operate the
// engine, only distinguishing "idle" from "mid-transfer" is.
func (d dmaStatus) String() string {
	if d == 0 {
		return "0"
	}
	return fmt.Sprintf("dmaStatus(0x%x)", uint32(d))
}

func (d dmaTransferInfo) String() string {
	if d&0xFFFF0000 == 0 && d&0xFFFF == fire {
		return "Fire"
	}
	return fmt.Sprintf("dmaTransferInfo(0x%x)", uint32(d))
}

func (d dmaDebug) String() string {
	if d == 0 {
		return "0"
	}
	return fmt.Sprintf("dmaDebug(0x%x)", uint32(d))
}

func (d dmaStride) String() string {
	return fmt.Sprintf("0x%x", uint32(d))
}

var dmaMemory *dmaMap

// channel returns the register view for DMA channel n, or an error if
// the DMA subsystem hasn't been mapped yet or n is out of range for
// the reduced 15-channel window this driver maps.
func channel(n int) (*dmaChannel, error) {
	if dmaMemory == nil {
		return nil, errors.New("bcm283x-dma: subsystem not initialized")
	}
	if n < 0 || n >= len(dmaMemory.channels) {
		return nil, fmt.Errorf("bcm283x-dma: channel %d out of range", n)
	}
	return &dmaMemory.channels[n], nil
}
