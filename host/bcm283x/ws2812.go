// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/periph-x/ws2812dma/host/pmem"
	"github.com/periph-x/ws2812dma/ws2812dma"
)

// DMA channels 1, 2 and 5 carry the CLEAR-0, CLEAR-ALL and SET streams
// respectively, the same numbering the original STM32 firmware gave
// its three DMA streams; only the peripheral they talk to changed.
const (
	clear0Channel   = 1
	clearAllChannel = 2
	setChannel      = 5
)

// sdramBusAlias is the bus address offset the DMA controller must use
// to reach SDRAM bypassing the L1/L2 cache. See dma.go's package
// comment, page 7 of the BCM2835 ARM peripherals datasheet.
const sdramBusAlias = 0xC0000000

// peripheralBusAddress converts a peripheral's ARM physical address
// (as returned by getBaseAddress, e.g. 0x3F200000 for GPIO) into the
// VideoCore bus address the DMA controller's srcAddr/dstAddr fields
// require, by replacing the physical alias's top byte with the
// peripheral bus alias 0x7E000000.
func peripheralBusAddress(phys uint64) uint32 {
	return 0x7E000000 | uint32(phys&0x00FFFFFF)
}

const (
	gpsetOffset = 0x1C // GPSET0, gpioMap word index 7
	gpclrOffset = 0x28 // GPCLR0, gpioMap word index 10
)

// dmaBuffers is the uncached scratch memory the three control blocks
// and the clear-0 ring buffer live in. It is allocated as a single
// physically contiguous page so every field has a stable bus address
// for the lifetime of the driver.
type dmaBuffers struct {
	setCB      controlBlock
	clear0CB   controlBlock
	clearAllCB controlBlock
	ring       [16]uint16 // clear0's data-dependent source words
	setWord    uint16     // fixed SET source: the active-pin mask
	clearWord  uint16     // fixed CLEAR-ALL source: the active-pin mask
}

// WS2812Engine implements ws2812dma.Hardware by driving the bcm283x
// DMA controller, PWM peripheral and GPIO bank directly. One PWM
// channel (PWM1, on GPIO18) paces all three DMA streams: the original
// STM32 firmware fires all three streams off the same timer channel,
// and bcm283x's single shared PWM DREQ line is the host equivalent.
type WS2812Engine struct {
	mem *pmem.MemAlloc
	buf *dmaBuffers
	bus uint32 // bus address of buf

	dataPin *Pin

	engine  *ws2812dma.Engine
	stop    chan struct{}
	running atomic.Bool
}

// NewWS2812Engine allocates the DMA scratch buffers and binds to
// GPIO18 (PWM1_OUT), whose PWM channel paces the three DMA streams; the
// LED data itself goes out through GPSET0/GPCLR0 on the GPIO bank bits
// the channels select. Initialize must still be called to program
// the clock, PWM and DMA peripherals before the first Refresh.
func NewWS2812Engine() (*WS2812Engine, error) {
	if gpioMemory == nil || dmaMemory == nil || pwmMemory == nil || clockMemory == nil {
		return nil, errors.New("bcm283x-ws2812: subsystems not mapped; call periph.Init() first")
	}
	m, err := pmem.Alloc(4096)
	if err != nil {
		return nil, fmt.Errorf("bcm283x-ws2812: %w", err)
	}
	w := &WS2812Engine{mem: m, dataPin: GPIO18, stop: make(chan struct{})}
	if err := m.AsPOD(&w.buf); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("bcm283x-ws2812: %w", err)
	}
	w.bus = uint32(m.PhysAddr()) | sdramBusAlias
	return w, nil
}

// SetEngine binds the hardware-agnostic state machine this driver
// notifies once watch is running.
func (w *WS2812Engine) SetEngine(e *ws2812dma.Engine) {
	w.engine = e
}

func (w *WS2812Engine) busOf(field uintptr) uint32 {
	return w.bus + uint32(field)
}

func (w *WS2812Engine) offsetOf(p interface{}, base *dmaBuffers) uintptr {
	return reflect.ValueOf(p).Pointer() - reflect.ValueOf(base).Pointer()
}

// Initialize configures the PWM clock, arms PWM1's DREQ and routes
// GPIO18 to the PWM peripheral's alternate function. It must run once
// before the first ArmStreaming.
func (w *WS2812Engine) Initialize() error {
	if err := w.dataPin.setAlt(alt5); err != nil {
		return err
	}
	// The PWM byte clock paces one DREQ per bit period; see
	// ws2812dma.BitPeriod for the 1.25us budget this divides the 19.2MHz
	// oscillator into.
	if _, _, err := setPWMClockSource(19200000, int64(time.Second/ws2812dma.BitPeriod)); err != nil {
		return fmt.Errorf("bcm283x-ws2812: %w", err)
	}
	pwmMemory.reset()
	pwmMemory.dmaCfg = enab | 7<<8 | 7
	pwmMemory.rng1 = 32
	pwmMemory.ctl = usef1 | pwen1
	return nil
}

// ArmStreaming implements ws2812dma.Hardware.
func (w *WS2812Engine) ArmStreaming(activeMask uint16, bitPeriod time.Duration, initial [16]uint16) error {
	setCh, err := channel(setChannel)
	if err != nil {
		return err
	}
	clear0Ch, err := channel(clear0Channel)
	if err != nil {
		return err
	}
	clearAllCh, err := channel(clearAllChannel)
	if err != nil {
		return err
	}
	for _, ch := range []*dmaChannel{setCh, clear0Ch, clearAllCh} {
		ch.reset()
	}

	w.buf.setWord = activeMask
	w.buf.clearWord = activeMask
	w.buf.ring = initial

	gpBase := peripheralBusAddress(getBaseAddress())
	gpSetAddr := gpBase + gpsetOffset
	gpClrAddr := gpBase + gpclrOffset

	srcSet := w.busOf(w.offsetOf(&w.buf.setWord, w.buf))
	srcClear0 := w.busOf(w.offsetOf(&w.buf.ring[0], w.buf))
	srcClearAll := w.busOf(w.offsetOf(&w.buf.clearWord, w.buf))

	if err := w.buf.setCB.initBlock(srcSet, gpSetAddr, 4, false, false, pwm, 0); err != nil {
		return err
	}
	w.buf.setCB.nextCB = w.busOf(w.offsetOf(&w.buf.setCB, w.buf))

	// clear0 is one continuous srcInc transfer across the whole 32-byte
	// ring, re-chained to itself so it wraps back to ring[0] forever;
	// watch() tracks the live srcAddr to know which half was just
	// consumed, the same trick rpi_ws281x-style drivers use to time
	// refills without a real end-of-transfer interrupt.
	if err := w.buf.clear0CB.initBlock(srcClear0, gpClrAddr, uint32(len(w.buf.ring)*2), true, false, pwm, 0); err != nil {
		return err
	}
	w.buf.clear0CB.nextCB = w.busOf(w.offsetOf(&w.buf.clear0CB, w.buf))

	if err := w.buf.clearAllCB.initBlock(srcClearAll, gpClrAddr, 4, false, false, pwm, 0); err != nil {
		return err
	}
	w.buf.clearAllCB.nextCB = w.busOf(w.offsetOf(&w.buf.clearAllCB, w.buf))

	setCh.startIO(w.busOf(w.offsetOf(&w.buf.setCB, w.buf)))
	clear0Ch.startIO(w.busOf(w.offsetOf(&w.buf.clear0CB, w.buf)))
	clearAllCh.startIO(w.busOf(w.offsetOf(&w.buf.clearAllCB, w.buf)))

	if w.running.CompareAndSwap(false, true) {
		go w.watch()
	}
	return nil
}

// WriteSlots implements ws2812dma.Hardware.
func (w *WS2812Engine) WriteSlots(slots [8]uint16, half int) error {
	if half != 0 && half != 1 {
		return fmt.Errorf("bcm283x-ws2812: invalid half %d", half)
	}
	copy(w.buf.ring[half*8:half*8+8], slots[:])
	return nil
}

// ForceLow implements ws2812dma.Hardware.
func (w *WS2812Engine) ForceLow(activeMask uint16) error {
	if gpioMemory == nil {
		return errors.New("bcm283x-ws2812: gpio subsystem not initialized")
	}
	gpioMemory.outputClear[0] = uint32(activeMask)
	return nil
}

// EnterLatch implements ws2812dma.Hardware. It resets the three DMA
// channels, forces the active pins low and arms the System Timer C3
// compare for latchPeriod; the PWM peripheral is left running.
func (w *WS2812Engine) EnterLatch(activeMask uint16, latchPeriod time.Duration) error {
	for _, n := range []int{setChannel, clear0Channel, clearAllChannel} {
		ch, err := channel(n)
		if err != nil {
			return err
		}
		ch.reset()
	}
	if err := w.ForceLow(activeMask); err != nil {
		return err
	}
	return armLatchCompare(latchPeriod)
}

// ExitLatch implements ws2812dma.Hardware. It only clears the System
// Timer M3 match flag; the DMA channels stay reset until the next
// ArmStreaming.
func (w *WS2812Engine) ExitLatch() error {
	if timerMemory != nil {
		timerMemory.cs = timerM3
	}
	return nil
}

// Close releases the DMA scratch memory and stops the notification
// goroutine.
func (w *WS2812Engine) Close() error {
	if w.running.CompareAndSwap(true, false) {
		close(w.stop)
	}
	return w.mem.Close()
}

// watch is the notification goroutine standing in for the STM32
// firmware's DMA/timer ISRs: it polls the clear0 channel's progress
// through the ring buffer and the latch compare register, translating
// both into calls on the bound Engine. Busy-polling trades CPU time
// for not requiring a kernel-side interrupt bridge; a production
// driver would instead block on a uio irqfd.
func (w *WS2812Engine) watch() {
	// The DMA starts reading the first half of the ring.
	var lastHalf int = 0
	for {
		select {
		case <-w.stop:
			return
		default:
		}
		ch, err := channel(clear0Channel)
		if err != nil {
			return
		}
		if ch.debug&(readError|fifoError|readLastNotSetError) != 0 {
			w.engine.HandleDataEvent(false, false, true)
			ch.debug = readError | fifoError | readLastNotSetError
			continue
		}
		ringBase := w.busOf(w.offsetOf(&w.buf.ring[0], w.buf))
		ringMid := ringBase + uint32(len(w.buf.ring))
		half := 0
		if ch.srcAddr >= ringMid {
			half = 1
		}
		if half != lastHalf {
			lastHalf = half
			// Reading the second half means the first was just consumed
			// (half-transfer); wrapping back to the first means the
			// second was (transfer-complete).
			w.engine.HandleDataEvent(half == 1, half == 0, false)
		}
		if latchCompareFired() {
			w.engine.HandleLatchTimerUpdate()
		}
		time.Sleep(ws2812dma.BitPeriod)
	}
}
