// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"reflect"
	"strconv"
	"strings"

	"github.com/periph-x/ws2812dma"
	"github.com/periph-x/ws2812dma/conn/gpio"
	"github.com/periph-x/ws2812dma/conn/pin"
	"github.com/periph-x/ws2812dma/host/distro"
	"github.com/periph-x/ws2812dma/host/pmem"
)

// GPIO0 to GPIO21, the pins this driver registers with conn/gpio. The
// WS2812 engine writes LED data to the GPIO bank bits its channels
// select, through GPSET0/GPCLR0, and uses GPIO18 for PWM pacing. The
// CPU's higher-numbered GPIOs are not registered.
var (
	GPIO0  *Pin
	GPIO1  *Pin
	GPIO2  *Pin
	GPIO3  *Pin
	GPIO4  *Pin
	GPIO5  *Pin
	GPIO6  *Pin
	GPIO7  *Pin
	GPIO8  *Pin
	GPIO9  *Pin
	GPIO10 *Pin
	GPIO11 *Pin
	GPIO12 *Pin
	GPIO13 *Pin
	GPIO14 *Pin
	GPIO15 *Pin
	GPIO16 *Pin
	GPIO17 *Pin
	GPIO18 *Pin // PWM output under alt5; paces the engine's DMA streams
	GPIO19 *Pin
	GPIO20 *Pin
	GPIO21 *Pin
)

// Present returns true if running on a Broadcom bcm283x based CPU.
func Present() bool {
	if isArm {
		hardware, ok := distro.CPUInfo()["Hardware"]
		return ok && strings.HasPrefix(hardware, "BCM")
	}
	return false
}

// Pin is a GPIO number (GPIOnn) on BCM238(5|6|7).
//
// The engine only ever drives pins as push-pull outputs; this is not a
// general purpose gpio.PinIO, unlike the upstream driver it is adapted
// from. Input, pull resistors and edge detection are not implemented:
// WS2812 strings are write-only.
type Pin struct {
	number      int
	name        string
	defaultPull gpio.Pull
}

// String returns the pin name, ex: "GPIO18".
func (p *Pin) String() string {
	return p.name
}

// Name returns the pin name, ex: "GPIO18".
func (p *Pin) Name() string {
	return p.name
}

// Number returns the pin number.
func (p *Pin) Number() int {
	return p.number
}

// Function returns the current pin function, ex: "Out/Low".
func (p *Pin) Function() string {
	switch f := p.function(); f {
	case in:
		return "In/" + p.Read().String()
	case out:
		return "Out/" + p.Read().String()
	default:
		return "<Alt>"
	}
}

// Read returns the current pin level.
func (p *Pin) Read() gpio.Level {
	if gpioMemory == nil {
		return gpio.Low
	}
	return gpio.Level((gpioMemory.level[p.number/32] & (1 << uint(p.number&31))) != 0)
}

// DefaultPull returns the default pull for the function. bcm283x
// cannot read back the pull resistor actually in effect.
func (p *Pin) DefaultPull() gpio.Pull {
	return p.defaultPull
}

// PWM is not supported: the engine drives the PWM peripheral directly
// for bit-period pacing rather than per-pin duty cycling.
func (p *Pin) PWM(duty int) error {
	return p.wrap(errors.New("pwm duty cycling not supported, use WS2812Engine instead"))
}

// Out sets a pin as a push-pull output at the given level.
func (p *Pin) Out(l gpio.Level) error {
	if gpioMemory == nil {
		return p.wrap(errors.New("subsystem not initialized"))
	}
	offset := p.number / 32
	// Change output before changing mode to not create any glitch.
	if l == gpio.Low {
		gpioMemory.outputClear[offset] = 1 << uint(p.number&31)
	} else {
		gpioMemory.outputSet[offset] = 1 << uint(p.number&31)
	}
	p.setFunction(out)
	return nil
}

// setAlt configures the pin for the named alternate function, used to
// route GPIO18/GPIO19 to the PWM peripheral's two channels.
func (p *Pin) setAlt(f function) error {
	if gpioMemory == nil {
		return p.wrap(errors.New("subsystem not initialized"))
	}
	p.setFunction(f)
	return nil
}

func (p *Pin) function() function {
	if gpioMemory == nil {
		return alt5
	}
	return function((gpioMemory.functionSelect[p.number/10] >> uint((p.number%10)*3)) & 7)
}

func (p *Pin) setFunction(f function) {
	off := p.number / 10
	shift := uint(p.number%10) * 3
	gpioMemory.functionSelect[off] = (gpioMemory.functionSelect[off] &^ (7 << shift)) | (uint32(f) << shift)
}

func (p *Pin) wrap(err error) error {
	return fmt.Errorf("bcm283x-gpio (%s): %w", p, err)
}

// Each pin can have one of 8 functions.
const (
	in   function = 0
	out  function = 1
	alt0 function = 4
	alt1 function = 5
	alt2 function = 6
	alt3 function = 7
	alt4 function = 3
	alt5 function = 2 // PWM0/PWM1 on GPIO18/GPIO19
)

var gpioMemory *gpioMap

// cpuPins is all the pins exposed by this trimmed driver.
var cpuPins = []Pin{
	{number: 0, name: "GPIO0", defaultPull: gpio.PullUp},
	{number: 1, name: "GPIO1", defaultPull: gpio.PullUp},
	{number: 2, name: "GPIO2", defaultPull: gpio.PullUp},
	{number: 3, name: "GPIO3", defaultPull: gpio.PullUp},
	{number: 4, name: "GPIO4", defaultPull: gpio.PullUp},
	{number: 5, name: "GPIO5", defaultPull: gpio.PullUp},
	{number: 6, name: "GPIO6", defaultPull: gpio.PullUp},
	{number: 7, name: "GPIO7", defaultPull: gpio.PullUp},
	{number: 8, name: "GPIO8", defaultPull: gpio.PullUp},
	{number: 9, name: "GPIO9", defaultPull: gpio.PullDown},
	{number: 10, name: "GPIO10", defaultPull: gpio.PullDown},
	{number: 11, name: "GPIO11", defaultPull: gpio.PullDown},
	{number: 12, name: "GPIO12", defaultPull: gpio.PullDown},
	{number: 13, name: "GPIO13", defaultPull: gpio.PullDown},
	{number: 14, name: "GPIO14", defaultPull: gpio.PullDown},
	{number: 15, name: "GPIO15", defaultPull: gpio.PullDown},
	{number: 16, name: "GPIO16", defaultPull: gpio.PullDown},
	{number: 17, name: "GPIO17", defaultPull: gpio.PullDown},
	{number: 18, name: "GPIO18", defaultPull: gpio.PullDown},
	{number: 19, name: "GPIO19", defaultPull: gpio.PullDown},
	{number: 20, name: "GPIO20", defaultPull: gpio.PullDown},
	{number: 21, name: "GPIO21", defaultPull: gpio.PullDown},
}

func init() {
	GPIO0 = &cpuPins[0]
	GPIO1 = &cpuPins[1]
	GPIO2 = &cpuPins[2]
	GPIO3 = &cpuPins[3]
	GPIO4 = &cpuPins[4]
	GPIO5 = &cpuPins[5]
	GPIO6 = &cpuPins[6]
	GPIO7 = &cpuPins[7]
	GPIO8 = &cpuPins[8]
	GPIO9 = &cpuPins[9]
	GPIO10 = &cpuPins[10]
	GPIO11 = &cpuPins[11]
	GPIO12 = &cpuPins[12]
	GPIO13 = &cpuPins[13]
	GPIO14 = &cpuPins[14]
	GPIO15 = &cpuPins[15]
	GPIO16 = &cpuPins[16]
	GPIO17 = &cpuPins[17]
	GPIO18 = &cpuPins[18]
	GPIO19 = &cpuPins[19]
	GPIO20 = &cpuPins[20]
	GPIO21 = &cpuPins[21]
}

// Mapping as
// https://www.raspberrypi.org/wp-content/uploads/2012/02/BCM2835-ARM-Peripherals.pdf
// pages 90-91. Only the registers this driver touches are named; the
// rest exist purely to keep field offsets correct.
type gpioMap struct {
	functionSelect [6]uint32 // GPFSEL0~GPFSEL5
	dummy0         uint32
	outputSet      [2]uint32 // GPSET0-GPSET1
	dummy1         uint32
	outputClear    [2]uint32 // GPCLR0-GPCLR1
	dummy2         uint32
	level          [2]uint32 // GPLEV0-GPLEV1
	dummy3         uint32
	eventDetectStatus           [2]uint32
	dummy4                      uint32
	risingEdgeDetectEnable      [2]uint32
	dummy5                      uint32
	fallingEdgeDetectEnable     [2]uint32
	dummy6                      uint32
	highDetectEnable            [2]uint32
	dummy7                      uint32
	lowDetectEnable              [2]uint32
	dummy8                      uint32
	asyncRisingEdgeDetectEnable  [2]uint32
	dummy9                      uint32
	asyncFallingEdgeDetectEnable [2]uint32
	dummy10                     uint32
	pullEnable      uint32
	pullEnableClock [2]uint32
	dummy11         uint32
}

// function specifies the active functionality of a pin.
type function uint8

// getBaseAddress queries the virtual file system to retrieve the base
// address of the GPIO registers, defaulting to the documented address
// if it could not be determined.
func getBaseAddress() uint64 {
	items, _ := ioutil.ReadDir("/sys/bus/platform/drivers/pinctrl-bcm2835/")
	for _, item := range items {
		if item.Mode()&os.ModeSymlink != 0 {
			parts := strings.SplitN(path.Base(item.Name()), ".", 2)
			if len(parts) != 2 {
				continue
			}
			base, err := strconv.ParseUint(parts[0], 16, 64)
			if err != nil {
				continue
			}
			return base
		}
	}
	return 0x3F200000
}

// driverGPIO implements periph.Driver.
type driverGPIO struct{}

func (d *driverGPIO) String() string {
	return "bcm283x-gpio"
}

func (d *driverGPIO) Prerequisites() []string {
	return nil
}

func (d *driverGPIO) Init() (bool, error) {
	if !Present() {
		return false, errors.New("bcm283x CPU not detected")
	}
	m, err := pmem.MapGPIO()
	if err != nil {
		var err2 error
		m, err2 = pmem.Map(getBaseAddress(), 4096)
		if err2 != nil {
			if distro.IsRaspbian() && os.IsNotExist(err) && os.IsPermission(err2) {
				return true, fmt.Errorf("/dev/gpiomem wasn't found; please upgrade to Raspbian or run as root")
			}
			if os.IsPermission(err2) {
				return true, fmt.Errorf("need more access, try as root: %v", err)
			}
			return true, err
		}
	}
	if err := m.Struct(reflect.ValueOf(&gpioMemory)); err != nil {
		return true, err
	}
	for i := range cpuPins {
		if err := gpio.Register(&cpuPins[i]); err != nil {
			return true, err
		}
	}
	return true, nil
}

func init() {
	if isArm {
		periph.MustRegister(&driverGPIO{})
	}
}

var _ gpio.PinOut = &Pin{}
var _ pin.Pin = &Pin{}
