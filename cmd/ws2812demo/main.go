// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// ws2812demo drives a single WS2812 string plugged into GPIO0 (channel
// 0) and refreshes it once with a solid color, for bring-up
// testing of the DMA engine on real hardware.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/periph-x/ws2812dma"
	"github.com/periph-x/ws2812dma/host/bcm283x"
	"github.com/periph-x/ws2812dma/ws2812dma"
	"github.com/periph-x/ws2812dma/ws2812dma/ws2812color"
)

func mainImpl() error {
	app := cli.NewApp()
	app.Name = "ws2812demo"
	app.Usage = "drive a WS2812 string over the bcm283x DMA engine"
	app.Flags = []cli.Flag{
		cli.IntFlag{Name: "count", Value: 16, Usage: "number of LEDs on the string"},
		cli.StringFlag{Name: "color", Value: "ff0000", Usage: "hex RRGGBB to fill the string with"},
	}
	app.Action = func(c *cli.Context) error {
		return run(c.Int("count"), c.String("color"))
	}
	return app.Run(os.Args)
}

func run(count int, hexColor string) error {
	if _, err := periph.Init(); err != nil {
		return err
	}
	var r, g, b byte
	if _, err := fmt.Sscanf(hexColor, "%02x%02x%02x", &r, &g, &b); err != nil {
		return fmt.Errorf("ws2812demo: invalid --color %q: %w", hexColor, err)
	}

	hw, err := bcm283x.NewWS2812Engine()
	if err != nil {
		return err
	}
	defer hw.Close()
	if err := hw.Initialize(); err != nil {
		return err
	}

	e := ws2812dma.NewEngine(hw)
	hw.SetEngine(e)
	if err := e.Initialize(); err != nil {
		return err
	}

	frame := make([]byte, 0, count*3)
	for i := 0; i < count; i++ {
		frame = ws2812color.AppendGRB(frame, r, g, b)
	}
	var channels [ws2812dma.NumChannels]ws2812dma.Channel
	channels[0] = ws2812dma.Channel{Frame: frame, Index: 0}

	if err := e.Refresh(channels); err != nil {
		return err
	}
	// Refresh is fire-and-forget; give the engine time to stream the
	// frame and run out the reset latch before the process exits and
	// unmaps the DMA registers out from under it.
	time.Sleep(ws2812dma.LatchPeriod + time.Duration(len(frame))*8*ws2812dma.BitPeriod)
	fmt.Printf("wrote %d LEDs, %d transfer errors\n", count, e.ErrorCount())
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "ws2812demo: %s.\n", err)
		os.Exit(1)
	}
}
