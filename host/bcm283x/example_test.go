// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x_test

import (
	"fmt"

	"github.com/periph-x/ws2812dma/host/bcm283x"
)

func ExamplePresent() {
	fmt.Printf("running on a bcm283x: %t\n", bcm283x.Present())
	// Output:
	// running on a bcm283x: false
}
