// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpio

import "fmt"

// PinAlias implements PinIO for a pin that is an alias of another
// registered pin, exposing it under a different name while delegating
// every operation to the pin it wraps.
type PinAlias struct {
	PinIO
	N string
}

// String returns the alias name followed by the real pin.
func (a *PinAlias) String() string {
	return fmt.Sprintf("%s(%s)", a.N, a.PinIO)
}

// Name returns the alias name.
func (a *PinAlias) Name() string {
	return a.N
}

// Real returns the real pin behind this alias.
func (a *PinAlias) Real() PinIO {
	return a.PinIO
}

// RegisterAlias registers an alias for a pin that was already registered.
func RegisterAlias(a *PinAlias) error {
	lock.Lock()
	defer lock.Unlock()
	if _, ok := byName[a.N]; ok {
		return fmt.Errorf("gpio: registering the same alias %s twice", a.N)
	}
	byName[a.N] = a
	return nil
}
