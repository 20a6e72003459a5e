// Copyright (C) 2021 Vojtech Aschenbrenner <v@asch.cz>

package sim

import (
	"sync"
)

var (
	serial int64
	mutex  sync.Mutex
)

// Returns the serial number for the next dispatched message and
// increments the counter. Serials only appear in debug logs, they carry
// no protocol meaning in the sim.
func next() int64 {
	mutex.Lock()
	defer mutex.Unlock()

	serial++

	return serial
}
