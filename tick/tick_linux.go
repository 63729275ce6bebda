//go:build linux

/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package tick

import (
	"golang.org/x/sys/unix"
)

type monotonic struct{}

// NewMonotonic returns a counter backed by CLOCK_MONOTONIC
func NewMonotonic() Source {
	return monotonic{}
}

// Millis returns CLOCK_MONOTONIC in milliseconds truncated to 32 bits
func (monotonic) Millis() uint32 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		// CLOCK_MONOTONIC is always supported on linux
		panic(err)
	}
	return uint32(ts.Nano() / 1000000)
}
