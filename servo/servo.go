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

/*
Package servo estimates how fast or slow a local clock runs compared to a reference.

Offsets between the local clock and the reference are fed in as they are measured.
The servo returns the fractional frequency error the local clock should be corrected by,
positive when the local clock runs fast.
*/
package servo

// Servo structure has values common for any type of servo
type Servo struct {
	StepThreshold      int64 // offset in ms above which clock has to be stepped, 0 disables
	FirstStepThreshold int64 // same as StepThreshold, but only for the first sample
	FirstUpdate        bool  // true until the first sample was processed
	maxError           float64
}

// State provides the result of servo calculation
type State uint8

// All the states of servo
const (
	StateInit   State = 0
	StateJump   State = 1
	StateLocked State = 2
	StateFilter State = 3
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateJump:
		return "JUMP"
	case StateLocked:
		return "LOCKED"
	case StateFilter:
		return "FILTER"
	}
	return "UNSUPPORTED"
}

// DefaultServoConfig generates default servo struct
func DefaultServoConfig() Servo {
	return Servo{
		maxError:           500e-6,
		StepThreshold:      0,
		FirstStepThreshold: 1000,
		FirstUpdate:        true,
	}
}

// SetMaxError limits the estimated error magnitude
func (s *Servo) SetMaxError(maxError float64) {
	s.maxError = maxError
}

func (s *Servo) clamp(v float64) float64 {
	if v < -s.maxError {
		return -s.maxError
	}
	if v > s.maxError {
		return s.maxError
	}
	return v
}

func (s *Servo) shouldStep(absOffset int64) bool {
	return (s.FirstUpdate && s.FirstStepThreshold > 0 && s.FirstStepThreshold < absOffset) ||
		(s.StepThreshold > 0 && s.StepThreshold < absOffset)
}
