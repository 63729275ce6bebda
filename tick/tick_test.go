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
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSinceWraps(t *testing.T) {
	require.Equal(t, uint32(10), Since(5, math.MaxUint32-4))
	require.Equal(t, uint32(1500), Since(2500, 1000))
	require.Equal(t, uint32(0), Since(42, 42))
}

func TestManual(t *testing.T) {
	m := NewManual(math.MaxUint32 - 1)
	require.Equal(t, uint32(math.MaxUint32-1), m.Millis())
	m.Advance(3)
	require.Equal(t, uint32(1), m.Millis())
	m.Set(1000)
	require.Equal(t, uint32(1000), m.Millis())
}

func TestMonotonicAdvances(t *testing.T) {
	src := NewMonotonic()
	a := src.Millis()
	time.Sleep(20 * time.Millisecond)
	b := src.Millis()
	require.GreaterOrEqual(t, Since(b, a), uint32(15))
}
