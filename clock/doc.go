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
Package clock implements a software clock for machines without a real time clock.

Wall clock time is derived from a free-running millisecond counter (see package tick).
Elapsed ticks are folded into epoch seconds lazily, every time the clock is read,
so there is no background goroutine.

Supported methods include
  - reading current time with NowMs and Now
  - jumping to a reference time with Set, and shifting it with Adjust
  - slowing down or speeding up the clock with SetDriftCorrection: every N seconds
    one millisecond is added or removed by moving the tick baseline, so the
    correction never shows up as a visible jump
  - SetDriftCorrectionByError, which picks N from a fractional frequency error
  - calendar field accessors such as Hour, Day or Weekday, backed by a single
    entry cache

A Clock is safe for concurrent use.
*/
package clock
