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
Package calendar converts between epoch seconds and broken-down calendar fields.

Epoch seconds are a uint32 count of seconds since 1970-01-01T00:00:00 UTC.
Years are kept as an 8-bit offset from 1970, which bounds the representable
range to the years 1970..2225; the 32-bit seconds counter rolls over in 2106
well before that.

There are no time zones and no leap seconds: every day is 86400 seconds long.
*/
package calendar
