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

package calendar

import (
	"sync"
)

// Cache remembers the last decomposed instant, so querying several
// fields of the same instant runs Decompose once.
// Zero value is an empty cache. Cache is safe for concurrent use.
type Cache struct {
	sync.Mutex
	valid  bool
	t      uint32
	fields Fields

	hits   int64
	misses int64
}

// Fields returns broken-down fields of t
func (c *Cache) Fields(t uint32) Fields {
	c.Lock()
	defer c.Unlock()
	if c.valid && c.t == t {
		c.hits++
		return c.fields
	}
	c.misses++
	c.fields = Decompose(t)
	c.t = t
	c.valid = true
	return c.fields
}

// Stats returns number of cache hits and misses so far
func (c *Cache) Stats() (hits, misses int64) {
	c.Lock()
	defer c.Unlock()
	return c.hits, c.misses
}
