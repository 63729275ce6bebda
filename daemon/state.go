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

package daemon

import (
	"container/ring"
	"sync"
)

// state of the daemon, guarded by mutex
type daemonState struct {
	sync.Mutex

	dataPoints *ring.Ring // data points we collected from the reference
}

func newDaemonState(ringSize int) *daemonState {
	return &daemonState{
		dataPoints: ring.New(ringSize),
	}
}

func (s *daemonState) pushDataPoint(data *DataPoint) {
	s.Lock()
	defer s.Unlock()
	s.dataPoints.Value = data
	s.dataPoints = s.dataPoints.Next()
}

// takeDataPoint returns up to n last data points, newest first
func (s *daemonState) takeDataPoint(n int) []*DataPoint {
	s.Lock()
	defer s.Unlock()
	result := []*DataPoint{}
	r := s.dataPoints.Prev()
	for j := 0; j < n && j < s.dataPoints.Len(); j++ {
		if r.Value == nil {
			break
		}
		result = append(result, r.Value.(*DataPoint))
		r = r.Prev()
	}
	return result
}

func (s *daemonState) reset() {
	s.Lock()
	defer s.Unlock()
	s.dataPoints = ring.New(s.dataPoints.Len())
}
