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
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

var procStartTime = time.Now()

// SysStats collects process and Go runtime stats
type SysStats struct {
	memstats *runtime.MemStats
}

// CollectRuntimeStats gathers cpu, mem, gc statistics
func (s *SysStats) CollectRuntimeStats() (map[string]int64, error) {
	stats := make(map[string]int64)
	m := &runtime.MemStats{}
	runtime.ReadMemStats(m)

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	stats["process.uptime"] = time.Now().Unix() - procStartTime.Unix()

	if val, err := proc.Percent(0); err == nil {
		stats["process.cpu_pct"] = int64(val * 100)
	}
	if val, err := proc.MemoryInfo(); err == nil {
		stats["process.rss"] = int64(val.RSS)
		stats["process.vms"] = int64(val.VMS)
	}
	if val, err := proc.NumFDs(); err == nil {
		stats["process.num_fds"] = int64(val)
	}
	if val, err := proc.NumThreads(); err == nil {
		stats["process.num_threads"] = int64(val)
	}

	stats["runtime.cpu.goroutines"] = int64(runtime.NumGoroutine())
	stats["runtime.mem.alloc"] = int64(m.Alloc)
	stats["runtime.mem.sys"] = int64(m.Sys)
	stats["runtime.mem.heap.inuse"] = int64(m.HeapInuse)
	stats["runtime.mem.gc.count"] = int64(m.NumGC)
	if s.memstats != nil && m.NumGC >= s.memstats.NumGC {
		stats["runtime.mem.gc.count.diff"] = int64(m.NumGC - s.memstats.NumGC)
	}
	s.memstats = m
	return stats, nil
}
