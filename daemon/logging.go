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
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// LogSample has all the measurements we may want to log
type LogSample struct {
	OffsetMS       float64
	RTTMS          float64
	ServoError     float64
	CorrectedError float64
	DriftInterval  uint16
	DriftStep      int8
}

var header = []string{
	"offset",
	"rtt",
	"servo_error",
	"corrected_error",
	"drift_interval",
	"drift_step",
}

// CSVRecords returns all data from this sample as CSV. Must by synced with `header` variable.
func (s *LogSample) CSVRecords() []string {
	return []string{
		strconv.FormatFloat(s.OffsetMS, 'f', -1, 64),
		strconv.FormatFloat(s.RTTMS, 'f', -1, 64),
		strconv.FormatFloat(s.ServoError, 'g', -1, 64),
		strconv.FormatFloat(s.CorrectedError, 'g', -1, 64),
		strconv.FormatUint(uint64(s.DriftInterval), 10),
		strconv.FormatInt(int64(s.DriftStep), 10),
	}
}

// Logger is something that can store LogSample somewhere
type Logger interface {
	Log(*LogSample) error
}

// CSVLogger logs Sample as CSV into given writer
type CSVLogger struct {
	csvwriter     *csv.Writer
	printedHeader bool
}

// NewCSVLogger returns new CSVLogger
func NewCSVLogger(w io.Writer) *CSVLogger {
	return &CSVLogger{
		csvwriter: csv.NewWriter(w),
	}
}

// Log implements Logger interface
func (l *CSVLogger) Log(s *LogSample) error {
	if !l.printedHeader {
		if err := l.csvwriter.Write(header); err != nil {
			return err
		}
		l.printedHeader = true
	}
	csvRecords := s.CSVRecords()
	if err := l.csvwriter.Write(csvRecords); err != nil {
		return err
	}
	l.csvwriter.Flush()
	return l.csvwriter.Error()
}

// DummyLogger logs samples in human readable form
type DummyLogger struct {
	w io.Writer
}

// NewDummyLogger returns new DummyLogger
func NewDummyLogger(w io.Writer) *DummyLogger {
	return &DummyLogger{w: w}
}

// Log implements Logger interface
func (l *DummyLogger) Log(s *LogSample) error {
	_, err := fmt.Fprintf(l.w, "offset=%.0fms rtt=%.0fms error=%.3e corrected=%.3e drift=%+dms/%ds\n",
		s.OffsetMS, s.RTTMS, s.ServoError, s.CorrectedError, s.DriftStep, s.DriftInterval)
	return err
}
