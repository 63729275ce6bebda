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
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEvalAndValidate(t *testing.T) {
	c := &Config{
		Math: Math{Error: "1"},
	}
	require.Equal(t, fmt.Errorf("bad config: 'server' must be specified"), c.EvalAndValidate())

	c.Server = "time.example.com"
	require.Equal(t, fmt.Errorf("bad config: 'interval' must be between 1 second and 1 hour"), c.EvalAndValidate())

	c.Interval = 16 * time.Second
	require.Equal(t, fmt.Errorf("bad config: 'timeout' must be positive and less than 'interval'"), c.EvalAndValidate())

	c.Timeout = 16 * time.Second
	require.Equal(t, fmt.Errorf("bad config: 'timeout' must be positive and less than 'interval'"), c.EvalAndValidate())

	c.Timeout = time.Second
	c.DSCP = 64
	require.Equal(t, fmt.Errorf("bad config: 'dscp' must be between 0 and 63"), c.EvalAndValidate())

	c.DSCP = 46
	c.StepThreshold = -1
	require.Equal(t, fmt.Errorf("bad config: 'stepthreshold' must be >=0"), c.EvalAndValidate())

	c.StepThreshold = 0
	require.Equal(t, fmt.Errorf("bad config: 'adjustthreshold' must be between 0 and 24 hours"), c.EvalAndValidate())

	c.AdjustThreshold = 100 * time.Millisecond
	c.SyncInterval = -time.Second
	require.Equal(t, fmt.Errorf("bad config: 'syncinterval' must be >=0"), c.EvalAndValidate())

	c.SyncInterval = time.Hour
	require.Equal(t, fmt.Errorf("bad config: 'ringsize' must be >0"), c.EvalAndValidate())

	c.RingSize = 8
	require.NoError(t, c.EvalAndValidate())

	c.Math.Error = "mean(phase, 4)"
	require.ErrorContains(t, c.EvalAndValidate(), "unsupported variable")
}

func TestDefaultConfigValid(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.EvalAndValidate())
	require.Equal(t, DefaultServer, c.Server)
	require.Equal(t, MathDefaultError, c.Math.Error)
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "softclock.yaml")
	data := `server: time.example.com
interval: 16s
timeout: 2s
dscp: 46
adjustthreshold: 50ms
syncinterval: 1h
math:
  error: "mean(error, 8)"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	c, err := ReadConfig(path)
	require.NoError(t, err)
	want := DefaultConfig()
	want.Server = "time.example.com"
	want.Interval = 16 * time.Second
	want.Timeout = 2 * time.Second
	want.DSCP = 46
	want.AdjustThreshold = 50 * time.Millisecond
	want.SyncInterval = time.Hour
	want.Math.Error = "mean(error, 8)"
	require.Equal(t, want, c)
	require.NoError(t, c.EvalAndValidate())
}

func TestReadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "softclock.yaml")
	require.NoError(t, os.WriteFile(path, []byte("serverr: time.example.com\n"), 0o644))
	_, err := ReadConfig(path)
	require.Error(t, err)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
