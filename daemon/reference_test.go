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
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewNTPReference(t *testing.T) {
	c := DefaultConfig()
	c.Server = "time.example.com"
	c.Timeout = 2 * time.Second
	c.DSCP = 46
	r := NewNTPReference(c)
	require.Equal(t, &NTPReference{Server: "time.example.com", Timeout: 2 * time.Second, DSCP: 46}, r)
}

func TestNTPReferenceCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &NTPReference{Server: "127.0.0.1", Timeout: time.Second}
	_, err := r.Query(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
