/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package pipeline

import (
	"sync"
	"time"
)

// DefaultQuietWindow is the debounce interval between the last keystroke and
// the pipeline pass it triggers.
const DefaultQuietWindow = 500 * time.Millisecond

// Debouncer coalesces bursts of text snapshots: the callback fires once per
// quiet window, with the latest text. At most one timer is pending at a time.
type Debouncer struct {
	window time.Duration
	fn     func(text string)

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	has     bool
	stopped bool
}

func NewDebouncer(window time.Duration, fn func(text string)) *Debouncer {
	if window <= 0 {
		window = DefaultQuietWindow
	}
	return &Debouncer{window: window, fn: fn}
}

// Trigger records a new snapshot and restarts the quiet window.
func (d *Debouncer) Trigger(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = text
	d.has = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// Flush fires the pending snapshot immediately, if any.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.fire()
}

// Stop cancels any pending snapshot; further Triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.has = false
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if !d.has || d.stopped {
		d.mu.Unlock()
		return
	}
	text := d.pending
	d.has = false
	d.mu.Unlock()
	d.fn(text)
}
