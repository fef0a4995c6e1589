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
	"testing"
	"time"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	var mu sync.Mutex
	var fired []string
	d := NewDebouncer(50*time.Millisecond, func(text string) {
		mu.Lock()
		fired = append(fired, text)
		mu.Unlock()
	})
	defer d.Stop()

	d.Trigger("a")
	d.Trigger("ab")
	d.Trigger("abc")

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(fired)
		mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 1 {
		t.Fatalf("expected 1 firing, got %d", len(fired))
	}
	if fired[0] != "abc" {
		t.Fatalf("expected latest text, got %q", fired[0])
	}
}

func TestDebouncerFlushFiresImmediately(t *testing.T) {
	var mu sync.Mutex
	var fired []string
	d := NewDebouncer(time.Hour, func(text string) {
		mu.Lock()
		fired = append(fired, text)
		mu.Unlock()
	})
	defer d.Stop()

	d.Trigger("pending")
	d.Flush()

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 1 || fired[0] != "pending" {
		t.Fatalf("flush did not deliver pending snapshot: %v", fired)
	}
}

func TestDebouncerFlushWithoutPendingIsNoOp(t *testing.T) {
	fired := 0
	d := NewDebouncer(time.Hour, func(string) { fired++ })
	defer d.Stop()

	d.Flush()
	if fired != 0 {
		t.Fatalf("flush fired with nothing pending")
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	var mu sync.Mutex
	fired := 0
	d := NewDebouncer(20*time.Millisecond, func(string) {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	d.Trigger("x")
	d.Stop()
	d.Trigger("y") // ignored after Stop

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if fired != 0 {
		t.Fatalf("stopped debouncer fired %d times", fired)
	}
}
