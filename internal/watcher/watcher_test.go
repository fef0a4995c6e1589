/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		op       fsnotify.Op
		want     EventType
		relevant bool
	}{
		{fsnotify.Create, EventCreate, true},
		{fsnotify.Write, EventModify, true},
		{fsnotify.Remove, EventDelete, true},
		{fsnotify.Rename, EventDelete, true},
		{fsnotify.Chmod, 0, false},
		{fsnotify.Create | fsnotify.Write, EventCreate, true},
	}
	for _, c := range cases {
		got, relevant := classify(c.op)
		if relevant != c.relevant {
			t.Fatalf("classify(%v) relevant = %t, want %t", c.op, relevant, c.relevant)
		}
		if relevant && got != c.want {
			t.Fatalf("classify(%v) = %v, want %v", c.op, got, c.want)
		}
	}
}

func TestWatchReportsWriteToWatchedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.csc")
	if err := os.WriteFile(path, []byte("before"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w := NewFileWatcher()
	events := make(chan EventType, 16)
	w.OnChange(func(_ string, ev EventType) { events <- ev })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, path) }()

	// give the watch loop a moment to register the directory
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(path, []byte("after"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case ev := <-events:
		if ev != EventModify && ev != EventCreate {
			t.Fatalf("unexpected event %v", ev)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no event for watched file write")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("watch returned %v, want context.Canceled", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop on cancel")
	}
}

func TestWatchIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.csc")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w := NewFileWatcher()
	events := make(chan EventType, 16)
	w.OnChange(func(_ string, ev EventType) { events <- ev })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Watch(ctx, path) }()
	time.Sleep(200 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("y"), 0o644); err != nil {
		t.Fatalf("write sibling: %v", err)
	}

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %v for sibling file", ev)
	case <-time.After(500 * time.Millisecond):
	}
}
