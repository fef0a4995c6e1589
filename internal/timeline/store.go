/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package timeline

import (
	"sort"
	"sync"
)

// EventKind tags a store change notification.

type EventKind int

const (
	Added EventKind = iota
	Removed
	Updated
)

func (k EventKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

// Event describes a single segment mutation. Listeners receive events
// synchronously, in mutation order; they must not block.
type Event struct {
	Kind    EventKind
	Segment Segment
}

// Listener receives store change events.
type Listener func(Event)

// Store is the mutable, observable segment collection. Segments are kept
// sorted ascending by start time. Mutation happens only from a pipeline pass
// or a directly invoked interpreter call; the mutex makes stray concurrent
// reads (UI snapshots) safe without imposing an ownership model on callers.
type Store struct {
	mu        sync.Mutex
	segments  []Segment
	nextID    int64
	listeners map[int]Listener
	nextSub   int
}

func NewStore() *Store {
	return &Store{nextID: 1, listeners: make(map[int]Listener)}
}

// Subscribe registers a listener and returns a token for Unsubscribe.
func (st *Store) Subscribe(l Listener) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.nextSub++
	st.listeners[st.nextSub] = l
	return st.nextSub
}

// Unsubscribe removes a listener; unknown tokens are a no-op.
func (st *Store) Unsubscribe(token int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.listeners, token)
}

// Add inserts a segment, assigning a fresh id when seg.ID is zero, and emits
// Added. The returned value carries the assigned id.
func (st *Store) Add(seg Segment) Segment {
	st.mu.Lock()
	if seg.ID == 0 {
		seg.ID = st.nextID
		st.nextID++
	} else if seg.ID >= st.nextID {
		st.nextID = seg.ID + 1
	}
	st.segments = append(st.segments, seg)
	st.sortLocked()
	ls := st.listenersLocked()
	st.mu.Unlock()

	emit(ls, Event{Kind: Added, Segment: seg})
	return seg
}

// Remove deletes the segment with the given id and emits Removed. Removing an
// absent id is a no-op, not an error.
func (st *Store) Remove(id int64) {
	st.mu.Lock()
	idx := st.indexLocked(id)
	if idx < 0 {
		st.mu.Unlock()
		return
	}
	seg := st.segments[idx]
	st.segments = append(st.segments[:idx], st.segments[idx+1:]...)
	ls := st.listenersLocked()
	st.mu.Unlock()

	emit(ls, Event{Kind: Removed, Segment: seg})
}

// Update replaces the segment with a matching id in place, re-sorts, and
// emits Updated. Absent ids are a no-op.
func (st *Store) Update(seg Segment) {
	st.mu.Lock()
	idx := st.indexLocked(seg.ID)
	if idx < 0 {
		st.mu.Unlock()
		return
	}
	st.segments[idx] = seg
	st.sortLocked()
	ls := st.listenersLocked()
	st.mu.Unlock()

	emit(ls, Event{Kind: Updated, Segment: seg})
}

// Overlapping returns all segments with seg.Start < end && seg.End > start,
// i.e. half-open interval overlap, in timeline order.
func (st *Store) Overlapping(start, end float64) []Segment {
	st.mu.Lock()
	defer st.mu.Unlock()
	var out []Segment
	for _, s := range st.segments {
		if s.Overlaps(start, end) {
			out = append(out, s)
		}
	}
	return out
}

// At returns the first segment containing t (start <= t <= end).
func (st *Store) At(t float64) (Segment, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, s := range st.segments {
		if s.Contains(t) {
			return s, true
		}
	}
	return Segment{}, false
}

// Segments returns a snapshot of all segments in timeline order.
func (st *Store) Segments() []Segment {
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]Segment(nil), st.segments...)
}

// Len returns the segment count.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.segments)
}

// Clear removes all segments and resets id assignment. As a bulk reset it
// emits no per-item events.
func (st *Store) Clear() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.segments = nil
	st.nextID = 1
}

func (st *Store) sortLocked() {
	sort.SliceStable(st.segments, func(i, j int) bool {
		return st.segments[i].Start < st.segments[j].Start
	})
}

func (st *Store) indexLocked(id int64) int {
	for i, s := range st.segments {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// listenersLocked snapshots the listener set so events are delivered outside
// the lock; a listener may re-read the store without deadlocking.
func (st *Store) listenersLocked() []Listener {
	ls := make([]Listener, 0, len(st.listeners))
	for _, l := range st.listeners {
		ls = append(ls, l)
	}
	return ls
}

func emit(ls []Listener, ev Event) {
	for _, l := range ls {
		l(ev)
	}
}
