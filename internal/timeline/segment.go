/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package timeline holds the assembled output timeline: an ordered, observable
// collection of non-overlapping video segments, plus the interpreter that
// applies parsed edit commands to it.
package timeline

import "fmt"

// State is the playback state of a segment.

type State int

const (
	Stopped State = iota
	Playing
	Hidden
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Hidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Segment is a half-open time interval [Start, End) on the output timeline.
// IDs are assigned by the store, monotonically, and never reused within a
// session. End > Start is an invariant maintained by the interpreter.

type Segment struct {
	ID      int64
	Start   float64 // seconds
	End     float64 // seconds
	Visible bool
	State   State
	Source  string // media path the segment was loaded from
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 { return s.End - s.Start }

// Contains reports whether t lies within the segment, boundaries included.
func (s Segment) Contains(t float64) bool { return s.Start <= t && t <= s.End }

// Overlaps reports half-open interval overlap with [start, end).
func (s Segment) Overlaps(start, end float64) bool { return s.Start < end && s.End > start }

func (s Segment) String() string {
	return fmt.Sprintf("seg#%d [%.3f,%.3f) %s visible=%t src=%s", s.ID, s.Start, s.End, s.State, s.Visible, s.Source)
}
