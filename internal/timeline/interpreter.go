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
	"context"
	"errors"
	"fmt"
	"log/slog"

	applog "cutscript/internal/log"
	"cutscript/internal/script"
)

var (
	// ErrMediaUnavailable is returned by Load when the source path cannot be
	// resolved or its duration cannot be obtained.
	ErrMediaUnavailable = errors.New("media unavailable")
	// ErrNoSegmentAtTime is returned by Cut when no segment covers the cut time.
	ErrNoSegmentAtTime = errors.New("no segment at time")
	// ErrBoundaryCut is returned by Cut when the cut time coincides with a
	// segment boundary; a zero-duration segment is never produced.
	ErrBoundaryCut = errors.New("cut at segment boundary")
)

// DurationSource resolves a media path to its total duration in seconds.
// The ffprobe-backed implementation lives in internal/media.
type DurationSource interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Interpreter applies edit commands to a Store.
type Interpreter struct {
	store *Store
	src   DurationSource
	log   *slog.Logger
}

func NewInterpreter(store *Store, src DurationSource) *Interpreter {
	return &Interpreter{store: store, src: src, log: applog.WithComponent("interpreter")}
}

// Execute applies each command in order. A failing command aborts only
// itself: earlier effects stay applied and later commands still run. The
// returned slice holds one error per failed command, in batch order.
func (in *Interpreter) Execute(ctx context.Context, cmds []script.Command) []error {
	var errs []error
	for _, c := range cmds {
		if err := in.ExecuteOne(ctx, c); err != nil {
			in.log.Warn("command failed",
				slog.String("cmd", c.Kind.String()),
				slog.Int("line", c.LineNo),
				slog.Any("err", err))
			errs = append(errs, err)
		}
	}
	return errs
}

// ExecuteOne applies a single command.
func (in *Interpreter) ExecuteOne(ctx context.Context, c script.Command) error {
	switch c.Kind {
	case script.CmdLoad:
		return in.load(ctx, c)
	case script.CmdCut:
		return in.cut(c)
	case script.CmdHide:
		in.setVisibility(c.Start, c.End, false)
		return nil
	case script.CmdShow:
		in.setVisibility(c.Start, c.End, true)
		return nil
	case script.CmdDelete:
		for _, s := range in.store.Overlapping(c.Start, c.End) {
			in.store.Remove(s.ID)
		}
		return nil
	default:
		return fmt.Errorf("line %d: unknown command kind %d", c.LineNo, c.Kind)
	}
}

// load clears the store and creates the single segment [0, duration) for the
// source. The duration lookup may block; a cancelled context fails the load
// so a stale result is never applied.
func (in *Interpreter) load(ctx context.Context, c script.Command) error {
	dur, err := in.src.Duration(ctx, c.Path)
	if err != nil {
		return fmt.Errorf("line %d: %w: %s: %v", c.LineNo, ErrMediaUnavailable, c.Path, err)
	}
	if ctx.Err() != nil {
		return fmt.Errorf("line %d: load %s: %w", c.LineNo, c.Path, ctx.Err())
	}
	if dur <= 0 {
		return fmt.Errorf("line %d: %w: %s: non-positive duration %v", c.LineNo, ErrMediaUnavailable, c.Path, dur)
	}
	in.store.Clear()
	in.store.Add(Segment{Start: 0, End: dur, Visible: true, State: Stopped, Source: c.Path})
	in.log.Info("loaded source", slog.String("path", c.Path), slog.Float64("duration", dur))
	return nil
}

// cut splits the segment covering c.At into [start, at) and [at, end). A cut
// exactly on a boundary is rejected so zero-duration segments cannot appear;
// the store is left unmodified in every failure case.
func (in *Interpreter) cut(c script.Command) error {
	seg, ok := in.store.At(c.At)
	if !ok {
		return fmt.Errorf("line %d: %w: %.3f", c.LineNo, ErrNoSegmentAtTime, c.At)
	}
	if c.At == seg.Start || c.At == seg.End {
		return fmt.Errorf("line %d: %w: %.3f", c.LineNo, ErrBoundaryCut, c.At)
	}
	in.store.Remove(seg.ID)
	left := Segment{Start: seg.Start, End: c.At, Visible: seg.Visible, State: Stopped, Source: seg.Source}
	right := Segment{Start: c.At, End: seg.End, Visible: seg.Visible, State: Stopped, Source: seg.Source}
	in.store.Add(left)
	in.store.Add(right)
	return nil
}

// setVisibility hides or shows every segment overlapping [start, end).
// Partially overlapping segments are affected in their entirety; ranges are
// not trimmed to segment boundaries.
func (in *Interpreter) setVisibility(start, end float64, visible bool) {
	for _, s := range in.store.Overlapping(start, end) {
		s.Visible = visible
		if visible {
			s.State = Stopped
		} else {
			s.State = Hidden
		}
		in.store.Update(s)
	}
}
