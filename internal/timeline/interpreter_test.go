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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cutscript/internal/script"
)

// fakeSource serves durations from a map; unknown paths fail.
type fakeSource struct {
	durations map[string]float64
}

func (f *fakeSource) Duration(_ context.Context, path string) (float64, error) {
	if d, ok := f.durations[path]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("no such media: %s", path)
}

func newTestInterpreter(durations map[string]float64) (*Interpreter, *Store) {
	st := NewStore()
	return NewInterpreter(st, &fakeSource{durations: durations}), st
}

func TestLoadCreatesSingleFullSegment(t *testing.T) {
	in, st := newTestInterpreter(map[string]float64{"a.mp4": 30})

	errs := in.Execute(context.Background(), []script.Command{{Kind: script.CmdLoad, Path: "a.mp4", LineNo: 1}})
	require.Empty(t, errs)

	segs := st.Segments()
	require.Len(t, segs, 1)
	assert.Equal(t, 0.0, segs[0].Start)
	assert.Equal(t, 30.0, segs[0].End)
	assert.True(t, segs[0].Visible)
	assert.Equal(t, Stopped, segs[0].State)
	assert.Equal(t, "a.mp4", segs[0].Source)
}

func TestLoadUnknownPathFailsWithMediaUnavailable(t *testing.T) {
	in, st := newTestInterpreter(nil)

	err := in.ExecuteOne(context.Background(), script.Command{Kind: script.CmdLoad, Path: "missing.mp4", LineNo: 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMediaUnavailable))
	assert.Equal(t, 0, st.Len())
}

func TestCutSplitsIntoAdjacentHalves(t *testing.T) {
	in, st := newTestInterpreter(map[string]float64{"v.mp4": 30})
	ctx := context.Background()

	require.Empty(t, in.Execute(ctx, []script.Command{
		{Kind: script.CmdLoad, Path: "v.mp4", LineNo: 1},
		{Kind: script.CmdCut, At: 10, LineNo: 2},
	}))

	segs := st.Segments()
	require.Len(t, segs, 2)
	assert.Equal(t, 0.0, segs[0].Start)
	assert.Equal(t, 10.0, segs[0].End)
	assert.Equal(t, 10.0, segs[1].Start)
	assert.Equal(t, 30.0, segs[1].End)
	assert.NotEqual(t, segs[0].ID, segs[1].ID)
	for _, s := range segs {
		assert.True(t, s.Visible)
		assert.Equal(t, Stopped, s.State)
		assert.Equal(t, "v.mp4", s.Source)
	}
}

func TestCutWithoutCoverageLeavesStoreUnmodified(t *testing.T) {
	in, st := newTestInterpreter(map[string]float64{"v.mp4": 10})
	ctx := context.Background()

	require.NoError(t, in.ExecuteOne(ctx, script.Command{Kind: script.CmdLoad, Path: "v.mp4"}))
	before := st.Segments()

	err := in.ExecuteOne(ctx, script.Command{Kind: script.CmdCut, At: 55, LineNo: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSegmentAtTime))
	assert.Equal(t, before, st.Segments())
}

func TestCutAtBoundaryIsRejected(t *testing.T) {
	in, st := newTestInterpreter(map[string]float64{"v.mp4": 10})
	ctx := context.Background()

	require.NoError(t, in.ExecuteOne(ctx, script.Command{Kind: script.CmdLoad, Path: "v.mp4"}))
	before := st.Segments()

	for _, at := range []float64{0, 10} {
		err := in.ExecuteOne(ctx, script.Command{Kind: script.CmdCut, At: at})
		require.Error(t, err, "cut at %v", at)
		assert.True(t, errors.Is(err, ErrBoundaryCut))
	}
	assert.Equal(t, before, st.Segments())
}

func TestHideThenShowRestoresSegments(t *testing.T) {
	in, st := newTestInterpreter(map[string]float64{"v.mp4": 30})
	ctx := context.Background()

	require.Empty(t, in.Execute(ctx, []script.Command{
		{Kind: script.CmdLoad, Path: "v.mp4"},
		{Kind: script.CmdCut, At: 10},
		{Kind: script.CmdCut, At: 20},
	}))
	before := st.Segments()

	require.NoError(t, in.ExecuteOne(ctx, script.Command{Kind: script.CmdHide, Start: 5, End: 15}))
	hidden := 0
	for _, s := range st.Segments() {
		if !s.Visible {
			assert.Equal(t, Hidden, s.State)
			hidden++
		}
	}
	// [5,15) partially overlaps [0,10) and [10,20): both hidden in their entirety
	assert.Equal(t, 2, hidden)

	require.NoError(t, in.ExecuteOne(ctx, script.Command{Kind: script.CmdShow, Start: 5, End: 15}))
	assert.Equal(t, before, st.Segments(), "boundaries and ids unchanged, visibility restored")
}

func TestDeleteRemovesWholeOverlappingSegments(t *testing.T) {
	in, st := newTestInterpreter(map[string]float64{"v.mp4": 30})
	ctx := context.Background()

	require.Empty(t, in.Execute(ctx, []script.Command{
		{Kind: script.CmdLoad, Path: "v.mp4"},
		{Kind: script.CmdCut, At: 10},
		{Kind: script.CmdCut, At: 20},
	}))

	// [15,25) overlaps [10,20) and [20,30): both removed whole, no trimming
	require.NoError(t, in.ExecuteOne(ctx, script.Command{Kind: script.CmdDelete, Start: 15, End: 25}))

	segs := st.Segments()
	require.Len(t, segs, 1)
	assert.Equal(t, 0.0, segs[0].Start)
	assert.Equal(t, 10.0, segs[0].End)
}

func TestBatchContinuesPastFailingCommand(t *testing.T) {
	in, st := newTestInterpreter(map[string]float64{"v.mp4": 30})

	errs := in.Execute(context.Background(), []script.Command{
		{Kind: script.CmdLoad, Path: "v.mp4", LineNo: 1},
		{Kind: script.CmdCut, At: 99, LineNo: 2},  // fails: no coverage
		{Kind: script.CmdCut, At: 10, LineNo: 3},  // still applied
	})
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], ErrNoSegmentAtTime))
	assert.Equal(t, 2, st.Len())
}

func TestLoadCutHideScenario(t *testing.T) {
	// Hide works at whole-segment granularity and never trims, so reaching the
	// visible/hidden/visible layout needs cuts at both ends of the hidden
	// range. With only the first cut, hiding [10,20] would hide the whole
	// [10,30) segment and leave two segments, not three; see
	// TestHideThenShowRestoresSegments for the partial-overlap behavior.
	in, st := newTestInterpreter(map[string]float64{"a.mp4": 30})
	body := "LOAD a.mp4\nCUT 00:00:10.000\nCUT 00:00:20.000\nHIDE 00:00:10.000 00:00:20.000\n"

	errs := in.Execute(context.Background(), script.ParseCommands(body, 0))
	require.Empty(t, errs)

	segs := st.Segments()
	require.Len(t, segs, 3)

	assert.Equal(t, 0.0, segs[0].Start)
	assert.Equal(t, 10.0, segs[0].End)
	assert.True(t, segs[0].Visible)

	assert.Equal(t, 10.0, segs[1].Start)
	assert.Equal(t, 20.0, segs[1].End)
	assert.False(t, segs[1].Visible)
	assert.Equal(t, Hidden, segs[1].State)

	assert.Equal(t, 20.0, segs[2].Start)
	assert.Equal(t, 30.0, segs[2].End)
	assert.True(t, segs[2].Visible)
}

func TestCancelledLoadIsNotApplied(t *testing.T) {
	in, st := newTestInterpreter(map[string]float64{"v.mp4": 30})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := in.ExecuteOne(ctx, script.Command{Kind: script.CmdLoad, Path: "v.mp4"})
	require.Error(t, err)
	assert.Equal(t, 0, st.Len())
}
