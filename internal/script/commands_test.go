/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package script

import "testing"

func TestParseCommandsAllKinds(t *testing.T) {
	body := `LOAD media/a.mp4
CUT 00:00:10.000
HIDE 00:00:10.000 00:00:20.000
SHOW 00:01:00.000 00:01:30.500
DELETE 01:00:00.000 01:00:01.000
`
	cmds := ParseCommands(body, 0)
	if len(cmds) != 5 {
		t.Fatalf("expected 5 commands, got %d", len(cmds))
	}
	if cmds[0].Kind != CmdLoad || cmds[0].Path != "media/a.mp4" || cmds[0].LineNo != 1 {
		t.Fatalf("load mismatch: %+v", cmds[0])
	}
	if cmds[1].Kind != CmdCut || cmds[1].At != 10 || cmds[1].LineNo != 2 {
		t.Fatalf("cut mismatch: %+v", cmds[1])
	}
	if cmds[2].Kind != CmdHide || cmds[2].Start != 10 || cmds[2].End != 20 {
		t.Fatalf("hide mismatch: %+v", cmds[2])
	}
	if cmds[3].Kind != CmdShow || cmds[3].Start != 60 || cmds[3].End != 90.5 {
		t.Fatalf("show mismatch: %+v", cmds[3])
	}
	if cmds[4].Kind != CmdDelete || cmds[4].Start != 3600 || cmds[4].End != 3601 {
		t.Fatalf("delete mismatch: %+v", cmds[4])
	}
}

func TestParseCommandsIgnoresNonCommands(t *testing.T) {
	body := `some prose line
LOAD a.mp4
--- [00:00:00.000 -> 00:00:05.000] ---
scene text
CUT 00:00:01.000
CUT not-a-time
`
	cmds := ParseCommands(body, 0)
	if len(cmds) != 2 {
		t.Fatalf("expected 2 commands, got %d: %+v", len(cmds), cmds)
	}
	if cmds[0].Kind != CmdLoad || cmds[1].Kind != CmdCut {
		t.Fatalf("unexpected kinds: %+v", cmds)
	}
}

func TestParseCommandsBaseLineOffset(t *testing.T) {
	cmds := ParseCommands("LOAD a.mp4\n", 4)
	if len(cmds) != 1 || cmds[0].LineNo != 5 {
		t.Fatalf("expected document line 5, got %+v", cmds)
	}
}

func TestCommandCanonical(t *testing.T) {
	cases := []struct {
		cmd  Command
		want string
	}{
		{Command{Kind: CmdLoad, Path: "a.mp4", LineNo: 1}, "LOAD a.mp4"},
		{Command{Kind: CmdCut, At: 10.5, LineNo: 2}, "CUT 10.500"},
		{Command{Kind: CmdHide, Start: 1, End: 2.25}, "HIDE 1.000 2.250"},
		{Command{Kind: CmdShow, Start: 0, End: 90.5}, "SHOW 0.000 90.500"},
		{Command{Kind: CmdDelete, Start: 3600, End: 3601}, "DELETE 3600.000 3601.000"},
	}
	for _, c := range cases {
		if got := c.cmd.Canonical(); got != c.want {
			t.Fatalf("Canonical() = %q, want %q", got, c.want)
		}
	}
	// line number must not influence the canonical form
	a := Command{Kind: CmdCut, At: 1, LineNo: 3}
	b := Command{Kind: CmdCut, At: 1, LineNo: 99}
	if a.Canonical() != b.Canonical() {
		t.Fatalf("canonical form depends on line number")
	}
}

func TestIsCommandLine(t *testing.T) {
	yes := []string{
		"LOAD a.mp4",
		"CUT 00:00:01.000",
		"HIDE 00:00:00.000 00:00:01.000",
		"SHOW 00:00:00.000 00:00:01.000",
		"DELETE 00:00:00.000 00:00:01.000",
	}
	no := []string{
		"",
		"LOAD",
		"CUT 1.0",
		"HIDE 00:00:00.000",
		"hello world",
		"--- [00:00:00.000 -> 00:00:05.000] ---",
	}
	for _, l := range yes {
		if !IsCommandLine(l) {
			t.Fatalf("expected command line: %q", l)
		}
	}
	for _, l := range no {
		if IsCommandLine(l) {
			t.Fatalf("unexpected command line: %q", l)
		}
	}
}
