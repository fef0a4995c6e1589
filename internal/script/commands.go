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

import (
	"regexp"
	"strings"
)

// Command grammar, each pattern anchored to the whole line:
//   LOAD <path>
//   CUT HH:MM:SS.mmm
//   HIDE HH:MM:SS.mmm HH:MM:SS.mmm
//   SHOW HH:MM:SS.mmm HH:MM:SS.mmm
//   DELETE HH:MM:SS.mmm HH:MM:SS.mmm
var (
	reLoad   = regexp.MustCompile(`^LOAD\s+(\S.*)$`)
	reCut    = regexp.MustCompile(`^CUT\s+` + tsPattern + `$`)
	reHide   = regexp.MustCompile(`^HIDE\s+` + tsPattern + `\s+` + tsPattern + `$`)
	reShow   = regexp.MustCompile(`^SHOW\s+` + tsPattern + `\s+` + tsPattern + `$`)
	reDelete = regexp.MustCompile(`^DELETE\s+` + tsPattern + `\s+` + tsPattern + `$`)
)

// IsCommandLine reports whether the (already trimmed) line parses as an edit
// command. The scene parser uses it to end content accumulation.
func IsCommandLine(line string) bool {
	return reLoad.MatchString(line) || reCut.MatchString(line) ||
		reHide.MatchString(line) || reShow.MatchString(line) || reDelete.MatchString(line)
}

// ParseCommands turns the document body into an ordered command sequence.
// baseLine is the 0-based document index of the body's first line, so that
// LineNo values refer to the full document. Lines matching no command pattern
// are not an error; they are simply not commands. A matched line whose digit
// groups fail integer conversion is dropped.
func ParseCommands(body string, baseLine int) []Command {
	var cmds []Command
	for i, raw := range splitLines(body) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lineNo := baseLine + i + 1

		if m := reLoad.FindStringSubmatch(line); m != nil {
			cmds = append(cmds, Command{Kind: CmdLoad, Path: strings.TrimSpace(m[1]), LineNo: lineNo})
			continue
		}
		if m := reCut.FindStringSubmatch(line); m != nil {
			at, err := timestampGroups(m[1:5])
			if err != nil {
				continue
			}
			cmds = append(cmds, Command{Kind: CmdCut, At: at, LineNo: lineNo})
			continue
		}
		if c, ok := parseRange(CmdHide, reHide, line, lineNo); ok {
			cmds = append(cmds, c)
			continue
		}
		if c, ok := parseRange(CmdShow, reShow, line, lineNo); ok {
			cmds = append(cmds, c)
			continue
		}
		if c, ok := parseRange(CmdDelete, reDelete, line, lineNo); ok {
			cmds = append(cmds, c)
		}
	}
	return cmds
}

func parseRange(kind CommandKind, re *regexp.Regexp, line string, lineNo int) (Command, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return Command{}, false
	}
	start, err1 := timestampGroups(m[1:5])
	end, err2 := timestampGroups(m[5:9])
	if err1 != nil || err2 != nil {
		return Command{}, false
	}
	return Command{Kind: kind, Start: start, End: end, LineNo: lineNo}, true
}
