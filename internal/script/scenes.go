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
	"log/slog"
	"regexp"
	"strings"

	applog "cutscript/internal/log"
)

// Scene separator: three-or-more dashes, a bracketed time range, three-or-more
// dashes, e.g. `--- [00:00:00.000 -> 00:00:05.000] ---`.
var reSceneSep = regexp.MustCompile(
	`^-{3,}\s*\[\s*` + tsPattern + `\s*->\s*` + tsPattern + `\s*\]\s*-{3,}$`)

// ParseScenes turns the document body into an ordered sequence of scene
// blocks. Content lines run from just after a separator up to, but not
// including, the next separator or the next command line, whichever comes
// first. Scene parsing is independent of command parsing over the same body.
// A separator whose timestamps fail to decode is logged and skipped; the scan
// continues with the remaining lines. baseLine is as in ParseCommands.
func ParseScenes(body string, baseLine int) []SceneBlock {
	var blocks []SceneBlock
	lines := splitLines(body)

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		m := reSceneSep.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		lineNo := baseLine + i + 1

		start, err1 := timestampGroups(m[1:5])
		end, err2 := timestampGroups(m[5:9])
		if err1 != nil || err2 != nil {
			applog.WithComponent("script").Warn("scene separator skipped",
				slog.Int("line", lineNo), slog.Any("err", firstErr(err1, err2)))
			continue
		}

		var content []string
		j := i + 1
		for ; j < len(lines); j++ {
			next := strings.TrimSpace(lines[j])
			if reSceneSep.MatchString(next) || IsCommandLine(next) {
				break
			}
			content = append(content, lines[j])
		}
		blocks = append(blocks, SceneBlock{
			Start:   start,
			End:     end,
			LineNo:  lineNo,
			Content: strings.TrimSpace(strings.Join(content, "\n")),
		})
		i = j - 1
	}
	return blocks
}

func firstErr(errs ...error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}
