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
	"strconv"
	"strings"
)

// SplitHeader locates the header/body boundary and parses header directives.
// Supported syntax:
//   - PROJECT "<name>"
//   - RESOLUTION <W>x<H>
//   - FRAMERATE <n>
//   - DEFAULT_FONT "<name>"
//   - DEFAULT_FONT_SIZE <n>
//   - DEFAULT_TITLE_COLOR #RRGGBB
//   - DEFAULT_SUBTITLE_COLOR #RRGGBB
//   - DEFAULT_BACKGROUND_ALPHA <0..1>
//
// A line of three or more '=' (nothing else) ends the header; the returned
// bodyStart is the 0-based index of the first body line. Without a separator
// the whole document is body, bodyStart is 0 and all defaults apply. Blank
// lines and '#' comments are skipped; other unmatched lines are ignored.
// The last occurrence of a directive wins. Pure function, no side effects.
func SplitHeader(text string) (Header, int) {
	h := DefaultHeader()
	lines := splitLines(text)

	sep := -1
	for i, raw := range lines {
		if reHeaderSep.MatchString(strings.TrimSpace(raw)) {
			sep = i
			break
		}
	}
	if sep < 0 {
		return DefaultHeader(), 0
	}

	for _, raw := range lines[:sep] {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, d := range directives {
			if m := d.re.FindStringSubmatch(line); m != nil {
				d.apply(&h, m)
				break
			}
		}
	}
	return h, sep + 1
}

var reHeaderSep = regexp.MustCompile(`^={3,}$`)

// directive binds a header pattern to its field assignment. Malformed values
// leave the default in place rather than erroring.
type directive struct {
	re    *regexp.Regexp
	apply func(*Header, []string)
}

var directives = []directive{
	{regexp.MustCompile(`^PROJECT\s+"(.*)"$`), func(h *Header, m []string) {
		h.Project = m[1]
	}},
	{regexp.MustCompile(`^RESOLUTION\s+(\d+)x(\d+)$`), func(h *Header, m []string) {
		w, err1 := strconv.Atoi(m[1])
		ht, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil && w > 0 && ht > 0 {
			h.Width, h.Height = w, ht
		}
	}},
	{regexp.MustCompile(`^FRAMERATE\s+(\d+)$`), func(h *Header, m []string) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			h.FrameRate = n
		}
	}},
	{regexp.MustCompile(`^DEFAULT_FONT\s+"(.*)"$`), func(h *Header, m []string) {
		if m[1] != "" {
			h.FontName = m[1]
		}
	}},
	{regexp.MustCompile(`^DEFAULT_FONT_SIZE\s+(\d+)$`), func(h *Header, m []string) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			h.FontSize = n
		}
	}},
	{regexp.MustCompile(`^DEFAULT_TITLE_COLOR\s+#([0-9A-Fa-f]{6})$`), func(h *Header, m []string) {
		h.TitleColor = strings.ToUpper(m[1])
	}},
	{regexp.MustCompile(`^DEFAULT_SUBTITLE_COLOR\s+#([0-9A-Fa-f]{6})$`), func(h *Header, m []string) {
		h.SubtitleColor = strings.ToUpper(m[1])
	}},
	{regexp.MustCompile(`^DEFAULT_BACKGROUND_ALPHA\s+(\d+(?:\.\d+)?)$`), func(h *Header, m []string) {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil && f >= 0 && f <= 1 {
			h.BackgroundAlpha = f
		}
	}},
}

// splitLines splits on '\n' and strips trailing '\r' so CRLF documents parse
// the same as LF ones.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}
