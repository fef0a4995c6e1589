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
	"fmt"
	"regexp"
	"strconv"
)

// tsPattern is the HH:MM:SS.mmm fragment shared by the command and scene grammars.
const tsPattern = `(\d{2}):(\d{2}):(\d{2})\.(\d{3})`

var reTimestamp = regexp.MustCompile(`^` + tsPattern + `$`)

// ParseTimestamp converts HH:MM:SS.mmm into fractional seconds.
func ParseTimestamp(s string) (float64, error) {
	m := reTimestamp.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	return timestampGroups(m[1:])
}

// timestampGroups converts the four captured digit groups to seconds.
// The groups already matched \d+, so the Atoi calls cannot realistically fail;
// the error path is kept so callers drop the line instead of panicking.
func timestampGroups(groups []string) (float64, error) {
	if len(groups) != 4 {
		return 0, fmt.Errorf("expected 4 timestamp groups, got %d", len(groups))
	}
	vals := make([]int, 4)
	for i, g := range groups {
		n, err := strconv.Atoi(g)
		if err != nil {
			return 0, fmt.Errorf("timestamp group %q: %w", g, err)
		}
		vals[i] = n
	}
	return float64(vals[0])*3600 + float64(vals[1])*60 + float64(vals[2]) + float64(vals[3])/1000, nil
}

// FormatTimestamp renders seconds as HH:MM:SS.mmm, the inverse of ParseTimestamp.
func FormatTimestamp(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	ms := int64(sec*1000 + 0.5)
	h := ms / 3600000
	ms -= h * 3600000
	m := ms / 60000
	ms -= m * 60000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
