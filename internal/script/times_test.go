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

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"00:00:00.000", 0},
		{"00:00:10.000", 10},
		{"00:00:10.500", 10.5},
		{"00:01:00.000", 60},
		{"01:02:03.004", 3723.004},
		{"99:00:00.000", 356400},
	}
	for _, c := range cases {
		got, err := ParseTimestamp(c.in)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseTimestamp(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseTimestampRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "1:2:3.4", "00:00:00", "00:00:00.00", "0a:00:00.000", "00:00:00.000 "} {
		if _, err := ParseTimestamp(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestFormatTimestampRoundTrip(t *testing.T) {
	for _, in := range []string{"00:00:00.000", "00:00:10.500", "01:02:03.004", "10:59:59.999"} {
		sec, err := ParseTimestamp(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if out := FormatTimestamp(sec); out != in {
			t.Fatalf("round trip %q -> %v -> %q", in, sec, out)
		}
	}
	if FormatTimestamp(-1) != "00:00:00.000" {
		t.Fatalf("negative seconds should clamp to zero")
	}
}
