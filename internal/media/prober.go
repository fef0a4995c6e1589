/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package media resolves media paths to durations. The ffprobe-backed prober
// is the only genuinely asynchronous dependency of the interpreter; a sqlite
// cache in front of it keeps repeated LOADs of an unchanged file instant.
package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	applog "cutscript/internal/log"
)

// Prober resolves a media path to its total duration in seconds.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// FFProbe shells out to ffprobe for the container duration.
type FFProbe struct {
	bin string
	log *slog.Logger
}

// NewFFProbe creates a prober using the given ffprobe binary ("ffprobe" to
// resolve via PATH).
func NewFFProbe(bin string) *FFProbe {
	if strings.TrimSpace(bin) == "" {
		bin = "ffprobe"
	}
	return &FFProbe{bin: bin, log: applog.WithComponent("media")}
}

func (p *FFProbe) Duration(ctx context.Context, path string) (float64, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}

	cmd := exec.CommandContext(ctx, p.bin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		p.log.Warn("ffprobe failed", slog.String("path", path), slog.String("stderr", strings.TrimSpace(stderr.String())))
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	out := strings.TrimSpace(stdout.String())
	dur, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: unparsable duration %q: %w", path, out, err)
	}
	if dur <= 0 {
		return 0, fmt.Errorf("ffprobe %s: non-positive duration %v", path, dur)
	}
	return dur, nil
}
