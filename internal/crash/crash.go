/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a crash report file plus a best-effort
// autosave of the unsaved script text, then exits.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	applog "cutscript/internal/log"
	"cutscript/internal/telemetry"
	"cutscript/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Context carries what Recover needs to save: the script path (may be empty
// for an unsaved buffer) and a function returning the current editor text.
type Context struct {
	ScriptPath string
	Text       func() string
}

// Recover captures a panic, logs an error with stacktrace, writes an error
// report file, and attempts a crash-safe autosave of the script text.
//
// Usage: defer crash.Recover(cc)
func Recover(cc Context) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, _ := writeReport(cc, r, stack)
		if cc.Text != nil {
			if path, err := autosaveText(cc); err != nil {
				l.Error("autosave failed", slog.Any("err", err))
			} else if path != "" {
				l.Info("autosave written", slog.String("path", path))
			}
		}

		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		telemetry.Event("crash", map[string]any{"panic": fmt.Sprint(r)})
		exitFn(2)
	}
}

func reportDir(cc Context) string {
	if cc.ScriptPath != "" {
		return filepath.Dir(cc.ScriptPath)
	}
	return os.TempDir()
}

func writeReport(cc Context, panicVal any, stack []byte) (string, error) {
	dir := reportDir(cc)
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("cutscript-crash-%s.log", stamp))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "CutScript Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if cc.ScriptPath != "" {
		_, _ = fmt.Fprintf(&buf, "Script: %s\n", cc.ScriptPath)
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}
	return path, nil
}

// autosaveText writes the current buffer next to the script (or into the temp
// directory for unsaved buffers) so the user's last edits survive the crash.
func autosaveText(cc Context) (string, error) {
	text := cc.Text()
	if text == "" {
		return "", nil
	}
	stamp := time.Now().Format("20060102-150405")
	base := "unsaved"
	if cc.ScriptPath != "" {
		base = strings.TrimSuffix(filepath.Base(cc.ScriptPath), filepath.Ext(cc.ScriptPath))
	}
	path := filepath.Join(reportDir(cc), fmt.Sprintf("%s.autosave-%s.csc", base, stamp))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
