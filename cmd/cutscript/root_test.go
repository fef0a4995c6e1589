/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out.String(), "cutscript ") {
		t.Fatalf("unexpected version output: %q", out.String())
	}
}

func TestCompileMissingScript(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"compile", filepath.Join(t.TempDir(), "missing.csc"), "--no-cache"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected error for missing script")
	}
}

func TestCompileScriptWithoutCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csc")
	script := "PROJECT \"Empty\"\nRESOLUTION 640x480\n===\njust prose, no commands\n"
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"compile", path, "--no-cache"})
	if err := root.Execute(); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !strings.Contains(out.String(), "project: Empty (640x480") {
		t.Fatalf("unexpected output: %q", out.String())
	}
	if !strings.Contains(out.String(), "commands: 0") {
		t.Fatalf("expected zero commands, got: %q", out.String())
	}
}

func TestCompileUnquotedProjectKeepsDefaultName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unquoted.csc")
	// PROJECT takes a quoted name; the unquoted form matches no directive
	script := "PROJECT Unquoted\n===\n"
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"compile", path, "--no-cache"})
	if err := root.Execute(); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !strings.Contains(out.String(), "project: Untitled") {
		t.Fatalf("expected default project name, got: %q", out.String())
	}
}
