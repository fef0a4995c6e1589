/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package pipeline re-evaluates the script document on every text change:
// split header, parse commands and scenes, skip execution when the command
// sequence is unchanged, otherwise rebuild the segment store.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	applog "cutscript/internal/log"
	"cutscript/internal/script"
	"cutscript/internal/telemetry"
	"cutscript/internal/timeline"
)

// ErrPassInProgress is returned when a snapshot arrives while a pass is
// already running. The snapshot is ignored; this breaks feedback loops where
// a UI side effect of one pass would trigger the next.
var ErrPassInProgress = errors.New("evaluation pass in progress")

// Result is the outcome of one pipeline pass, published to subscribers.
// Header and Scenes are always freshly parsed; Executed reports whether the
// command sequence changed and the store was rebuilt.
type Result struct {
	Header   script.Header
	Scenes   []script.SceneBlock
	Commands []script.Command
	Executed bool
	Errors   []error // per-command interpretation failures
}

// Subscriber receives the Result of every completed pass.
type Subscriber func(Result)

// Service owns the Idle/Parsing state machine. All store mutation funnels
// through it: text snapshots via Evaluate, direct edits (e.g. "cut at
// playhead") via Apply, both behind the same re-entrancy guard.
type Service struct {
	store  *timeline.Store
	interp *timeline.Interpreter
	log    *slog.Logger

	mu          sync.Mutex
	parsing     bool
	fingerprint string // of the last executed command sequence
	subs        []Subscriber
}

func New(store *timeline.Store, interp *timeline.Interpreter) *Service {
	return &Service{store: store, interp: interp, log: applog.WithComponent("pipeline")}
}

// Subscribe registers a subscriber for pass results.
func (s *Service) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Evaluate runs one full pass over a text snapshot. Returns ErrPassInProgress
// when re-entered. Any panic during the pass is recovered, reported as an
// error, and the service returns to Idle so later edits are not blocked.
func (s *Service) Evaluate(ctx context.Context, text string) (res Result, err error) {
	if !s.enter() {
		return Result{}, ErrPassInProgress
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse failed: %v", r)
			s.log.Error("pass panicked", slog.Any("panic", r))
		}
		s.leave()
	}()

	header, bodyStart := script.SplitHeader(text)
	body := bodyFrom(text, bodyStart)
	cmds := script.ParseCommands(body, bodyStart)
	scenes := script.ParseScenes(body, bodyStart)

	res = Result{Header: header, Scenes: scenes, Commands: cmds}

	fp := Fingerprint(cmds)
	s.mu.Lock()
	unchanged := fp == s.fingerprint
	s.mu.Unlock()

	if unchanged {
		s.log.Debug("command sequence unchanged, skipping execution", slog.Int("commands", len(cmds)))
	} else {
		s.store.Clear()
		res.Errors = s.interp.Execute(ctx, cmds)
		res.Executed = true
		s.mu.Lock()
		s.fingerprint = fp
		s.mu.Unlock()
		telemetry.Event("compile_pass", map[string]any{
			"commands": len(cmds),
			"segments": s.store.Len(),
			"failed":   len(res.Errors),
		})
	}

	s.publish(res)
	return res, nil
}

// Apply executes commands directly against the store, outside a text pass,
// behind the same guard. The fingerprint is invalidated so the next Evaluate
// re-executes even if the document text is unchanged.
func (s *Service) Apply(ctx context.Context, cmds []script.Command) ([]error, error) {
	if !s.enter() {
		return nil, ErrPassInProgress
	}
	defer s.leave()

	errs := s.interp.Execute(ctx, cmds)
	s.mu.Lock()
	s.fingerprint = ""
	s.mu.Unlock()
	return errs, nil
}

func (s *Service) enter() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.parsing {
		return false
	}
	s.parsing = true
	return true
}

func (s *Service) leave() {
	s.mu.Lock()
	s.parsing = false
	s.mu.Unlock()
}

func (s *Service) publish(res Result) {
	s.mu.Lock()
	subs := append([]Subscriber(nil), s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(res)
	}
}

// Fingerprint returns a deterministic digest of a command sequence: the
// canonical forms joined by newlines, hashed with SHA-256.
func Fingerprint(cmds []script.Command) string {
	parts := make([]string, len(cmds))
	for i, c := range cmds {
		parts[i] = c.Canonical()
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\n")))
	return hex.EncodeToString(sum[:])
}

// bodyFrom returns the document text starting at the 0-based line index.
func bodyFrom(text string, bodyStart int) string {
	if bodyStart <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	if bodyStart >= len(lines) {
		return ""
	}
	return strings.Join(lines[bodyStart:], "\n")
}
