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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	applog "cutscript/internal/log"
	"cutscript/internal/pipeline"
	"cutscript/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <script>",
		Short: "Recompile the script whenever it changes on disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Flags())
			if err != nil {
				return err
			}
			defer s.close()

			l := applog.WithComponent("watch")
			path := args[0]

			recompile := func(text string) {
				ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
				defer cancel()
				res, err := s.service.Evaluate(ctx, text)
				if err != nil {
					l.Warn("pass skipped", slog.Any("err", err))
					return
				}
				printResult(cmd.OutOrStdout(), res, s.store.Segments())
				if err := writeArtifacts(cmd, s, res); err != nil {
					l.Error("artifact write failed", slog.Any("err", err))
				}
			}

			debounce := pipeline.NewDebouncer(time.Duration(s.cfg.Editor.DebounceMs)*time.Millisecond, recompile)
			defer debounce.Stop()

			// initial compile before the first change
			if text, err := os.ReadFile(path); err == nil {
				recompile(string(text))
			} else {
				return fmt.Errorf("read script: %w", err)
			}

			w := watcher.NewFileWatcher()
			w.OnChange(func(changed string, ev watcher.EventType) {
				if ev == watcher.EventDelete {
					l.Warn("script removed", slog.String("path", changed))
					return
				}
				text, err := os.ReadFile(changed)
				if err != nil {
					l.Warn("read after change failed", slog.Any("err", err))
					return
				}
				debounce.Trigger(string(text))
			})

			err = w.Watch(cmd.Context(), path)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().String("edl", "", "Rewrite this EDL file after every successful pass")
	cmd.Flags().String("json", "", "Rewrite this JSON timeline after every successful pass")
	return cmd
}
