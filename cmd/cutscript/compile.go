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
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"cutscript/internal/export"
	"cutscript/internal/pipeline"
	"cutscript/internal/timeline"
)

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <script>",
		Short: "Compile a script once and print the resulting timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Flags())
			if err != nil {
				return err
			}
			defer s.close()

			text, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}

			res, err := s.service.Evaluate(cmd.Context(), string(text))
			if err != nil {
				return err
			}

			printResult(cmd.OutOrStdout(), res, s.store.Segments())
			if err := writeArtifacts(cmd, s, res); err != nil {
				return err
			}
			if len(res.Errors) > 0 {
				return fmt.Errorf("%d of %d commands failed", len(res.Errors), len(res.Commands))
			}
			return nil
		},
	}
	cmd.Flags().String("edl", "", "Write the visible timeline as an EDL to this path")
	cmd.Flags().String("json", "", "Write the timeline as a JSON document to this path")
	return cmd
}

func printResult(w io.Writer, res pipeline.Result, segments []timeline.Segment) {
	fmt.Fprintf(w, "project: %s (%dx%d @ %d fps)\n", res.Header.Project, res.Header.Width, res.Header.Height, res.Header.FrameRate)
	fmt.Fprintf(w, "commands: %d, scenes: %d\n", len(res.Commands), len(res.Scenes))
	for _, seg := range segments {
		fmt.Fprintf(w, "  %s\n", seg)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(w, "  error: %v\n", e)
	}
}

func writeArtifacts(cmd *cobra.Command, s *session, res pipeline.Result) error {
	segments := s.store.Segments()
	if path, _ := cmd.Flags().GetString("edl"); path != "" {
		edl := export.GenerateEDL(segments, res.Header.Project, float64(res.Header.FrameRate))
		if err := os.WriteFile(path, []byte(edl), 0o644); err != nil {
			return fmt.Errorf("write edl: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	}
	if path, _ := cmd.Flags().GetString("json"); path != "" {
		data, err := export.MarshalTimeline(export.BuildTimelineDoc(res.Header, segments))
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	}
	return nil
}
