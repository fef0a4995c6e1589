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
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"cutscript/internal/config"
	applog "cutscript/internal/log"
	"cutscript/internal/media"
	"cutscript/internal/pipeline"
	"cutscript/internal/timeline"
	"cutscript/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cutscript",
		Short:         "Text-driven video cut compiler",
		Long:          "CutScript compiles plain-text cut scripts (header directives, LOAD/CUT/HIDE/SHOW/DELETE commands, scene blocks) into a segment timeline and exports it as EDL or JSON.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("ffprobe", "", "Path to the ffprobe binary (default from config)")
	root.PersistentFlags().String("cache-db", "", "Path to the duration cache database (default from config)")
	root.PersistentFlags().Bool("no-cache", false, "Probe media directly, bypassing the duration cache")

	root.AddCommand(newCompileCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newUICmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cutscript %s\n", version.String())
		},
	}
}

// session bundles everything a compile needs, built once per invocation.
type session struct {
	cfg     config.AppConfig
	store   *timeline.Store
	service *pipeline.Service
	cache   io.Closer
}

func (s *session) close() {
	if s.cache != nil {
		_ = s.cache.Close()
	}
}

func newSession(flags *pflag.FlagSet) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		applog.WithComponent("cli").Warn("config load failed, using defaults", "err", err)
		cfg = config.Defaults()
	}
	if cfg.General.TelemetryOptIn && os.Getenv("CSC_TELEMETRY_OPT_IN") == "" {
		// the telemetry client reads the environment once on first use
		_ = os.Setenv("CSC_TELEMETRY_OPT_IN", "1")
	}
	if v, _ := flags.GetString("ffprobe"); v != "" {
		cfg.Media.FFProbePath = v
	}
	if v, _ := flags.GetString("cache-db"); v != "" {
		cfg.Media.CacheDB = v
	}

	s := &session{cfg: cfg, store: timeline.NewStore()}

	var prober media.Prober = media.NewFFProbe(cfg.Media.FFProbePath)
	if noCache, _ := flags.GetBool("no-cache"); !noCache {
		if cache, err := media.NewCache(cacheDBPath(cfg), prober); err == nil {
			prober = cache
			s.cache = cache
		} else {
			applog.WithComponent("cli").Warn("duration cache unavailable, probing live", "err", err)
		}
	}

	s.service = pipeline.New(s.store, timeline.NewInterpreter(s.store, prober))
	return s, nil
}

func cacheDBPath(cfg config.AppConfig) string {
	if cfg.Media.CacheDB != "" {
		return cfg.Media.CacheDB
	}
	cfgPath, err := config.Path()
	if err != nil {
		return "durations.db"
	}
	return filepath.Join(filepath.Dir(cfgPath), "durations.db")
}
