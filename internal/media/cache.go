/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	applog "cutscript/internal/log"

	_ "modernc.org/sqlite"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS durations (
	path      TEXT    NOT NULL,
	mtime_ns  INTEGER NOT NULL,
	size      INTEGER NOT NULL,
	duration  REAL    NOT NULL,
	probed_at TEXT    NOT NULL,
	PRIMARY KEY (path, mtime_ns, size)
);`

// Cache is a Prober that memoizes durations in a local sqlite database,
// keyed by (path, mtime, size) so edited files are probed again.
type Cache struct {
	conn *sql.DB
	next Prober
	log  *slog.Logger
}

// NewCache opens (creating if needed) the cache database at dbPath and wraps
// next with it.
func NewCache(dbPath string, next Prober) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open duration cache: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	if _, err := conn.Exec(cacheSchema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	return &Cache{conn: conn, next: next, log: applog.WithComponent("mediacache")}, nil
}

func (c *Cache) Close() error { return c.conn.Close() }

func (c *Cache) Duration(ctx context.Context, path string) (float64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	mtime := fi.ModTime().UnixNano()
	size := fi.Size()

	var dur float64
	err = c.conn.QueryRowContext(ctx,
		"SELECT duration FROM durations WHERE path = ? AND mtime_ns = ? AND size = ?",
		path, mtime, size).Scan(&dur)
	switch {
	case err == nil:
		c.log.Debug("duration cache hit", slog.String("path", path), slog.Float64("duration", dur))
		return dur, nil
	case !errors.Is(err, sql.ErrNoRows):
		// cache trouble falls through to a live probe
		c.log.Warn("duration cache lookup failed", slog.String("path", path), slog.Any("err", err))
	}

	dur, err = c.next.Duration(ctx, path)
	if err != nil {
		return 0, err
	}

	if _, err := c.conn.ExecContext(ctx,
		"INSERT OR REPLACE INTO durations (path, mtime_ns, size, duration, probed_at) VALUES (?, ?, ?, ?, ?)",
		path, mtime, size, dur, time.Now().UTC().Format(time.RFC3339)); err != nil {
		c.log.Warn("duration cache write failed", slog.String("path", path), slog.Any("err", err))
	}
	return dur, nil
}
