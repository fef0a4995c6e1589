//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"cutscript/internal/config"
	"cutscript/internal/crash"
	"cutscript/internal/history"
	applog "cutscript/internal/log"
	"cutscript/internal/media"
	"cutscript/internal/pipeline"
	"cutscript/internal/timeline"
	"cutscript/internal/version"
)

// editorApp wires the text editor to the evaluation pipeline: every keystroke
// goes through the debouncer, every quiet window produces a pass, and the
// segment list re-renders from store snapshots.
type editorApp struct {
	win      fyne.Window
	cfg      config.AppConfig
	service  *pipeline.Service
	store    *timeline.Store
	debounce *pipeline.Debouncer
	hist     *history.Manager

	scriptPath string
	editor     *widget.Entry
	segments   *widget.List
	status     *widget.Label

	// applying guards against history restores re-entering the history stack
	applying bool
	segSnap  []timeline.Segment
}

// Run opens the editor window, optionally loading the script at path.
func Run(path string) error {
	l := applog.WithComponent("ui")
	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", "err", err)
		cfg = config.Defaults()
	}

	store := timeline.NewStore()
	prober, err := buildProber(cfg)
	if err != nil {
		return err
	}
	service := pipeline.New(store, timeline.NewInterpreter(store, prober))

	a := app.NewWithID("io.cutscript.editor")
	win := a.NewWindow("CutScript " + version.String())
	win.Resize(fyne.NewSize(1100, 700))

	ed := &editorApp{
		win:        win,
		cfg:        cfg,
		service:    service,
		store:      store,
		hist:       history.NewManager(history.Config{MaxDepth: 200}),
		scriptPath: path,
	}
	defer crash.Recover(crash.Context{ScriptPath: path, Text: ed.currentText})

	ed.buildWidgets()
	ed.debounce = pipeline.NewDebouncer(time.Duration(cfg.Editor.DebounceMs)*time.Millisecond, ed.evaluate)
	defer ed.debounce.Stop()

	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			ed.editor.SetText(string(data))
		} else {
			l.Warn("open failed", "path", path, "err", err)
		}
	}

	win.ShowAndRun()
	return nil
}

func buildProber(cfg config.AppConfig) (media.Prober, error) {
	ff := media.NewFFProbe(cfg.Media.FFProbePath)
	dbPath := cfg.Media.CacheDB
	if dbPath == "" {
		cfgPath, err := config.Path()
		if err != nil {
			return ff, nil
		}
		dbPath = filepath.Join(filepath.Dir(cfgPath), "durations.db")
	}
	cache, err := media.NewCache(dbPath, ff)
	if err != nil {
		// a broken cache never blocks editing, probe live instead
		applog.WithComponent("ui").Warn("duration cache unavailable", "err", err)
		return ff, nil
	}
	return cache, nil
}

func (e *editorApp) buildWidgets() {
	e.editor = widget.NewMultiLineEntry()
	e.editor.SetPlaceHolder("PROJECT \"My Cut\"\n===\nLOAD clip.mp4\nCUT 00:00:10.000")
	e.editor.OnChanged = func(text string) {
		if !e.applying {
			e.hist.Push(history.Snapshot{Text: text, TS: time.Now()})
		}
		e.debounce.Trigger(text)
	}

	e.status = widget.NewLabel("ready")

	e.segments = widget.NewList(
		func() int { return len(e.segSnap) },
		func() fyne.CanvasObject { return widget.NewLabel("segment") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i < 0 || i >= len(e.segSnap) {
				return
			}
			o.(*widget.Label).SetText(e.segSnap[i].String())
		},
	)

	e.store.Subscribe(func(timeline.Event) {
		fyne.Do(e.refreshSegments)
	})

	e.registerShortcuts()

	split := container.NewHSplit(e.editor, e.segments)
	split.SetOffset(0.62)
	e.win.SetContent(container.NewBorder(nil, e.status, nil, nil, split))
}

func (e *editorApp) registerShortcuts() {
	canvas := e.win.Canvas()
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		e.restore(e.hist.Undo)
	})
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		e.restore(e.hist.Redo)
	})
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		e.save()
	})
}

func (e *editorApp) restore(pop func() (history.Snapshot, bool)) {
	s, ok := pop()
	if !ok {
		return
	}
	e.applying = true
	e.editor.SetText(s.Text)
	e.applying = false
}

func (e *editorApp) save() {
	if e.scriptPath == "" {
		dialog.ShowFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil || wc == nil {
				return
			}
			e.scriptPath = wc.URI().Path()
			_, _ = wc.Write([]byte(e.currentText()))
			_ = wc.Close()
			e.status.SetText("saved " + e.scriptPath)
		}, e.win)
		return
	}
	if err := os.WriteFile(e.scriptPath, []byte(e.currentText()), 0o644); err != nil {
		dialog.ShowError(err, e.win)
		return
	}
	e.status.SetText("saved " + e.scriptPath)
}

func (e *editorApp) currentText() string {
	if e.editor == nil {
		return ""
	}
	return e.editor.Text
}

// evaluate runs on the debouncer goroutine after each quiet window.
func (e *editorApp) evaluate(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	res, err := e.service.Evaluate(ctx, text)
	fyne.Do(func() {
		switch {
		case err != nil:
			e.status.SetText(err.Error())
		case len(res.Errors) > 0:
			e.status.SetText(fmt.Sprintf("%s: %d of %d commands failed", res.Header.Project, len(res.Errors), len(res.Commands)))
		default:
			e.status.SetText(fmt.Sprintf("%s: %d commands, %d segments, %d scenes",
				res.Header.Project, len(res.Commands), e.store.Len(), len(res.Scenes)))
		}
	})
}

func (e *editorApp) refreshSegments() {
	e.segSnap = e.store.Segments()
	e.segments.Refresh()
}
