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

import (
	"fmt"
	"strconv"
)

// Header holds the project-wide settings parsed from the document head.
// A fresh value is produced on every parse; fields left untouched keep the
// defaults from DefaultHeader.

type Header struct {
	Project         string
	Width           int
	Height          int
	FrameRate       int
	FontName        string
	FontSize        int
	TitleColor      string // 6 hex digits, no leading '#'
	SubtitleColor   string
	BackgroundAlpha float64 // 0.0 .. 1.0
}

// DefaultHeader returns the settings used when a directive is absent or malformed.
func DefaultHeader() Header {
	return Header{
		Project:         "Untitled",
		Width:           1920,
		Height:          1080,
		FrameRate:       30,
		FontName:        "Sans",
		FontSize:        48,
		TitleColor:      "FFFFFF",
		SubtitleColor:   "CCCCCC",
		BackgroundAlpha: 0.8,
	}
}

// CommandKind discriminates the edit command variants.

type CommandKind int

const (
	CmdLoad CommandKind = iota
	CmdCut
	CmdHide
	CmdShow
	CmdDelete
)

func (k CommandKind) String() string {
	switch k {
	case CmdLoad:
		return "LOAD"
	case CmdCut:
		return "CUT"
	case CmdHide:
		return "HIDE"
	case CmdShow:
		return "SHOW"
	case CmdDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// Command is one edit instruction from the document body.
// Path is set for LOAD; At for CUT; Start/End for HIDE, SHOW and DELETE.
// LineNo is the 1-based line number in the full document, kept for diagnostics.

type Command struct {
	Kind   CommandKind
	Path   string
	At     float64
	Start  float64
	End    float64
	LineNo int
}

// Canonical returns a stable string form of the command, independent of its
// source position. The pipeline hashes the joined canonical forms to detect
// edits that do not change the command sequence.
func (c Command) Canonical() string {
	switch c.Kind {
	case CmdLoad:
		return "LOAD " + c.Path
	case CmdCut:
		return "CUT " + formatSeconds(c.At)
	default:
		return fmt.Sprintf("%s %s %s", c.Kind, formatSeconds(c.Start), formatSeconds(c.End))
	}
}

func formatSeconds(s float64) string { return strconv.FormatFloat(s, 'f', 3, 64) }

// SceneBlock is a timestamped chunk of free-form text from the document body.
// Blocks associate prose with a time range; they never affect segments.

type SceneBlock struct {
	Start   float64
	End     float64
	LineNo  int // 1-based document line of the separator
	Content string
}
