/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"cutscript/internal/script"
	"cutscript/internal/timeline"
	"cutscript/internal/version"
)

//go:embed timeline.schema.json
var timelineSchema []byte

// TimelineDoc is the JSON interchange form of a compiled timeline.
type TimelineDoc struct {
	Project     string       `json:"project"`
	FrameRate   int          `json:"frame_rate"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	GeneratedAt string       `json:"generated_at"`
	Generator   string       `json:"generator"`
	Segments    []SegmentDoc `json:"segments"`
}

type SegmentDoc struct {
	ID      int64   `json:"id"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Visible bool    `json:"visible"`
	State   string  `json:"state"`
	Source  string  `json:"source"`
}

// BuildTimelineDoc assembles the interchange document from the parsed header
// and the current segment set.
func BuildTimelineDoc(h script.Header, segments []timeline.Segment) TimelineDoc {
	doc := TimelineDoc{
		Project:     h.Project,
		FrameRate:   h.FrameRate,
		Width:       h.Width,
		Height:      h.Height,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Generator:   "cutscript " + version.String(),
		Segments:    make([]SegmentDoc, 0, len(segments)),
	}
	for _, seg := range segments {
		doc.Segments = append(doc.Segments, SegmentDoc{
			ID:      seg.ID,
			Start:   seg.Start,
			End:     seg.End,
			Visible: seg.Visible,
			State:   seg.State.String(),
			Source:  seg.Source,
		})
	}
	return doc
}

// MarshalTimeline encodes doc as indented JSON and checks it against the
// bundled schema before returning it.
func MarshalTimeline(doc TimelineDoc) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode timeline: %w", err)
	}
	if err := ValidateTimelineJSON(data); err != nil {
		return nil, err
	}
	return data, nil
}

// ValidateTimelineJSON checks a JSON timeline document against the bundled
// schema.
func ValidateTimelineJSON(data []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(timelineSchema)
	docLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("timeline document does not conform to schema: %v", msgs)
	}
	return nil
}
