// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// wireDocument is the wrapper shape shared by versions 1 and 2.
// Footer is only honored when Version is 2.
type wireDocument struct {
	Version  json.Number    `json:"version"`
	Title    string         `json:"title"`
	Footer   string         `json:"footer"`
	Records  []*ChunkRecord `json:"records"`
	Sections []Section      `json:"sections"`
}

// DetectVersion reports the schema version of an encoded document without
// decoding its records. A bare array is version 0; an object reports its
// version field, which is 0 when absent. Any JSON number with an integral
// value is accepted, so 2 and 2.0 are both version 2.
func DetectVersion(data []byte) (int, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return 0, fmt.Errorf("%w: empty input", ErrMalformedDocument)
	}
	switch trimmed[0] {
	case '[':
		return 0, nil
	case '{':
		var header struct {
			Version json.Number `json:"version"`
		}
		if err := json.Unmarshal(trimmed, &header); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}
		return parseVersion(header.Version)
	default:
		return 0, fmt.Errorf("%w: expected array or object", ErrMalformedDocument)
	}
}

func parseVersion(n json.Number) (int, error) {
	if n == "" {
		return 0, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: version %s: %w", ErrMalformedDocument, n, err)
	}
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedVersion, n)
	}
	return int(f), nil
}

// DecodeDocument parses any supported document shape and returns it
// upgraded to LatestVersion:
//   - version 0: a bare array of records
//   - version 1: {title, records, sections}
//   - version 2: version 1 plus footer
func DecodeDocument(data []byte) (*ChunkDocument, error) {
	version, err := DetectVersion(data)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if trimmed[0] == '[' {
		var records []*ChunkRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}
		return NewChunkDocument("", compactRecords(records)...), nil
	}

	var wire wireDocument
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	doc := NewChunkDocument(wire.Title, compactRecords(wire.Records)...)
	if wire.Sections != nil {
		doc.Sections = normalizeSections(wire.Sections)
	}
	if version == 2 {
		doc.Footer = wire.Footer
	}
	return doc, nil
}

// EncodeDocument returns the compact version 2 JSON form of the document.
func EncodeDocument(doc *ChunkDocument) ([]byte, error) {
	return json.Marshal(doc)
}

// EncodeDocumentIndent returns the version 2 JSON form indented by two spaces.
func EncodeDocumentIndent(doc *ChunkDocument) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// UnmarshalJSON decodes any supported document shape into d.
func (d *ChunkDocument) UnmarshalJSON(data []byte) error {
	doc, err := DecodeDocument(data)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}

// MarshalJSON always writes the LatestVersion shape with empty lists as [].
func (d ChunkDocument) MarshalJSON() ([]byte, error) {
	wire := wireDocument{
		Version:  json.Number(strconv.Itoa(LatestVersion)),
		Title:    d.Title,
		Footer:   d.Footer,
		Records:  d.Records,
		Sections: normalizeSections(d.Sections),
	}
	if wire.Records == nil {
		wire.Records = []*ChunkRecord{}
	}
	return json.Marshal(wire)
}

type chunkRecordAlias ChunkRecord

// UnmarshalJSON decodes a record, tolerating absent or null additions.
func (r *ChunkRecord) UnmarshalJSON(data []byte) error {
	var alias chunkRecordAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	alias.Additions = compactAdditions(alias.Additions)
	*r = ChunkRecord(alias)
	return nil
}

// MarshalJSON writes the record with additions as [] when empty.
func (r ChunkRecord) MarshalJSON() ([]byte, error) {
	alias := chunkRecordAlias(r)
	if alias.Additions == nil {
		alias.Additions = []*Addition{}
	}
	return json.Marshal(alias)
}

// compactRecords drops null entries so callers never see nil records.
func compactRecords(records []*ChunkRecord) []*ChunkRecord {
	out := make([]*ChunkRecord, 0, len(records))
	for _, r := range records {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func compactAdditions(additions []*Addition) []*Addition {
	out := make([]*Addition, 0, len(additions))
	for _, a := range additions {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}

func normalizeSections(sections []Section) []Section {
	out := make([]Section, len(sections))
	for i, s := range sections {
		if s == nil {
			s = Section{}
		}
		out[i] = s
	}
	return out
}
