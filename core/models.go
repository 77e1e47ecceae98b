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

const (
	// LatestVersion is the schema version every document is normalized to.
	LatestVersion = 2

	// DefaultIcon is the glyph given to a new Addition.
	DefaultIcon = "→"

	// DefaultLevel is the level given to a new ChunkRecord.
	DefaultLevel = "-"

	// DefaultTitle is the title of the document a fresh store starts with.
	DefaultTitle = "Chunks"
)

// Addition is a small labeled annotation attached to a ChunkRecord.
type Addition struct {
	ID    string `json:"id"`
	Icon  string `json:"icon"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// NewAddition returns an Addition with a fresh ID and default fields.
func NewAddition() *Addition {
	return &Addition{
		ID:   NewID(),
		Icon: DefaultIcon,
	}
}

// Clone returns a copy of the addition.
func (a *Addition) Clone() *Addition {
	c := *a
	return &c
}

// ChunkRecord is one flashcard-like unit. Front and Back carry formatted
// markup that is stored as-is.
type ChunkRecord struct {
	ID        string      `json:"id"`
	Level     string      `json:"level"`
	Front     string      `json:"front"`
	Back      string      `json:"back"`
	Additions []*Addition `json:"additions"`
}

// NewChunkRecord returns a ChunkRecord with a fresh ID, the default level,
// empty text and no additions.
func NewChunkRecord() *ChunkRecord {
	return &ChunkRecord{
		ID:        NewID(),
		Level:     DefaultLevel,
		Additions: []*Addition{},
	}
}

// WithFront sets Front and returns the record.
func (r *ChunkRecord) WithFront(front string) *ChunkRecord {
	r.Front = front
	return r
}

// WithBack sets Back and returns the record.
func (r *ChunkRecord) WithBack(back string) *ChunkRecord {
	r.Back = back
	return r
}

// Clone returns a deep copy of the record.
func (r *ChunkRecord) Clone() *ChunkRecord {
	c := *r
	c.Additions = make([]*Addition, len(r.Additions))
	for i, a := range r.Additions {
		c.Additions[i] = a.Clone()
	}
	return &c
}

// SectionEntry is one abbreviation and its expansion.
type SectionEntry struct {
	Abbr string `json:"abbr"`
	Full string `json:"full"`
}

// Section is an ordered glossary list.
type Section []SectionEntry

// ChunkDocument is the persisted unit: a titled list of records, glossary
// sections and a footer.
type ChunkDocument struct {
	Version  int            `json:"version"`
	Title    string         `json:"title"`
	Footer   string         `json:"footer"`
	Records  []*ChunkRecord `json:"records"`
	Sections []Section      `json:"sections"`
}

// NewChunkDocument returns a document at LatestVersion holding the given records.
func NewChunkDocument(title string, records ...*ChunkRecord) *ChunkDocument {
	if records == nil {
		records = []*ChunkRecord{}
	}
	return &ChunkDocument{
		Version:  LatestVersion,
		Title:    title,
		Records:  records,
		Sections: []Section{},
	}
}

// DefaultDocument returns the seed document used when nothing has been
// persisted yet.
func DefaultDocument() *ChunkDocument {
	return NewChunkDocument(DefaultTitle,
		NewChunkRecord().WithFront("消耗精力").WithBack("<b>expend</b> energy"),
		NewChunkRecord().WithFront("……的精华").WithBack("the <b>cream/essence</b> of sth"),
	)
}

// Clone returns a deep copy of the document.
func (d *ChunkDocument) Clone() *ChunkDocument {
	c := *d
	c.Records = make([]*ChunkRecord, len(d.Records))
	for i, r := range d.Records {
		c.Records[i] = r.Clone()
	}
	c.Sections = make([]Section, len(d.Sections))
	for i, s := range d.Sections {
		c.Sections[i] = append(Section{}, s...)
	}
	return &c
}
